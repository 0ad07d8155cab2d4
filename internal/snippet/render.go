package snippet

import (
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"

	"codeberg.org/snonux/forvodict/internal/metadata"
)

// IconResolver maps a record's gender and country to an icon path.
// Records whose icon cannot be resolved are excluded from the rendered
// output.
type IconResolver interface {
	Resolve(gender, country string) (string, bool)
}

// Renderer produces the per-entry HTML block.
type Renderer struct {
	icons IconResolver
}

// NewRenderer creates a Renderer using the given icon resolver.
func NewRenderer(icons IconResolver) *Renderer {
	return &Renderer{icons: icons}
}

const stylesheet = `
<style>
.audio-pronunciations {
    display: flex;
    flex-wrap: wrap;
    gap: 5px;
    align-items: center;
}
.pronunciation-item {
    display: inline-flex;
    align-items: center;
    gap: 2px;
}
.pronunciation-item a {
    text-decoration: none;
    border: none;
    display: inline-block;
}
.pronunciation-icon:hover {
    opacity: 0.7;
    transform: scale(1.1);
    transition: all 0.2s ease;
}
.vote-count {
    font-size: 0.8em;
    color: #666;
    margin-left: 2px;
}
</style>`

// Render produces the HTML block for one word group. Records are
// stable-sorted by votes descending, so ties keep their arrival order.
// Records without a resolvable icon are skipped; when nothing survives
// the output is just the empty wrapper element.
func (r *Renderer) Render(records []metadata.Record) string {
	sorted := make([]metadata.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})

	var b strings.Builder
	b.WriteString(`<div class="audio-pronunciations">`)

	rendered := 0
	for _, rec := range sorted {
		iconPath, ok := r.icons.Resolve(rec.Gender, rec.Country)
		if !ok {
			slog.Debug("no icon for record, skipping",
				"username", rec.Username, "gender", rec.Gender, "country", rec.Country)
			continue
		}

		title := fmt.Sprintf("%s (%s)", rec.Username, rec.Country)
		if rec.Votes > 0 {
			title += fmt.Sprintf(" - %d votes", rec.Votes)
		}

		voteBadge := ""
		if rec.Votes > 0 {
			voteBadge = fmt.Sprintf(`
    <span class="vote-count">(%d)</span>`, rec.Votes)
		}

		fmt.Fprintf(&b, `
<div class="pronunciation-item">
    <a href="sound://%s" title="%s">
        <img src="%s" alt="%s" class="pronunciation-icon" style="width: 24px; height: 24px; margin: 2px; border: none;">
    </a>%s
</div>`,
			rec.FilePath, html.EscapeString(title), iconPath,
			html.EscapeString(rec.Username), voteBadge)
		rendered++
	}

	if rendered > 0 {
		b.WriteString(stylesheet)
	}
	b.WriteString(`</div>`)

	return b.String()
}
