package icon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"codeberg.org/snonux/forvodict/internal/country"
	"codeberg.org/snonux/forvodict/internal/origins"
)

// Glyph colors match the conventional venus/mars scheme.
const (
	venusColor = "#FF69B4"
	marsColor  = "#1E90FF"
)

// glyphViewSize is the assumed viewBox edge of the gender glyph SVGs
// (Font Awesome exports use 512).
const glyphViewSize = 512

var (
	svgOpenTag = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	svgAttr    = regexp.MustCompile(`([\w:-]+)\s*=\s*"([^"]*)"`)
)

// svgDoc is the parsed skeleton of an SVG file: its root attributes and
// the raw markup between the root tags.
type svgDoc struct {
	width, height float64
	viewBox       [4]float64
	inner         string
}

// Compositor overlays a colored gender glyph on country flag SVGs.
type Compositor struct {
	venus string // glyph markup, already wrapped with its fill color
	mars  string
}

// NewCompositor loads the venus and mars glyph SVGs.
func NewCompositor(venusPath, marsPath string) (*Compositor, error) {
	venus, err := loadGlyph(venusPath, venusColor)
	if err != nil {
		return nil, fmt.Errorf("failed to load venus glyph: %w", err)
	}
	mars, err := loadGlyph(marsPath, marsColor)
	if err != nil {
		return nil, fmt.Errorf("failed to load mars glyph: %w", err)
	}
	return &Compositor{venus: venus, mars: mars}, nil
}

func loadGlyph(path, color string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	doc, err := parseSVG(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`<g fill="%s">%s</g>`, color, doc.inner), nil
}

// Compose writes a composite icon to outPath: the flag's content with the
// gender glyph scaled into the bottom-right corner. Genders other than
// male/female produce the bare flag.
func (c *Compositor) Compose(flagPath, gender, outPath string) error {
	data, err := os.ReadFile(flagPath)
	if err != nil {
		return fmt.Errorf("failed to read flag: %w", err)
	}
	doc, err := parseSVG(data)
	if err != nil {
		return fmt.Errorf("failed to parse flag %s: %w", flagPath, err)
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("\n")
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatNum(doc.width), formatNum(doc.height),
		formatNum(doc.viewBox[0]), formatNum(doc.viewBox[1]),
		formatNum(doc.viewBox[2]), formatNum(doc.viewBox[3]))
	b.WriteString("\n")
	b.WriteString(doc.inner)

	if glyph := c.glyphFor(gender); glyph != "" {
		const offset = 5
		size := min(doc.viewBox[2], doc.viewBox[3]) / 4
		x := doc.viewBox[0] + doc.viewBox[2] - size - offset
		y := doc.viewBox[1] + doc.viewBox[3] - size - offset

		fmt.Fprintf(&b, "\n<g transform=\"translate(%s, %s) scale(%s)\">%s</g>",
			formatNum(x), formatNum(y), formatNum(size/glyphViewSize), glyph)
	}

	b.WriteString("\n</svg>\n")

	return os.WriteFile(outPath, []byte(b.String()), 0644)
}

func (c *Compositor) glyphFor(gender string) string {
	g := strings.ToLower(gender)
	switch {
	case strings.Contains(g, "female"):
		return c.venus
	case strings.Contains(g, "male"):
		return c.mars
	default:
		return ""
	}
}

// ComposeAll renders one icon per (gender, country) combination in the
// origin stats, skipping combinations whose country is unmapped or whose
// flag file is missing. Returns the number of icons created.
func (c *Compositor) ComposeAll(stats *origins.Stats, countries country.Table, flagsDir, outDir string) (int, error) {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create icons directory: %w", err)
	}

	created := 0
	for _, combo := range stats.Combinations {
		gender, countryName := combo[0], combo[1]

		mapping, ok := countries.Lookup(countryName)
		if !ok {
			slog.Warn("country not mapped, skipping", "country", countryName)
			continue
		}
		if mapping.FlagFile == "" {
			slog.Warn("no flag file, skipping", "country", countryName)
			continue
		}

		flagPath := filepath.Join(flagsDir, mapping.FlagFile)
		if _, err := os.Stat(flagPath); err != nil {
			slog.Warn("flag file missing, skipping", "path", flagPath)
			continue
		}

		outPath := filepath.Join(outDir, IconFileName(gender, mapping.ISOCode))
		if err := c.Compose(flagPath, gender, outPath); err != nil {
			slog.Error("failed to compose icon", "path", outPath, "error", err)
			continue
		}
		created++
		slog.Debug("created icon", "file", filepath.Base(outPath))
	}

	return created, nil
}

// IconFileName is the naming convention the resolver looks up:
// "female_BG.svg" for gendered icons, "_BG.svg" when gender is empty.
func IconFileName(gender, isoCode string) string {
	genderSafe := strings.ReplaceAll(strings.ToLower(gender), " ", "_")
	return fmt.Sprintf("%s_%s.svg", genderSafe, isoCode)
}

// parseSVG extracts the root attributes and inner markup of an SVG
// document. It treats the file as text so that arbitrary flag SVGs
// survive the round trip unmodified.
func parseSVG(data []byte) (*svgDoc, error) {
	loc := svgOpenTag.FindIndex(data)
	if loc == nil {
		return nil, fmt.Errorf("no <svg> root element")
	}

	end := strings.LastIndex(string(data), "</svg>")
	if end < loc[1] {
		return nil, fmt.Errorf("no closing </svg> tag")
	}

	attrs := make(map[string]string)
	for _, m := range svgAttr.FindAllStringSubmatch(string(data[loc[0]:loc[1]]), -1) {
		attrs[m[1]] = m[2]
	}

	doc := &svgDoc{
		width:  parseNum(attrs["width"], 24),
		height: parseNum(attrs["height"], 24),
		inner:  strings.TrimSpace(string(data[loc[1]:end])),
	}

	doc.viewBox = [4]float64{0, 0, doc.width, doc.height}
	if vb := strings.Fields(attrs["viewBox"]); len(vb) == 4 {
		for i, field := range vb {
			doc.viewBox[i] = parseNum(field, doc.viewBox[i])
		}
	}

	return doc, nil
}

func parseNum(s string, fallback float64) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "px")
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return n
}

func formatNum(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
