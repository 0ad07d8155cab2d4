package icon

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"codeberg.org/snonux/forvodict/internal/country"
)

// Resolver maps a contributor's gender and country to a pre-rendered icon
// file below the icons directory.
type Resolver struct {
	iconsDir  string
	countries country.Table
}

// NewResolver creates a resolver over iconsDir using the given country
// table.
func NewResolver(iconsDir string, countries country.Table) *Resolver {
	return &Resolver{iconsDir: iconsDir, countries: countries}
}

// Resolve returns the relative path ("icons/<name>") of the icon for a
// gender and country, or false when the country is unmapped or no
// candidate file exists. Gender values other than male/female get no
// gender badge. Candidates are tried in strict priority order:
// gendered icon, genderless icon, bare flag.
func (r *Resolver) Resolve(gender, countryName string) (string, bool) {
	genderPrefix := ""
	if g := strings.ToLower(gender); g == "male" || g == "female" {
		genderPrefix = g + "_"
	}

	mapping, ok := r.countries.Lookup(countryName)
	if !ok || mapping.ISOCode == "" {
		slog.Debug("country mapping not found", "country", countryName)
		return "", false
	}

	candidates := []string{
		fmt.Sprintf("%s%s.svg", genderPrefix, mapping.ISOCode),
		fmt.Sprintf("_%s.svg", mapping.ISOCode),
		fmt.Sprintf("%s.svg", mapping.ISOCode),
	}

	for _, name := range candidates {
		if _, err := os.Stat(filepath.Join(r.iconsDir, name)); err == nil {
			return "icons/" + name, true
		}
	}

	slog.Debug("icon not found", "gender", gender, "country", countryName, "iso", mapping.ISOCode)
	return "", false
}
