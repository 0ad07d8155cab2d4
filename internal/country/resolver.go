package country

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// countryName is the name block of one restcountries entry.
type countryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// countryRecord is one entry of a restcountries countries.json dump. Only
// the fields used for name matching are decoded.
type countryRecord struct {
	Name         countryName            `json:"name"`
	CCA2         string                 `json:"cca2"`
	CCA3         string                 `json:"cca3"`
	AltSpellings []string               `json:"altSpellings"`
	Translations map[string]countryName `json:"translations"`
}

// Normalize folds a free-text country name into its canonical lookup form:
// trimmed, lowercased, decomposed (NFKD) with combining marks and any
// remaining non-ASCII runes removed. "Perú" and "peru" normalize to the
// same key.
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}

	var b strings.Builder
	for _, r := range s {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Index maps normalized country names to ISO codes.
type Index map[string]string

// BuildIndex reads a countries.json dump and indexes every known spelling
// of every country: common and official names, alternative spellings, and
// all translations.
func BuildIndex(path string) (Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read countries file: %w", err)
	}

	var records []countryRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse countries file: %w", err)
	}

	index := make(Index)
	for _, rec := range records {
		code := rec.CCA2
		if code == "" {
			code = rec.CCA3
		}
		if code == "" {
			continue
		}

		index.add(rec.Name.Common, code)
		index.add(rec.Name.Official, code)
		for _, alt := range rec.AltSpellings {
			index.add(alt, code)
		}
		for _, trans := range rec.Translations {
			index.add(trans.Common, code)
			index.add(trans.Official, code)
		}
	}

	return index, nil
}

func (i Index) add(name, code string) {
	if normalized := Normalize(name); normalized != "" {
		i[normalized] = code
	}
}

// Resolve maps each free-text country name to a Mapping, downloading the
// matching flag via the downloader when a code is found. Download failures
// are captured per entry and never abort the batch; unmatched names are
// recorded with an explanatory error.
func (i Index) Resolve(ctx context.Context, names []string, downloader *FlagDownloader, flagsDir string) []Mapping {
	results := make([]Mapping, 0, len(names))

	for _, name := range names {
		normalized := Normalize(name)

		code, ok := i[normalized]
		if !ok {
			results = append(results, Mapping{
				OriginalName:   name,
				NormalizedName: normalized,
				Error:          "Country not found in mapping",
			})
			continue
		}

		m := Mapping{
			OriginalName:   name,
			NormalizedName: normalized,
			ISOCode:        code,
		}
		flagFile, err := downloader.Fetch(ctx, code, flagsDir)
		if err != nil {
			m.Error = err.Error()
		} else {
			m.FlagFile = flagFile
		}
		results = append(results, m)
	}

	return results
}

// mappingJSON is the wire form of a Mapping. Absent values are JSON
// null rather than empty strings, so the written file matches what the
// rest of the toolchain produces and consumes.
type mappingJSON struct {
	OriginalName   string  `json:"original_name"`
	NormalizedName string  `json:"normalized_name"`
	ISOCode        *string `json:"iso_code"`
	FlagFile       *string `json:"flag_file"`
	Error          *string `json:"error"`
}

// WriteMappings serializes resolver results as country_mappings.json.
func WriteMappings(mappings []Mapping, path string) error {
	out := make([]mappingJSON, 0, len(mappings))
	for _, m := range mappings {
		out = append(out, mappingJSON{
			OriginalName:   m.OriginalName,
			NormalizedName: m.NormalizedName,
			ISOCode:        nullable(m.ISOCode),
			FlagFile:       nullable(m.FlagFile),
			Error:          nullable(m.Error),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
