package country

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Mapping is one entry of country_mappings.json. ISOCode and FlagFile are
// empty when the resolver could not match the name, in which case Error
// says why.
type Mapping struct {
	OriginalName   string `json:"original_name"`
	NormalizedName string `json:"normalized_name"`
	ISOCode        string `json:"iso_code"`
	FlagFile       string `json:"flag_file"`
	Error          string `json:"error"`
}

// Table is a country lookup keyed by the lowercased original name.
type Table map[string]Mapping

// LoadTable reads a country_mappings.json file into a Table.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read country mappings: %w", err)
	}

	var mappings []Mapping
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("failed to parse country mappings: %w", err)
	}

	table := make(Table, len(mappings))
	for _, m := range mappings {
		table[strings.ToLower(m.OriginalName)] = m
	}

	return table, nil
}

// Lookup returns the mapping for a free-text country name,
// case-insensitively.
func (t Table) Lookup(name string) (Mapping, bool) {
	m, ok := t[strings.ToLower(name)]
	return m, ok
}
