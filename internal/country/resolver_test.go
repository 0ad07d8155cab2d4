package country

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"France", "france"},
		{"  Bulgaria  ", "bulgaria"},
		{"Perú", "peru"},
		{"Côte d'Ivoire", "cote d'ivoire"},
		{"São Tomé", "sao tome"},
		{"日本", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func writeCountriesFile(t *testing.T) string {
	t.Helper()
	content := `[
		{
			"name": {"common": "Bulgaria", "official": "Republic of Bulgaria"},
			"cca2": "BG",
			"cca3": "BGR",
			"altSpellings": ["BG", "Bǎlgarija"],
			"translations": {"fra": {"common": "Bulgarie", "official": "République de Bulgarie"}}
		},
		{
			"name": {"common": "Peru", "official": "Republic of Peru"},
			"cca2": "PE",
			"cca3": "PER",
			"altSpellings": ["Perú"],
			"translations": {}
		},
		{
			"name": {"common": "Codeless", "official": "No Code Land"},
			"cca2": "",
			"cca3": "",
			"altSpellings": [],
			"translations": {}
		}
	]`

	path := filepath.Join(t.TempDir(), "countries.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write countries file: %v", err)
	}
	return path
}

func TestBuildIndex(t *testing.T) {
	index, err := BuildIndex(writeCountriesFile(t))
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}

	tests := []struct {
		name string
		want string
	}{
		{"bulgaria", "BG"},
		{"republic of bulgaria", "BG"},
		{"bulgarie", "BG"},
		{"balgarija", "BG"}, // diacritics folded
		{"peru", "PE"},
	}
	for _, tt := range tests {
		if got := index[tt.name]; got != tt.want {
			t.Errorf("index[%q] = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, ok := index["codeless"]; ok {
		t.Error("country without any ISO code must not be indexed")
	}
}

func TestResolve(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/pe.svg" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<svg/>"))
	}))
	defer server.Close()

	index, err := BuildIndex(writeCountriesFile(t))
	if err != nil {
		t.Fatalf("BuildIndex() error: %v", err)
	}

	flagsDir := t.TempDir()
	downloader := NewFlagDownloader(server.URL)
	mappings := index.Resolve(context.Background(),
		[]string{"Bulgarie", "Perú", "Atlantis"}, downloader, flagsDir)

	if len(mappings) != 3 {
		t.Fatalf("expected 3 mappings, got %d", len(mappings))
	}

	bg := mappings[0]
	if bg.ISOCode != "BG" || bg.FlagFile != "BG.svg" || bg.Error != "" {
		t.Errorf("Bulgarie mapping = %+v", bg)
	}
	if _, err := os.Stat(filepath.Join(flagsDir, "BG.svg")); err != nil {
		t.Errorf("flag file not written: %v", err)
	}

	// Download failure is captured per entry, not fatal.
	pe := mappings[1]
	if pe.ISOCode != "PE" || pe.FlagFile != "" || pe.Error == "" {
		t.Errorf("Perú mapping = %+v", pe)
	}

	atlantis := mappings[2]
	if atlantis.ISOCode != "" || atlantis.Error != "Country not found in mapping" {
		t.Errorf("Atlantis mapping = %+v", atlantis)
	}
}

func TestWriteAndLoadMappings(t *testing.T) {
	mappings := []Mapping{
		{OriginalName: "Bulgarie", NormalizedName: "bulgarie", ISOCode: "BG", FlagFile: "BG.svg"},
		{OriginalName: "Atlantis", NormalizedName: "atlantis", Error: "Country not found in mapping"},
	}

	path := filepath.Join(t.TempDir(), "country_mappings.json")
	if err := WriteMappings(mappings, path); err != nil {
		t.Fatalf("WriteMappings() error: %v", err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error: %v", err)
	}

	m, ok := table.Lookup("BULGARIE")
	if !ok {
		t.Fatal("Lookup() failed for case-variant name")
	}
	if m.ISOCode != "BG" || m.FlagFile != "BG.svg" {
		t.Errorf("round-tripped mapping = %+v", m)
	}

	if _, ok := table.Lookup("nowhere"); ok {
		t.Error("Lookup() succeeded for unknown name")
	}
}

func TestWriteMappingsAbsentValuesAreNull(t *testing.T) {
	mappings := []Mapping{
		{OriginalName: "Bulgarie", NormalizedName: "bulgarie", ISOCode: "BG", FlagFile: "BG.svg"},
		{OriginalName: "Atlantis", NormalizedName: "atlantis", Error: "Country not found in mapping"},
	}

	path := filepath.Join(t.TempDir(), "country_mappings.json")
	if err := WriteMappings(mappings, path); err != nil {
		t.Fatalf("WriteMappings() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read mappings file: %v", err)
	}
	content := string(data)

	// Absent values serialize as null, matching the file format the rest
	// of the toolchain writes and reads.
	for _, want := range []string{
		`"iso_code": null`,
		`"flag_file": null`,
		`"error": null`,
		`"iso_code": "BG"`,
		`"error": "Country not found in mapping"`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("mappings file missing %s:\n%s", want, content)
		}
	}

	// Null fields load back as empty strings.
	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable() error: %v", err)
	}
	m, ok := table.Lookup("Atlantis")
	if !ok {
		t.Fatal("Lookup() failed for unmatched entry")
	}
	if m.ISOCode != "" || m.FlagFile != "" {
		t.Errorf("unmatched mapping = %+v, want empty code and flag", m)
	}
}

func TestLoadTableMissingFile(t *testing.T) {
	if _, err := LoadTable(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing mappings file")
	}
}
