package describe

import (
	"os"
	"path/filepath"
	"testing"
)

func writeLanguagesFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "languages.json")
	content := `{"bg": "Bulgarian", "de": "German"}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write languages file: %v", err)
	}
	return path
}

func TestLoadLanguages(t *testing.T) {
	languages, err := LoadLanguages(writeLanguagesFile(t))
	if err != nil {
		t.Fatalf("LoadLanguages() error: %v", err)
	}

	if languages["bg"] != "Bulgarian" || languages["de"] != "German" {
		t.Errorf("languages = %v", languages)
	}
}

func TestLoadLanguagesMissingFile(t *testing.T) {
	if _, err := LoadLanguages(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing languages file")
	}
}

func TestWrite(t *testing.T) {
	languages := map[string]string{"bg": "Bulgarian"}
	outDir := t.TempDir()

	title, description, err := Write("bg", languages, outDir)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if title != "Forvo Bulgarian" {
		t.Errorf("title = %q, want %q", title, "Forvo Bulgarian")
	}
	if description != "All Forvo Bulgarian audios uploaded until 2021.<br>Converted with forvodict" {
		t.Errorf("description = %q", description)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "title.html"))
	if err != nil {
		t.Fatalf("Failed to read title.html: %v", err)
	}
	if string(data) != title {
		t.Errorf("title.html content = %q, want %q", data, title)
	}

	data, err = os.ReadFile(filepath.Join(outDir, "description.html"))
	if err != nil {
		t.Fatalf("Failed to read description.html: %v", err)
	}
	if string(data) != description {
		t.Errorf("description.html content = %q, want %q", data, description)
	}
}

func TestWriteUnknownCode(t *testing.T) {
	if _, _, err := Write("xx", map[string]string{"bg": "Bulgarian"}, t.TempDir()); err == nil {
		t.Error("expected error for unknown language code")
	}
}
