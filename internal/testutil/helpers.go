package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateDumpRoot creates a minimal dump directory layout: an icons/
// subdirectory and an empty metadata.jsonl. Returns the root path.
func CreateDumpRoot(t *testing.T) string {
	t.Helper()

	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, "icons"), 0755); err != nil {
		t.Fatalf("Failed to create icons directory: %v", err)
	}
	CreateTestFile(t, filepath.Join(root, "metadata.jsonl"), nil)

	return root
}

// WriteMetadataLog writes metadata.jsonl below root, one JSON-encoded
// line per entry. Entries given as strings are written verbatim, which
// allows injecting malformed lines.
func WriteMetadataLog(t *testing.T, root string, entries ...any) {
	t.Helper()

	var lines []string
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			lines = append(lines, s)
			continue
		}
		data, err := json.Marshal(entry)
		if err != nil {
			t.Fatalf("Failed to marshal metadata entry: %v", err)
		}
		lines = append(lines, string(data))
	}

	content := strings.Join(lines, "\n") + "\n"
	CreateTestFile(t, filepath.Join(root, "metadata.jsonl"), []byte(content))
}

// CreateAudioFile creates a fake recording below the dump root.
func CreateAudioFile(t *testing.T, root, language, username, filename string) {
	t.Helper()
	path := filepath.Join(root, language, username, filename)
	CreateTestFile(t, path, []byte{0xFF, 0xFB, 0x90, 0x00})
}

// CreateIcon creates a fake pre-rendered icon below root/icons.
func CreateIcon(t *testing.T, root, name string) {
	t.Helper()
	path := filepath.Join(root, "icons", name)
	CreateTestFile(t, path, []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"))
}

// WriteCountryMappings writes a country_mappings.json below root mapping
// each name to an ISO code with a flag file.
func WriteCountryMappings(t *testing.T, root string, codes map[string]string) {
	t.Helper()

	type mapping struct {
		OriginalName   string `json:"original_name"`
		NormalizedName string `json:"normalized_name"`
		ISOCode        string `json:"iso_code"`
		FlagFile       string `json:"flag_file"`
	}

	var mappings []mapping
	for name, code := range codes {
		mappings = append(mappings, mapping{
			OriginalName:   name,
			NormalizedName: strings.ToLower(name),
			ISOCode:        code,
			FlagFile:       code + ".svg",
		})
	}

	data, err := json.Marshal(mappings)
	if err != nil {
		t.Fatalf("Failed to marshal country mappings: %v", err)
	}
	CreateTestFile(t, filepath.Join(root, "country_mappings.json"), data)
}

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}
