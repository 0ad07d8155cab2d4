// Package describe generates the static title.html and description.html
// files that dictionary applications display alongside a pronunciation
// database.
package describe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadLanguages reads a languages.json mapping of language codes to
// display names.
func LoadLanguages(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read languages file: %w", err)
	}

	var languages map[string]string
	if err := json.Unmarshal(data, &languages); err != nil {
		return nil, fmt.Errorf("failed to parse languages file: %w", err)
	}
	return languages, nil
}

// Write generates title.html and description.html for a language code in
// outDir and returns the title and description text that was written.
func Write(code string, languages map[string]string, outDir string) (string, string, error) {
	language, ok := languages[code]
	if !ok {
		return "", "", fmt.Errorf("language code %q not found in the mapping", code)
	}

	title := fmt.Sprintf("Forvo %s", language)
	description := fmt.Sprintf("All Forvo %s audios uploaded until 2021.<br>Converted with forvodict", language)

	if err := os.WriteFile(filepath.Join(outDir, "title.html"), []byte(title), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write title.html: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, "description.html"), []byte(description), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write description.html: %w", err)
	}

	return title, description, nil
}
