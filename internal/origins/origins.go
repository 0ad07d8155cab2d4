// Package origins extracts the distinct contributor gender and country
// values for one language from a Forvo metadata log. Its output feeds the
// country resolver and the icon compositor, which only need to know which
// (gender, country) combinations actually occur in the dump.
package origins

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Stats holds the distinct origin values seen for one language. The JSON
// field names match the files consumed by the downstream tooling.
type Stats struct {
	Genders      []string    `json:"unique_genders_origin"`
	Countries    []string    `json:"unique_countries_origin"`
	Combinations [][2]string `json:"unique_combinations"`
}

// originLine decodes just the fields the extractor needs from one
// metadata log line.
type originLine struct {
	Language string   `json:"language"`
	Origin   []string `json:"origin"`
}

// Extract streams a metadata log and collects distinct genders, countries
// and (gender, country) combinations for the given language. Lines for
// other languages, lines with fewer than three origin elements and
// malformed lines are skipped. Returns the stats and the number of
// matching entries.
func Extract(ctx context.Context, r io.Reader, language string) (*Stats, int, error) {
	genders := make(map[string]struct{})
	countries := make(map[string]struct{})
	combinations := make(map[[2]string]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	processed := 0
	for scanner.Scan() {
		if ctx.Err() != nil {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry originLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			slog.Warn("skipping invalid JSON line", "error", err)
			continue
		}

		if entry.Language != language || len(entry.Origin) < 3 {
			continue
		}

		gender := strings.TrimSpace(entry.Origin[1])
		country := strings.TrimSpace(entry.Origin[2])

		genders[gender] = struct{}{}
		countries[country] = struct{}{}
		combinations[[2]string{gender, country}] = struct{}{}

		processed++
		if processed%100000 == 0 {
			slog.Info("extracting origins", "entries", processed)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, processed, fmt.Errorf("failed to read metadata log: %w", err)
	}

	stats := &Stats{
		Genders:      sortedKeys(genders),
		Countries:    sortedKeys(countries),
		Combinations: sortedPairs(combinations),
	}
	return stats, processed, nil
}

// Load reads a previously written origin stats file.
func Load(path string) (*Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read origin stats: %w", err)
	}

	var stats Stats
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("failed to parse origin stats: %w", err)
	}
	return &stats, nil
}

// Write serializes stats to path as indented JSON.
func (s *Stats) Write(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// OutputPath derives the conventional stats file name from the metadata
// log name and language, e.g. "metadata_bg_origin_stats.json".
func OutputPath(inputPath, language string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return fmt.Sprintf("%s_%s_origin_stats.json", base, language)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedPairs(set map[[2]string]struct{}) [][2]string {
	pairs := make([][2]string, 0, len(set))
	for p := range set {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})
	return pairs
}
