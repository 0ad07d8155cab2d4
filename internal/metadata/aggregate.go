package metadata

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"codeberg.org/snonux/forvodict/internal/audiofile"
)

// progressEvery controls how often aggregation progress is logged.
const progressEvery = 10000

// Result is the outcome of one aggregation pass. Groups holds the
// per-entry record lists in arrival order; Order preserves the order in
// which keys were first seen so that downstream flushing is
// deterministic.
type Result struct {
	Groups map[Key][]Record
	Order  []Key

	Lines        int // total log lines read
	Records      int // records that passed validation and file resolution
	Malformed    int // lines that failed JSON decoding
	MissingField int // lines without language or headword
	MissingAudio int // records whose audio file was not found
	Interrupted  bool
}

// Aggregator folds metadata log lines into word groups, consulting a
// Locator for audio file existence.
type Aggregator struct {
	locator *audiofile.Locator
}

// NewAggregator creates an Aggregator using the given audio file locator.
func NewAggregator(locator *audiofile.Locator) *Aggregator {
	return &Aggregator{locator: locator}
}

// Aggregate streams the log one line at a time. Memory use is bounded by
// the number of distinct (language, headword) keys, not by log length.
// Cancellation is polled per line; on cancellation the partial result is
// returned with Interrupted set so the caller can still flush it.
func (a *Aggregator) Aggregate(ctx context.Context, r io.Reader) (*Result, error) {
	result := &Result{Groups: make(map[Key][]Record)}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			result.Interrupted = true
			break
		}

		result.Lines++
		if result.Lines%progressEvery == 0 {
			slog.Info("processing metadata", "lines", result.Lines, "records", result.Records)
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var entry logLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			slog.Warn("skipping malformed line", "line", result.Lines, "error", err)
			result.Malformed++
			continue
		}

		if entry.Language == "" || entry.Headword == "" {
			result.MissingField++
			continue
		}

		headword := resolveHeadword(entry.Headword, entry.QueryWord)
		username, gender, country := splitOrigin(entry.Origin)

		filePath, ok := a.locator.Locate(entry.Language, username, headword)
		if !ok {
			slog.Debug("audio file not found",
				"language", entry.Language, "username", username, "headword", headword)
			result.MissingAudio++
			continue
		}

		key := Key{Language: entry.Language, Headword: headword}
		if _, seen := result.Groups[key]; !seen {
			result.Order = append(result.Order, key)
		}
		result.Groups[key] = append(result.Groups[key], Record{
			Username:    username,
			Gender:      gender,
			Country:     country,
			Votes:       entry.Votes,
			FilePath:    filePath,
			DownloadURL: entry.DownloadURL,
			AudioID:     entry.ID,
		})
		result.Records++
	}
	if err := scanner.Err(); err != nil {
		return result, fmt.Errorf("failed to read metadata log: %w", err)
	}

	slog.Info("metadata aggregation finished",
		"lines", result.Lines, "records", result.Records, "words", len(result.Order),
		"malformed", result.Malformed, "missing_audio", result.MissingAudio)

	return result, nil
}
