package builder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"codeberg.org/snonux/forvodict/internal/audiofile"
	"codeberg.org/snonux/forvodict/internal/country"
	"codeberg.org/snonux/forvodict/internal/icon"
	"codeberg.org/snonux/forvodict/internal/metadata"
	"codeberg.org/snonux/forvodict/internal/snippet"
	"codeberg.org/snonux/forvodict/internal/store"
)

// Options configures a build run.
type Options struct {
	DBPath       string
	SimpleDBPath string
	BatchSize    int
}

// Builder runs the end-to-end dump-to-database conversion.
type Builder struct {
	root string
	opts Options
}

// New creates a Builder for the dump rooted at root.
func New(root string, opts Options) *Builder {
	return &Builder{root: root, opts: opts}
}

// Run executes the full build. Setup failures (missing directories or
// metadata log, unopenable stores) are fatal and happen before any store
// mutation. Cancellation of ctx stops intake at the next iteration
// boundary, commits whatever was staged and returns nil, so an
// interrupted run exits cleanly with its prior results intact.
func (b *Builder) Run(ctx context.Context) error {
	if err := b.validateLayout(); err != nil {
		return err
	}

	countries := b.loadCountries()

	st, err := store.Open(b.opts.DBPath, b.opts.SimpleDBPath, b.opts.BatchSize)
	if err != nil {
		return err
	}
	defer st.Close()

	logFile, err := os.Open(filepath.Join(b.root, "metadata.jsonl"))
	if err != nil {
		return fmt.Errorf("failed to open metadata log: %w", err)
	}
	defer logFile.Close()

	aggregator := metadata.NewAggregator(audiofile.NewLocator(b.root))
	result, err := aggregator.Aggregate(ctx, logFile)
	if err != nil {
		return err
	}

	resolver := icon.NewResolver(filepath.Join(b.root, "icons"), countries)
	flushed, err := st.Flush(ctx, result, snippet.NewRenderer(resolver))
	if err != nil {
		return err
	}

	b.printSummary(st, result, flushed)

	if result.Interrupted || flushed.Interrupted {
		slog.Info("run interrupted, committed results kept")
	}
	return nil
}

// validateLayout checks the required dump layout before anything else
// runs: the root itself, the icons directory and the metadata log.
func (b *Builder) validateLayout() error {
	info, err := os.Stat(b.root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("root directory not found: %s", b.root)
	}

	iconsDir := filepath.Join(b.root, "icons")
	if info, err := os.Stat(iconsDir); err != nil || !info.IsDir() {
		return fmt.Errorf("icons directory not found: %s", iconsDir)
	}

	metadataFile := filepath.Join(b.root, "metadata.jsonl")
	if info, err := os.Stat(metadataFile); err != nil || info.IsDir() {
		return fmt.Errorf("metadata log not found: %s", metadataFile)
	}

	return nil
}

// loadCountries loads country_mappings.json from the dump root. A missing
// or broken mappings file is not fatal: every icon resolution will just
// miss, which drops the badges but keeps the data.
func (b *Builder) loadCountries() country.Table {
	path := filepath.Join(b.root, "country_mappings.json")
	table, err := country.LoadTable(path)
	if err != nil {
		slog.Warn("country mappings unavailable, no icons will resolve", "error", err)
		return country.Table{}
	}
	slog.Info("loaded country mappings", "countries", len(table))
	return table
}

func (b *Builder) printSummary(st *store.Store, result *metadata.Result, flushed store.FlushResult) {
	fmt.Printf("\n=== Build Summary ===\n")
	fmt.Printf("Log lines read: %d\n", result.Lines)
	fmt.Printf("Valid audio records: %d\n", result.Records)
	fmt.Printf("Words written: %d\n", flushed.Words)
	fmt.Printf("Audio rows written: %d\n", flushed.AudioRows)
	if skipped := result.Malformed + result.MissingField + result.MissingAudio; skipped > 0 {
		fmt.Printf("Skipped records: %d (malformed: %d, missing fields: %d, missing audio: %d)\n",
			skipped, result.Malformed, result.MissingField, result.MissingAudio)
	}
	if flushed.Failed > 0 {
		fmt.Printf("Failed word groups: %d\n", flushed.Failed)
	}

	stats, err := st.Stats()
	if err != nil {
		slog.Error("failed to read store statistics", "error", err)
		return
	}
	fmt.Printf("\nComplex store (%s):\n", b.opts.DBPath)
	fmt.Printf("  - Total words: %d\n", stats.Words)
	fmt.Printf("  - Total audio files: %d\n", stats.AudioFiles)
	fmt.Printf("Simple store (%s):\n", b.opts.SimpleDBPath)
	fmt.Printf("  - Total entries: %d\n", stats.Entries)
	fmt.Printf("=====================\n")
}
