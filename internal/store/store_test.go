package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"codeberg.org/snonux/forvodict/internal/metadata"
)

// fakeRenderer renders a deterministic placeholder per group size.
type fakeRenderer struct{}

func (fakeRenderer) Render(records []metadata.Record) string {
	return fmt.Sprintf("<div>%d items</div>", len(records))
}

func openTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "complex.db")
	simplePath := filepath.Join(dir, "simple.db")

	s, err := Open(dbPath, simplePath, 2)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return s, dbPath, simplePath
}

func testResult() *metadata.Result {
	catKey := metadata.Key{Language: "en", Headword: "cat"}
	dogKey := metadata.Key{Language: "en", Headword: "dog"}
	return &metadata.Result{
		Groups: map[metadata.Key][]metadata.Record{
			catKey: {
				{Username: "alice", Gender: "female", Country: "France", Votes: 5, FilePath: "en/alice/cat.mp3", AudioID: 1},
				{Username: "bob", Gender: "male", Country: "Japan", Votes: 10, FilePath: "en/bob/cat.opus", AudioID: 2},
			},
			dogKey: {
				{Username: "alice", Gender: "female", Country: "France", Votes: 0, FilePath: "en/alice/dog.mp3", AudioID: 3},
			},
		},
		Order: []metadata.Key{catKey, dogKey},
	}
}

func TestFlushWritesBothStores(t *testing.T) {
	s, _, _ := openTestStore(t)

	fr, err := s.Flush(context.Background(), testResult(), fakeRenderer{})
	if err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if fr.Words != 2 {
		t.Errorf("Words = %d, want 2", fr.Words)
	}
	if fr.AudioRows != 3 {
		t.Errorf("AudioRows = %d, want 3", fr.AudioRows)
	}
	if fr.Failed != 0 {
		t.Errorf("Failed = %d, want 0", fr.Failed)
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Words != 2 || stats.AudioFiles != 3 || stats.Entries != 2 {
		t.Errorf("Stats = %+v, want 2 words, 3 audio files, 2 entries", stats)
	}

	var audioCount int
	var html string
	err = s.db.QueryRow(`SELECT audio_count, html_content FROM words WHERE language = 'en' AND headword = 'cat'`).
		Scan(&audioCount, &html)
	if err != nil {
		t.Fatalf("Failed to query word: %v", err)
	}
	if audioCount != 2 {
		t.Errorf("audio_count = %d, want 2 (full group size)", audioCount)
	}
	if html != "<div>2 items</div>" {
		t.Errorf("html_content = %q", html)
	}

	var paraphrase string
	err = s.simple.QueryRow(`SELECT paraphrase FROM mdx WHERE entry = 'cat' AND language = 'en'`).
		Scan(&paraphrase)
	if err != nil {
		t.Fatalf("Failed to query mdx entry: %v", err)
	}
	if paraphrase != html {
		t.Error("mdx paraphrase differs from word html_content")
	}
}

func TestFlushRerunConverges(t *testing.T) {
	s, _, _ := openTestStore(t)

	// Two full runs over the same input must produce the same stores:
	// replaced words must not leave stale audio_files children behind.
	for i := 0; i < 2; i++ {
		if _, err := s.Flush(context.Background(), testResult(), fakeRenderer{}); err != nil {
			t.Fatalf("Flush() run %d error: %v", i+1, err)
		}
	}

	stats, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Words != 2 {
		t.Errorf("Words = %d after re-run, want 2", stats.Words)
	}
	if stats.AudioFiles != 3 {
		t.Errorf("AudioFiles = %d after re-run, want 3 (no orphaned children)", stats.AudioFiles)
	}
	if stats.Entries != 2 {
		t.Errorf("Entries = %d after re-run, want 2", stats.Entries)
	}

	// Children must reference the current word row.
	var orphans int
	err = s.db.QueryRow(`SELECT COUNT(*) FROM audio_files a LEFT JOIN words w ON a.word_id = w.id WHERE w.id IS NULL`).
		Scan(&orphans)
	if err != nil {
		t.Fatalf("Failed to count orphans: %v", err)
	}
	if orphans != 0 {
		t.Errorf("found %d orphaned audio_files rows", orphans)
	}
}

func TestFlushCancelledBeforeStart(t *testing.T) {
	s, _, _ := openTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fr, err := s.Flush(ctx, testResult(), fakeRenderer{})
	if err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	if !fr.Interrupted {
		t.Error("expected Interrupted to be set")
	}
	if fr.Words != 0 {
		t.Errorf("Words = %d, want 0", fr.Words)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "complex.db")
	simplePath := filepath.Join(dir, "simple.db")

	s, err := Open(dbPath, simplePath, 0)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := s.Flush(context.Background(), testResult(), fakeRenderer{}); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// Re-opening existing stores must not fail on existing schema.
	s2, err := Open(dbPath, simplePath, 0)
	if err != nil {
		t.Fatalf("second Open() error: %v", err)
	}
	defer s2.Close()

	stats, err := s2.Stats()
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}
	if stats.Words != 2 {
		t.Errorf("Words = %d after reopen, want 2", stats.Words)
	}
}

func TestFlushBatchesAreCommitted(t *testing.T) {
	// batchSize 2 with 3 groups: first batch committed mid-flush.
	s, dbPath, _ := openTestStore(t)

	result := testResult()
	birdKey := metadata.Key{Language: "en", Headword: "bird"}
	result.Groups[birdKey] = []metadata.Record{
		{Username: "carol", Country: "Bulgaria", FilePath: "en/carol/bird.ogg", AudioID: 4},
	}
	result.Order = append(result.Order, birdKey)

	if _, err := s.Flush(context.Background(), result, fakeRenderer{}); err != nil {
		t.Fatalf("Flush() error: %v", err)
	}

	// Verify through an independent connection.
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open verification connection: %v", err)
	}
	defer db.Close()

	var words int
	if err := db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&words); err != nil {
		t.Fatalf("Failed to count words: %v", err)
	}
	if words != 3 {
		t.Errorf("words = %d, want 3", words)
	}
}
