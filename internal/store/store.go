package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultBatchSize is the number of word groups written per transaction.
const DefaultBatchSize = 1000

// Store wraps both output databases.
type Store struct {
	db        *sql.DB // complex store: words + audio_files
	simple    *sql.DB // simple store: mdx
	batchSize int
}

// Stats holds the row counts of both stores.
type Stats struct {
	Words      int
	AudioFiles int
	Entries    int
}

// Open opens (creating if necessary) both databases and ensures their
// schemas exist. Schema creation is idempotent so that re-runs over
// existing stores work.
func Open(dbPath, simplePath string, batchSize int) (*Store, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	simple, err := sql.Open("sqlite3", simplePath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open simple database: %w", err)
	}

	s := &Store{db: db, simple: simple, batchSize: batchSize}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// Close releases both database connections.
func (s *Store) Close() error {
	var firstErr error
	if err := s.db.Close(); err != nil {
		firstErr = err
	}
	if err := s.simple.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *Store) init() error {
	complexSchema := []string{
		`CREATE TABLE IF NOT EXISTS words (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			language TEXT NOT NULL,
			headword TEXT NOT NULL,
			html_content TEXT NOT NULL,
			audio_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(language, headword)
		)`,
		`CREATE TABLE IF NOT EXISTS audio_files (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			word_id INTEGER,
			username TEXT,
			gender TEXT,
			country TEXT,
			votes INTEGER DEFAULT 0,
			file_path TEXT,
			download_url TEXT,
			audio_id INTEGER,
			FOREIGN KEY (word_id) REFERENCES words (id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_words_language_headword ON words(language, headword)`,
		`CREATE INDEX IF NOT EXISTS idx_audio_word_id ON audio_files(word_id)`,
		`CREATE INDEX IF NOT EXISTS idx_audio_votes ON audio_files(votes DESC)`,
	}

	simpleSchema := []string{
		`CREATE TABLE IF NOT EXISTS mdx (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			entry TEXT NOT NULL,
			paraphrase TEXT NOT NULL,
			language TEXT,
			audio_count INTEGER DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(entry, language)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mdx_entry ON mdx(entry)`,
		`CREATE INDEX IF NOT EXISTS idx_mdx_language ON mdx(language)`,
		`CREATE INDEX IF NOT EXISTS idx_mdx_entry_language ON mdx(entry, language)`,
	}

	for _, query := range complexSchema {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
	}
	for _, query := range simpleSchema {
		if _, err := s.simple.Exec(query); err != nil {
			return fmt.Errorf("failed to initialize simple database: %w", err)
		}
	}

	return nil
}

// Stats counts the rows in both stores.
func (s *Store) Stats() (Stats, error) {
	var stats Stats
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM words`).Scan(&stats.Words); err != nil {
		return stats, fmt.Errorf("failed to count words: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM audio_files`).Scan(&stats.AudioFiles); err != nil {
		return stats, fmt.Errorf("failed to count audio files: %w", err)
	}
	if err := s.simple.QueryRow(`SELECT COUNT(*) FROM mdx`).Scan(&stats.Entries); err != nil {
		return stats, fmt.Errorf("failed to count mdx entries: %w", err)
	}
	return stats, nil
}
