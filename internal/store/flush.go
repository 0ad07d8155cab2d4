package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/snonux/forvodict/internal/metadata"
)

// Renderer produces the HTML snippet for one word group.
type Renderer interface {
	Render(records []metadata.Record) string
}

// FlushResult reports what one flush wrote.
type FlushResult struct {
	Words       int
	AudioRows   int
	Failed      int // groups skipped because of a write error
	Interrupted bool
}

// Flush writes all aggregated word groups into both stores in the order
// they were first encountered. Groups are written in batches of
// batchSize, one transaction per batch per store, so an interruption or
// crash loses at most the current batch. Each group gets its own
// savepoint: a failing group rolls back alone, is logged and counted,
// and the rest of the batch proceeds.
//
// The stored audio_count is the full group size, which can exceed the
// number of items visible in html_content when some icons were
// unresolvable: the count says how many recordings exist, the HTML how
// many are playable with a badge.
//
// Cancellation is polled between groups; a partial in-flight group is
// never committed, but everything staged before it is.
func (s *Store) Flush(ctx context.Context, result *metadata.Result, renderer Renderer) (FlushResult, error) {
	var fr FlushResult

	slog.Info("writing word groups", "words", len(result.Order))

	tx, stx, err := s.beginBoth()
	if err != nil {
		return fr, err
	}

	inBatch := 0
	for _, key := range result.Order {
		if ctx.Err() != nil {
			fr.Interrupted = true
			break
		}

		records := result.Groups[key]
		html := renderer.Render(records)

		if err := writeGroup(tx, stx, key, records, html); err != nil {
			slog.Error("failed to write word group",
				"language", key.Language, "headword", key.Headword, "error", err)
			fr.Failed++
			continue
		}

		fr.Words++
		fr.AudioRows += len(records)
		inBatch++

		if inBatch >= s.batchSize {
			if err := commitBoth(tx, stx); err != nil {
				return fr, err
			}
			slog.Info("committed batch", "words", fr.Words)

			if tx, stx, err = s.beginBoth(); err != nil {
				return fr, err
			}
			inBatch = 0
		}
	}

	if err := commitBoth(tx, stx); err != nil {
		return fr, err
	}

	return fr, nil
}

func (s *Store) beginBoth() (*sql.Tx, *sql.Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	stx, err := s.simple.Begin()
	if err != nil {
		tx.Rollback()
		return nil, nil, fmt.Errorf("failed to begin simple transaction: %w", err)
	}
	return tx, stx, nil
}

func commitBoth(tx, stx *sql.Tx) error {
	if err := tx.Commit(); err != nil {
		stx.Rollback()
		return fmt.Errorf("failed to commit: %w", err)
	}
	if err := stx.Commit(); err != nil {
		return fmt.Errorf("failed to commit simple store: %w", err)
	}
	return nil
}

// writeGroup upserts one word and its children under a savepoint on each
// transaction. Replacing an existing word deletes its previous children
// first, so re-runs never leave orphaned audio_files rows.
func writeGroup(tx, stx *sql.Tx, key metadata.Key, records []metadata.Record, html string) error {
	if _, err := tx.Exec(`SAVEPOINT grp`); err != nil {
		return err
	}
	if _, err := stx.Exec(`SAVEPOINT grp`); err != nil {
		tx.Exec(`ROLLBACK TO grp`)
		tx.Exec(`RELEASE grp`)
		return err
	}

	if err := insertGroup(tx, stx, key, records, html); err != nil {
		tx.Exec(`ROLLBACK TO grp`)
		tx.Exec(`RELEASE grp`)
		stx.Exec(`ROLLBACK TO grp`)
		stx.Exec(`RELEASE grp`)
		return err
	}

	if _, err := tx.Exec(`RELEASE grp`); err != nil {
		return err
	}
	if _, err := stx.Exec(`RELEASE grp`); err != nil {
		return err
	}
	return nil
}

func insertGroup(tx, stx *sql.Tx, key metadata.Key, records []metadata.Record, html string) error {
	var oldID int64
	err := tx.QueryRow(`SELECT id FROM words WHERE language = ? AND headword = ?`,
		key.Language, key.Headword).Scan(&oldID)
	switch {
	case err == nil:
		if _, err := tx.Exec(`DELETE FROM audio_files WHERE word_id = ?`, oldID); err != nil {
			return fmt.Errorf("failed to delete stale audio rows: %w", err)
		}
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("failed to look up word: %w", err)
	}

	res, err := tx.Exec(`INSERT OR REPLACE INTO words (language, headword, html_content, audio_count)
		VALUES (?, ?, ?, ?)`,
		key.Language, key.Headword, html, len(records))
	if err != nil {
		return fmt.Errorf("failed to insert word: %w", err)
	}

	wordID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get word id: %w", err)
	}

	for _, rec := range records {
		_, err := tx.Exec(`INSERT INTO audio_files
			(word_id, username, gender, country, votes, file_path, download_url, audio_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			wordID, rec.Username, rec.Gender, rec.Country, rec.Votes,
			rec.FilePath, rec.DownloadURL, rec.AudioID)
		if err != nil {
			return fmt.Errorf("failed to insert audio row: %w", err)
		}
	}

	_, err = stx.Exec(`INSERT OR REPLACE INTO mdx (entry, paraphrase, language, audio_count)
		VALUES (?, ?, ?, ?)`,
		key.Headword, html, key.Language, len(records))
	if err != nil {
		return fmt.Errorf("failed to insert mdx entry: %w", err)
	}

	return nil
}
