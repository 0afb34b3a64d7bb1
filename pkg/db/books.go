package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dtnitsch/bookfreq/models"
)

// MaxStoredEntries caps the entries saved and returned per book.
const MaxStoredEntries = models.MaxTop

// SaveFrequencies registers book.Title if it is new, refreshes any non-empty
// metadata, and replaces the title's frequency rows with entries. Everything
// happens in one transaction.
func (db *DB) SaveFrequencies(ctx context.Context, book models.Book, entries []models.FrequencyEntry) error {
	if book.Title == "" {
		return fmt.Errorf("book title is required")
	}
	if len(entries) > MaxStoredEntries {
		return fmt.Errorf("too many frequency entries for %q: %d (max %d)", book.Title, len(entries), MaxStoredEntries)
	}
	for _, e := range entries {
		if e.Word == "" || e.Count <= 0 {
			return fmt.Errorf("invalid frequency entry %q:%d", e.Word, e.Count)
		}
	}

	return db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind(`
			INSERT INTO books (title) VALUES (?)
			ON CONFLICT (title) DO NOTHING
		`), book.Title); err != nil {
			return fmt.Errorf("failed to insert book: %w", err)
		}

		if _, err := tx.ExecContext(ctx, db.rebind(`
			UPDATE books SET
				source_url = COALESCE(NULLIF(?, ''), source_url),
				language = COALESCE(NULLIF(?, ''), language),
				word_total = CASE WHEN ? > 0 THEN ? ELSE word_total END,
				updated_at = CURRENT_TIMESTAMP
			WHERE title = ?
		`), book.SourceURL, book.Language, book.WordTotal, book.WordTotal, book.Title); err != nil {
			return fmt.Errorf("failed to update book metadata: %w", err)
		}

		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM frequencies WHERE title = ?"), book.Title); err != nil {
			return fmt.Errorf("failed to clear frequencies: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, db.rebind("INSERT INTO frequencies (title, word, count) VALUES (?, ?, ?)"))
		if err != nil {
			return fmt.Errorf("failed to prepare frequency insert: %w", err)
		}
		defer stmt.Close()

		for _, e := range entries {
			if _, err := stmt.ExecContext(ctx, book.Title, e.Word, e.Count); err != nil {
				return fmt.Errorf("failed to insert frequency %q: %w", e.Word, err)
			}
		}
		return nil
	})
}

// FindBook returns the first stored book, in insertion order, whose title
// contains query case-insensitively. It returns nil, nil when nothing matches.
func (db *DB) FindBook(ctx context.Context, query string) (*models.Book, error) {
	row := db.QueryRowContext(ctx, db.rebind(`
		SELECT book_id, title, source_url, language, word_total, created_at, updated_at
		FROM books
		WHERE LOWER(title) LIKE LOWER(?) ESCAPE '\'
		ORDER BY book_id
		LIMIT 1
	`), containsPattern(query))

	book, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return book, nil
}

// GetFrequencies returns up to limit entries for an exact title, highest
// count first, ties in insertion order.
func (db *DB) GetFrequencies(ctx context.Context, title string, limit int) ([]models.FrequencyEntry, error) {
	rows, err := db.QueryContext(ctx, db.rebind(`
		SELECT word, count
		FROM frequencies
		WHERE title = ?
		ORDER BY count DESC, freq_id ASC
		LIMIT ?
	`), title, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query frequencies: %w", err)
	}
	defer rows.Close()

	entries := []models.FrequencyEntry{}
	for rows.Next() {
		var e models.FrequencyEntry
		if err := rows.Scan(&e.Word, &e.Count); err != nil {
			return nil, fmt.Errorf("failed to scan frequency: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frequencies: %w", err)
	}
	return entries, nil
}

// LookupFrequencies finds the book matching query and returns its stored
// entries. A query matching nothing yields a nil book and an empty list.
func (db *DB) LookupFrequencies(ctx context.Context, query string) (*models.Book, []models.FrequencyEntry, error) {
	book, err := db.FindBook(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if book == nil {
		return nil, []models.FrequencyEntry{}, nil
	}

	entries, err := db.GetFrequencies(ctx, book.Title, MaxStoredEntries)
	if err != nil {
		return nil, nil, err
	}
	return book, entries, nil
}

// ListBooks returns every stored book in insertion order.
func (db *DB) ListBooks(ctx context.Context) ([]models.Book, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT book_id, title, source_url, language, word_total, created_at, updated_at
		FROM books
		ORDER BY book_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate books: %w", err)
	}
	return books, nil
}

// AllFrequencies returns one word-count map per stored book.
func (db *DB) AllFrequencies(ctx context.Context) ([]map[string]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT b.book_id, f.word, f.count
		FROM frequencies f
		JOIN books b ON b.title = f.title
		ORDER BY b.book_id, f.freq_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query frequencies: %w", err)
	}
	defer rows.Close()

	var (
		result []map[string]int
		lastID int64 = -1
	)
	for rows.Next() {
		var (
			bookID int64
			word   string
			count  int
		)
		if err := rows.Scan(&bookID, &word, &count); err != nil {
			return nil, fmt.Errorf("failed to scan frequency: %w", err)
		}
		if bookID != lastID {
			result = append(result, make(map[string]int))
			lastID = bookID
		}
		result[len(result)-1][word] += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate frequencies: %w", err)
	}
	return result, nil
}

// DeleteBook removes the book with this exact title and its frequencies.
// It reports whether a book was removed.
func (db *DB) DeleteBook(ctx context.Context, title string) (bool, error) {
	var removed bool
	err := db.InTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, db.rebind("DELETE FROM frequencies WHERE title = ?"), title); err != nil {
			return fmt.Errorf("failed to delete frequencies: %w", err)
		}
		res, err := tx.ExecContext(ctx, db.rebind("DELETE FROM books WHERE title = ?"), title)
		if err != nil {
			return fmt.Errorf("failed to delete book: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count deleted rows: %w", err)
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		book      models.Book
		sourceURL sql.NullString
		language  sql.NullString
		wordTotal sql.NullInt64
	)
	err := row.Scan(&book.ID, &book.Title, &sourceURL, &language, &wordTotal, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return nil, err
	}
	book.SourceURL = sourceURL.String
	book.Language = language.String
	book.WordTotal = int(wordTotal.Int64)
	return &book, nil
}
