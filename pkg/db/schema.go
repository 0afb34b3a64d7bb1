package db

// Frequencies reference books by title; deleting a book removes its rows.

const sqliteSchema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS books (
    book_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL UNIQUE,
    source_url TEXT,
    language TEXT,
    word_total INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS frequencies (
    freq_id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    word TEXT NOT NULL,
    count INTEGER NOT NULL CHECK (count > 0),
    FOREIGN KEY (title) REFERENCES books(title) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_frequencies_title ON frequencies(title);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS books (
    book_id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL UNIQUE,
    source_url TEXT,
    language TEXT,
    word_total INTEGER DEFAULT 0,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS frequencies (
    freq_id BIGSERIAL PRIMARY KEY,
    title TEXT NOT NULL REFERENCES books(title) ON DELETE CASCADE,
    word TEXT NOT NULL,
    count INTEGER NOT NULL CHECK (count > 0)
);

CREATE INDEX IF NOT EXISTS idx_frequencies_title ON frequencies(title);
`

func schemaFor(driver string) string {
	if driver == DriverPostgres {
		return postgresSchema
	}
	return sqliteSchema
}
