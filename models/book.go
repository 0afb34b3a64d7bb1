// Package models defines data structures shared by the store, the fetcher
// and the command line shell.
package models

import "time"

// Book is a uniquely titled text work tracked by the store.
type Book struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	SourceURL string    `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	Language  string    `json:"language,omitempty" yaml:"language,omitempty"` // ISO-639-1 when detected
	WordTotal int       `json:"word_total,omitempty" yaml:"word_total,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// MaxTop is the most frequency entries stored or shown for one book.
const MaxTop = 10

// FrequencyEntry is a (word, count) pair associated with one Book.
type FrequencyEntry struct {
	Word  string `json:"word" yaml:"word"`
	Count int    `json:"count" yaml:"count"`
}

// Result is what the shell renders after a search or a fetch.
type Result struct {
	Query   string           `json:"query,omitempty" yaml:"query,omitempty"`
	Title   string           `json:"title,omitempty" yaml:"title,omitempty"`
	Found   bool             `json:"found" yaml:"found"`
	Cached  bool             `json:"cached,omitempty" yaml:"cached,omitempty"` // body came from the text cache
	Book    *Book            `json:"book,omitempty" yaml:"book,omitempty"`
	Entries []FrequencyEntry `json:"entries" yaml:"entries"`
}
