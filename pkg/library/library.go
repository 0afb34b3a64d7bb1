// Package library ties the store, the text source and the word counter
// together: look a title up locally, or fetch a book, count it and save it.
package library

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/bookfreq/models"
	"github.com/dtnitsch/bookfreq/pkg/analytics"
	"github.com/dtnitsch/bookfreq/pkg/caching"
	"github.com/dtnitsch/bookfreq/pkg/fetcher"
	"github.com/dtnitsch/bookfreq/pkg/mapreduce"
	"github.com/dtnitsch/bookfreq/pkg/metrics"
)

const DefaultTop = 10

// ErrEmptyInput is returned when a required title or URL is blank.
var ErrEmptyInput = errors.New("empty input")

// Store is the persistence the library needs.
type Store interface {
	LookupFrequencies(ctx context.Context, query string) (*models.Book, []models.FrequencyEntry, error)
	SaveFrequencies(ctx context.Context, book models.Book, entries []models.FrequencyEntry) error
	ListBooks(ctx context.Context) ([]models.Book, error)
	AllFrequencies(ctx context.Context) ([]map[string]int, error)
	DeleteBook(ctx context.Context, title string) (bool, error)
}

// Source fetches book text.
type Source interface {
	Fetch(ctx context.Context, url string) (*fetcher.Document, error)
}

// LanguageDetector returns an ISO-639-1 code or "".
type LanguageDetector interface {
	Detect(text string) string
}

type Options struct {
	Store    Store
	Source   Source
	Cache    caching.TextCache // nil disables caching
	Detector LanguageDetector  // nil skips detection
	Metrics  *metrics.Metrics  // nil skips metrics
	Logger   *slog.Logger
	Top      int  // clamped to models.MaxTop
	HTMLText bool // reduce HTML bodies to their visible text before counting
}

type Library struct {
	store    Store
	source   Source
	cache    caching.TextCache
	detector LanguageDetector
	metrics  *metrics.Metrics
	logger   *slog.Logger
	top      int
	htmlText bool
}

func New(opts Options) *Library {
	l := &Library{
		store:    opts.Store,
		source:   opts.Source,
		cache:    opts.Cache,
		detector: opts.Detector,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		top:      opts.Top,
		htmlText: opts.HTMLText,
	}
	if l.cache == nil {
		l.cache = caching.Nop{}
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.top <= 0 {
		l.top = DefaultTop
	}
	if l.top > models.MaxTop {
		l.top = models.MaxTop
	}
	l.logger = l.logger.With("component", "library")
	return l
}

// Search looks query up in the store. Nothing matching is a normal result
// with Found set to false.
func (l *Library) Search(ctx context.Context, query string) (*models.Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("please enter a book title: %w", ErrEmptyInput)
	}

	book, entries, err := l.store.LookupFrequencies(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %q: %w", query, err)
	}
	if l.metrics != nil {
		l.metrics.ObserveLookup(book != nil)
	}

	result := &models.Result{Query: query, Entries: entries}
	if book != nil {
		result.Found = true
		result.Title = book.Title
		result.Book = book
	}
	l.logger.Info("lookup", "query", query, "found", result.Found, "entries", len(entries))
	return result, nil
}

// FetchAndSave downloads rawURL, counts its words, stores the top entries
// under the book's title and returns them. When the download fails nothing
// is written. force skips the text cache.
func (l *Library) FetchAndSave(ctx context.Context, rawURL string, force bool) (*models.Result, error) {
	url := fetcher.SanitizeURL(rawURL)
	if url == "" {
		return nil, fmt.Errorf("please enter a URL: %w", ErrEmptyInput)
	}

	doc, cached, err := l.load(ctx, url, force)
	if err != nil {
		return nil, err
	}
	if l.htmlText {
		if err := fetcher.ReduceHTML(doc); err != nil {
			return nil, err
		}
	}

	title := fetcher.ResolveTitle(doc)
	counts := analytics.WordFrequency(doc.Text)
	entries := counts.Top(l.top)

	book := models.Book{
		Title:     title,
		SourceURL: url,
		WordTotal: counts.Total(),
	}
	if l.detector != nil {
		book.Language = l.detector.Detect(doc.Text)
	}

	if err := l.store.SaveFrequencies(ctx, book, entries); err != nil {
		return nil, fmt.Errorf("failed to save %q: %w", title, err)
	}
	if l.metrics != nil {
		l.metrics.SetWordFrequencies(title, entries)
	}

	l.logger.Info("book saved",
		"title", title,
		"url", url,
		"cached", cached,
		"language", book.Language,
		"distinct_words", counts.Len(),
		"total_words", book.WordTotal,
	)

	return &models.Result{
		Title:   title,
		Found:   true,
		Cached:  cached,
		Book:    &book,
		Entries: entries,
	}, nil
}

// cachedDocument is what goes into the text cache. Text is the raw body.
type cachedDocument struct {
	FinalURL    string `json:"final_url"`
	ContentType string `json:"content_type,omitempty"`
	Text        string `json:"text"`
}

func (l *Library) load(ctx context.Context, url string, force bool) (*fetcher.Document, bool, error) {
	if !force {
		if data, ok := l.cache.Get(ctx, url); ok {
			var cd cachedDocument
			if err := json.Unmarshal(data, &cd); err == nil {
				if l.metrics != nil {
					l.metrics.CacheHits.Inc()
				}
				l.logger.Debug("text cache hit", "url", url)
				return &fetcher.Document{URL: url, FinalURL: cd.FinalURL, ContentType: cd.ContentType, Text: cd.Text}, true, nil
			}
			l.logger.Warn("ignoring unreadable cache entry", "url", url)
		}
	}
	if l.metrics != nil {
		l.metrics.CacheMisses.Inc()
	}

	start := time.Now()
	doc, err := l.source.Fetch(ctx, url)
	if err != nil {
		if l.metrics != nil {
			l.metrics.ObserveFetch(fetchOutcome(err), time.Since(start), 0)
		}
		l.logger.Error("fetch failed", "url", url, "error", err)
		return nil, false, err
	}
	if l.metrics != nil {
		l.metrics.ObserveFetch("success", time.Since(start), doc.SizeBytes)
	}

	data, err := json.Marshal(cachedDocument{FinalURL: doc.FinalURL, ContentType: doc.ContentType, Text: doc.Text})
	if err == nil {
		err = l.cache.Set(ctx, url, data)
	}
	if err != nil {
		l.logger.Warn("failed to cache text", "url", url, "error", err)
	}
	return doc, false, nil
}

func fetchOutcome(err error) string {
	var re *fetcher.RetrievalError
	if errors.As(err, &re) && re.StatusCode != 0 {
		return "http_error"
	}
	return "network_error"
}

// Books lists every stored book.
func (l *Library) Books(ctx context.Context) ([]models.Book, error) {
	books, err := l.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}

// Corpus aggregates the stored entries of every book and returns the top n.
func (l *Library) Corpus(ctx context.Context, n int) ([]models.FrequencyEntry, error) {
	if n <= 0 {
		n = l.top
	}
	all, err := l.store.AllFrequencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load frequencies: %w", err)
	}
	return mapreduce.TopKeywords(mapreduce.Reduce(all), n), nil
}

// Delete removes the book with this exact title and drops its downloaded
// text from the cache.
func (l *Library) Delete(ctx context.Context, title string) (bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return false, fmt.Errorf("please enter a book title: %w", ErrEmptyInput)
	}

	books, err := l.store.ListBooks(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to list books: %w", err)
	}
	var sourceURL string
	for _, b := range books {
		if b.Title == title {
			sourceURL = b.SourceURL
			break
		}
	}

	removed, err := l.store.DeleteBook(ctx, title)
	if err != nil {
		return false, fmt.Errorf("failed to delete %q: %w", title, err)
	}
	if removed && sourceURL != "" {
		if err := l.cache.Forget(ctx, sourceURL); err != nil {
			l.logger.Warn("failed to drop cached text", "url", sourceURL, "error", err)
		}
	}
	l.logger.Info("delete", "title", title, "removed", removed)
	return removed, nil
}
