package fetcher

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cheggaaa/pb/v3"
)

const DefaultTimeout = 10 * time.Second

// RetrievalError reports a failed fetch. StatusCode is 0 when the request
// never produced a response.
type RetrievalError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *RetrievalError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("failed to fetch %s, status code: %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// Document is a fetched body plus the response metadata we keep.
type Document struct {
	URL         string
	FinalURL    string // after redirects
	StatusCode  int
	ContentType string
	SizeBytes   int64
	Text        string
	HTMLTitle   string // <title> of HTML bodies, empty for plain text
}

// Options configures a Fetcher. Zero values fall back to defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Progress  bool      // draw a download bar
	Output    io.Writer // progress bar destination, stderr when nil
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	progress  bool
	output    io.Writer
}

func NewFetcher(opts Options) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: opts.UserAgent,
		progress:  opts.Progress,
		output:    out,
	}
}

// Fetch downloads url and returns the raw body as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	body, doc, err := f.GetBytes(ctx, url)
	if err != nil {
		return nil, err
	}
	doc.Text = string(body)
	return doc, nil
}

// ReduceHTML replaces the text of an HTML document with its visible body
// text and records the <title>. Other documents are left alone.
func ReduceHTML(doc *Document) error {
	if !IsHTML(doc.ContentType) {
		return nil
	}
	text, title, err := htmlToText(doc.Text)
	if err != nil {
		return fmt.Errorf("failed to parse HTML from %s: %w", doc.URL, err)
	}
	doc.Text = text
	doc.HTMLTitle = title
	return nil
}

// GetBytes performs the GET and returns the raw body. The returned Document
// carries metadata only.
func (f *Fetcher) GetBytes(ctx context.Context, url string) ([]byte, *Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, nil, &RetrievalError{URL: url, Err: fmt.Errorf("failed to build request: %w", err)}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, &RetrievalError{URL: url, Err: fmt.Errorf("failed to make HTTP request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &RetrievalError{URL: url, StatusCode: resp.StatusCode}
	}

	var reader io.Reader = resp.Body
	if f.progress {
		total := resp.ContentLength
		if total < 0 {
			total = 0
		}
		bar := pb.New64(total).SetTemplate(pb.Full).SetWriter(f.output).Set(pb.Bytes, true).Start()
		defer bar.Finish()
		reader = bar.NewProxyReader(resp.Body)
	}

	bodyBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, nil, &RetrievalError{URL: url, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	doc := &Document{
		URL:         url,
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		SizeBytes:   int64(len(bodyBytes)),
	}
	return bodyBytes, doc, nil
}

// IsHTML reports whether contentType names an HTML media type.
func IsHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

const blockElements = "p,div,br,li,pre,blockquote,tr,td,th,h1,h2,h3,h4,h5,h6"

// htmlToText returns the visible body text and the document title.
func htmlToText(body string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return "", "", err
	}
	doc.Find("script,style,noscript").Remove()

	title := strings.TrimSpace(doc.Find("title").First().Text())

	// Block boundaries become line breaks so words in adjacent blocks stay apart.
	doc.Find("body").Find(blockElements).AfterHtml("\n")
	return doc.Find("body").Text(), title, nil
}
