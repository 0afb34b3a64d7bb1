package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/bookfreq/models"
	"github.com/urfave/cli/v2"
)

const book = "Title: Whiskers\nthe cat sat the cat sat on the mat\n"

type runner struct {
	t      *testing.T
	dir    string
	server *httptest.Server
}

func newRunner(t *testing.T) *runner {
	t.Helper()
	t.Setenv("BOOKFREQ_CACHE_BACKEND", "none")

	mux := http.NewServeMux()
	mux.HandleFunc("/cat.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, book)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &runner{t: t, dir: t.TempDir(), server: server}
}

// run executes the CLI and returns stdout, stderr and the exit code.
func (r *runner) run(args ...string) (string, string, int) {
	r.t.Helper()

	var stdout, stderr bytes.Buffer
	app := newApp()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.ExitErrHandler = func(*cli.Context, error) {}

	base := []string{
		"bookfreq",
		"--config", filepath.Join(r.dir, "missing.yaml"),
		"--db-dsn", filepath.Join(r.dir, "test.db"),
		"--quiet",
	}
	err := app.Run(append(base, args...))

	code := 0
	var exitErr cli.ExitCoder
	switch {
	case errors.As(err, &exitErr):
		code = exitErr.ExitCode()
		stderr.WriteString(exitErr.Error())
	case err != nil:
		r.t.Fatalf("Run(%v) error = %v", args, err)
	}
	return stdout.String(), stderr.String(), code
}

func TestFetchThenSearch(t *testing.T) {
	r := newRunner(t)

	out, _, code := r.run("fetch", "--top", "3", r.server.URL+"/cat.txt")
	if code != 0 {
		t.Fatalf("fetch exit code = %d", code)
	}
	want := "Whiskers\n\nthe        3\ncat        2\nsat        2\n"
	if out != want {
		t.Errorf("fetch output = %q, want %q", out, want)
	}

	out, _, code = r.run("search", "whisk")
	if code != 0 {
		t.Fatalf("search exit code = %d", code)
	}
	if out != want {
		t.Errorf("search output = %q, want %q", out, want)
	}
}

func TestSearch_NotFound(t *testing.T) {
	r := newRunner(t)

	out, errOut, code := r.run("search", "Nothing Here")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if !strings.Contains(errOut, `"Nothing Here" not in local DB.`) {
		t.Errorf("stderr = %q", errOut)
	}
}

func TestEmptyInputExitsOne(t *testing.T) {
	r := newRunner(t)

	for _, args := range [][]string{{"search", "  "}, {"fetch"}, {"delete"}} {
		_, errOut, code := r.run(args...)
		if code != 1 {
			t.Errorf("%v exit code = %d, want 1", args, code)
		}
		if !strings.Contains(errOut, "please enter") {
			t.Errorf("%v stderr = %q", args, errOut)
		}
	}
}

func TestFetch_RetrievalErrorExitsTwo(t *testing.T) {
	r := newRunner(t)

	_, errOut, code := r.run("fetch", r.server.URL+"/missing.txt")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errOut, "status code: 404") {
		t.Errorf("stderr = %q", errOut)
	}

	out, _, _ := r.run("books")
	if !strings.Contains(out, "No books stored") {
		t.Errorf("books output = %q", out)
	}
}

func TestBooksJSONAndDelete(t *testing.T) {
	r := newRunner(t)
	if _, _, code := r.run("fetch", r.server.URL+"/cat.txt"); code != 0 {
		t.Fatalf("fetch exit code = %d", code)
	}

	out, _, code := r.run("--format", "json", "books")
	if code != 0 {
		t.Fatalf("books exit code = %d", code)
	}
	var books []models.Book
	if err := json.Unmarshal([]byte(out), &books); err != nil {
		t.Fatalf("invalid json %q: %v", out, err)
	}
	if len(books) != 1 || books[0].Title != "Whiskers" || books[0].WordTotal != 11 {
		t.Errorf("books = %+v", books)
	}

	if _, _, code := r.run("delete", "Whiskers"); code != 0 {
		t.Errorf("delete exit code = %d", code)
	}
	if out, _, _ := r.run("corpus"); !strings.Contains(out, "No books stored") {
		t.Errorf("corpus output = %q", out)
	}
}

func TestOutputAndMetricsFiles(t *testing.T) {
	r := newRunner(t)
	outPath := filepath.Join(r.dir, "out", "result.yaml")
	metricsPath := filepath.Join(r.dir, "bookfreq.prom")

	out, _, code := r.run("--format", "yaml", "--output", outPath, "--metrics-file", metricsPath, "fetch", r.server.URL+"/cat.txt")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if !strings.Contains(string(data), "title: Whiskers") {
		t.Errorf("output file = %q", data)
	}

	prom, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(prom), `bookfreq_fetches_total{result="success"} 1`) {
		t.Errorf("metrics file = %q", prom)
	}
}

func TestFetch_TopAboveStoredMaximumRejected(t *testing.T) {
	r := newRunner(t)

	_, errOut, code := r.run("fetch", "--top", "11", r.server.URL+"/cat.txt")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(errOut, "top must be between 1 and 10") {
		t.Errorf("stderr = %q", errOut)
	}
}
