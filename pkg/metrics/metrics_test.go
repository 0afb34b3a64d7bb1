package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dtnitsch/bookfreq/models"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveFetch("success", 200*time.Millisecond, 1024)
	m.ObserveFetch("http_error", 50*time.Millisecond, 0)
	m.ObserveLookup(true)
	m.ObserveLookup(false)
	m.ObserveLookup(false)

	if got := testutil.ToFloat64(m.FetchesTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("fetches{success} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.FetchBytes); got != 1024 {
		t.Errorf("fetch bytes = %v, want 1024", got)
	}
	if got := testutil.ToFloat64(m.LookupsTotal.WithLabelValues("miss")); got != 2 {
		t.Errorf("lookups{miss} = %v, want 2", got)
	}
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.SetWordFrequencies("Moby Dick", []models.FrequencyEntry{{Word: "whale", Count: 50}, {Word: "sea", Count: 30}})

	if got := testutil.ToFloat64(m.WordFrequency.WithLabelValues("Moby Dick", "2", "sea")); got != 30 {
		t.Errorf("word frequency{sea} = %v, want 30", got)
	}

	path := filepath.Join(t.TempDir(), "bookfreq.prom")
	if err := m.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read metrics file: %v", err)
	}
	text := string(data)
	for _, want := range []string{
		`bookfreq_word_frequency{rank="1",title="Moby Dick",word="whale"} 50`,
		"# TYPE bookfreq_fetch_bytes_total counter",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("metrics file missing %q:\n%s", want, text)
		}
	}
}
