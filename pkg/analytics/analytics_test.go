package analytics

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/dtnitsch/bookfreq/models"
)

func TestTopNWords(t *testing.T) {
	tests := []struct {
		name string
		text string
		n    int
		want []models.FrequencyEntry
	}{
		{
			name: "ties keep first occurrence order",
			text: "The cat sat. The CAT sat on the mat.",
			n:    3,
			want: []models.FrequencyEntry{{Word: "the", Count: 3}, {Word: "cat", Count: 2}, {Word: "sat", Count: 2}},
		},
		{
			name: "empty input",
			text: "",
			n:    10,
			want: []models.FrequencyEntry{},
		},
		{
			name: "zero limit",
			text: "whale whale sea",
			n:    0,
			want: []models.FrequencyEntry{},
		},
		{
			name: "fewer words than limit",
			text: "whale sea whale",
			n:    10,
			want: []models.FrequencyEntry{{Word: "whale", Count: 2}, {Word: "sea", Count: 1}},
		},
		{
			name: "single letters and digits dropped",
			text: "a I x 42 b2b ab12 ok ok",
			n:    10,
			want: []models.FrequencyEntry{{Word: "ok", Count: 2}},
		},
		{
			name: "apostrophes kept inside words",
			text: "Don't stop. don't DON'T o'clock",
			n:    10,
			want: []models.FrequencyEntry{{Word: "don't", Count: 3}, {Word: "stop", Count: 1}, {Word: "o'clock", Count: 1}},
		},
		{
			name: "accented words are not split into ascii fragments",
			text: "café naïve Zoë résumé",
			n:    10,
			want: []models.FrequencyEntry{},
		},
		{
			name: "non-ascii letters and digits are word characters",
			text: "über straße Ελλάδα ok ٣ok and",
			n:    10,
			want: []models.FrequencyEntry{{Word: "ok", Count: 1}, {Word: "and", Count: 1}},
		},
		{
			name: "combining marks are not letters",
			text: "cafe\u0301 cafe\u0301",
			n:    10,
			want: []models.FrequencyEntry{{Word: "cafe", Count: 2}},
		},
		{
			name: "punctuation splits words",
			text: "well-known, e-mail; end.",
			n:    10,
			want: []models.FrequencyEntry{{Word: "well", Count: 1}, {Word: "known", Count: 1}, {Word: "mail", Count: 1}, {Word: "end", Count: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopNWords(tt.text, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopNWords() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTopNWords_Properties(t *testing.T) {
	text := strings.Repeat("It was the best of times, it was the worst of times; ", 7) +
		"it was the age of wisdom, it was the age of foolishness. 1859 A.D. ---"
	valid := regexp.MustCompile(`^[a-z']{2,}$`)

	for _, n := range []int{1, 3, 10, 100} {
		got := TopNWords(text, n)
		if len(got) > n {
			t.Errorf("n=%d: got %d entries", n, len(got))
		}
		for i, e := range got {
			if e.Count < 1 {
				t.Errorf("n=%d: entry %d has count %d", n, i, e.Count)
			}
			if !valid.MatchString(e.Word) {
				t.Errorf("n=%d: invalid word %q", n, e.Word)
			}
			if i > 0 && got[i-1].Count < e.Count {
				t.Errorf("n=%d: entries not sorted at %d: %v", n, i, got)
			}
		}

		again := TopNWords(text, n)
		if !reflect.DeepEqual(got, again) {
			t.Errorf("n=%d: results differ between runs: %v vs %v", n, got, again)
		}
	}
}

func TestWordFrequency(t *testing.T) {
	counts := WordFrequency("Call me Ishmael. Some years ago, never mind how long. Call me.")

	if counts.Len() != 10 {
		t.Errorf("Len() = %d, want 10", counts.Len())
	}
	if got := counts.Total(); got != 12 {
		t.Errorf("Total() = %d, want 12", got)
	}

	want := []models.FrequencyEntry{{Word: "call", Count: 2}, {Word: "me", Count: 2}, {Word: "ishmael", Count: 1}}
	if got := counts.Top(3); !reflect.DeepEqual(got, want) {
		t.Errorf("Top(3) = %v, want %v", got, want)
	}
}
