package mapreduce

import (
	"reflect"
	"testing"

	"github.com/dtnitsch/bookfreq/models"
)

func TestMapReduce(t *testing.T) {
	intermediate := []map[string]int{
		{"the": 2, "whale": 1, "sea": 1},
		{"the": 2, "sea": 2},
		{},
	}

	got := Reduce(intermediate)
	want := map[string]int{"the": 4, "whale": 1, "sea": 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Reduce() = %v, want %v", got, want)
	}
}

func TestTopKeywords(t *testing.T) {
	counts := map[string]int{"the": 4, "sea": 3, "whale": 1, "ahab": 1, "ship": 3, "zero": 0}

	tests := []struct {
		name string
		n    int
		want []models.FrequencyEntry
	}{
		{
			name: "ties alphabetical",
			n:    4,
			want: []models.FrequencyEntry{{Word: "the", Count: 4}, {Word: "sea", Count: 3}, {Word: "ship", Count: 3}, {Word: "ahab", Count: 1}},
		},
		{
			name: "limit above size drops zero counts",
			n:    100,
			want: []models.FrequencyEntry{{Word: "the", Count: 4}, {Word: "sea", Count: 3}, {Word: "ship", Count: 3}, {Word: "ahab", Count: 1}, {Word: "whale", Count: 1}},
		},
		{
			name: "negative limit",
			n:    -1,
			want: []models.FrequencyEntry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopKeywords(counts, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TopKeywords() = %v, want %v", got, tt.want)
			}
		})
	}
}
