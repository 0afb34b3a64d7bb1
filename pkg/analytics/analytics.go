package analytics

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dtnitsch/bookfreq/models"
)

// wordPattern matches two or more ASCII letters or apostrophes between word
// boundaries. Matching runs on lowercased text passed through maskWordRunes.
var wordPattern = regexp.MustCompile(`\b[a-zA-Z']{2,}\b`)

// maskWordRunes replaces every non-ASCII letter or number with '_', so that
// RE2's ASCII-only \b sees no boundary inside "café" or "naïve".
func maskWordRunes(text string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsNumber(r)) {
			return '_'
		}
		return r
	}, text)
}

// Counts holds word frequencies together with the order in which each word
// was first seen.
type Counts struct {
	freq  map[string]int
	order []string
}

// Len returns the number of distinct words.
func (c Counts) Len() int {
	return len(c.order)
}

// Total returns the number of word occurrences counted.
func (c Counts) Total() int {
	total := 0
	for _, n := range c.freq {
		total += n
	}
	return total
}

// WordFrequency tokenizes text and counts every word.
func WordFrequency(text string) Counts {
	counts := Counts{freq: make(map[string]int)}
	for _, word := range wordPattern.FindAllString(maskWordRunes(strings.ToLower(text)), -1) {
		if _, seen := counts.freq[word]; !seen {
			counts.order = append(counts.order, word)
		}
		counts.freq[word]++
	}
	return counts
}

// Top returns up to n entries sorted by descending count. Words with equal
// counts keep their first-occurrence order.
func (c Counts) Top(n int) []models.FrequencyEntry {
	if n <= 0 || len(c.order) == 0 {
		return []models.FrequencyEntry{}
	}

	entries := make([]models.FrequencyEntry, len(c.order))
	for i, w := range c.order {
		entries[i] = models.FrequencyEntry{Word: w, Count: c.freq[w]}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// TopNWords returns the n most frequent words in text.
func TopNWords(text string, n int) []models.FrequencyEntry {
	return WordFrequency(text).Top(n)
}
