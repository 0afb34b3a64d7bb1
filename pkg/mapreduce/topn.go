package mapreduce

import (
	"sort"

	"github.com/dtnitsch/bookfreq/models"
)

// TopKeywords returns the top n words of an aggregated map. Map iteration
// order is random, so equal counts are ordered alphabetically.
func TopKeywords(wordCounts map[string]int, n int) []models.FrequencyEntry {
	ss := make([]models.FrequencyEntry, 0, len(wordCounts))
	for k, v := range wordCounts {
		if v > 0 {
			ss = append(ss, models.FrequencyEntry{Word: k, Count: v})
		}
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Count != ss[j].Count {
			return ss[i].Count > ss[j].Count
		}
		return ss[i].Word < ss[j].Word
	})

	limit := n
	if len(ss) < n {
		limit = len(ss)
	}
	if limit < 0 {
		limit = 0
	}
	return ss[:limit]
}
