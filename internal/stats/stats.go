// Package stats aggregates collection-level figures for display.
package stats

import (
	"sort"

	"github.com/libkeeper/libkeeper/internal/domain"
)

// Summary holds the headline numbers for a collection.
type Summary struct {
	Total       int     `json:"total"`
	Read        int     `json:"read"`
	Unread      int     `json:"unread"`
	PercentRead float64 `json:"percent_read"`
}

// YearCount pairs a publication year with the number of records from it.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Summarize computes the headline numbers. An empty collection reports
// zero percent read rather than dividing by zero.
func Summarize(books []domain.Book) Summary {
	s := Summary{Total: len(books)}
	for i := range books {
		if books[i].ReadStatus {
			s.Read++
		}
	}
	s.Unread = s.Total - s.Read
	if s.Total > 0 {
		s.PercentRead = float64(s.Read) / float64(s.Total) * 100
	}
	return s
}

// GenreDistribution counts tag occurrences across the collection. A record
// carrying several tags contributes to each of them.
func GenreDistribution(books []domain.Book) map[string]int {
	dist := make(map[string]int)
	for i := range books {
		for _, g := range books[i].Genres {
			dist[g]++
		}
	}
	return dist
}

// YearDistribution counts records per publication year, ascending by year.
func YearDistribution(books []domain.Book) []YearCount {
	byYear := make(map[int]int)
	for i := range books {
		byYear[books[i].PublicationYear]++
	}
	out := make([]YearCount, 0, len(byYear))
	for year, count := range byYear {
		out = append(out, YearCount{Year: year, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// AverageRating returns the mean rating over rated records only. It
// reports false when no record has a rating.
func AverageRating(books []domain.Book) (float64, bool) {
	var sum, n int
	for i := range books {
		if books[i].Rating > 0 {
			sum += books[i].Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return float64(sum) / float64(n), true
}
