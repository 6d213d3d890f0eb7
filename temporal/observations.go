package temporal

import (
	"sort"
	"time"

	"biaslens/nlp"
	"biaslens/types"
)

// FromArticles converts articles into per-date bias observations. Only
// articles carrying both a publish date and body text contribute; the
// polarity of all articles sharing a calendar date is averaged into one
// row. Rows come back sorted ascending by date.
func FromArticles(articles []types.Article) []Row {
	sums := make(map[time.Time]float64)
	counts := make(map[time.Time]int)

	for _, article := range articles {
		if article.PublishedAt == nil || article.Text == "" {
			continue
		}
		day := DateOf(*article.PublishedAt)
		sums[day] += nlp.Score(article.Text).Polarity
		counts[day]++
	}

	rows := make([]Row, 0, len(sums))
	for day, sum := range sums {
		rows = append(rows, Row{
			Date:          day,
			BiasIntensity: sum / float64(counts[day]),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}

// DateOf truncates a timestamp to its UTC calendar date.
func DateOf(ts time.Time) time.Time {
	ts = ts.UTC()
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
}
