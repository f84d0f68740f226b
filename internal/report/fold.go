package report

import "github.com/Kamar-Folarin/commitboard/internal/models"

// FoldByAuthor sums commit summaries per author key
func FoldByAuthor(commits []models.CommitSummary) []models.AuthorAggregate {
	index := make(map[string]int)
	var rows []models.AuthorAggregate
	for _, c := range commits {
		i, ok := index[c.AuthorKey]
		if !ok {
			i = len(rows)
			index[c.AuthorKey] = i
			rows = append(rows, models.AuthorAggregate{Author: c.AuthorKey})
		}
		rows[i].Add(models.AuthorAggregate{
			Additions: c.Additions,
			Deletions: c.Deletions,
			Total:     c.Total,
			Commits:   1,
		})
	}
	models.SortAggregates(rows)
	return rows
}

// MergeAggregates sums rows sharing an author across any number of lists.
// The result does not depend on the order of lists or rows.
func MergeAggregates(lists ...[]models.AuthorAggregate) []models.AuthorAggregate {
	index := make(map[string]int)
	var rows []models.AuthorAggregate
	for _, list := range lists {
		for _, r := range list {
			i, ok := index[r.Author]
			if !ok {
				i = len(rows)
				index[r.Author] = i
				rows = append(rows, models.AuthorAggregate{Author: r.Author})
			}
			rows[i].Add(r)
		}
	}
	models.SortAggregates(rows)
	return rows
}
