package models

import "sort"

// AuthorAggregate is one leaderboard row. Author holds either a raw author
// key or, after identity resolution, a display name.
type AuthorAggregate struct {
	Author    string `json:"author"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Total     int    `json:"total"`
	Commits   int    `json:"commits"`
}

// Add folds other's counts into a.
func (a *AuthorAggregate) Add(other AuthorAggregate) {
	a.Additions += other.Additions
	a.Deletions += other.Deletions
	a.Total += other.Total
	a.Commits += other.Commits
}

// SortAggregates orders rows by total descending. Ties fall back to
// additions descending, then author ascending, so output is deterministic.
func SortAggregates(rows []AuthorAggregate) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		if rows[i].Additions != rows[j].Additions {
			return rows[i].Additions > rows[j].Additions
		}
		return rows[i].Author < rows[j].Author
	})
}
