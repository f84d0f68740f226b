package models

import "time"

// UnknownAuthor is the author key used when a commit carries neither a
// platform login nor an email.
const UnknownAuthor = "unknown"

// AuthorKind tells which piece of commit metadata produced an author key.
type AuthorKind string

const (
	AuthorKindLogin   AuthorKind = "login"
	AuthorKindEmail   AuthorKind = "email"
	AuthorKindUnknown AuthorKind = "unknown"
)

// AuthorKey identifies who made a commit before identity resolution.
type AuthorKey struct {
	Kind  AuthorKind
	Value string
}

func (k AuthorKey) String() string {
	if k.Kind == AuthorKindUnknown || k.Value == "" {
		return UnknownAuthor
	}
	return k.Value
}

// NewAuthorKey picks the platform login, then the author email, then the
// committer email.
func NewAuthorKey(login, authorEmail, committerEmail string) AuthorKey {
	switch {
	case login != "":
		return AuthorKey{Kind: AuthorKindLogin, Value: login}
	case authorEmail != "":
		return AuthorKey{Kind: AuthorKindEmail, Value: authorEmail}
	case committerEmail != "":
		return AuthorKey{Kind: AuthorKindEmail, Value: committerEmail}
	default:
		return AuthorKey{Kind: AuthorKindUnknown}
	}
}

// CommitIdentity is the light listing record of a commit
type CommitIdentity struct {
	SHA       string    `json:"sha"`
	AuthorKey string    `json:"author_key"`
	Date      time.Time `json:"date,omitempty"`
}

// CommitStat holds line counts for one commit
type CommitStat struct {
	Additions int  `json:"additions"`
	Deletions int  `json:"deletions"`
	Total     int  `json:"total"`
	IsMerge   bool `json:"is_merge"`
}

// NewCommitStat builds a stat record. A nil total is derived from the
// additions and deletions.
func NewCommitStat(additions, deletions int, total *int, parents int) *CommitStat {
	t := additions + deletions
	if total != nil {
		t = *total
	}
	return &CommitStat{
		Additions: additions,
		Deletions: deletions,
		Total:     t,
		IsMerge:   parents > 1,
	}
}

// CommitSummary is a commit identity enriched with its stats
type CommitSummary struct {
	SHA       string    `json:"sha"`
	AuthorKey string    `json:"author_key"`
	Date      time.Time `json:"date,omitempty"`
	Additions int       `json:"additions"`
	Deletions int       `json:"deletions"`
	Total     int       `json:"total"`
	IsMerge   bool      `json:"is_merge"`
}

// NewCommitSummary joins an identity with its stats
func NewCommitSummary(id CommitIdentity, stat *CommitStat) CommitSummary {
	return CommitSummary{
		SHA:       id.SHA,
		AuthorKey: id.AuthorKey,
		Date:      id.Date,
		Additions: stat.Additions,
		Deletions: stat.Deletions,
		Total:     stat.Total,
		IsMerge:   stat.IsMerge,
	}
}
