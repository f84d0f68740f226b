package models

// RepoSummary describes a repository returned by an organization listing
type RepoSummary struct {
	Name          string `json:"name"`
	DefaultBranch string `json:"default_branch"`
	Private       bool   `json:"private"`
	Fork          bool   `json:"fork"`
	Archived      bool   `json:"archived"`
}

// BranchSummary describes a branch head
type BranchSummary struct {
	Name    string `json:"name"`
	HeadSHA string `json:"head_sha"`
}
