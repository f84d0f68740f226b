package utils

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ParseGitHubURL parses a GitHub repository URL into owner and repo
func ParseGitHubURL(repoURL string) (owner, repo string, err error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", "", err
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GitHub repository URL")
	}

	return parts[0], strings.TrimSuffix(parts[1], ".git"), nil
}

// ParseRepoRef accepts "repo", "owner/repo" or a repository URL and returns
// the owner (empty when not given) and the repository name.
func ParseRepoRef(ref string) (owner, repo string, err error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", "", fmt.Errorf("repository name cannot be empty")
	}

	if strings.Contains(ref, "://") {
		owner, repo, err = ParseGitHubURL(ref)
	} else if i := strings.Index(ref, "/"); i >= 0 {
		owner, repo = ref[:i], ref[i+1:]
	} else {
		repo = ref
	}
	if err != nil {
		return "", "", err
	}

	if !namePattern.MatchString(repo) || (owner != "" && !namePattern.MatchString(owner)) {
		return "", "", fmt.Errorf("invalid repository reference %q", ref)
	}
	return owner, repo, nil
}
