// Package github is a thin, rate-aware REST client for api.github.com.
//
// It exposes the few endpoints the census needs (repo search, contributors,
// commits, users) and handles pacing, quota cooldowns, and transient retries
// so callers can stay dumb.
package github

// SearchResult is the envelope returned by /search/repositories.
type SearchResult struct {
	TotalCount        int    `json:"total_count"`
	IncompleteResults bool   `json:"incomplete_results"`
	Items             []Repo `json:"items"`
}

// Repo is the subset of the repository payload the census cares about.
type Repo struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Owner       User     `json:"owner"`
	Description *string  `json:"description"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
	Stargazers  int      `json:"stargazers_count"`
}

// User is a GitHub account, from search payloads or /users/{login}.
type User struct {
	Login    string  `json:"login"`
	Type     string  `json:"type"`
	Location *string `json:"location"`
}

// Contributor is one row from /repos/{owner}/{repo}/contributors.
type Contributor struct {
	Login         string `json:"login"`
	Type          string `json:"type"`
	Contributions int    `json:"contributions"`
}

// Commit is one row from /repos/{owner}/{repo}/commits.
type Commit struct {
	SHA    string       `json:"sha"`
	Commit CommitDetail `json:"commit"`
}

// CommitDetail is the nested git-level payload inside a Commit.
type CommitDetail struct {
	Author  CommitAuthor `json:"author"`
	Message string       `json:"message"`
}

// CommitAuthor carries the git author identity and timestamp.
type CommitAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}
