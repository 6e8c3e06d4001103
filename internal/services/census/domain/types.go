// Package domain holds the core data structures and ports for the census
package domain

import (
	"time"

	"gitcensus/internal/core/classify"
)

// Missing is the sentinel written into fields with no usable value
const Missing = "N/A"

// Entity is a repository that survived discovery: technical, popular, and
// with enough history to be worth harvesting
type Entity struct {
	RepoID      int64
	FullName    string // owner/name
	Name        string
	OwnerLogin  string
	Language    string
	Stars       int
	CommitCount int
	Category    classify.Category
}

// Contributor is one qualified contributor of an Entity
type Contributor struct {
	Login         string
	Contributions int
}

// WorkItem pairs a repo with one of its contributors; it is the unit of
// harvest-phase work
type WorkItem struct {
	Repo        Entity
	Contributor Contributor
}

// Row is one line of census output
// CommitSHA of Missing marks a contributor whose location resolved but whose
// commits could not be listed
type Row struct {
	RepoID              int64
	RepoName            string
	RepoType            string
	ContributorLogin    string
	ContributorLocation string
	Contributions       int
	CommitSHA           string
	CommitDate          string
	CommitMessage       string
}

// Summary reports what a run produced
type Summary struct {
	Repos             int
	Contributors      int // unique qualified logins across all repos
	Rows              int
	WithCommits       int
	Sentinels         int
	DroppedNoLocation int
	Failures          int
	Elapsed           time.Duration
}
