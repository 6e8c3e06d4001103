// Package classify filters and labels repositories by their metadata.
//
// Two concerns live here: deciding whether a repo is a real software project
// rather than a content collection (IsTechnical), and bucketing it by owner
// kind (Classify). Both are keyword and pattern heuristics over the repo's
// name, description, and topics; no network calls.
package classify

import (
	"regexp"
	"strings"

	pstr "gitcensus/internal/platform/strings"
)

// Category labels a repository by the kind of entity behind it.
type Category string

const (
	Corporate   Category = "corporate"
	Educational Category = "educational"
	Individual  Category = "individual"
)

// Meta is the slice of repository metadata the heuristics look at.
type Meta struct {
	Name        string
	FullName    string
	Description *string
	Language    *string
	OwnerLogin  string
	// Organization is the owning org's login when the payload carries one;
	// search results usually do not.
	Organization string
	Topics       []string
}

// languages that mark a repo as content rather than code
var contentLanguages = map[string]struct{}{
	"Markdown": {},
	"HTML":     {},
}

// corporateOwners are accounts whose repos are corporate regardless of text.
var corporateOwners = map[string]struct{}{
	"google": {}, "microsoft": {}, "facebook": {}, "apple": {}, "amazon": {},
	"netflix": {}, "twitter": {}, "linkedin": {}, "uber": {}, "airbnb": {},
	"spotify": {}, "docker": {}, "mozilla": {}, "adobe": {}, "oracle": {},
	"ibm": {}, "intel": {}, "nvidia": {}, "github": {}, "apache": {},
	"kubernetes": {}, "elastic": {}, "mongodb": {}, "redis": {},
}

var educationalKeywords = []string{
	"university", "college", "edu", "academy", "school", "course",
	"tutorial", "learning", "bootcamp", "curriculum", "assignment",
	"homework", "student", "coursera", "udemy", "udacity", "edx",
	"lab-", "project-", "exercise", "workshop", "training",
}

var eduTopics = map[string]struct{}{
	"education": {}, "learning": {}, "tutorial": {}, "course": {},
	"students": {},
}

// nonTechKeywords flag content collections; two or more hits disqualify.
var nonTechKeywords = []string{
	"book", "books", "paper", "papers", "article", "articles",
	"curriculum", "syllabus", "lecture", "lectures", "notes",
	"resource", "resources", "list", "awesome", "collection",
	"interview", "interview-questions", "cheatsheet", "cheat-sheet",
	"guide", "tutorial", "learning", "study", "studying",
	"blog", "blog-posts", "writing", "documentation", "roadmap",
	"public api's",
}

// knownNonTechRepos are substrings of full names that are always collections.
var knownNonTechRepos = []string{
	"awesome", "awesome-list", "interview", "books", "paper",
	"curriculum", "syllabus", "lecture-notes", "javascript-algorithms",
}

var nonTechPatterns = []*regexp.Regexp{
	regexp.MustCompile(`awesome.*list`),
	regexp.MustCompile(`curriculum`),
	regexp.MustCompile(`syllabus`),
	regexp.MustCompile(`lecture.*notes`),
	regexp.MustCompile(`interview.*questions`),
	regexp.MustCompile(`book.*collection`),
}

// IsTechnical reports whether the repo looks like a software project.
// Repos with no primary language, or whose language is a markup format, are
// out. So are repos whose name and description read like an awesome-list,
// interview prep, or other curated content.
func IsTechnical(m Meta) bool {
	lang := pstr.Deref(m.Language)
	if lang == "" {
		return false
	}
	if _, markup := contentLanguages[lang]; markup {
		return false
	}

	text := strings.ToLower(m.Name) + " " + pstr.SafeLower(m.Description)
	if countHits(text, nonTechKeywords) >= 2 {
		return false
	}
	return !likelyNonTech(m)
}

func likelyNonTech(m Meta) bool {
	fullName := strings.ToLower(m.FullName)
	for _, known := range knownNonTechRepos {
		if strings.Contains(fullName, known) {
			return true
		}
	}
	text := fullName + " " + pstr.SafeLower(m.Description)
	for _, re := range nonTechPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Classify buckets a repo as corporate, educational, or individual.
// Corporate wins on owner identity, educational on keyword density or
// topics, and everything else is individual.
func Classify(m Meta) Category {
	if _, ok := corporateOwners[strings.ToLower(m.OwnerLogin)]; ok || m.Organization != "" {
		return Corporate
	}

	text := strings.ToLower(m.Name) + " " + pstr.SafeLower(m.Description)
	if countHits(text, educationalKeywords) >= 2 {
		return Educational
	}
	for _, topic := range m.Topics {
		if _, ok := eduTopics[strings.ToLower(topic)]; ok {
			return Educational
		}
	}
	return Individual
}

func countHits(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}
