package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchRepositories(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{
			"total_count": 2,
			"incomplete_results": false,
			"items": [
				{"id": 1, "name": "linux", "full_name": "torvalds/linux", "owner": {"login": "torvalds"}, "language": "C", "stargazers_count": 170000},
				{"id": 2, "name": "go", "full_name": "golang/go", "owner": {"login": "golang", "type": "Organization"}, "language": "Go", "stargazers_count": 120000}
			]
		}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	res, err := c.SearchRepositories(context.Background(), "stars:>1000", "stars", "desc", 1, 50)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if res.TotalCount != 2 || len(res.Items) != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Items[0].FullName != "torvalds/linux" {
		t.Fatalf("order not preserved: %+v", res.Items)
	}
	for _, want := range []string{"q=stars%3A%3E1000", "sort=stars", "order=desc", "per_page=50", "page=1"} {
		if !contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestCommitCountViaLinkHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "1" {
			t.Errorf("per_page = %q, want 1", got)
		}
		w.Header().Set("Link", `<`+r.Host+`/repos/a/b/commits?per_page=1&page=2>; rel="next", <`+r.Host+`/repos/a/b/commits?per_page=1&page=4242>; rel="last"`)
		_, _ = w.Write([]byte(`[{"sha":"abc"}]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	n, err := c.CommitCount(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 4242 {
		t.Fatalf("count = %d, want 4242", n)
	}
}

func TestCommitCountSinglePageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"sha":"abc"}]`)) // no Link header
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	n, err := c.CommitCount(context.Background(), "a", "b")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("count = %d, want 1", n)
	}
}

func TestCommitCountMissingRepoIsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	n, err := c.CommitCount(context.Background(), "gone", "repo")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("count = %d, want 0", n)
	}
}

func TestContributorsExcludesAnonymous(t *testing.T) {
	var gotAnon string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAnon = r.URL.Query().Get("anon")
		_, _ = w.Write([]byte(`[{"login":"alice","contributions":120},{"login":"bob","contributions":3}]`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	got, err := c.Contributors(context.Background(), "a", "b", 1, 100)
	if err != nil {
		t.Fatalf("contributors: %v", err)
	}
	if gotAnon != "0" {
		t.Fatalf("anon = %q, want 0", gotAnon)
	}
	if len(got) != 2 || got[0].Login != "alice" || got[0].Contributions != 120 {
		t.Fatalf("got %+v", got)
	}
}

func TestCommitsByAuthorMissingIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	got, err := c.CommitsByAuthor(context.Background(), "a", "b", "alice", 1, 10)
	if err != nil {
		t.Fatalf("commits: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d commits, want 0", len(got))
	}
}

func TestUserByLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/alice" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"login":"alice","location":"Berlin, Germany"}`))
	}))
	defer srv.Close()

	c, _ := newTestClient(t, srv)
	u, err := c.UserByLogin(context.Background(), "alice")
	if err != nil {
		t.Fatalf("user: %v", err)
	}
	if u.Location == nil || *u.Location != "Berlin, Germany" {
		t.Fatalf("location = %v", u.Location)
	}
}

func TestSearchCeiling(t *testing.T) {
	if SearchCeiling(1, 50) {
		t.Fatal("page 2 of 50 is inside the window")
	}
	if !SearchCeiling(20, 50) {
		t.Fatal("page 21 of 50 crosses the 1000-result window")
	}
}
