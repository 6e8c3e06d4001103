package github

import (
	"net/http"
	"testing"
	"time"
)

func TestLastPageFromLink(t *testing.T) {
	cases := []struct {
		name string
		link string
		want int
	}{
		{
			name: "normal pair",
			link: `<https://api.github.com/repositories/1/commits?per_page=1&page=2>; rel="next", <https://api.github.com/repositories/1/commits?per_page=1&page=769>; rel="last"`,
			want: 769,
		},
		{name: "absent header", link: "", want: 0},
		{
			name: "no last rel",
			link: `<https://api.github.com/repositories/1/commits?per_page=1&page=1>; rel="prev"`,
			want: 0,
		},
		{
			name: "single digit",
			link: `<https://api.github.com/repos/a/b/commits?per_page=1&page=3>; rel="last"`,
			want: 3,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := lastPageFromLink(tc.link); got != tc.want {
				t.Fatalf("lastPageFromLink = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestParseRateHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "27")
	h.Set("X-RateLimit-Reset", "1700000000")

	rem, reset, ok := parseRateHeaders(h)
	if !ok {
		t.Fatal("expected ok")
	}
	if rem != 27 {
		t.Fatalf("remaining = %d, want 27", rem)
	}
	if reset.Unix() != 1700000000 {
		t.Fatalf("reset = %d, want 1700000000", reset.Unix())
	}

	if _, _, ok := parseRateHeaders(http.Header{}); ok {
		t.Fatal("expected not ok on empty headers")
	}

	h.Set("X-RateLimit-Remaining", "many")
	if _, _, ok := parseRateHeaders(h); ok {
		t.Fatal("expected not ok on malformed remaining")
	}
}

func TestComputeWait(t *testing.T) {
	now := time.Unix(1000, 0)
	margin := 2 * time.Second

	if got := computeWait(now, now.Add(30*time.Second), margin); got != 32*time.Second {
		t.Fatalf("future reset: got %v", got)
	}
	// reset already behind us: still wait the margin, never negative
	if got := computeWait(now, now.Add(-10*time.Second), margin); got != margin {
		t.Fatalf("past reset: got %v", got)
	}
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	if d := retryAfter(h); d != 0 {
		t.Fatalf("absent: got %v", d)
	}
	h.Set("Retry-After", "7")
	if d := retryAfter(h); d != 7*time.Second {
		t.Fatalf("got %v", d)
	}
	h.Set("Retry-After", "soon")
	if d := retryAfter(h); d != 0 {
		t.Fatalf("malformed: got %v", d)
	}
}

func TestClassFor(t *testing.T) {
	if c := ClassFor("/search/repositories"); c != ClassSearch {
		t.Fatalf("got %s", c)
	}
	if c := ClassFor("/repos/a/b/commits"); c != ClassCore {
		t.Fatalf("got %s", c)
	}
	if c := ClassFor("/users/octocat"); c != ClassCore {
		t.Fatalf("got %s", c)
	}
}
