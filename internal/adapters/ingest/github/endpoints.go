package github

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	perr "gitcensus/internal/platform/errors"
)

// searchMaxResults is GitHub's hard ceiling on search pagination: only the
// first 1000 results of any query are reachable regardless of paging.
const searchMaxResults = 1000

// SearchRepositories runs /search/repositories for one page.
func (c *Client) SearchRepositories(ctx context.Context, query, sort, order string, page, perPage int) (SearchResult, error) {
	q := url.Values{}
	q.Set("q", query)
	if sort != "" {
		q.Set("sort", sort)
	}
	if order != "" {
		q.Set("order", order)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out SearchResult
	if _, err := c.getJSON(ctx, "/search/repositories", q, &out); err != nil {
		return SearchResult{}, err
	}
	return out, nil
}

// SearchCeiling reports whether fetching page after the current one would
// cross GitHub's 1000-result search window.
func SearchCeiling(page, perPage int) bool {
	return (page+1)*perPage > searchMaxResults
}

// CommitCount probes a repository's default-branch commit total without
// walking its history: one commit per page, then read the rel="last" page
// number off the Link header. Repos with a single commit carry no Link
// header, so fall back to the page length.
func (c *Client) CommitCount(ctx context.Context, owner, name string) (int, error) {
	q := url.Values{}
	q.Set("per_page", "1")

	var commits []Commit
	h, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/commits", owner, name), q, &commits)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if last := lastPageFromLink(h.Get("Link")); last > 0 {
		return last, nil
	}
	return len(commits), nil
}

// Contributors fetches one page of /repos/{owner}/{name}/contributors.
// Anonymous (email-only) contributors are excluded.
func (c *Client) Contributors(ctx context.Context, owner, name string, page, perPage int) ([]Contributor, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("anon", "0")

	var out []Contributor
	if _, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/contributors", owner, name), q, &out); err != nil {
		// 204 aside, an empty or unstarted repo can 404 here
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// CommitsByAuthor fetches one page of a repo's commits filtered to author.
// A 404 (repo gone, or author never touched it) yields an empty page.
func (c *Client) CommitsByAuthor(ctx context.Context, owner, name, author string, page, perPage int) ([]Commit, error) {
	q := url.Values{}
	q.Set("author", author)
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))

	var out []Commit
	if _, err := c.getJSON(ctx, fmt.Sprintf("/repos/%s/%s/commits", owner, name), q, &out); err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// UserByLogin fetches a user's profile, primarily for the location field.
func (c *Client) UserByLogin(ctx context.Context, login string) (User, error) {
	var out User
	if _, err := c.getJSON(ctx, "/users/"+url.PathEscape(login), nil, &out); err != nil {
		return User{}, err
	}
	return out, nil
}
