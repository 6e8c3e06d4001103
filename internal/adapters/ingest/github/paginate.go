package github

import (
	"context"
	"time"
)

// PageFunc fetches one page (1-based) of up to perPage items.
type PageFunc[T any] func(ctx context.Context, page, perPage int) ([]T, error)

// Collect walks pages in order until it has max items, a page comes back
// short or empty, or fetch fails. On failure it returns what it gathered so
// far alongside the error; callers decide whether partial results are usable.
//
// keep filters items before they count toward max; pass nil to keep all.
// delay, when positive, is slept between page fetches as a courtesy gap.
func Collect[T any](ctx context.Context, fetch PageFunc[T], perPage, max int, delay time.Duration, sleep func(time.Duration), keep func(T) bool) ([]T, error) {
	if sleep == nil {
		sleep = time.Sleep
	}
	var out []T
	for page := 1; ; page++ {
		if page > 1 && delay > 0 {
			sleep(delay)
		}
		items, err := fetch(ctx, page, perPage)
		if err != nil {
			return out, err
		}
		for _, it := range items {
			if keep != nil && !keep(it) {
				continue
			}
			out = append(out, it)
			if len(out) >= max {
				return out, nil
			}
		}
		if len(items) < perPage {
			return out, nil
		}
	}
}
