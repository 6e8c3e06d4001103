package service

import (
	"context"
	"sync"
	"sync/atomic"

	"gitcensus/internal/adapters/ingest/github"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/services/census/domain"
)

// expand fans out over the discovered repos and collects each one's
// qualified contributors into harvest work items. A repo whose contributor
// listing fails contributes nothing; the rest of the run proceeds.
func (s *Service) expand(ctx context.Context, repos []domain.Entity) ([]domain.WorkItem, int) {
	var (
		mu    sync.Mutex
		items []domain.WorkItem
		fails int64
		wg    sync.WaitGroup
	)
	sem := make(chan struct{}, s.Cfg.ExpandWorkers)

	for _, repo := range repos {
		sem <- struct{}{}
		wg.Add(1)
		go func(repo domain.Entity) {
			defer func() { <-sem; wg.Done() }()

			contribs, err := s.contributors(ctx, repo)
			if err != nil {
				logger.C(ctx).Warn().Err(err).Str("repo", repo.FullName).Msg("census: contributor listing failed")
				atomic.AddInt64(&fails, 1)
				if len(contribs) == 0 {
					return
				}
				// partial pages are still usable
			}
			logger.C(ctx).Info().
				Str("repo", repo.FullName).
				Str("category", string(repo.Category)).
				Int("contributors", len(contribs)).
				Msg("census: repository expanded")

			mu.Lock()
			for _, c := range contribs {
				items = append(items, domain.WorkItem{Repo: repo, Contributor: c})
			}
			mu.Unlock()
		}(repo)
	}
	wg.Wait()
	return items, int(fails)
}

// contributors pages through a repo's contributor list, keeping those at or
// above the contribution floor, up to the per-repo cap.
func (s *Service) contributors(ctx context.Context, repo domain.Entity) ([]domain.Contributor, error) {
	fetch := func(ctx context.Context, page, perPage int) ([]github.Contributor, error) {
		return s.Hub.Contributors(ctx, repo.OwnerLogin, repo.Name, page, perPage)
	}
	keep := func(c github.Contributor) bool { return c.Contributions >= s.Cfg.MinContributions }

	raw, err := github.Collect(ctx, fetch, 100, s.Cfg.MaxContributors, s.Cfg.ContribDelay, s.sleep, keep)
	out := make([]domain.Contributor, 0, len(raw))
	for _, c := range raw {
		out = append(out, domain.Contributor{Login: c.Login, Contributions: c.Contributions})
	}
	return out, err
}
