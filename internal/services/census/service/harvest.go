package service

import (
	"context"
	"sync"
	"sync/atomic"

	"gitcensus/internal/adapters/ingest/github"
	"gitcensus/internal/core/normalize"
	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"
	pstr "gitcensus/internal/platform/strings"
	"gitcensus/internal/services/census/domain"
)

// unknownLocation is recorded when the profile lookup itself fails; it is
// distinct from a resolved profile with no location, which drops the item.
const unknownLocation = "Unknown"

type harvestStats struct {
	withCommits       int
	sentinels         int
	droppedNoLocation int
	failures          int
}

// harvest fans out over the work items and turns each into output rows:
// one per harvested commit, or a single sentinel row when the contributor's
// location resolved but no commits could be listed.
func (s *Service) harvest(ctx context.Context, items []domain.WorkItem) ([]domain.Row, harvestStats) {
	var (
		mu   sync.Mutex
		rows []domain.Row
		hs   harvestStats
		wg   sync.WaitGroup
		done int64
	)
	sem := make(chan struct{}, s.Cfg.Workers)
	total := len(items)

	for _, item := range items {
		sem <- struct{}{}
		wg.Add(1)
		go func(item domain.WorkItem) {
			defer func() { <-sem; wg.Done() }()

			got, dropped, failed := s.harvestOne(ctx, item)

			mu.Lock()
			rows = append(rows, got...)
			switch {
			case failed:
				hs.failures++
			case dropped:
				hs.droppedNoLocation++
			case len(got) == 1 && got[0].CommitSHA == domain.Missing:
				hs.sentinels++
			default:
				hs.withCommits += len(got)
			}
			mu.Unlock()

			if n := atomic.AddInt64(&done, 1); n%5 == 0 || int(n) == total {
				logger.C(ctx).Info().Int64("done", n).Int("total", total).Msg("census: harvest progress")
			}
		}(item)
	}
	wg.Wait()
	return rows, hs
}

// harvestOne processes a single contributor of a single repo.
func (s *Service) harvestOne(ctx context.Context, item domain.WorkItem) (rows []domain.Row, dropped, failed bool) {
	zl := logger.C(ctx)
	login := item.Contributor.Login

	location := unknownLocation
	user, err := s.Hub.UserByLogin(ctx, login)
	switch {
	case err == nil:
		// a resolved profile with no public location carries no signal for
		// the census; drop the contributor entirely
		if pstr.Deref(user.Location) == "" {
			zl.Debug().Str("login", login).Msg("census: no public location, dropping contributor")
			return nil, true, false
		}
		location = *user.Location
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		zl.Debug().Str("login", login).Msg("census: profile gone, dropping contributor")
		return nil, true, false
	default:
		zl.Warn().Err(err).Str("login", login).Msg("census: profile lookup failed, recording unknown location")
	}

	commits, err := s.commits(ctx, item.Repo, login)
	if err != nil {
		zl.Warn().Err(err).Str("repo", item.Repo.FullName).Str("login", login).Msg("census: commit listing failed")
		if len(commits) == 0 && !perr.IsCode(err, perr.ErrorCodeNotFound) {
			failed = true
		}
	}

	base := domain.Row{
		RepoID:              item.Repo.RepoID,
		RepoName:            item.Repo.FullName,
		RepoType:            string(item.Repo.Category),
		ContributorLogin:    login,
		ContributorLocation: location,
		Contributions:       item.Contributor.Contributions,
	}

	if len(commits) == 0 {
		if failed {
			return nil, false, true
		}
		row := base
		row.CommitSHA = domain.Missing
		row.CommitDate = domain.Missing
		row.CommitMessage = domain.Missing
		return []domain.Row{row}, false, false
	}

	rows = make([]domain.Row, 0, len(commits))
	for _, c := range commits {
		row := base
		row.CommitSHA = normalize.ShortSHA(c.SHA)
		row.CommitDate = normalize.FormatDate(c.Commit.Author.Date)
		row.CommitMessage = normalize.CleanMessage(c.Commit.Message)
		rows = append(rows, row)
	}
	return rows, false, false
}

// commits pages through a contributor's commits in one repo, up to the cap.
func (s *Service) commits(ctx context.Context, repo domain.Entity, author string) ([]github.Commit, error) {
	fetch := func(ctx context.Context, page, perPage int) ([]github.Commit, error) {
		return s.Hub.CommitsByAuthor(ctx, repo.OwnerLogin, repo.Name, author, page, perPage)
	}
	return github.Collect(ctx, fetch, 10, s.Cfg.MaxCommits, s.Cfg.CommitDelay, s.sleep, nil)
}
