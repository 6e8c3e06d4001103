package service

import (
	"context"

	"gitcensus/internal/adapters/ingest/github"
	"gitcensus/internal/core/classify"
	"gitcensus/internal/platform/logger"
	pstr "gitcensus/internal/platform/strings"
	"gitcensus/internal/services/census/domain"
)

// discover walks the search results most-starred first and keeps technical
// repos with enough history, preserving search order. It over-fetches each
// page because the filters reject a large share of candidates. A failed
// search page ends discovery with whatever was accepted so far; the run
// carries on and still produces output.
func (s *Service) discover(ctx context.Context) []domain.Entity {
	zl := logger.C(ctx)
	perPage := min(50, s.Cfg.TargetRepos*3)

	var repos []domain.Entity
	for page := 1; len(repos) < s.Cfg.TargetRepos; page++ {
		if page > 1 && s.Cfg.SearchDelay > 0 {
			s.sleep(s.Cfg.SearchDelay)
		}

		res, err := s.Hub.SearchRepositories(ctx, s.Cfg.SearchQuery, "stars", "desc", page, perPage)
		if err != nil {
			zl.Warn().Err(err).Int("page", page).Msg("census: search page failed, stopping discovery early")
			break
		}

		for _, repo := range res.Items {
			ent, ok := s.vet(ctx, repo)
			if !ok {
				continue
			}
			repos = append(repos, ent)
			zl.Info().
				Str("repo", ent.FullName).
				Str("language", ent.Language).
				Int("commits", ent.CommitCount).
				Int("stars", ent.Stars).
				Msg("census: repository accepted")
			if len(repos) >= s.Cfg.TargetRepos {
				break
			}
		}

		if len(res.Items) < perPage {
			break
		}
		if github.SearchCeiling(page, perPage) {
			zl.Warn().Int("page", page).Msg("census: hit the search result ceiling, stopping discovery")
			break
		}
		zl.Info().Int("found", len(repos)).Int("target", s.Cfg.TargetRepos).Msg("census: discovery progress")
	}
	return repos
}

// vet applies the technical filter and the history floor to one candidate.
func (s *Service) vet(ctx context.Context, repo github.Repo) (domain.Entity, bool) {
	zl := logger.C(ctx)
	meta := classifyMeta(repo)

	if !classify.IsTechnical(meta) {
		zl.Debug().Str("repo", repo.FullName).Msg("census: skipped, not a software project")
		return domain.Entity{}, false
	}

	count, err := s.Hub.CommitCount(ctx, repo.Owner.Login, repo.Name)
	if err != nil {
		zl.Warn().Err(err).Str("repo", repo.FullName).Msg("census: commit count probe failed, skipping")
		return domain.Entity{}, false
	}
	if count < s.Cfg.MinCommits {
		zl.Debug().Str("repo", repo.FullName).Int("commits", count).Msg("census: skipped, too little history")
		return domain.Entity{}, false
	}

	return domain.Entity{
		RepoID:      repo.ID,
		FullName:    repo.FullName,
		Name:        repo.Name,
		OwnerLogin:  repo.Owner.Login,
		Language:    pstr.Deref(repo.Language),
		Stars:       repo.Stargazers,
		CommitCount: count,
		Category:    classify.Classify(meta),
	}, true
}

// classifyMeta maps a search payload onto classifier input. Search results
// carry no organization object, so that corporate signal stays empty here
// and the owner allowlist does the work.
func classifyMeta(repo github.Repo) classify.Meta {
	return classify.Meta{
		Name:        repo.Name,
		FullName:    repo.FullName,
		Description: repo.Description,
		Language:    repo.Language,
		OwnerLogin:  repo.Owner.Login,
		Topics:      repo.Topics,
	}
}
