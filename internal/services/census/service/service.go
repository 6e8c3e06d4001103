// Package service implements the census run: discover repos, expand to
// contributors, harvest commits, hand rows to the sink
package service

import (
	"context"
	"time"

	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/services/census/domain"
)

// Config holds the knobs for one census run
type Config struct {
	// Discovery
	SearchQuery string // defaults to "stars:>1000"
	TargetRepos int    // repos to discover; <=0 -> 10
	MinCommits  int    // history floor per repo; <=0 -> 1000

	// Expansion
	MaxContributors  int // per repo cap; <=0 -> 50
	MinContributions int // qualification floor; <=0 -> 100
	ExpandWorkers    int // concurrent repos during expansion; <=0 -> 50

	// Harvest
	MaxCommits int // per contributor cap; <=0 -> 5
	Workers    int // concurrent contributors during harvest; <=0 -> 5

	// Courtesy gaps between paginated calls
	SearchDelay  time.Duration // between search pages; <0 -> 1s
	ContribDelay time.Duration // between contributor pages; <0 -> 100ms
	CommitDelay  time.Duration // between commit pages; <0 -> 200ms
}

func (c *Config) normalize() {
	if c.SearchQuery == "" {
		c.SearchQuery = "stars:>1000"
	}
	if c.TargetRepos <= 0 {
		c.TargetRepos = 10
	}
	if c.MinCommits <= 0 {
		c.MinCommits = 1000
	}
	if c.MaxContributors <= 0 {
		c.MaxContributors = 50
	}
	if c.MinContributions <= 0 {
		c.MinContributions = 100
	}
	if c.ExpandWorkers <= 0 {
		c.ExpandWorkers = 50
	}
	if c.MaxCommits <= 0 {
		c.MaxCommits = 5
	}
	if c.Workers <= 0 {
		c.Workers = 5
	}
	if c.SearchDelay < 0 {
		c.SearchDelay = 0
	} else if c.SearchDelay == 0 {
		c.SearchDelay = time.Second
	}
	if c.ContribDelay == 0 {
		c.ContribDelay = 100 * time.Millisecond
	}
	if c.CommitDelay == 0 {
		c.CommitDelay = 200 * time.Millisecond
	}
}

// Service implements domain.RunnerPort
type Service struct {
	Hub  domain.HubPort
	Sink domain.SinkPort
	Cfg  Config

	// seam for tests
	sleep func(time.Duration)
}

// New constructs the census service
func New(hub domain.HubPort, sink domain.SinkPort, cfg Config) *Service {
	if hub == nil {
		panic("census.Service requires a non nil HubPort")
	}
	if sink == nil {
		panic("census.Service requires a non nil SinkPort")
	}
	cfg.normalize()
	return &Service{Hub: hub, Sink: sink, Cfg: cfg, sleep: time.Sleep}
}

// Run executes the full pipeline and writes the rows to the sink.
// Per-item failures are logged and dropped, and an empty or failed discovery
// still produces (empty) output; Run only errors when the sink write fails.
func (s *Service) Run(ctx context.Context) (domain.Summary, error) {
	start := time.Now()
	zl := logger.C(ctx)

	zl.Info().
		Str("query", s.Cfg.SearchQuery).
		Int("target_repos", s.Cfg.TargetRepos).
		Int("min_commits", s.Cfg.MinCommits).
		Msg("census: discovering repositories")

	repos := s.discover(ctx)
	if len(repos) == 0 {
		zl.Warn().Msg("census: no repositories matched the discovery filters, producing an empty result")
	}
	zl.Info().Int("repos", len(repos)).Msg("census: expanding contributors")

	items, expandFails := s.expand(ctx, repos)
	zl.Info().Int("contributors", len(items)).Msg("census: harvesting commits")

	rows, hs := s.harvest(ctx, items)

	if err := s.Sink.Write(ctx, rows); err != nil {
		return domain.Summary{}, perr.Wrap(err, perr.ErrorCodeDB, "census: sink write")
	}

	// a login can qualify on several repos; the summary reports people
	logins := make(map[string]struct{}, len(items))
	for _, it := range items {
		logins[it.Contributor.Login] = struct{}{}
	}

	sum := domain.Summary{
		Repos:             len(repos),
		Contributors:      len(logins),
		Rows:              len(rows),
		WithCommits:       hs.withCommits,
		Sentinels:         hs.sentinels,
		DroppedNoLocation: hs.droppedNoLocation,
		Failures:          expandFails + hs.failures,
		Elapsed:           time.Since(start),
	}
	zl.Info().
		Int("rows", sum.Rows).
		Int("with_commits", sum.WithCommits).
		Int("sentinels", sum.Sentinels).
		Int("dropped_no_location", sum.DroppedNoLocation).
		Int("failures", sum.Failures).
		Dur("elapsed", sum.Elapsed).
		Msg("census: run complete")
	return sum, nil
}
