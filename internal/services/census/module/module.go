// Package module wires the census service from shared deps and config
package module

import (
	"gitcensus/internal/adapters/ingest/github"
	"gitcensus/internal/adapters/sink"
	"gitcensus/internal/modkit"
	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/services/census/domain"
	"gitcensus/internal/services/census/service"
)

// Ports defines the census module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the census module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the census module, wiring the GitHub adapter and the
// selected sink into the service using config from deps.Cfg
func New(deps modkit.Deps) (*Module, error) {
	opts := FromConfig(deps.Cfg)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Token == "" {
		deps.Log.Warn().Msg("census: no API token configured, unauthenticated quotas are far lower")
	}

	hub := github.New(github.Options{
		Token:        opts.Token,
		MaxRetries:   opts.MaxRetries,
		RetryBase:    opts.RetryBase,
		SafetyMargin: opts.SafetyMargin,
		RatePerSec:   opts.RatePerSec,
		Burst:        opts.Burst,
	})

	out, err := newSink(deps, opts)
	if err != nil {
		return nil, err
	}

	svc := service.New(hub, out, service.Config{
		SearchQuery:      opts.Query,
		TargetRepos:      opts.Repos,
		MinCommits:       opts.MinCommits,
		MaxContributors:  opts.MaxContributors,
		MinContributions: opts.MinContributions,
		ExpandWorkers:    opts.ExpandWorkers,
		MaxCommits:       opts.MaxCommits,
		Workers:          opts.Workers,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Runner: svc}
	return m, nil
}

// Name returns the module name
func (m *Module) Name() string { return "census" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

func newSink(deps modkit.Deps, opts Options) (domain.SinkPort, error) {
	switch opts.Sink {
	case "csv":
		return sink.NewCSV(opts.OutPath), nil
	case "postgres":
		return sink.NewPostgres(deps.PG, opts.Table)
	case "clickhouse":
		return sink.NewClickhouse(deps.CH, opts.Table)
	default:
		return nil, perr.Newf(perr.ErrorCodeValidation, "census: unknown sink %q", opts.Sink)
	}
}
