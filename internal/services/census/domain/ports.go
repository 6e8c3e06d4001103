package domain

import (
	"context"

	"gitcensus/internal/adapters/ingest/github"
)

// RunnerPort is the public port exposed by the module
type RunnerPort interface {
	Run(ctx context.Context) (Summary, error)
}

// HubPort is what the service needs from the GitHub API adapter
type HubPort interface {
	SearchRepositories(ctx context.Context, query, sort, order string, page, perPage int) (github.SearchResult, error)
	CommitCount(ctx context.Context, owner, name string) (int, error)
	Contributors(ctx context.Context, owner, name string, page, perPage int) ([]github.Contributor, error)
	CommitsByAuthor(ctx context.Context, owner, name, author string, page, perPage int) ([]github.Commit, error)
	UserByLogin(ctx context.Context, login string) (github.User, error)
}

// SinkPort persists a finished run's rows in one shot
type SinkPort interface {
	Write(ctx context.Context, rows []Row) error
}
