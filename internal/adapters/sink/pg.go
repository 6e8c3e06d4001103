package sink

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/platform/store"
	"gitcensus/internal/services/census/domain"
)

// insertChunk keeps a single INSERT's parameter count well under the
// postgres wire limit (10 columns per row).
const insertChunk = 500

var identRe = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Postgres appends rows to a table, creating it on first write.
type Postgres struct {
	db    store.TxRunner
	table string
}

// NewPostgres builds a postgres sink writing to table.
func NewPostgres(db store.TxRunner, table string) (*Postgres, error) {
	if db == nil {
		return nil, perr.New(perr.ErrorCodeValidation, "sink: postgres requires an open store")
	}
	if !identRe.MatchString(table) {
		return nil, perr.Newf(perr.ErrorCodeValidation, "sink: bad table name %q", table)
	}
	return &Postgres{db: db, table: table}, nil
}

func (p *Postgres) ddl() string {
	return fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			repo_id              BIGINT       NOT NULL,
			repo_name            TEXT         NOT NULL,
			repo_type            TEXT         NOT NULL,
			contributor_login    TEXT         NOT NULL,
			contributor_location TEXT         NOT NULL,
			contributions        INTEGER      NOT NULL,
			commit_sha           TEXT         NOT NULL,
			commit_date          TEXT         NOT NULL,
			commit_message       TEXT         NOT NULL,
			run_id               TEXT         NOT NULL,
			collected_at         TIMESTAMPTZ  NOT NULL DEFAULT now()
		)`, p.table)
}

// Write inserts all rows inside one transaction, chunked.
func (p *Postgres) Write(ctx context.Context, rows []domain.Row) error {
	zl := logger.C(ctx)
	if len(rows) == 0 {
		zl.Warn().Msg("sink: no rows to save")
		return nil
	}

	runID := logger.RunID(ctx)
	err := p.db.Tx(ctx, func(q store.RowQuerier) error {
		if _, err := store.Exec(ctx, q, p.ddl()); err != nil {
			return err
		}
		for lo := 0; lo < len(rows); lo += insertChunk {
			hi := min(lo+insertChunk, len(rows))
			sql, args := p.insertSQL(rows[lo:hi], runID)
			if _, err := store.Exec(ctx, q, sql, args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "sink: postgres write to %s", p.table)
	}

	zl.Info().Str("table", p.table).Int("rows", len(rows)).Msg("sink: postgres saved")
	return nil
}

func (p *Postgres) insertSQL(rows []domain.Row, runID string) (string, []any) {
	var sb strings.Builder
	fmt.Fprintf(&sb, `INSERT INTO %s
		(repo_id, repo_name, repo_type, contributor_login, contributor_location,
		 contributions, commit_sha, commit_date, commit_message, run_id) VALUES `, p.table)

	args := make([]any, 0, len(rows)*10)
	for i, r := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 10
		fmt.Fprintf(&sb, "($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10)
		args = append(args,
			r.RepoID, r.RepoName, r.RepoType, r.ContributorLogin, r.ContributorLocation,
			r.Contributions, r.CommitSHA, r.CommitDate, r.CommitMessage, runID,
		)
	}
	return sb.String(), args
}
