package sink

import (
	"context"

	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/platform/store"
	"gitcensus/internal/services/census/domain"
)

// Clickhouse batches rows into a columnar table via the store seam.
// The table is expected to exist with the nine export columns plus
// run_id; clickhouse DDL is an operator concern.
type Clickhouse struct {
	ch    store.Clickhouse
	table string
}

// NewClickhouse builds a clickhouse sink writing to table.
func NewClickhouse(ch store.Clickhouse, table string) (*Clickhouse, error) {
	if ch == nil {
		return nil, perr.New(perr.ErrorCodeValidation, "sink: clickhouse requires an open store")
	}
	if !identRe.MatchString(table) {
		return nil, perr.Newf(perr.ErrorCodeValidation, "sink: bad table name %q", table)
	}
	return &Clickhouse{ch: ch, table: table}, nil
}

// Write sends all rows as one batch.
func (c *Clickhouse) Write(ctx context.Context, rows []domain.Row) error {
	zl := logger.C(ctx)
	if len(rows) == 0 {
		zl.Warn().Msg("sink: no rows to save")
		return nil
	}

	runID := logger.RunID(ctx)
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.RepoID, r.RepoName, r.RepoType, r.ContributorLogin, r.ContributorLocation,
			int32(r.Contributions), r.CommitSHA, r.CommitDate, r.CommitMessage, runID,
		})
	}
	if err := c.ch.Insert(ctx, c.table, data); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "sink: clickhouse write to %s", c.table)
	}

	zl.Info().Str("table", c.table).Int("rows", len(rows)).Msg("sink: clickhouse saved")
	return nil
}
