// Package sink persists finished census runs. Each sink takes the whole row
// set in one shot; the CSV file is the default, postgres and clickhouse are
// for runs that feed downstream analysis.
package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/services/census/domain"
)

// header is the column order of the output table, shared by all sinks.
var header = []string{
	"repo_id", "repo_name", "repo_type", "contributor_login",
	"contributor_location", "contributions", "commit_sha",
	"commit_date", "commit_message",
}

// CSV writes rows to a local file.
type CSV struct {
	path string
}

// NewCSV builds a CSV sink. An empty path picks a timestamped file name in
// the working directory.
func NewCSV(path string) *CSV {
	if path == "" {
		path = fmt.Sprintf("github_commits_analysis_%s.csv", time.Now().Format("20060102_150405"))
	}
	return &CSV{path: path}
}

// Path is where Write will put the file.
func (c *CSV) Path() string { return c.path }

// Write dumps all rows with a header. An empty run produces no file.
func (c *CSV) Write(ctx context.Context, rows []domain.Row) error {
	zl := logger.C(ctx)
	if len(rows) == 0 {
		zl.Warn().Msg("sink: no rows to save")
		return nil
	}

	f, err := os.Create(c.path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "sink: create %s", c.path)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "sink: write header")
	}
	for _, r := range rows {
		rec := []string{
			strconv.FormatInt(r.RepoID, 10),
			r.RepoName,
			r.RepoType,
			r.ContributorLogin,
			r.ContributorLocation,
			strconv.Itoa(r.Contributions),
			r.CommitSHA,
			r.CommitDate,
			r.CommitMessage,
		}
		if err := w.Write(rec); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "sink: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "sink: flush")
	}
	if err := f.Close(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "sink: close %s", c.path)
	}

	zl.Info().Str("path", c.path).Int("rows", len(rows)).Msg("sink: csv saved")
	return nil
}
