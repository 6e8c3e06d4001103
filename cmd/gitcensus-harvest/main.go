// Command gitcensus-harvest runs one census: discover popular technical
// repositories, expand them to their qualified contributors, harvest commit
// samples, and write the result to the selected sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/uuid"

	"gitcensus/internal/core/version"
	"gitcensus/internal/modkit"
	"gitcensus/internal/platform/config"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/platform/store"
	censusmod "gitcensus/internal/services/census/module"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	var (
		fQuery    = flag.String("query", "", "search query for discovery (default stars:>1000)")
		fRepos    = flag.Int("repos", 0, "number of repositories to harvest")
		fMinCom   = flag.Int("min-commits", 0, "minimum commit history per repository")
		fMaxContr = flag.Int("max-contributors", 0, "contributor cap per repository")
		fMinContr = flag.Int("min-contributions", 0, "contribution floor per contributor")
		fMaxCom   = flag.Int("max-commits", 0, "commit cap per contributor")
		fWorkers  = flag.Int("workers", 0, "harvest worker count")
		fSink     = flag.String("sink", "", "output sink: csv | postgres | clickhouse")
		fOut      = flag.String("out", "", "csv output path (default timestamped file)")
		fTable    = flag.String("table", "", "table name for database sinks")
		fRPS      = flag.Float64("rps", 0, "outbound request pacing, requests per second (0 = off)")
		fToken    = flag.String("token", "", "GitHub API token (default GITHUB_TOKEN / GH_TOKEN)")
	)
	flag.Parse()

	logger.Init(logger.FromEnv())
	l := logger.Get()

	bi := version.Info()
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Str("built", bi.Date).Msg("gitcensus-harvest starting")

	// surface flags to the module, which reads CENSUS_* from config
	mustSetEnv("CENSUS_QUERY", *fQuery)
	mustSetEnv("CENSUS_SINK", *fSink)
	mustSetEnv("CENSUS_OUT", *fOut)
	mustSetEnv("CENSUS_TABLE", *fTable)
	mustSetEnv("CENSUS_TOKEN", *fToken)
	for env, v := range map[string]int{
		"CENSUS_REPOS":             *fRepos,
		"CENSUS_MIN_COMMITS":       *fMinCom,
		"CENSUS_MAX_CONTRIBUTORS":  *fMaxContr,
		"CENSUS_MIN_CONTRIBUTIONS": *fMinContr,
		"CENSUS_MAX_COMMITS":       *fMaxCom,
		"CENSUS_WORKERS":           *fWorkers,
	} {
		if v > 0 {
			mustSetEnv(env, strconv.Itoa(v))
		}
	}
	if *fRPS > 0 {
		mustSetEnv("CENSUS_RATE_PER_SEC", fmt.Sprintf("%g", *fRPS))
	}

	root := config.New()
	deps := modkit.Deps{Cfg: root, Log: *l}

	ctx := logger.WithRun(context.Background(), uuid.NewString())

	// database sinks need an open store; the csv default does not
	switch root.Prefix("CENSUS_").MayEnum("SINK", "csv", "csv", "postgres", "clickhouse") {
	case "postgres":
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		st, err := store.Open(ctx, store.Config{
			AppName: "gitcensus-harvest",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		}, store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer closeStore(ctx, st)
		deps.PG = st.PG
	case "clickhouse":
		chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
		st, err := store.Open(ctx, store.Config{
			AppName: "gitcensus-harvest",
			CH: store.CHConfig{
				Enabled: true,
				URL:     chCfg.MustString("DBURL"),
			},
		}, store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer closeStore(ctx, st)
		deps.CH = st.CH
	}

	cm, err := censusmod.New(deps)
	if err != nil {
		l.Fatal().Err(err).Msg("census module wiring failed")
	}

	ports := cm.Ports().(censusmod.Ports)
	sum, err := ports.Runner.Run(ctx)
	if err != nil {
		l.Fatal().Err(err).Msg("census run failed")
	}

	l.Info().
		Int("repos", sum.Repos).
		Int("contributors", sum.Contributors).
		Int("rows", sum.Rows).
		Int("with_commits", sum.WithCommits).
		Int("sentinels", sum.Sentinels).
		Int("dropped_no_location", sum.DroppedNoLocation).
		Int("failures", sum.Failures).
		Dur("elapsed", sum.Elapsed).
		Msg("harvest finished")
}

func closeStore(ctx context.Context, st *store.Store) {
	if err := st.Close(ctx); err != nil {
		logger.Get().Error().Err(err).Msg("failed to close store")
	}
}
