package module

import (
	"time"

	"github.com/go-playground/validator/v10"

	"gitcensus/internal/platform/config"
	perr "gitcensus/internal/platform/errors"
)

// Options holds configuration options for the census service
type Options struct {
	// Discovery
	Query      string `validate:"required"`
	Repos      int    `validate:"gt=0"`
	MinCommits int    `validate:"gt=0"`

	// Expansion
	MaxContributors  int `validate:"gt=0"`
	MinContributions int `validate:"gt=0"`
	ExpandWorkers    int `validate:"gt=0,lte=128"`

	// Harvest
	MaxCommits int `validate:"gt=0"`
	Workers    int `validate:"gt=0,lte=64"`

	// Output
	Sink    string `validate:"oneof=csv postgres clickhouse"`
	OutPath string
	Table   string `validate:"required"`

	// Upstream client
	Token        string
	MaxRetries   int           `validate:"gt=0"`
	RetryBase    time.Duration `validate:"gt=0"`
	SafetyMargin time.Duration `validate:"gt=0"`
	RatePerSec   float64       `validate:"gte=0"`
	Burst        int           `validate:"gte=0"`
}

// FromConfig reads the census options from config with CENSUS_ prefix.
// The API token falls back to the conventional GITHUB_TOKEN / GH_TOKEN vars.
func FromConfig(cfg config.Conf) Options {
	cs := cfg.Prefix("CENSUS_")

	token := cs.MayString("TOKEN", "")
	if token == "" {
		token = cfg.MayString("GITHUB_TOKEN", "")
	}
	if token == "" {
		token = cfg.MayString("GH_TOKEN", "")
	}

	return Options{
		Query:            cs.MayString("QUERY", "stars:>1000"),
		Repos:            cs.MayInt("REPOS", 10),
		MinCommits:       cs.MayInt("MIN_COMMITS", 1000),
		MaxContributors:  cs.MayInt("MAX_CONTRIBUTORS", 50),
		MinContributions: cs.MayInt("MIN_CONTRIBUTIONS", 100),
		ExpandWorkers:    cs.MayInt("EXPAND_WORKERS", 50),
		MaxCommits:       cs.MayInt("MAX_COMMITS", 5),
		Workers:          cs.MayInt("WORKERS", 5),
		Sink:             cs.MayEnum("SINK", "csv", "csv", "postgres", "clickhouse"),
		OutPath:          cs.MayString("OUT", ""),
		Table:            cs.MayString("TABLE", "census_rows"),
		Token:            token,
		MaxRetries:       cs.MayInt("RETRIES", 5),
		RetryBase:        cs.MayDuration("RETRY_BASE", 500*time.Millisecond),
		SafetyMargin:     cs.MayDuration("SAFETY_MARGIN", 2*time.Second),
		RatePerSec:       cs.MayFloat64("RATE_PER_SEC", 0),
		Burst:            cs.MayInt("BURST", 1),
	}
}

var validate = validator.New()

// Validate checks the options against their struct tags
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return perr.Wrap(err, perr.ErrorCodeValidation, "census: bad options")
	}
	return nil
}
