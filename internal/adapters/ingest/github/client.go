package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "gitcensus/internal/platform/errors"
	"gitcensus/internal/platform/logger"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "gitcensus-harvest"
	defaultTimeout   = 30 * time.Second
	defaultRetries   = 5
	defaultRetryBase = 500 * time.Millisecond
	defaultRetryCap  = 30 * time.Second
	defaultMargin    = 2 * time.Second
)

// Options configures a Client. Zero values fall back to sane defaults.
type Options struct {
	BaseURL   string
	Token     string
	UserAgent string
	Timeout   time.Duration

	// MaxRetries bounds transient-failure retries (network errors and 5xx).
	// Quota cooldowns do not count against it.
	MaxRetries int
	RetryBase  time.Duration
	RetryCap   time.Duration

	// SafetyMargin pads every quota-reset wait to absorb clock skew.
	SafetyMargin time.Duration

	// RatePerSec throttles outbound requests across all workers; 0 disables
	// pacing. Burst defaults to 1 when pacing is on.
	RatePerSec float64
	Burst      int

	HTTPClient *http.Client
}

func (o *Options) normalize() {
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultRetries
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.RetryCap <= 0 {
		o.RetryCap = defaultRetryCap
	}
	if o.SafetyMargin <= 0 {
		o.SafetyMargin = defaultMargin
	}
	if o.Burst <= 0 {
		o.Burst = 1
	}
}

// Client talks to the GitHub REST API v3 and is safe for concurrent use.
type Client struct {
	base   string
	token  string
	ua     string
	http   *http.Client
	zl     *logger.Logger
	budget *Budget
	pacer  *rate.Limiter

	maxRetries int
	retryBase  time.Duration
	retryCap   time.Duration
	margin     time.Duration

	// seams for tests
	now   func() time.Time
	sleep func(time.Duration)
}

// New builds a Client from opts.
func New(opts Options) *Client {
	opts.normalize()
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	var pacer *rate.Limiter
	if opts.RatePerSec > 0 {
		pacer = rate.NewLimiter(rate.Limit(opts.RatePerSec), opts.Burst)
	}
	return &Client{
		base:       opts.BaseURL,
		token:      opts.Token,
		ua:         opts.UserAgent,
		http:       hc,
		zl:         logger.Named("github"),
		budget:     NewBudget(),
		pacer:      pacer,
		maxRetries: opts.MaxRetries,
		retryBase:  opts.RetryBase,
		retryCap:   opts.RetryCap,
		margin:     opts.SafetyMargin,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// Budget exposes the advisory per-class quota snapshots.
func (c *Client) Budget() *Budget { return c.budget }

// get issues one GET and returns the raw body and headers.
//
// It is the single choke point for pacing, quota cooldowns, and retries:
//   - advisory budget says the pool is drained -> sleep to reset first
//   - 403/429 with exhausted headers or Retry-After -> sleep and reissue,
//     without burning a retry attempt
//   - network errors and 5xx -> capped exponential backoff up to MaxRetries
//   - other statuses map onto coded errors and are not retried
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, http.Header, error) {
	class := ClassFor(path)
	attempts := 0
	for {
		c.waitBudget(class)
		if c.pacer != nil {
			if err := c.pacer.Wait(ctx); err != nil {
				return nil, nil, perr.Wrap(err, perr.ErrorCodeUnavailable, "github: pacing interrupted")
			}
		}

		req, err := c.newRequest(ctx, path, q)
		if err != nil {
			return nil, nil, err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			attempts++
			if attempts > c.maxRetries {
				return nil, nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "github: GET %s: gave up after %d attempts", path, attempts)
			}
			c.zl.Warn().Err(err).Str("path", path).Int("attempt", attempts).Msg("request failed, backing off")
			c.backoff(attempts)
			continue
		}

		remaining, reset, haveRate := parseRateHeaders(resp.Header)
		if haveRate {
			c.budget.Observe(class, Quota{Remaining: remaining, Reset: reset})
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			body, rerr := readBody(resp)
			if rerr != nil {
				attempts++
				if attempts > c.maxRetries {
					return nil, nil, perr.Wrapf(rerr, perr.ErrorCodeUnavailable, "github: GET %s: body read failed after %d attempts", path, attempts)
				}
				c.backoff(attempts)
				continue
			}
			return body, resp.Header, nil

		case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
			exhausted := haveRate && remaining == 0
			ra := retryAfter(resp.Header)
			drainAndClose(resp.Body)
			if exhausted || ra > 0 {
				wait := ra
				if exhausted {
					wait = computeWait(c.now(), reset, c.margin)
				}
				c.cooldown(class, wait)
				continue
			}
			return nil, nil, perr.Forbiddenf("github: GET %s: forbidden (not a rate limit)", path)

		case resp.StatusCode == http.StatusNotFound:
			drainAndClose(resp.Body)
			return nil, nil, perr.NotFoundf("github: GET %s: not found", path)

		case resp.StatusCode == http.StatusUnprocessableEntity:
			tail := bodyTail(resp.Body, 512)
			drainAndClose(resp.Body)
			return nil, nil, perr.InvalidArgf("github: GET %s: unprocessable: %s", path, tail)

		case resp.StatusCode >= 500:
			drainAndClose(resp.Body)
			attempts++
			if attempts > c.maxRetries {
				return nil, nil, perr.Unavailablef("github: GET %s: status %d after %d attempts", path, resp.StatusCode, attempts)
			}
			c.zl.Warn().Str("path", path).Int("status", resp.StatusCode).Int("attempt", attempts).Msg("server error, backing off")
			c.backoff(attempts)
			continue

		default:
			tail := bodyTail(resp.Body, 512)
			drainAndClose(resp.Body)
			return nil, nil, perr.Newf(perr.ErrorCodeUnknown, "github: GET %s: unexpected status %d: %s", path, resp.StatusCode, tail)
		}
	}
}

// getJSON decodes a GET response body into v.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, v any) (http.Header, error) {
	body, h, err := c.get(ctx, path, q)
	if err != nil {
		return h, err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return h, perr.Wrapf(err, perr.ErrorCodeUnknown, "github: GET %s: decode", path)
	}
	return h, nil
}

func (c *Client) newRequest(ctx context.Context, path string, q url.Values) (*http.Request, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "github: build request %s", path)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", c.ua)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// waitBudget sleeps until reset when the last observed snapshot for class
// shows zero remaining. Each worker checks at issue time; there is no global
// pause, so a snapshot raced by another worker just means one extra 403
// round-trip before the authoritative cooldown path kicks in.
func (c *Client) waitBudget(class LimitClass) {
	q, ok := c.budget.Snapshot(class)
	if !ok || q.Remaining > 0 {
		return
	}
	now := c.now()
	if !now.Before(q.Reset) {
		return
	}
	c.cooldown(class, computeWait(now, q.Reset, c.margin))
}

// cooldown sleeps for wait, logging progress on long waits so the operator
// can tell a quota pause from a hang.
func (c *Client) cooldown(class LimitClass, wait time.Duration) {
	c.zl.Warn().Str("class", string(class)).Dur("wait", wait).Msg("quota exhausted, cooling down")
	const tick = time.Minute
	for wait > tick {
		c.sleep(tick)
		wait -= tick
		c.zl.Info().Str("class", string(class)).Str("left", wait.Round(time.Second).String()).Msg("still cooling down")
	}
	c.sleep(wait)
}

// backoff sleeps base<<(attempt-1), capped.
func (c *Client) backoff(attempt int) {
	d := c.retryBase << uint(attempt-1)
	if d <= 0 || d > c.retryCap {
		d = c.retryCap
	}
	c.sleep(d)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return b, nil
}
