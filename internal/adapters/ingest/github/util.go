package github

import (
	"io"
	"net/http"
	"regexp"
	"strconv"
	"time"
)

// lastPageRe pulls the page number out of a Link header's rel="last" entry.
// GitHub emits page as the final query param before the closing bracket.
var lastPageRe = regexp.MustCompile(`page=(\d+)>; rel="last"`)

// lastPageFromLink returns the rel="last" page number, or 0 when the header
// is absent or carries no last link (single-page result).
func lastPageFromLink(link string) int {
	m := lastPageRe.FindStringSubmatch(link)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// parseRateHeaders reads X-RateLimit-Remaining and X-RateLimit-Reset.
// ok is false when either header is missing or malformed.
func parseRateHeaders(h http.Header) (remaining int, reset time.Time, ok bool) {
	rem := h.Get("X-RateLimit-Remaining")
	rst := h.Get("X-RateLimit-Reset")
	if rem == "" || rst == "" {
		return 0, time.Time{}, false
	}
	remaining, err := strconv.Atoi(rem)
	if err != nil {
		return 0, time.Time{}, false
	}
	epoch, err := strconv.ParseInt(rst, 10, 64)
	if err != nil {
		return 0, time.Time{}, false
	}
	return remaining, time.Unix(epoch, 0), true
}

// retryAfter reads a Retry-After header as a duration, 0 when absent.
func retryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// computeWait is how long to sleep until reset, padded by margin.
// A reset already in the past still yields the margin so we do not hammer
// the API on clock skew.
func computeWait(now, reset time.Time, margin time.Duration) time.Duration {
	d := reset.Sub(now) + margin
	if d < margin {
		return margin
	}
	return d
}

// drainAndClose consumes the remainder of a body so the transport can reuse
// the connection, then closes it.
func drainAndClose(rc io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 1<<16))
	_ = rc.Close()
}

// bodyTail returns at most n bytes of the body for error diagnostics.
func bodyTail(rc io.Reader, n int64) string {
	b, _ := io.ReadAll(io.LimitReader(rc, n))
	return string(b)
}
