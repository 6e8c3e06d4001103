package github

import (
	"strings"
	"sync/atomic"
	"time"
)

// LimitClass names one of GitHub's independent rate-limit pools.
type LimitClass string

const (
	// ClassSearch covers /search/* (30 requests/minute authenticated).
	ClassSearch LimitClass = "search"
	// ClassCore covers everything else (5000 requests/hour authenticated).
	ClassCore LimitClass = "core"
)

// ClassFor maps a request path to the pool it draws from.
func ClassFor(path string) LimitClass {
	if strings.HasPrefix(path, "/search/") {
		return ClassSearch
	}
	return ClassCore
}

// Quota is one observation of a pool's X-RateLimit-* headers.
type Quota struct {
	Remaining int
	Reset     time.Time
}

// Budget tracks the most recently observed quota per limit class.
//
// Updates are last-writer-wins: with many workers in flight the stored
// snapshot may be slightly stale. That is fine; it is advisory only, used
// to decide whether to sleep before issuing a request. The server's 403
// response remains the authoritative signal.
type Budget struct {
	search atomic.Pointer[Quota]
	core   atomic.Pointer[Quota]
}

// NewBudget returns a Budget with no observations yet.
func NewBudget() *Budget { return &Budget{} }

func (b *Budget) slot(class LimitClass) *atomic.Pointer[Quota] {
	if class == ClassSearch {
		return &b.search
	}
	return &b.core
}

// Observe records the latest headers for class.
func (b *Budget) Observe(class LimitClass, q Quota) {
	b.slot(class).Store(&q)
}

// Snapshot returns the last observation for class, or ok=false if none.
func (b *Budget) Snapshot(class LimitClass) (Quota, bool) {
	p := b.slot(class).Load()
	if p == nil {
		return Quota{}, false
	}
	return *p, true
}
