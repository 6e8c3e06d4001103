// Package modkit provides module wiring and core deps
package modkit

import (
	"gitcensus/internal/platform/config"
	"gitcensus/internal/platform/logger"
	"gitcensus/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	CH  store.Clickhouse
}
