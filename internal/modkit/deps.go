package modkit

import (
	"textguard/internal/platform/config"
	"textguard/internal/platform/logger"
	"textguard/internal/platform/metrics"
	"textguard/internal/platform/store"
)

// Deps holds the shared dependencies handed to every module
// PG and CH are nil when the backing store is disabled
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	PG      store.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Registry
}

// FromStore copies the store handles into deps
func (d Deps) FromStore(st *store.Store) Deps {
	if st == nil {
		return d
	}
	d.PG, d.CH = st.PG, st.CH
	return d
}

// Logger returns Log or the root logger
func (d Deps) Logger() *logger.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logger.Get()
}
