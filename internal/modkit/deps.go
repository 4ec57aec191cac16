package modkit

import (
	"zhkh/internal/modkit/repokit"
	"zhkh/internal/platform/config"
	"zhkh/internal/platform/logger"
	"zhkh/internal/platform/metrics"
	"zhkh/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// every field may be zero; modules nil check the stores they use
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	PG      repokit.TxRunner
	Lite    repokit.TxRunner
	CH      store.Clickhouse
	Metrics *metrics.Metrics
}

// DepsFrom lifts the opened store seams into module deps
func DepsFrom(cfg config.Conf, st *store.Store, m *metrics.Metrics) Deps {
	d := Deps{Cfg: cfg, Metrics: m, Log: *logger.Named("modkit")}
	if st == nil {
		return d
	}
	d.PG, d.Lite, d.CH = st.PG, st.Lite, st.CH
	return d
}
