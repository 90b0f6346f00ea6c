package modkit

import (
	"capturebox/internal/modkit/repokit"
	"capturebox/internal/platform/config"
	"capturebox/internal/platform/logger"
	"capturebox/internal/platform/store"
)

// Deps are the shared handles passed to every module constructor.
// PG and CH are nil when the backend is disabled.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore fills the storage handles from an opened store
func (d Deps) FromStore(s *store.Store) Deps {
	if s != nil {
		d.PG, d.CH = s.PG, s.CH
	}
	return d
}
