// Package app builds the capture graph from configuration and tears it down.
// Construction order follows the ports each module needs: trackers first,
// capture last.
package app

import (
	"context"

	"capturebox/internal/modkit"
	"capturebox/internal/modkit/module"
	"capturebox/internal/platform/config"
	perr "capturebox/internal/platform/errors"
	"capturebox/internal/platform/logger"
	"capturebox/internal/platform/store"
	capturemod "capturebox/internal/services/capture/module"
	captureservice "capturebox/internal/services/capture/service"
	classify "capturebox/internal/services/classify/domain"
	classifymod "capturebox/internal/services/classify/module"
	historymod "capturebox/internal/services/history/module"
	remindersmod "capturebox/internal/services/reminders/module"
	review "capturebox/internal/services/review/domain"
	reviewmod "capturebox/internal/services/review/module"
	trackers "capturebox/internal/services/trackers/domain"
	trackersmod "capturebox/internal/services/trackers/module"
)

// App owns every module and the opened storage backends
type App struct {
	Store    *store.Store
	Trackers *trackersmod.Module
	Review   *reviewmod.Module
	Capture  *capturemod.Module
}

// Options toggles the best-effort collaborators of the capture pipeline
type Options struct {
	History   bool
	Reminders bool
}

// FromConfig reads CORE_CAPTURE_*
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("CORE_CAPTURE_")
	return Options{
		History:   c.MayBool("HISTORY", true),
		Reminders: c.MayBool("REMINDERS", true),
	}
}

type overrides struct {
	inference    classify.InferencePort
	trackerStore trackers.Store
	reviewStore  review.Store
	store        *store.Store
}

// Option replaces a collaborator New would otherwise open from config
type Option func(*overrides)

// WithInference uses p instead of the configured inference client
func WithInference(p classify.InferencePort) Option {
	return func(o *overrides) { o.inference = p }
}

// WithTrackerStore uses st instead of CORE_TRACKERS_BACKEND
func WithTrackerStore(st trackers.Store) Option {
	return func(o *overrides) { o.trackerStore = st }
}

// WithReviewStore uses st instead of CORE_REVIEW_BACKEND
func WithReviewStore(st review.Store) Option {
	return func(o *overrides) { o.reviewStore = st }
}

// WithStore uses an already opened store instead of SERVICE_PGSQL_* and
// SERVICE_CLICKHOUSE_*. The App closes it.
func WithStore(s *store.Store) Option {
	return func(o *overrides) { o.store = s }
}

// StoreConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
func StoreConfig(cfg config.Conf) (store.Config, error) {
	pg := cfg.Prefix("SERVICE_PGSQL_")
	ch := cfg.Prefix("SERVICE_CLICKHOUSE_")
	sc := store.Config{
		AppName: "capturebox",
		PG: store.PGConfig{
			Enabled:     pg.MayBool("ENABLED", false),
			URL:         pg.MayString("DBURL", ""),
			MaxConns:    int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pg.MayInt("SLOW_MS", 500),
			LogSQL:      pg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled:    ch.MayBool("ENABLED", false),
			URL:        ch.MayString("DBURL", ""),
			ClientName: "capturebox",
			ClientTag:  "capture",
		},
	}
	if sc.PG.Enabled && sc.PG.URL == "" {
		return sc, perr.InvalidArgf("SERVICE_PGSQL_DBURL is required when SERVICE_PGSQL_ENABLED is set")
	}
	if sc.CH.Enabled && sc.CH.URL == "" {
		return sc, perr.InvalidArgf("SERVICE_CLICKHOUSE_DBURL is required when SERVICE_CLICKHOUSE_ENABLED is set")
	}
	return sc, nil
}

// New opens storage and builds every module. On error anything already
// opened is closed.
func New(ctx context.Context, cfg config.Conf, opts ...Option) (a *App, err error) {
	var ov overrides
	for _, o := range opts {
		o(&ov)
	}
	log := logger.Named("app")

	st := ov.store
	if st == nil {
		sc, err := StoreConfig(cfg)
		if err != nil {
			return nil, err
		}
		if st, err = store.Open(ctx, sc, store.WithLogger(*logger.Named("store"))); err != nil {
			return nil, err
		}
	}
	a = &App{Store: st}
	defer func() {
		if err != nil {
			_ = st.Close(ctx)
		}
	}()

	deps := modkit.Deps{Log: *log, Cfg: cfg}.FromStore(st)

	if a.Trackers, err = trackersmod.New(ctx, deps, trackersmod.FromConfig(cfg), ov.trackerStore); err != nil {
		return nil, err
	}
	trk := a.Trackers.Service()

	classifier, err := classifymod.New(ctx, classifymod.FromConfig(cfg), ov.inference)
	if err != nil {
		return nil, err
	}

	if a.Review, err = reviewmod.New(ctx, deps, reviewmod.FromConfig(cfg), ov.reviewStore, trk); err != nil {
		return nil, err
	}

	o := FromConfig(cfg)
	d := captureservice.Deps{
		Classifier: classifier,
		Registry:   trk,
		Commit:     trk,
		Review:     a.Review.Service(),
	}
	if o.History {
		if d.History, err = historymod.New(ctx, deps, historymod.FromConfig(cfg)); err != nil {
			return nil, err
		}
	}
	if o.Reminders {
		if d.Reminders, err = remindersmod.New(ctx, deps, remindersmod.FromConfig(cfg)); err != nil {
			return nil, err
		}
	}
	a.Capture = capturemod.New(d)

	log.Info().
		Int("trackers", len(trk.List())).
		Bool("pg", st.PG != nil).
		Bool("ch", st.CH != nil).
		Msg("app ready")
	return a, nil
}

// Modules lists the mountable modules in dependency order
func (a *App) Modules() []module.Module {
	return []module.Module{a.Trackers, a.Review, a.Capture}
}

// Close releases the storage backends
func (a *App) Close(ctx context.Context) error {
	if a == nil || a.Store == nil {
		return nil
	}
	return a.Store.Close(ctx)
}
