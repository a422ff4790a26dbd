package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/robot-exposure/internal/dataset"
	"github.com/sells-group/robot-exposure/internal/fetcher"
	"github.com/sells-group/robot-exposure/internal/resolver"
	"github.com/sells-group/robot-exposure/internal/store"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "robot-exposure.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func newLoader() *dataset.Loader {
	timeout := time.Duration(cfg.Fetch.TimeoutSecs) * time.Second
	opener := fetcher.NewOpener(
		fetcher.HTTPOptions{
			UserAgent:   cfg.Fetch.UserAgent,
			Timeout:     timeout,
			MaxRetries:  cfg.Fetch.MaxRetries,
			RatePerHost: rate.Limit(cfg.Fetch.RatePerHost),
		},
		fetcher.FTPOptions{Timeout: timeout},
	)
	return dataset.NewLoader(opener, cfg.Reference.TempDir, fetcher.CSVOptions{
		Delimiter: cfg.Reference.Delimiter(),
	})
}

func referenceSources() dataset.Sources {
	return dataset.Sources{
		Professions:          cfg.Reference.Professions,
		ProfessionsSheet:     cfg.Reference.ProfessionsSheet,
		Classifications:      cfg.Reference.Classifications,
		ClassificationsSheet: cfg.Reference.ClassificationsSheet,
		Installations:        cfg.Reference.Installations,
	}
}

// loadReference reads the reference tables from the configured source.
func loadReference(ctx context.Context) (*dataset.Reference, error) {
	if cfg.Reference.Source == "store" {
		st, err := initStore(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "init store")
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return nil, eris.Wrap(err, "migrate store")
		}
		ref, err := st.LoadReference(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "load reference snapshot")
		}
		return ref, nil
	}

	ref, err := newLoader().Load(ctx, referenceSources())
	if err != nil {
		return nil, eris.Wrap(err, "load reference files")
	}
	return ref, nil
}

// initResolver validates the configuration for mode and indexes the
// reference tables.
func initResolver(ctx context.Context, mode string) (*resolver.Resolver, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}
	ref, err := loadReference(ctx)
	if err != nil {
		return nil, err
	}
	res := resolver.New(ref)
	zap.L().Info("reference ready",
		zap.String("source", cfg.Reference.Source),
		zap.Int("professions", len(res.Professions())),
		zap.Int("applications", len(res.Applications())),
		zap.Int("installations", len(ref.Installations)),
	)
	return res, nil
}
