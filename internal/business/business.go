package business

import (
	"context"
	"fmt"
	"sync"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
	"github.com/samber/oops"
	"github.com/valkey-io/valkey-go"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/business/server"
	"github.com/openkcm/recording-manager/internal/config"
	"github.com/openkcm/recording-manager/internal/recording"
	recordingcache "github.com/openkcm/recording-manager/internal/recording/cache"
	recordingsql "github.com/openkcm/recording-manager/internal/recording/sql"
	recordingvalkey "github.com/openkcm/recording-manager/internal/recording/valkey"
)

// Main starts the HTTP API server together with the inline housekeeper.
// Sessions still active on shutdown are stopped and archived.
func Main(ctx context.Context, cfg *config.Config) error {
	registry, closeFn, err := initRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialising the recording registry: %w", err)
	}
	defer closeFn()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// errChan is used to capture the first error and shutdown the workers.
	errChan := make(chan error, 2)

	// wg is used to wait for all workers to shutdown.
	var wg sync.WaitGroup

	wg.Go(func() {
		errChan <- server.StartHTTPServer(ctx, cfg, registry)
	})

	wg.Go(func() {
		errChan <- runHousekeeper(ctx, recording.NewHousekeeper(registry, nil), cfg)
	})

	// wait for any worker to return to initiate the shutdown
	if err := <-errChan; err != nil {
		slogctx.Error(ctx, "Shutting down", "error", err)
	}
	cancel()

	wg.Wait()

	// the request context is gone, stopping still has to reach the archive
	if err := registry.StopAll(context.WithoutCancel(ctx)); err != nil {
		slogctx.Error(ctx, "Failed to stop active sessions", "error", err)
	}

	return nil
}

func initRegistry(ctx context.Context, cfg *config.Config) (_ *recording.Registry, closeFn func(), _ error) {
	archive, closeFn, err := initArchive(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	registry := recording.NewRegistry(
		recording.WithArchive(archive),
		recording.WithFinalizer(recording.LogFinalizer{}),
		recording.WithMaxSessions(cfg.Registry.MaxSessions),
		recording.WithIDAttempts(cfg.Registry.IDAttempts),
	)

	return registry, closeFn, nil
}

// initArchive opens the history backend selected by archive.backend.
func initArchive(ctx context.Context, cfg *config.Config) (_ recording.Archive, closeFn func(), _ error) {
	switch cfg.Archive.Backend {
	case "", config.ArchiveMemory:
		return recordingcache.NewArchive(cfg.Archive.Retention, 0), func() {}, nil
	case config.ArchiveValkey:
		client, err := valkeyClientFromConfig(cfg)
		if err != nil {
			return nil, nil, err
		}

		return recordingvalkey.NewArchive(client, cfg.ValKey.Prefix, cfg.Archive.Retention), client.Close, nil
	case config.ArchivePostgres:
		db, err := pgxPoolFromConfig(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}

		return recordingsql.NewRepository(db), db.Close, nil
	default:
		return nil, nil, oops.In("main").Errorf("unknown archive backend %q", cfg.Archive.Backend)
	}
}

func pgxPoolFromConfig(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	connStr, err := config.MakeConnStr(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to make dsn from config: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}
	poolCfg.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialise pgxpool connection: %w", err)
	}

	if err := otelpgx.RecordStats(db); err != nil {
		slogctx.Warn(ctx, "Could not record pgxpool stats", "error", err)
	}

	return db, nil
}

func valkeyClientFromConfig(cfg *config.Config) (valkey.Client, error) {
	valkeyHost, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey host: %w", err)
	}

	valkeyUsername, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.User)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey username: %w", err)
	}

	valkeyPassword, err := commoncfg.LoadValueFromSourceRef(cfg.ValKey.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to load valkey password: %w", err)
	}

	valkeyOpts := valkey.ClientOption{
		InitAddress: []string{string(valkeyHost)},
		Username:    string(valkeyUsername),
		Password:    string(valkeyPassword),
	}

	if cfg.ValKey.SecretRef.Type == commoncfg.MTLSSecretType {
		tlsConfig, err := commoncfg.LoadMTLSConfig(&cfg.ValKey.SecretRef.MTLS)
		if err != nil {
			return nil, fmt.Errorf("failed to load valkey mTLS config from secret ref: %w", err)
		}

		valkeyOpts.TLSConfig = tlsConfig
	}

	client, err := valkey.NewClient(valkeyOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create a new valkey client: %w", err)
	}

	return client, nil
}
