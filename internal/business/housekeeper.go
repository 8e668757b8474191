package business

import (
	"context"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/config"
	"github.com/openkcm/recording-manager/internal/recording"
)

const defaultTriggerInterval = time.Minute

// HousekeeperMain purges expired history from a shared archive backend.
// It owns no active sessions, so only the retention task has work to do.
func HousekeeperMain(ctx context.Context, cfg *config.Config) error {
	registry, closeFn, err := initRegistry(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialise the recording registry: %w", err)
	}
	defer closeFn()

	if cfg.Archive.Backend == "" || cfg.Archive.Backend == config.ArchiveMemory {
		slogctx.Warn(ctx, "Housekeeper runs against a process local archive")
	}

	return runHousekeeper(ctx, recording.NewHousekeeper(registry, nil), cfg)
}

func runHousekeeper(ctx context.Context, h *recording.Housekeeper, cfg *config.Config) error {
	interval := cfg.Housekeeper.TriggerInterval
	if interval <= 0 {
		interval = defaultTriggerInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		err := h.TriggerHousekeeping(ctx, cfg.Archive.Retention, cfg.Housekeeper.MaxRecordingDuration)
		if err != nil {
			slogctx.Error(ctx, "Error during recording housekeeping", "error", err)
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			return nil
		}
	}
}
