package recording

import (
	"context"
	"errors"
	"fmt"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/serviceerr"
)

// Housekeeper removes expired history and ends sessions that were left running.
type Housekeeper struct {
	registry *Registry
	archive  Archive
}

func NewHousekeeper(registry *Registry, archive Archive) *Housekeeper {
	if archive == nil {
		archive = registry.Archive()
	}

	return &Housekeeper{
		registry: registry,
		archive:  archive,
	}
}

// TriggerHousekeeping runs every housekeeping task once.
func (h *Housekeeper) TriggerHousekeeping(ctx context.Context, retention, maxRecordingDuration time.Duration) error {
	var errs []error
	if _, err := h.StopStale(ctx, maxRecordingDuration); err != nil {
		errs = append(errs, fmt.Errorf("stopping stale sessions: %w", err))
	}

	if _, err := h.PurgeExpired(ctx, retention); err != nil {
		errs = append(errs, fmt.Errorf("purging expired records: %w", err))
	}

	return errors.Join(errs...)
}

// PurgeExpired deletes archived records stopped longer than retention ago.
// A zero retention keeps every record.
func (h *Housekeeper) PurgeExpired(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	now := h.registry.now()
	if p, ok := h.archive.(Pruner); ok {
		n, err := p.DeleteStoppedBefore(ctx, now.Add(-retention))
		if err != nil {
			return 0, fmt.Errorf("deleting expired records: %w", err)
		}
		slogctx.Info(ctx, "Deleted expired records", "count", n)

		return int(n), nil
	}

	records, err := h.archive.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing archived records: %w", err)
	}

	purged := 0
	for _, rec := range records {
		if now.Sub(rec.StoppedAt) < retention {
			continue
		}
		if err := h.archive.Delete(ctx, rec.ID); err != nil {
			slogctx.Warn(ctx, "Could not delete expired record", "session_id", rec.ID, "error", err)
			continue
		}
		slogctx.Info(ctx, "Deleted expired record", "session_id", rec.ID)
		purged++
	}

	return purged, nil
}

// StopStale stops sessions started longer than maxDuration ago.
// A zero maxDuration disables the check.
func (h *Housekeeper) StopStale(ctx context.Context, maxDuration time.Duration) (int, error) {
	if maxDuration <= 0 {
		return 0, nil
	}

	now := h.registry.now()
	stopped := 0
	var errs []error
	for _, s := range h.registry.List(ctx) {
		if now.Sub(s.StartedAt) < maxDuration {
			continue
		}

		slogctx.Info(ctx, "Stopping stale recording session", "session_id", s.ID, "started_at", s.StartedAt)
		err := h.registry.StopRecording(ctx, s.ID)
		switch {
		case err == nil:
			stopped++
		case errors.Is(err, serviceerr.ErrSessionNotFound):
			// stopped by someone else in the meantime
		default:
			errs = append(errs, err)
		}
	}

	return stopped, errors.Join(errs...)
}
