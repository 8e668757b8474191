// Package recordingcache keeps the history of stopped sessions in process
// memory. Records expire after the retention period.
package recordingcache

import (
	"context"
	"slices"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/openkcm/recording-manager/internal/recording"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

type Archive struct {
	cache *gocache.Cache
}

var _ = recording.Archive(&Archive{})

// NewArchive creates an in-memory archive. A non-positive retention keeps
// records until they are deleted explicitly.
func NewArchive(retention, cleanupInterval time.Duration) *Archive {
	if retention <= 0 {
		retention = gocache.NoExpiration
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}

	return &Archive{
		cache: gocache.New(retention, cleanupInterval),
	}
}

func (a *Archive) Store(_ context.Context, rec recording.Record) error {
	if err := a.cache.Add(rec.ID, rec, gocache.DefaultExpiration); err != nil {
		return serviceerr.ErrConflict
	}

	return nil
}

func (a *Archive) Load(_ context.Context, sessionID string) (recording.Record, error) {
	v, ok := a.cache.Get(sessionID)
	if !ok {
		return recording.Record{}, serviceerr.ErrNotFound
	}

	rec, ok := v.(recording.Record)
	if !ok {
		return recording.Record{}, serviceerr.ErrNotFound
	}

	return rec, nil
}

func (a *Archive) List(_ context.Context) ([]recording.Record, error) {
	items := a.cache.Items()
	records := make([]recording.Record, 0, len(items))
	for _, item := range items {
		if rec, ok := item.Object.(recording.Record); ok {
			records = append(records, rec)
		}
	}

	slices.SortFunc(records, func(x, y recording.Record) int {
		return strings.Compare(x.ID, y.ID)
	})

	return records, nil
}

func (a *Archive) Delete(_ context.Context, sessionID string) error {
	if _, ok := a.cache.Get(sessionID); !ok {
		return serviceerr.ErrNotFound
	}
	a.cache.Delete(sessionID)

	return nil
}
