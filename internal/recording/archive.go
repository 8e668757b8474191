package recording

import (
	"context"
	"time"

	"github.com/openkcm/recording-manager/internal/serviceerr"
)

// Archive keeps the history of stopped sessions. It is never consulted
// for mutation; a session in the archive is ended.
type Archive interface {
	Store(ctx context.Context, rec Record) error
	Load(ctx context.Context, sessionID string) (Record, error)
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, sessionID string) error
}

// Pruner is implemented by archives that delete expired records in bulk.
type Pruner interface {
	DeleteStoppedBefore(ctx context.Context, before time.Time) (int64, error)
}

// NopArchive discards every record.
type NopArchive struct{}

var _ = Archive(NopArchive{})

func (NopArchive) Store(context.Context, Record) error { return nil }

func (NopArchive) Load(context.Context, string) (Record, error) {
	return Record{}, serviceerr.ErrNotFound
}

func (NopArchive) List(context.Context) ([]Record, error) { return nil, nil }

func (NopArchive) Delete(context.Context, string) error { return nil }
