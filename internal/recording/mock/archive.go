package recordingmock

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/openkcm/recording-manager/internal/recording"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

type ArchiveOption func(*Archive)

type Archive struct {
	mu      sync.Mutex
	records map[string]recording.Record

	storeErr, loadErr, listErr, deleteErr error
}

func WithRecord(rec recording.Record) ArchiveOption {
	return func(a *Archive) { a.records[rec.ID] = rec }
}
func WithStoreError(err error) ArchiveOption {
	return func(a *Archive) { a.storeErr = err }
}
func WithLoadError(err error) ArchiveOption {
	return func(a *Archive) { a.loadErr = err }
}
func WithListError(err error) ArchiveOption {
	return func(a *Archive) { a.listErr = err }
}
func WithDeleteError(err error) ArchiveOption {
	return func(a *Archive) { a.deleteErr = err }
}

var _ = recording.Archive(&Archive{})

func NewInMemArchive(opts ...ArchiveOption) *Archive {
	a := &Archive{
		records: make(map[string]recording.Record),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

func (a *Archive) Store(_ context.Context, rec recording.Record) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.storeErr != nil {
		return a.storeErr
	}
	if _, ok := a.records[rec.ID]; ok {
		return serviceerr.ErrConflict
	}
	a.records[rec.ID] = rec
	return nil
}

func (a *Archive) Load(_ context.Context, sessionID string) (recording.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.loadErr != nil {
		return recording.Record{}, a.loadErr
	}
	if rec, ok := a.records[sessionID]; ok {
		return rec, nil
	}
	return recording.Record{}, serviceerr.ErrNotFound
}

func (a *Archive) List(_ context.Context) ([]recording.Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.listErr != nil {
		return nil, a.listErr
	}
	records := make([]recording.Record, 0, len(a.records))
	for _, rec := range a.records {
		records = append(records, rec)
	}
	slices.SortFunc(records, func(x, y recording.Record) int {
		return strings.Compare(x.ID, y.ID)
	})
	return records, nil
}

func (a *Archive) Delete(_ context.Context, sessionID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.deleteErr != nil {
		return a.deleteErr
	}
	if _, ok := a.records[sessionID]; !ok {
		return serviceerr.ErrNotFound
	}
	delete(a.records, sessionID)
	return nil
}

// Len returns the number of stored records.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.records)
}
