package recordingvalkey

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/openkcm/recording-manager/internal/recording"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

type ObjectType string

const objectTypeRecording ObjectType = "recording"

type Archive struct {
	store     *store
	retention time.Duration
}

var _ = recording.Archive(&Archive{})

// NewArchive stores records as JSON under <prefix>:recording:<id>. Records
// expire after retention; a non-positive retention keeps them forever.
func NewArchive(valkeyClient valkey.Client, prefix string, retention time.Duration) *Archive {
	return &Archive{
		store:     newStore(valkeyClient, prefix),
		retention: retention,
	}
}

func (a *Archive) Store(ctx context.Context, rec recording.Record) error {
	if err := a.store.Set(ctx, objectTypeRecording, rec.ID, rec, a.retention); err != nil {
		return fmt.Errorf("setting record into storage: %w", err)
	}

	return nil
}

func (a *Archive) Load(ctx context.Context, sessionID string) (recording.Record, error) {
	var rec recording.Record
	if err := a.store.Get(ctx, objectTypeRecording, sessionID, &rec); err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return recording.Record{}, serviceerr.ErrNotFound
		}
		return recording.Record{}, fmt.Errorf("getting record from store: %w", err)
	}

	return rec, nil
}

func (a *Archive) List(ctx context.Context) ([]recording.Record, error) {
	var records []recording.Record
	if err := getStoreObjects(ctx, a.store, objectTypeRecording, "*", &records); err != nil {
		return nil, fmt.Errorf("getting records from store: %w", err)
	}

	slices.SortFunc(records, func(x, y recording.Record) int {
		return strings.Compare(x.ID, y.ID)
	})

	return records, nil
}

func (a *Archive) Delete(ctx context.Context, sessionID string) error {
	if err := a.store.Destroy(ctx, objectTypeRecording, sessionID); err != nil {
		if errors.Is(err, serviceerr.ErrNotFound) {
			return serviceerr.ErrNotFound
		}
		return fmt.Errorf("deleting record from store: %w", err)
	}

	return nil
}
