package recording_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/recording-manager/internal/recording"
	recordingmock "github.com/openkcm/recording-manager/internal/recording/mock"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

// TestConcurrency_PauseAndStop races pause against stop on one session.
// Stop is legal from both recording and paused, so it always wins; pause
// either lands first (and is visible in the archived record) or observes
// the session as gone.
func TestConcurrency_PauseAndStop(t *testing.T) {
	ctx := t.Context()

	for range 200 {
		archive := recordingmock.NewInMemArchive()
		r := recording.NewRegistry(recording.WithArchive(archive))
		id, err := r.StartRecording(ctx)
		require.NoError(t, err)

		var pauseErr, stopErr error
		var wg sync.WaitGroup
		start := make(chan struct{})
		wg.Go(func() {
			<-start
			pauseErr = r.PauseRecording(ctx, id)
		})
		wg.Go(func() {
			<-start
			stopErr = r.StopRecording(ctx, id)
		})
		close(start)
		wg.Wait()

		require.NoError(t, stopErr)
		rec, err := archive.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, recording.StateStopped, rec.State)

		if pauseErr == nil {
			assert.Equal(t, 1, rec.Pauses, "pause applied before stop")
		} else {
			require.ErrorIs(t, pauseErr, serviceerr.ErrSessionNotFound)
			assert.Equal(t, 0, rec.Pauses, "pause must not leak into a stopped session")
		}
	}
}

func TestConcurrency_SameTransition(t *testing.T) {
	ctx := t.Context()
	const workers = 16

	tests := []struct {
		name    string
		prepare func(r *recording.Registry, id string) error
		op      func(r *recording.Registry, id string) error
		want    recording.State
		loseErr error
	}{
		{
			name:    "Pause",
			prepare: func(*recording.Registry, string) error { return nil },
			op:      func(r *recording.Registry, id string) error { return r.PauseRecording(ctx, id) },
			want:    recording.StatePaused,
			loseErr: serviceerr.ErrInvalidTransition,
		},
		{
			name:    "Resume",
			prepare: func(r *recording.Registry, id string) error { return r.PauseRecording(ctx, id) },
			op:      func(r *recording.Registry, id string) error { return r.ResumeRecording(ctx, id) },
			want:    recording.StateRecording,
			loseErr: serviceerr.ErrInvalidTransition,
		},
		{
			name:    "Stop",
			prepare: func(*recording.Registry, string) error { return nil },
			op:      func(r *recording.Registry, id string) error { return r.StopRecording(ctx, id) },
			want:    recording.StateStopped,
			loseErr: serviceerr.ErrSessionNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := recording.NewRegistry()
			id, err := r.StartRecording(ctx)
			require.NoError(t, err)
			require.NoError(t, tt.prepare(r, id))

			var wins atomic.Int32
			var wg sync.WaitGroup
			errs := make([]error, workers)
			for i := range workers {
				wg.Go(func() {
					errs[i] = tt.op(r, id)
					if errs[i] == nil {
						wins.Add(1)
					}
				})
			}
			wg.Wait()

			assert.Equal(t, int32(1), wins.Load(), "exactly one transition applies")
			for _, err := range errs {
				if err != nil {
					assert.ErrorIs(t, err, tt.loseErr)
				}
			}

			if tt.want.IsTerminal() {
				assert.Equal(t, 0, r.Len())
				return
			}
			s, err := r.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.State)
		})
	}
}

func TestConcurrency_Start(t *testing.T) {
	ctx := t.Context()
	const workers = 64

	r := recording.NewRegistry()
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Go(func() {
			id, err := r.StartRecording(ctx)
			assert.NoError(t, err)
			ids[i] = id
		})
	}
	wg.Wait()

	seen := make(map[string]struct{}, workers)
	for _, id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
	assert.Equal(t, workers, r.Len())
}
