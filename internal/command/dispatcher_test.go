package command_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/recording-manager/internal/command"
	"github.com/openkcm/recording-manager/internal/idsource"
	"github.com/openkcm/recording-manager/internal/recording"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

func newDispatcher(opts ...recording.RegistryOption) *command.Dispatcher {
	opts = append([]recording.RegistryOption{
		recording.WithIDSource(idsource.Func(func() string { return "S1" })),
	}, opts...)

	return command.NewDispatcher(recording.NewRegistry(opts...))
}

func TestDispatcher_Commands(t *testing.T) {
	d := newDispatcher()
	assert.Equal(t, []string{
		command.PauseRecording,
		command.ResumeRecording,
		command.StartRecording,
		command.StopRecording,
	}, d.Commands())
}

func TestDispatcher_Lifecycle(t *testing.T) {
	ctx := t.Context()
	d := newDispatcher()

	id, err := d.Invoke(ctx, command.StartRecording)
	require.NoError(t, err)
	assert.Equal(t, "S1", id)

	for _, name := range []string{command.PauseRecording, command.ResumeRecording, command.StopRecording} {
		result, err := d.Invoke(ctx, name, id)
		require.NoError(t, err, name)
		assert.Empty(t, result)
	}
}

func TestDispatcher_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(ctx context.Context, d *command.Dispatcher)
		command string
		args    []string
		wantMsg string
		wantErr error
	}{
		{
			name:    "Unknown command",
			command: "greet",
			wantMsg: `unknown command "greet"`,
			wantErr: serviceerr.ErrNotFound,
		},
		{
			name:    "Unknown session",
			command: command.PauseRecording,
			args:    []string{"nope"},
			wantMsg: `session "nope" not found`,
			wantErr: serviceerr.ErrSessionNotFound,
		},
		{
			name: "Pause twice",
			prepare: func(ctx context.Context, d *command.Dispatcher) {
				_, _ = d.Invoke(ctx, command.StartRecording)
				_, _ = d.Invoke(ctx, command.PauseRecording, "S1")
			},
			command: command.PauseRecording,
			args:    []string{"S1"},
			wantMsg: `cannot pause session "S1": session is paused`,
			wantErr: serviceerr.ErrInvalidTransition,
		},
		{
			name: "Resume while recording",
			prepare: func(ctx context.Context, d *command.Dispatcher) {
				_, _ = d.Invoke(ctx, command.StartRecording)
			},
			command: command.ResumeRecording,
			args:    []string{"S1"},
			wantMsg: `cannot resume session "S1": session is recording`,
			wantErr: serviceerr.ErrInvalidTransition,
		},
		{
			name:    "Missing session id",
			command: command.StopRecording,
			wantMsg: `command "stop_recording" requires exactly one session id`,
			wantErr: serviceerr.ErrInvalidRequest,
		},
		{
			name:    "Start with arguments",
			command: command.StartRecording,
			args:    []string{"S1"},
			wantMsg: `command "start_recording" takes no arguments`,
			wantErr: serviceerr.ErrInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			d := newDispatcher()
			if tt.prepare != nil {
				tt.prepare(ctx, d)
			}

			_, err := d.Invoke(ctx, tt.command, tt.args...)
			require.ErrorIs(t, err, tt.wantErr)
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestKind(t *testing.T) {
	errFlush := errors.New("flush failed")
	d := newDispatcher(recording.WithFinalizer(recording.FinalizerFunc(func(context.Context, recording.Session) error {
		return errFlush
	})))

	id, err := d.Invoke(t.Context(), command.StartRecording)
	require.NoError(t, err)

	_, err = d.Invoke(t.Context(), command.StopRecording, id)
	require.Error(t, err)

	assert.Equal(t, serviceerr.ErrFinalize, command.Kind(err))
	assert.Equal(t, serviceerr.ErrSessionNotFound, command.Kind(&recording.TransitionError{Kind: serviceerr.ErrSessionNotFound}))
	assert.Equal(t, serviceerr.ErrUnknown, command.Kind(errFlush))
	assert.Nil(t, command.Kind(nil))
}
