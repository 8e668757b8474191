// Package command exposes the registry as the four named recording commands.
// Every command either yields a result string or fails with an error whose
// message is fit to be shown to the caller.
package command

import (
	"context"
	"fmt"
	"slices"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/serviceerr"
)

const (
	StartRecording  = "start_recording"
	PauseRecording  = "pause_recording"
	ResumeRecording = "resume_recording"
	StopRecording   = "stop_recording"
)

// Registry is the part of recording.Registry the commands need.
type Registry interface {
	StartRecording(ctx context.Context) (string, error)
	PauseRecording(ctx context.Context, sessionID string) error
	ResumeRecording(ctx context.Context, sessionID string) error
	StopRecording(ctx context.Context, sessionID string) error
}

type handler func(ctx context.Context, args []string) (string, error)

type Dispatcher struct {
	handlers map[string]handler
}

func NewDispatcher(registry Registry) *Dispatcher {
	withSession := func(name string, fn func(context.Context, string) error) handler {
		return func(ctx context.Context, args []string) (string, error) {
			if len(args) != 1 || args[0] == "" {
				return "", &Error{Command: name, Kind: serviceerr.ErrInvalidRequest, Message: fmt.Sprintf("command %q requires exactly one session id", name)}
			}

			return "", fn(ctx, args[0])
		}
	}

	return &Dispatcher{
		handlers: map[string]handler{
			StartRecording: func(ctx context.Context, args []string) (string, error) {
				if len(args) != 0 {
					return "", &Error{Command: StartRecording, Kind: serviceerr.ErrInvalidRequest, Message: fmt.Sprintf("command %q takes no arguments", StartRecording)}
				}

				return registry.StartRecording(ctx)
			},
			PauseRecording:  withSession(PauseRecording, registry.PauseRecording),
			ResumeRecording: withSession(ResumeRecording, registry.ResumeRecording),
			StopRecording:   withSession(StopRecording, registry.StopRecording),
		},
	}
}

// Commands returns the sorted command names.
func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.handlers))
	for name := range d.handlers {
		names = append(names, name)
	}
	slices.Sort(names)

	return names
}

// Invoke runs the named command. Session commands take the session id as
// their only argument; start_recording takes none and returns the new id.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args ...string) (string, error) {
	h, ok := d.handlers[name]
	if !ok {
		return "", &Error{Command: name, Kind: serviceerr.ErrNotFound, Message: fmt.Sprintf("unknown command %q", name)}
	}

	ctx = slogctx.With(ctx, "command", name)
	result, err := h(ctx, args)
	if err != nil {
		slogctx.Warn(ctx, "Command failed", "error", err)
		return "", err
	}

	slogctx.Debug(ctx, "Command succeeded", "result", result)

	return result, nil
}
