package recording

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/recording-manager/internal/idsource"
	"github.com/openkcm/recording-manager/internal/serviceerr"
)

const (
	DefaultMaxSessions = 1024
	DefaultIDAttempts  = 8
)

// IDSource generates candidate session IDs.
type IDSource interface {
	SessionID() string
}

type RegistryOption func(*Registry)

func WithIDSource(ids IDSource) RegistryOption {
	return func(r *Registry) { r.ids = ids }
}

func WithFinalizer(f Finalizer) RegistryOption {
	return func(r *Registry) { r.finalizer = f }
}

func WithArchive(a Archive) RegistryOption {
	return func(r *Registry) { r.archive = a }
}

// WithMaxSessions limits the number of simultaneously active sessions.
// A negative value removes the limit.
func WithMaxSessions(n int) RegistryOption {
	return func(r *Registry) { r.maxSessions = n }
}

func WithIDAttempts(n int) RegistryOption {
	return func(r *Registry) { r.idAttempts = n }
}

func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// Registry is the single authority over recording sessions. All state
// transitions happen under one mutex; callers only receive copies.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]Session
	issued   map[string]struct{}

	ids       IDSource
	finalizer Finalizer
	archive   Archive
	now       func() time.Time

	maxSessions int
	idAttempts  int
}

func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions:    make(map[string]Session),
		issued:      make(map[string]struct{}),
		ids:         idsource.Source{},
		finalizer:   NopFinalizer{},
		archive:     NopArchive{},
		now:         time.Now,
		maxSessions: DefaultMaxSessions,
		idAttempts:  DefaultIDAttempts,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}

	if r.maxSessions == 0 {
		r.maxSessions = DefaultMaxSessions
	}
	if r.idAttempts <= 0 {
		r.idAttempts = DefaultIDAttempts
	}

	return r
}

// Archive returns the archive stopped sessions are written to.
func (r *Registry) Archive() Archive {
	return r.archive
}

// StartRecording creates a new session in the recording state and returns its ID.
func (r *Registry) StartRecording(ctx context.Context) (string, error) {
	r.mu.Lock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.mu.Unlock()
		return "", errExhausted(fmt.Sprintf("limit of %d active sessions reached", r.maxSessions))
	}

	id, ok := r.allocateID()
	if !ok {
		r.mu.Unlock()
		return "", errExhausted(fmt.Sprintf("no unused session ID after %d attempts", r.idAttempts))
	}

	now := r.now()
	r.sessions[id] = Session{
		ID:        id,
		State:     StateRecording,
		StartedAt: now,
		UpdatedAt: now,
	}
	r.issued[id] = struct{}{}
	r.mu.Unlock()

	slogctx.Info(ctx, "Started recording session", "session_id", id)

	return id, nil
}

// PauseRecording moves a recording session to the paused state.
func (r *Registry) PauseRecording(ctx context.Context, sessionID string) error {
	if _, err := r.apply(sessionID, OpPause); err != nil {
		return err
	}

	slogctx.Info(ctx, "Paused recording session", "session_id", sessionID)

	return nil
}

// ResumeRecording moves a paused session back to the recording state.
func (r *Registry) ResumeRecording(ctx context.Context, sessionID string) error {
	if _, err := r.apply(sessionID, OpResume); err != nil {
		return err
	}

	slogctx.Info(ctx, "Resumed recording session", "session_id", sessionID)

	return nil
}

// StopRecording ends a recording or paused session. The session leaves the
// registry before it is finalized, so a repeated stop reports the session as
// not found. A finalizer failure is returned but does not revert the stop.
func (r *Registry) StopRecording(ctx context.Context, sessionID string) error {
	s, err := r.apply(sessionID, OpStop)
	if err != nil {
		return err
	}

	return r.finalize(slogctx.With(ctx, "session_id", sessionID), s)
}

// Get returns a copy of an active session.
func (r *Registry) Get(_ context.Context, sessionID string) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, errNotFound(OpGet, sessionID)
	}

	return s, nil
}

// List returns a snapshot of all active sessions ordered by start time.
func (r *Registry) List(_ context.Context) []Session {
	r.mu.Lock()
	sessions := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	slices.SortFunc(sessions, func(a, b Session) int {
		if c := a.StartedAt.Compare(b.StartedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return sessions
}

// Len returns the number of active sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.sessions)
}

// StopAll stops every active session. Sessions stopped concurrently by
// another caller are skipped.
func (r *Registry) StopAll(ctx context.Context) error {
	var errs []error
	for _, s := range r.List(ctx) {
		err := r.StopRecording(ctx, s.ID)
		if err != nil && !errors.Is(err, serviceerr.ErrSessionNotFound) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// apply performs a single transition inside the critical section and
// returns the session as it is after the transition.
func (r *Registry) apply(sessionID string, op Op) (Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, errNotFound(op, sessionID)
	}

	tr, ok := TransitionFor(s.State, op)
	if !ok {
		return Session{}, errInvalidTransition(op, s)
	}

	now := r.now()
	if s.State == StateRecording {
		s.Recorded += now.Sub(s.UpdatedAt)
	}
	if op == OpPause {
		s.Pauses++
	}
	s.State = tr.To
	s.UpdatedAt = now

	if tr.To.IsTerminal() {
		s.StoppedAt = now
		delete(r.sessions, sessionID)
	} else {
		r.sessions[sessionID] = s
	}

	return s, nil
}

// allocateID must be called with r.mu held.
func (r *Registry) allocateID() (string, bool) {
	for range r.idAttempts {
		id := r.ids.SessionID()
		if id == "" {
			continue
		}
		if _, used := r.issued[id]; used {
			continue
		}
		return id, true
	}

	return "", false
}

func (r *Registry) finalize(ctx context.Context, s Session) error {
	rec := Record{Session: s}

	var finalizeErr error
	if err := r.finalizer.Finalize(ctx, s); err != nil {
		slogctx.Error(ctx, "Failed to finalize recording session", "error", err)
		rec.FinalizeError = err.Error()
		finalizeErr = fmt.Errorf("stopping session %q: %w: %w", s.ID, serviceerr.ErrFinalize, err)
	}

	if err := r.archive.Store(ctx, rec); err != nil {
		slogctx.Warn(ctx, "Could not archive stopped session", "error", err)
	}

	slogctx.Info(ctx, "Stopped recording session", "recorded", s.Recorded.String(), "pauses", s.Pauses)

	return finalizeErr
}
