package recording_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/openkcm/recording-manager/internal/recording"
)

var errFinalize = errors.New("flush failed")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceIDs hands out the given IDs in order and then repeats the last one.
type sequenceIDs struct {
	mu  sync.Mutex
	ids []string
}

func (s *sequenceIDs) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.ids[0]
	if len(s.ids) > 1 {
		s.ids = s.ids[1:]
	}
	return id
}

type recordingFinalizer struct {
	mu       sync.Mutex
	sessions []recording.Session
	err      error
}

func (f *recordingFinalizer) Finalize(_ context.Context, s recording.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions = append(f.sessions, s)
	return f.err
}

func (f *recordingFinalizer) Calls() []recording.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recording.Session(nil), f.sessions...)
}
