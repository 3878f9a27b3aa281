package desktop

import (
	"context"
	"errors"
	"sync"
)

// ErrHandleAlreadySet is returned when setup tries to store a second host handle.
var ErrHandleAlreadySet = errors.New("host handle already set")

// HandleSlot holds the running host instance. For Wails v2 the instance
// handle is the runtime context passed to OnStartup; every runtime call
// (WindowExecJS, EventsEmit, ...) needs it.
//
// The slot is written once during setup and read-only afterwards.
type HandleSlot struct {
	mu  sync.Mutex
	ctx context.Context
}

// Store records ctx. Only the first call succeeds.
func (s *HandleSlot) Store(ctx context.Context) error {
	if ctx == nil {
		return errors.New("nil host handle")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		return ErrHandleAlreadySet
	}
	s.ctx = ctx
	return nil
}

// Load returns the stored handle and whether one has been set.
func (s *HandleSlot) Load() (context.Context, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx, s.ctx != nil
}
