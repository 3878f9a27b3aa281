package desktop

import "sync"

// AppState is the flat record the hosted UI reads and writes through the
// command surface. The zero value is ready to use: empty URL, desktop mode off.
type AppState struct {
	mu          sync.RWMutex
	webURL      string
	desktopMode bool
}

// StateSnapshot is a point-in-time copy of AppState.
type StateSnapshot struct {
	WebURL      string `json:"webUrl"`
	DesktopMode bool   `json:"desktopMode"`
}

// NewAppState returns a state record with default values.
func NewAppState() *AppState {
	return &AppState{}
}

// WebURL returns the stored URL.
func (s *AppState) WebURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.webURL
}

// SetWebURL stores url as given.
func (s *AppState) SetWebURL(url string) {
	s.mu.Lock()
	s.webURL = url
	s.mu.Unlock()
}

// DesktopMode returns the stored flag.
func (s *AppState) DesktopMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.desktopMode
}

// SetDesktopMode stores the flag.
func (s *AppState) SetDesktopMode(enabled bool) {
	s.mu.Lock()
	s.desktopMode = enabled
	s.mu.Unlock()
}

// Snapshot returns both fields read under one lock.
func (s *AppState) Snapshot() StateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StateSnapshot{WebURL: s.webURL, DesktopMode: s.desktopMode}
}
