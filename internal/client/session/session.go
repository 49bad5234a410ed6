// Package session holds the process-wide session state: the provider-side
// user, the backend profile, and the initial loading flag.
//
// The state has exactly one writer (the auth bridge's session-change
// listener, which holds the Writer) and any number of readers. Readers get
// consistent snapshots; there are no write-write races by construction.
package session

import (
	"sync"

	"github.com/shafayetkh/qbank/internal/client/identity"
	"github.com/shafayetkh/qbank/internal/client/models"
)

// State is a consistent snapshot of the session.
//
// Invariant: Profile is non-nil only if ProviderUser is non-nil. The inverse
// need not hold: a provider session without a backend profile renders as
// signed-out.
type State struct {
	ProviderUser *identity.User
	Profile      *models.Profile
	Loading      bool
}

// SignedIn reports whether the UI should treat the user as signed in: both a
// provider session and a backend profile are present.
func (s State) SignedIn() bool {
	return s.ProviderUser != nil && s.Profile != nil
}

// IsAdmin reports whether the signed-in profile has the admin role.
func (s State) IsAdmin() bool {
	return s.SignedIn() && s.Profile.IsAdmin()
}

// Session is the shared read surface.
type Session struct {
	mu    sync.RWMutex
	state State
}

// New returns the session and its single Writer. Loading starts true and
// flips false once the first session-change event resolves.
func New() (*Session, *Writer) {
	s := &Session{state: State{Loading: true}}
	return s, &Writer{s: s}
}

// Snapshot returns the current state.
func (s *Session) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Writer is the write capability over a Session. Only the auth bridge's
// session-change listener may hold one.
type Writer struct {
	s *Session
}

// SetProviderUser records a provider session transition. A nil user is a
// sign-out and also clears the profile, preserving the state invariant.
func (w *Writer) SetProviderUser(u *identity.User) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.s.state.ProviderUser = u
	if u == nil {
		w.s.state.Profile = nil
	}
}

// SetProfile stores the backend profile fetched for the current provider
// user. Ignored while signed out so the invariant cannot be violated.
func (w *Writer) SetProfile(p *models.Profile) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	if w.s.state.ProviderUser == nil {
		return
	}
	w.s.state.Profile = p
}

// ClearProfile drops the profile without touching the provider session
// (profile-fetch failure degrades to signed-out-for-UI).
func (w *Writer) ClearProfile() {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.s.state.Profile = nil
}

// MarkLoaded flips Loading to false. It never flips back.
func (w *Writer) MarkLoaded() {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	w.s.state.Loading = false
}
