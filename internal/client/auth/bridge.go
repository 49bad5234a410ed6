// Package auth bridges the external identity provider to the backend user
// profile. It exposes register/login/social-login/logout and owns the
// session-change listener, the sole writer of the session state.
package auth

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/client/identity"
	"github.com/shafayetkh/qbank/internal/client/session"
	"github.com/shafayetkh/qbank/internal/common"
	"github.com/shafayetkh/qbank/internal/logging"
)

// ProfileFields are the optional profile attributes collected at
// registration.
type ProfileFields struct {
	Name            string
	BloodGroup      string
	PhoneNumber     string
	UniversityRegNo string
}

// Bridge wires provider session events into the backend profile and the
// shared session state.
type Bridge struct {
	provider identity.Provider
	api      api.Client
	writer   *session.Writer
	log      logging.Logger

	// seq tags session transitions so a profile fetch that resolves after a
	// newer transition is discarded instead of overwriting fresher state.
	seq atomic.Uint64
}

// NewBridge constructs the bridge. Call Start exactly once before any auth
// operation so session transitions are observed.
func NewBridge(provider identity.Provider, apiClient api.Client, writer *session.Writer, log logging.Logger) *Bridge {
	return &Bridge{
		provider: provider,
		api:      apiClient,
		writer:   writer,
		log:      log.With("component", "auth"),
	}
}

// Start registers the session-change listener with the provider. The
// listener runs for every transition: sign-in, sign-out, and token refresh.
func (b *Bridge) Start() {
	b.provider.Subscribe(b.onSessionChange)
}

// onSessionChange is the sole writer of the session state. For a live
// provider session it fetches the backend profile; a fetch failure degrades
// silently to signed-out-for-UI (logged, not surfaced). Loading flips false
// after the first resolution.
func (b *Bridge) onSessionChange(u *identity.User) {
	seq := b.seq.Add(1)
	b.writer.SetProviderUser(u)

	if u != nil {
		profile, err := b.api.Me(context.Background())
		if b.seq.Load() == seq {
			if err != nil {
				b.writer.ClearProfile()
				b.log.Warn(context.Background(), "profile fetch failed after session change",
					"uid", u.UID, "err", err)
			} else {
				b.writer.SetProfile(profile)
			}
		}
	}
	b.writer.MarkLoaded()
}

// Register creates a provider-side credential, best-effort sets its display
// name, then creates the matching backend profile keyed by the provider uid.
//
// A provider account can be created while backend registration fails; there
// is no compensating rollback; retrying registration with the same email
// will fail on the provider side and the user should sign in instead.
func (b *Bridge) Register(ctx context.Context, email, password string, fields ProfileFields) error {
	u, err := b.provider.SignUp(ctx, email, password)
	if err != nil {
		return common.NewAuthError("register", err)
	}

	if fields.Name != "" {
		if err := b.provider.UpdateDisplayName(ctx, fields.Name); err != nil {
			b.log.Warn(ctx, "display name update failed", "err", err)
		}
	}

	req := api.RegisterRequest{
		ProviderUID:     u.UID,
		Email:           u.Email,
		Name:            fields.Name,
		BloodGroup:      fields.BloodGroup,
		PhoneNumber:     fields.PhoneNumber,
		UniversityRegNo: fields.UniversityRegNo,
	}
	if err := b.api.RegisterProfile(ctx, req); err != nil {
		return common.NewAuthError("register", err)
	}

	// The listener's initial probe ran before the backend profile existed;
	// resolve the session again now that it does.
	b.onSessionChange(b.provider.CurrentUser())
	return nil
}

// Login exchanges credentials for a provider session. The session-change
// listener picks up the profile.
func (b *Bridge) Login(ctx context.Context, email, password string) error {
	if _, err := b.provider.SignIn(ctx, email, password); err != nil {
		return common.NewAuthError("login", err)
	}
	return nil
}

// LoginWithGoogle completes the provider-hosted consent flow with the pasted
// credential, then probes the backend for an existing profile. A 401 means
// "no profile yet" and triggers auto-registration of a minimal profile from
// the provider's name/email; any other probe failure is an AuthError.
func (b *Bridge) LoginWithGoogle(ctx context.Context, credential string) error {
	u, err := b.provider.SignInWithIDP(ctx, credential)
	if err != nil {
		return common.NewAuthError("google login", err)
	}

	if _, err := b.api.Me(ctx); err != nil {
		if !errors.Is(err, common.ErrUnauthorized) {
			return common.NewAuthError("google login", err)
		}
		req := api.RegisterRequest{
			ProviderUID: u.UID,
			Email:       u.Email,
			Name:        u.DisplayName,
		}
		if err := b.api.RegisterProfile(ctx, req); err != nil {
			return common.NewAuthError("google login", err)
		}
		b.onSessionChange(b.provider.CurrentUser())
	}
	return nil
}

// Logout ends the provider session; the listener clears the session state.
func (b *Bridge) Logout(ctx context.Context) error {
	if err := b.provider.SignOut(ctx); err != nil {
		return common.NewAuthError("logout", err)
	}
	return nil
}

// ConsentURL is the provider-hosted consent page for social sign-in.
func (b *Bridge) ConsentURL() string {
	return b.provider.ConsentURL()
}
