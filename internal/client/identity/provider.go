// Package identity wraps the external identity provider: credential
// sign-up/sign-in, a hosted consent flow for social sign-in, token issuance
// and refresh, and a push-based subscription for session transitions.
//
// The provider owns the tokens; the rest of the client only ever sees the
// public User and asks for the current bearer token per request.
package identity

import "context"

// User is the provider-side identity of the signed-in user.
type User struct {
	UID         string
	Email       string
	DisplayName string
}

// Listener receives every session transition: sign-in, sign-out (nil user),
// and token refresh. Exactly one listener is registered at startup; it is the
// sole writer of the client's session state.
type Listener func(u *User)

// Provider is the surface of the external identity provider the client uses.
//
// All operations honor context cancellation. Every operation that changes the
// session also notifies the registered Listener.
type Provider interface {
	// SignUp creates an email/password credential and starts a session.
	SignUp(ctx context.Context, email, password string) (*User, error)

	// SignIn exchanges email/password credentials for a session.
	SignIn(ctx context.Context, email, password string) (*User, error)

	// SignInWithIDP completes a social sign-in: credential is the opaque
	// value the user brings back from the provider-hosted consent flow.
	SignInWithIDP(ctx context.Context, credential string) (*User, error)

	// UpdateDisplayName sets the display name on the current session's
	// account. Best-effort companion to SignUp.
	UpdateDisplayName(ctx context.Context, name string) error

	// SignOut ends the current session.
	SignOut(ctx context.Context) error

	// CurrentUser returns the signed-in user, or nil.
	CurrentUser() *User

	// Token returns the current bearer token, refreshing it first when it
	// is about to expire. Returns "" with a nil error when signed out.
	Token(ctx context.Context) (string, error)

	// Subscribe registers the session-change listener. Called once at startup.
	Subscribe(l Listener)

	// ConsentURL is the provider-hosted consent page for social sign-in.
	ConsentURL() string
}
