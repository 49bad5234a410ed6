package cli

import (
	"context"

	"github.com/shafayetkh/qbank/internal/client/auth"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email, password and the optional profile fields,
// then creates both the provider credential and the backend profile.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	var fields auth.ProfileFields
	if fields.Name, err = getSimpleText(a.reader, "Enter full name", a.out); err != nil {
		return err
	}
	if fields.BloodGroup, err = getSimpleText(a.reader, "Enter blood group (optional)", a.out); err != nil {
		return err
	}
	if fields.PhoneNumber, err = getSimpleText(a.reader, "Enter phone number (optional)", a.out); err != nil {
		return err
	}
	if fields.UniversityRegNo, err = getSimpleText(a.reader, "Enter university reg. no (optional)", a.out); err != nil {
		return err
	}

	if err := a.bridge.Register(ctx, email, password, fields); err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	a.println("Registered. You are signed in.")
	return nil
}

// Login prompts for credentials and signs in; the session listener fetches
// the backend profile.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.bridge.Login(ctx, email, password); err != nil {
		a.notifyErr(ctx, err)
		return err
	}

	if a.isSignedIn() {
		a.println("Signed in.")
	} else {
		// Live provider session, but no backend profile could be loaded.
		a.println("Signed in at the provider, but your profile could not be loaded.")
	}
	return nil
}

// LoginWithGoogle walks the hosted consent flow: the user opens the printed
// URL in a browser, completes consent, and pastes the returned credential.
func (a *App) LoginWithGoogle(ctx context.Context) error {
	a.println("Open this URL in your browser and complete the sign-in:")
	a.println("  " + a.bridge.ConsentURL())

	credential, err := getSimpleText(a.reader, "Paste the credential you received", a.out)
	if err != nil {
		return err
	}

	if err := a.bridge.LoginWithGoogle(ctx, credential); err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	a.println("Signed in with Google.")
	return nil
}

// Logout ends the provider session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.bridge.Logout(ctx); err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	a.println("Signed out.")
	return nil
}

// WhoAmI prints the current session state.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.Snapshot()
	if st.Loading {
		a.println("Session is still loading.")
		return nil
	}
	if !st.SignedIn() {
		a.println("Not signed in.")
		return nil
	}

	p := st.Profile
	a.printf("%s <%s> role=%s\n", p.Name, p.Email, p.Role)
	if p.BloodGroup != "" {
		a.printf("  blood group: %s\n", p.BloodGroup)
	}
	if p.PhoneNumber != "" {
		a.printf("  phone: %s\n", p.PhoneNumber)
	}
	if p.UniversityRegNo != "" {
		a.printf("  university reg. no: %s\n", p.UniversityRegNo)
	}
	return nil
}
