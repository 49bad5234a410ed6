package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/client/identity"
	"github.com/shafayetkh/qbank/internal/client/models"
	"github.com/shafayetkh/qbank/internal/client/session"
	"github.com/shafayetkh/qbank/internal/common"
	"github.com/shafayetkh/qbank/internal/logging"
)

// ---- fake identity provider ----

type fakeProvider struct {
	listener identity.Listener
	user     *identity.User

	signUpErr  error
	signInErr  error
	idpErr     error
	signOutErr error

	updatedName   string
	updateNameErr error
}

func (f *fakeProvider) emit(u *identity.User) {
	f.user = u
	if f.listener != nil {
		f.listener(u)
	}
}

func (f *fakeProvider) SignUp(ctx context.Context, email, password string) (*identity.User, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	u := &identity.User{UID: "uid-new", Email: email}
	f.emit(u)
	return u, nil
}

func (f *fakeProvider) SignIn(ctx context.Context, email, password string) (*identity.User, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	u := &identity.User{UID: "uid-1", Email: email}
	f.emit(u)
	return u, nil
}

func (f *fakeProvider) SignInWithIDP(ctx context.Context, credential string) (*identity.User, error) {
	if f.idpErr != nil {
		return nil, f.idpErr
	}
	u := &identity.User{UID: "uid-g", Email: "g@example.com", DisplayName: "Google Person"}
	f.emit(u)
	return u, nil
}

func (f *fakeProvider) UpdateDisplayName(ctx context.Context, name string) error {
	f.updatedName = name
	return f.updateNameErr
}

func (f *fakeProvider) SignOut(ctx context.Context) error {
	if f.signOutErr != nil {
		return f.signOutErr
	}
	f.emit(nil)
	return nil
}

func (f *fakeProvider) CurrentUser() *identity.User               { return f.user }
func (f *fakeProvider) Token(ctx context.Context) (string, error) { return "", nil }
func (f *fakeProvider) Subscribe(l identity.Listener)             { f.listener = l }
func (f *fakeProvider) ConsentURL() string                        { return "https://consent.example" }

// ---- fake API client ----

type fakeAPI struct {
	meFunc   func() (*models.Profile, error)
	meCalls  int
	register []api.RegisterRequest

	registerErr error
}

func (f *fakeAPI) Me(ctx context.Context) (*models.Profile, error) {
	f.meCalls++
	if f.meFunc != nil {
		return f.meFunc()
	}
	return &models.Profile{ID: "p1", Role: models.RoleStudent}, nil
}

func (f *fakeAPI) RegisterProfile(ctx context.Context, r api.RegisterRequest) error {
	f.register = append(f.register, r)
	return f.registerErr
}

func (f *fakeAPI) MediaAuth(ctx context.Context) (*api.MediaAuthParams, error) { return nil, nil }
func (f *fakeAPI) Courses(ctx context.Context, q string, page, limit int) (*api.CoursePage, error) {
	return &api.CoursePage{}, nil
}
func (f *fakeAPI) Course(ctx context.Context, id string) (*models.Course, error) { return nil, nil }
func (f *fakeAPI) Questions(ctx context.Context, q api.QuestionQuery) (*api.QuestionPage, error) {
	return &api.QuestionPage{}, nil
}
func (f *fakeAPI) CreateQuestion(ctx context.Context, r api.CreateQuestionRequest) error { return nil }
func (f *fakeAPI) DeleteQuestion(ctx context.Context, id string) error                   { return nil }
func (f *fakeAPI) ApproveQuestion(ctx context.Context, id string) error                  { return nil }
func (f *fakeAPI) BulkImport(ctx context.Context, name string, csv io.Reader) error      { return nil }
func (f *fakeAPI) Export(ctx context.Context, format string, w io.Writer) error          { return nil }

var _ api.Client = (*fakeAPI)(nil)

func newBridge(t *testing.T, provider *fakeProvider, apiClient *fakeAPI) (*Bridge, *session.Session) {
	t.Helper()
	sess, writer := session.New()
	log := logging.NewDefault(io.Discard, slog.LevelDebug)
	b := NewBridge(provider, apiClient, writer, log)
	b.Start()
	return b, sess
}

func TestLogin_FetchesProfileThroughListener(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{}
	b, sess := newBridge(t, provider, apiClient)

	require.NoError(t, b.Login(context.Background(), "a@b.edu", "pw"))

	st := sess.Snapshot()
	require.NotNil(t, st.ProviderUser)
	require.Equal(t, "uid-1", st.ProviderUser.UID)
	require.NotNil(t, st.Profile)
	require.False(t, st.Loading)
	require.Equal(t, 1, apiClient.meCalls, "one profile fetch per transition")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	provider := &fakeProvider{signInErr: errors.New("INVALID_PASSWORD")}
	b, sess := newBridge(t, provider, &fakeAPI{})

	err := b.Login(context.Background(), "a@b.edu", "wrong")
	var authErr *common.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "login", authErr.Op)
	require.Nil(t, sess.Snapshot().ProviderUser)
}

func TestListener_ProfileFetchFailureDegradesSilently(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{meFunc: func() (*models.Profile, error) {
		return nil, &common.RequestError{Status: 500, Message: "backend down"}
	}}
	b, sess := newBridge(t, provider, apiClient)

	require.NoError(t, b.Login(context.Background(), "a@b.edu", "pw"))

	st := sess.Snapshot()
	require.NotNil(t, st.ProviderUser, "provider session survives the failed fetch")
	require.Nil(t, st.Profile)
	require.False(t, st.Loading)
	require.False(t, st.SignedIn())
}

func TestListener_StaleProfileFetchIsDiscarded(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{}
	var b *Bridge

	first := true
	apiClient.meFunc = func() (*models.Profile, error) {
		if first {
			first = false
			// A newer transition arrives while the first fetch is in flight.
			b.onSessionChange(&identity.User{UID: "uid-2"})
			return &models.Profile{ID: "stale"}, nil
		}
		return &models.Profile{ID: "fresh"}, nil
	}

	sess, writer := session.New()
	b = NewBridge(provider, apiClient, writer, logging.NewDefault(io.Discard, slog.LevelDebug))
	b.Start()

	b.onSessionChange(&identity.User{UID: "uid-1"})

	require.Equal(t, "fresh", sess.Snapshot().Profile.ID,
		"the superseded fetch result must not overwrite newer state")
}

func TestLogout_ClearsSession(t *testing.T) {
	provider := &fakeProvider{}
	b, sess := newBridge(t, provider, &fakeAPI{})

	require.NoError(t, b.Login(context.Background(), "a@b.edu", "pw"))
	require.NoError(t, b.Logout(context.Background()))

	st := sess.Snapshot()
	require.Nil(t, st.ProviderUser)
	require.Nil(t, st.Profile)
}

func TestLogout_ProviderFailure(t *testing.T) {
	provider := &fakeProvider{signOutErr: errors.New("network")}
	b, _ := newBridge(t, provider, &fakeAPI{})

	err := b.Logout(context.Background())
	var authErr *common.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "logout", authErr.Op)
}

func TestRegister_CreatesProviderAccountAndBackendProfile(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{}
	b, sess := newBridge(t, provider, apiClient)

	fields := ProfileFields{
		Name:            "Student One",
		BloodGroup:      "O+",
		PhoneNumber:     "017xxxxxxxx",
		UniversityRegNo: "2020-1-60-001",
	}
	require.NoError(t, b.Register(context.Background(), "s1@uni.edu", "pw", fields))

	require.Equal(t, "Student One", provider.updatedName)
	require.Len(t, apiClient.register, 1)
	got := apiClient.register[0]
	require.Equal(t, "uid-new", got.ProviderUID)
	require.Equal(t, "s1@uni.edu", got.Email)
	require.Equal(t, "O+", got.BloodGroup)
	require.Equal(t, "2020-1-60-001", got.UniversityRegNo)
	require.True(t, sess.Snapshot().SignedIn())
}

func TestRegister_BackendFailureLeavesProviderAccount(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{
		registerErr: &common.RequestError{Status: 409, Message: "email already registered"},
	}
	b, sess := newBridge(t, provider, apiClient)

	err := b.Register(context.Background(), "s1@uni.edu", "pw", ProfileFields{Name: "S"})
	var authErr *common.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "register", authErr.Op)

	// No compensating rollback: the provider session exists without a profile.
	require.NotNil(t, sess.Snapshot().ProviderUser)
}

func TestRegister_DisplayNameFailureIsBestEffort(t *testing.T) {
	provider := &fakeProvider{updateNameErr: errors.New("update failed")}
	apiClient := &fakeAPI{}
	b, _ := newBridge(t, provider, apiClient)

	require.NoError(t, b.Register(context.Background(), "s1@uni.edu", "pw", ProfileFields{Name: "S"}))
	require.Len(t, apiClient.register, 1)
}

func TestLoginWithGoogle_ExistingProfile(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{}
	b, sess := newBridge(t, provider, apiClient)

	require.NoError(t, b.LoginWithGoogle(context.Background(), "oauth-cred"))
	require.Empty(t, apiClient.register, "no auto-registration when the profile exists")
	require.True(t, sess.Snapshot().SignedIn())
}

func TestLoginWithGoogle_AutoRegistersOnUnauthorized(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{}
	registered := false
	apiClient.meFunc = func() (*models.Profile, error) {
		if !registered {
			return nil, &common.RequestError{Status: 401}
		}
		return &models.Profile{ID: "p-g", Role: models.RoleStudent}, nil
	}
	b, sess := newBridge(t, provider, apiClient)

	// Flip the fake backend to "profile exists" once registration lands, so
	// the follow-up probe sees it.
	b.api = registerFlipper{inner: apiClient, flag: &registered}

	require.NoError(t, b.LoginWithGoogle(context.Background(), "oauth-cred"))
	require.Len(t, apiClient.register, 1)
	require.Equal(t, "uid-g", apiClient.register[0].ProviderUID)
	require.Equal(t, "Google Person", apiClient.register[0].Name)
	require.True(t, sess.Snapshot().SignedIn())
}

// registerFlipper marks the fake backend as having a profile once
// RegisterProfile succeeds, so the follow-up probe sees it.
type registerFlipper struct {
	inner *fakeAPI
	flag  *bool
}

func (r registerFlipper) Me(ctx context.Context) (*models.Profile, error) { return r.inner.Me(ctx) }
func (r registerFlipper) RegisterProfile(ctx context.Context, req api.RegisterRequest) error {
	err := r.inner.RegisterProfile(ctx, req)
	if err == nil {
		*r.flag = true
	}
	return err
}
func (r registerFlipper) MediaAuth(ctx context.Context) (*api.MediaAuthParams, error) {
	return r.inner.MediaAuth(ctx)
}
func (r registerFlipper) Courses(ctx context.Context, q string, page, limit int) (*api.CoursePage, error) {
	return r.inner.Courses(ctx, q, page, limit)
}
func (r registerFlipper) Course(ctx context.Context, id string) (*models.Course, error) {
	return r.inner.Course(ctx, id)
}
func (r registerFlipper) Questions(ctx context.Context, q api.QuestionQuery) (*api.QuestionPage, error) {
	return r.inner.Questions(ctx, q)
}
func (r registerFlipper) CreateQuestion(ctx context.Context, req api.CreateQuestionRequest) error {
	return r.inner.CreateQuestion(ctx, req)
}
func (r registerFlipper) DeleteQuestion(ctx context.Context, id string) error {
	return r.inner.DeleteQuestion(ctx, id)
}
func (r registerFlipper) ApproveQuestion(ctx context.Context, id string) error {
	return r.inner.ApproveQuestion(ctx, id)
}
func (r registerFlipper) BulkImport(ctx context.Context, name string, csv io.Reader) error {
	return r.inner.BulkImport(ctx, name, csv)
}
func (r registerFlipper) Export(ctx context.Context, format string, w io.Writer) error {
	return r.inner.Export(ctx, format, w)
}

func TestLoginWithGoogle_ProbeFailureOtherThan401(t *testing.T) {
	provider := &fakeProvider{}
	apiClient := &fakeAPI{meFunc: func() (*models.Profile, error) {
		return nil, &common.RequestError{Status: 500, Message: "backend down"}
	}}
	b, _ := newBridge(t, provider, apiClient)

	err := b.LoginWithGoogle(context.Background(), "oauth-cred")
	var authErr *common.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Empty(t, apiClient.register)
}

func TestLoginWithGoogle_CancelledConsent(t *testing.T) {
	provider := &fakeProvider{idpErr: errors.New("consent cancelled")}
	b, _ := newBridge(t, provider, &fakeAPI{})

	err := b.LoginWithGoogle(context.Background(), "")
	var authErr *common.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "google login", authErr.Op)
}
