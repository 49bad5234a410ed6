package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/shafayetkh/qbank/internal/logging"
)

// refreshLeeway is how long before expiry a token is refreshed proactively.
const refreshLeeway = 30 * time.Second

// RESTProvider implements Provider over the identity provider's REST
// endpoints (accounts:signUp, accounts:signInWithPassword,
// accounts:signInWithIdp, accounts:update, and the token-refresh endpoint).
type RESTProvider struct {
	apiKey     string
	baseURL    string
	tokenURL   string
	consentURL string
	http       *http.Client
	log        logging.Logger

	mu           sync.Mutex
	user         *User
	idToken      string
	refreshToken string
	expiresAt    time.Time
	listener     Listener
}

// NewRESTProvider constructs a provider client. baseURL is the accounts
// endpoint root, tokenURL the refresh endpoint, consentURL the hosted consent
// page for social sign-in.
func NewRESTProvider(apiKey, baseURL, tokenURL, consentURL string, log logging.Logger) *RESTProvider {
	return &RESTProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokenURL:   tokenURL,
		consentURL: consentURL,
		http:       &http.Client{},
		log:        log.With("component", "identity"),
	}
}

// sessionResponse is the common shape of the provider's session-granting
// responses.
type sessionResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	DisplayName  string `json:"displayName"`
	FullName     string `json:"fullName"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

// providerError is the provider's error envelope, e.g.
// {"error":{"message":"EMAIL_NOT_FOUND"}}.
type providerError struct {
	ErrorInfo struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *RESTProvider) post(ctx context.Context, action string, in, out any) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(in); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/accounts:%s?key=%s", p.baseURL, action, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var pe providerError
		_ = json.NewDecoder(resp.Body).Decode(&pe)
		if pe.ErrorInfo.Message != "" {
			return fmt.Errorf("identity provider: %s", pe.ErrorInfo.Message)
		}
		return fmt.Errorf("identity provider: status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// adoptSession stores the new session and notifies the listener. Must be
// called without p.mu held.
func (p *RESTProvider) adoptSession(sr *sessionResponse) (*User, error) {
	claims, err := parseToken(sr.IDToken)
	if err != nil {
		return nil, err
	}

	user := &User{UID: sr.LocalID, Email: sr.Email, DisplayName: sr.DisplayName}
	if user.UID == "" {
		user.UID = claims.UID
	}
	if user.Email == "" {
		user.Email = claims.Email
	}
	if user.DisplayName == "" {
		if sr.FullName != "" {
			user.DisplayName = sr.FullName
		} else {
			user.DisplayName = claims.Name
		}
	}

	p.mu.Lock()
	p.user = user
	p.idToken = sr.IDToken
	p.refreshToken = sr.RefreshToken
	p.expiresAt = claims.ExpiresAt
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(user)
	}
	return user, nil
}

func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*User, error) {
	var sr sessionResponse
	in := map[string]any{"email": email, "password": password, "returnSecureToken": true}
	if err := p.post(ctx, "signUp", in, &sr); err != nil {
		return nil, err
	}
	return p.adoptSession(&sr)
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*User, error) {
	var sr sessionResponse
	in := map[string]any{"email": email, "password": password, "returnSecureToken": true}
	if err := p.post(ctx, "signInWithPassword", in, &sr); err != nil {
		return nil, err
	}
	return p.adoptSession(&sr)
}

func (p *RESTProvider) SignInWithIDP(ctx context.Context, credential string) (*User, error) {
	var sr sessionResponse
	in := map[string]any{
		"postBody":            "id_token=" + url.QueryEscape(credential) + "&providerId=google.com",
		"requestUri":          "http://localhost",
		"returnSecureToken":   true,
		"returnIdpCredential": true,
	}
	if err := p.post(ctx, "signInWithIdp", in, &sr); err != nil {
		return nil, err
	}
	return p.adoptSession(&sr)
}

func (p *RESTProvider) UpdateDisplayName(ctx context.Context, name string) error {
	p.mu.Lock()
	token := p.idToken
	user := p.user
	p.mu.Unlock()
	if token == "" {
		return fmt.Errorf("no active session")
	}

	in := map[string]any{"idToken": token, "displayName": name, "returnSecureToken": false}
	if err := p.post(ctx, "update", in, nil); err != nil {
		return err
	}

	p.mu.Lock()
	if p.user == user && user != nil {
		updated := *user
		updated.DisplayName = name
		p.user = &updated
	}
	p.mu.Unlock()
	return nil
}

// SignOut drops the session locally and notifies the listener with nil.
// Token revocation is the provider's concern; the client only forgets.
func (p *RESTProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	p.user = nil
	p.idToken = ""
	p.refreshToken = ""
	p.expiresAt = time.Time{}
	listener := p.listener
	p.mu.Unlock()

	if listener != nil {
		listener(nil)
	}
	return nil
}

func (p *RESTProvider) CurrentUser() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

// Token returns the current ID token, refreshing it when it is within
// refreshLeeway of expiry. A successful refresh counts as a session
// transition and notifies the listener.
func (p *RESTProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	token := p.idToken
	refresh := p.refreshToken
	expired := !p.expiresAt.IsZero() && time.Until(p.expiresAt) < refreshLeeway
	p.mu.Unlock()

	if token == "" {
		return "", nil
	}
	if !expired {
		return token, nil
	}
	return p.refreshSession(ctx, refresh)
}

// refreshSession exchanges the refresh token for a new ID token.
func (p *RESTProvider) refreshSession(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	u := p.tokenURL + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("identity provider: refresh failed with status %d", resp.StatusCode)
	}

	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	claims, err := parseToken(out.IDToken)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.idToken = out.IDToken
	p.refreshToken = out.RefreshToken
	p.expiresAt = claims.ExpiresAt
	user := p.user
	listener := p.listener
	p.mu.Unlock()

	p.log.Debug(ctx, "session token refreshed")
	if listener != nil && user != nil {
		listener(user)
	}
	return out.IDToken, nil
}

func (p *RESTProvider) Subscribe(l Listener) {
	p.mu.Lock()
	p.listener = l
	p.mu.Unlock()
}

func (p *RESTProvider) ConsentURL() string { return p.consentURL }

var _ Provider = (*RESTProvider)(nil)
