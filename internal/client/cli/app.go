package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/client/auth"
	"github.com/shafayetkh/qbank/internal/client/config"
	"github.com/shafayetkh/qbank/internal/client/identity"
	"github.com/shafayetkh/qbank/internal/client/media"
	"github.com/shafayetkh/qbank/internal/client/session"
	"github.com/shafayetkh/qbank/internal/logging"
)

// App wires the qbank client together: identity provider, auth bridge,
// session state, API client, and media uploader.
type App struct {
	config   *config.Config
	log      logging.Logger
	api      api.Client
	bridge   *auth.Bridge
	session  *session.Session
	uploader media.Uploader

	reader *bufio.Reader
	out    io.Writer
}

// NewApp builds the application from configuration. The session-change
// listener is registered here, once, before any auth operation can run.
func NewApp(cfg *config.Config) (*App, error) {
	log := logging.NewDefault(os.Stderr, slog.LevelInfo)

	provider := identity.NewRESTProvider(
		cfg.IdentityAPIKey, cfg.IdentityBaseURL, cfg.IdentityTokenURL, cfg.GoogleConsentURL, log)

	apiClient := api.NewHTTPClient(cfg.APIBaseURL, provider, log)

	sess, writer := session.New()
	bridge := auth.NewBridge(provider, apiClient, writer, log)
	bridge.Start()

	var uploader media.Uploader
	if cfg.CloudinaryURL != "" {
		cld, err := media.NewCloudinaryUploader(cfg.CloudinaryURL, "questions")
		if err != nil {
			return nil, err
		}
		uploader = cld
	} else {
		uploader = media.NewImageKitUploader(apiClient, cfg.ImageKitPublicKey, cfg.ImageKitUploadURL)
	}

	return &App{
		config:   cfg,
		log:      log,
		api:      apiClient,
		bridge:   bridge,
		session:  sess,
		uploader: uploader,
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run starts the interactive loop and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	a.println("Welcome to qbank (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

// status renders the prompt suffix: the signed-in name and role, if any.
func (a *App) status() string {
	st := a.session.Snapshot()
	if !st.SignedIn() {
		return ""
	}
	s := st.Profile.Name
	if s == "" {
		s = st.Profile.Email
	}
	if st.IsAdmin() {
		s += " admin"
	}
	return fmt.Sprintf("(%s)", s)
}

func (a *App) isSignedIn() bool {
	return a.session.Snapshot().SignedIn()
}

func (a *App) isAdmin() bool {
	return a.session.Snapshot().IsAdmin()
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// notifyErr surfaces a failure once as a user-facing notification and logs
// it. Errors are never retried here; the view keeps its prior state.
func (a *App) notifyErr(ctx context.Context, err error) {
	a.printf("Error: %v\n", err)
	a.log.Error(ctx, "operation failed", "err", err)
}
