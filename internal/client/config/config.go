// Package config holds runtime settings for the qbank client and the layered
// loader that populates them: defaults, then environment (including an
// optional .env file), then command-line flags. Later sources win.
package config

// Config holds runtime settings for the qbank CLI.
//
// Fields:
//   - APIBaseURL: base URL of the question-bank REST API, including the
//     /api prefix if the deployment uses one.
//   - IdentityAPIKey / IdentityBaseURL / IdentityTokenURL: project credential
//     and endpoints of the external identity provider.
//   - GoogleConsentURL: provider-hosted consent page for social sign-in.
//   - ImageKitPublicKey / ImageKitUploadURL: media-host direct-upload
//     credentials. CloudinaryURL, when set, selects the Cloudinary uploader
//     instead.
//   - QuestionPageSize / DashboardPageSize / AdminPageSize: listing limits.
type Config struct {
	APIBaseURL string

	IdentityAPIKey   string
	IdentityBaseURL  string
	IdentityTokenURL string
	GoogleConsentURL string

	ImageKitPublicKey string
	ImageKitUploadURL string
	CloudinaryURL     string

	QuestionPageSize  int
	DashboardPageSize int
	AdminPageSize     int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.IdentityBaseURL = "https://identitytoolkit.googleapis.com/v1"
	c.IdentityTokenURL = "https://securetoken.googleapis.com/v1/token"
	c.ImageKitUploadURL = "https://upload.imagekit.io/api/v1/files/upload"
	c.QuestionPageSize = 12
	c.DashboardPageSize = 10
	c.AdminPageSize = 20
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (including .env if present) and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
