package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the process environment. A .env
// file in the working directory is loaded first if present; real environment
// variables still win over it (godotenv does not override existing vars).
//
// Recognized variables:
//
//	QBANK_API_URL              base URL of the backend REST API
//	QBANK_IDENTITY_API_KEY     identity-provider project API key
//	QBANK_IDENTITY_URL         identity-provider accounts endpoint
//	QBANK_IDENTITY_TOKEN_URL   identity-provider token-refresh endpoint
//	QBANK_GOOGLE_CONSENT_URL   hosted consent page for social sign-in
//	QBANK_IMAGEKIT_PUBLIC_KEY  media-host public key
//	QBANK_IMAGEKIT_UPLOAD_URL  media-host direct-upload endpoint
//	CLOUDINARY_URL             selects the Cloudinary uploader when set
//	QBANK_PAGE_SIZE            questions-per-page for course listings
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	setString(&cfg.APIBaseURL, "QBANK_API_URL")
	setString(&cfg.IdentityAPIKey, "QBANK_IDENTITY_API_KEY")
	setString(&cfg.IdentityBaseURL, "QBANK_IDENTITY_URL")
	setString(&cfg.IdentityTokenURL, "QBANK_IDENTITY_TOKEN_URL")
	setString(&cfg.GoogleConsentURL, "QBANK_GOOGLE_CONSENT_URL")
	setString(&cfg.ImageKitPublicKey, "QBANK_IMAGEKIT_PUBLIC_KEY")
	setString(&cfg.ImageKitUploadURL, "QBANK_IMAGEKIT_UPLOAD_URL")
	setString(&cfg.CloudinaryURL, "CLOUDINARY_URL")
	setInt(&cfg.QuestionPageSize, "QBANK_PAGE_SIZE")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = n
		}
	}
}
