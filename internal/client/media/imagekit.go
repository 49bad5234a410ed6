package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/common"
)

// ImageKitUploader performs the media host's signed direct upload: for every
// file it fetches fresh auth parameters from the backend (which holds the
// private key) and posts the file as multipart to the upload endpoint.
type ImageKitUploader struct {
	auth      api.Client
	publicKey string
	uploadURL string
	http      *http.Client
}

// NewImageKitUploader wires the uploader to the backend (for auth params)
// and the media host's upload endpoint.
func NewImageKitUploader(auth api.Client, publicKey, uploadURL string) *ImageKitUploader {
	return &ImageKitUploader{
		auth:      auth,
		publicKey: publicKey,
		uploadURL: uploadURL,
		http:      &http.Client{},
	}
}

func (u *ImageKitUploader) Upload(ctx context.Context, r io.Reader, fileName string) (string, error) {
	params, err := u.auth.MediaAuth(ctx)
	if err != nil {
		return "", fmt.Errorf("media auth: %w", err)
	}

	body, contentType, err := u.multipartBody(r, fileName, params)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.uploadURL, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := u.http.Do(req)
	if err != nil {
		return "", &common.RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return "", &common.RequestError{Status: resp.StatusCode, Message: payload.Message}
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload succeeded but no URL returned")
	}
	return out.URL, nil
}

func (u *ImageKitUploader) multipartBody(r io.Reader, fileName string, params *api.MediaAuthParams) (io.Reader, string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := func() error {
			fields := map[string]string{
				"fileName":  fileName,
				"publicKey": u.publicKey,
				"signature": params.Signature,
				"token":     params.Token,
				"expire":    strconv.FormatInt(params.Expire, 10),
			}
			for k, v := range fields {
				if err := mw.WriteField(k, v); err != nil {
					return err
				}
			}
			part, err := mw.CreateFormFile("file", fileName)
			if err != nil {
				return err
			}
			if _, err := io.Copy(part, r); err != nil {
				return err
			}
			return mw.Close()
		}()
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType(), nil
}

var _ Uploader = (*ImageKitUploader)(nil)
