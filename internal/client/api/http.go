package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/shafayetkh/qbank/internal/client/models"
	"github.com/shafayetkh/qbank/internal/common"
	"github.com/shafayetkh/qbank/internal/logging"
)

// HTTPClient is the concrete Client over net/http.
type HTTPClient struct {
	baseURL string
	tokens  TokenSource
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient constructs a Client for the given base URL. tokens supplies
// the bearer credential per request and may yield an empty token when no
// session exists.
func NewHTTPClient(baseURL string, tokens TokenSource, log logging.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    &http.Client{},
		log:     log.With("component", "api"),
	}
}

// newRequest builds a request against the backend, attaching the bearer
// token (if any) and a fresh X-Request-ID.
func (c *HTTPClient) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("token source: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// do executes the request and decodes a JSON response into out (when out is
// non-nil). Non-2xx responses become *common.RequestError carrying the
// server-supplied message when the body contains one.
func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &common.RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := c.errorFrom(resp)
		if resp.StatusCode == http.StatusUnauthorized {
			c.log.Warn(req.Context(), "unauthorized response",
				"method", req.Method, "path", req.URL.Path)
		}
		return reqErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &common.RequestError{Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorFrom extracts the server message from an error response body.
func (c *HTTPClient) errorFrom(resp *http.Response) *common.RequestError {
	var payload struct {
		Message string `json:"message"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	_ = json.Unmarshal(body, &payload)
	return &common.RequestError{Status: resp.StatusCode, Message: payload.Message}
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil, "")
	if err != nil {
		return &common.RequestError{Err: err}
	}
	return c.do(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, in, out any) error {
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(in); err != nil {
		return &common.RequestError{Err: fmt.Errorf("encode request: %w", err)}
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, nil, &body, "application/json")
	if err != nil {
		return &common.RequestError{Err: err}
	}
	return c.do(req, out)
}

func (c *HTTPClient) RegisterProfile(ctx context.Context, r RegisterRequest) error {
	return c.postJSON(ctx, "/auth/register", r, nil)
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.getJSON(ctx, "/auth/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) MediaAuth(ctx context.Context) (*MediaAuthParams, error) {
	var p MediaAuthParams
	if err := c.getJSON(ctx, "/auth/imagekit-auth", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *HTTPClient) Courses(ctx context.Context, q string, page, limit int) (*CoursePage, error) {
	query := url.Values{}
	if q != "" {
		query.Set("q", q)
	}
	if page > 0 {
		query.Set("page", fmt.Sprint(page))
	}
	if limit > 0 {
		query.Set("limit", fmt.Sprint(limit))
	}
	var out CoursePage
	if err := c.getJSON(ctx, "/courses", query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Course(ctx context.Context, id string) (*models.Course, error) {
	var out models.Course
	if err := c.getJSON(ctx, "/courses/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Questions(ctx context.Context, query QuestionQuery) (*QuestionPage, error) {
	var out QuestionPage
	if err := c.getJSON(ctx, "/questions", query.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateQuestion(ctx context.Context, r CreateQuestionRequest) error {
	return c.postJSON(ctx, "/questions", r, nil)
}

func (c *HTTPClient) DeleteQuestion(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, "/questions/"+url.PathEscape(id), nil, nil, "")
	if err != nil {
		return &common.RequestError{Err: err}
	}
	return c.do(req, nil)
}

func (c *HTTPClient) ApproveQuestion(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/questions/"+url.PathEscape(id)+"/approve", nil, nil, "")
	if err != nil {
		return &common.RequestError{Err: err}
	}
	return c.do(req, nil)
}

// BulkImport sends the original CSV bytes as a single multipart request to
// the bulk-import endpoint. The client does not re-serialize parsed rows;
// the server parses the file itself.
func (c *HTTPClient) BulkImport(ctx context.Context, fileName string, csv io.Reader) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("csv", fileName)
	if err != nil {
		return &common.RequestError{Err: err}
	}
	if _, err := io.Copy(part, csv); err != nil {
		return &common.RequestError{Err: err}
	}
	if err := mw.Close(); err != nil {
		return &common.RequestError{Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/questions/bulk-import", nil, &body, mw.FormDataContentType())
	if err != nil {
		return &common.RequestError{Err: err}
	}
	return c.do(req, nil)
}

// Export streams GET /questions/export into w. format is "csv" or "json".
func (c *HTTPClient) Export(ctx context.Context, format string, w io.Writer) error {
	query := url.Values{"format": {format}}
	req, err := c.newRequest(ctx, http.MethodGet, "/questions/export", query, nil, "")
	if err != nil {
		return &common.RequestError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &common.RequestError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.errorFrom(resp)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return &common.RequestError{Err: err}
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
