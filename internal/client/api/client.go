// Package api is the HTTP adapter for the question-bank REST backend. Every
// outbound call optionally carries a bearer token obtained from a TokenSource
// and surfaces failures as *common.RequestError. There is no retry, request
// deduplication, or timeout policy beyond the transport default.
package api

import (
	"context"
	"io"
	"net/url"
	"strconv"

	"github.com/shafayetkh/qbank/internal/client/models"
)

// TokenSource yields the bearer credential for the current provider session.
// An empty token with a nil error means "no session"; the request is then
// sent unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// RegisterRequest is the payload for POST /auth/register. ProviderUID is the
// uid issued by the external identity provider.
type RegisterRequest struct {
	ProviderUID     string `json:"firebaseUid"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	BloodGroup      string `json:"blood_group,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	UniversityRegNo string `json:"university_reg_no,omitempty"`
}

// MediaAuthParams are the signed upload parameters returned by
// GET /auth/imagekit-auth, consumed by the media uploader.
type MediaAuthParams struct {
	Token     string `json:"token"`
	Signature string `json:"signature"`
	Expire    int64  `json:"expire"`
}

// QuestionQuery is the filter set accepted by GET /questions. Zero values are
// omitted from the query string. Approved is a tri-state: nil means "no
// approval filter".
type QuestionQuery struct {
	Course       string
	Year         string
	ExamType     string
	QuestionType string
	Difficulty   string
	Q            string
	UploadedBy   string
	Approved     *bool
	Page         int
	Limit        int
}

// Values encodes the query into URL parameters, dropping zero values.
func (q QuestionQuery) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("course", q.Course)
	set("year", q.Year)
	set("exam_type", q.ExamType)
	set("question_type", q.QuestionType)
	set("difficulty", q.Difficulty)
	set("q", q.Q)
	set("uploadedBy", q.UploadedBy)
	if q.Approved != nil {
		v.Set("approved", strconv.FormatBool(*q.Approved))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// CreateQuestionRequest is the payload for POST /questions.
type CreateQuestionRequest struct {
	Title        string              `json:"title"`
	Body         string              `json:"body"`
	CourseID     string              `json:"course_id"`
	Year         int                 `json:"year"`
	ExamType     models.ExamType     `json:"exam_type"`
	QuestionType models.QuestionType `json:"question_type"`
	Difficulty   models.Difficulty   `json:"difficulty"`
	Tags         []string            `json:"tags"`
	Images       []string            `json:"images"`
}

// CoursePage is the paginated response of GET /courses.
type CoursePage struct {
	Courses    []models.Course   `json:"courses"`
	Pagination models.Pagination `json:"pagination"`
}

// QuestionPage is the paginated response of GET /questions.
type QuestionPage struct {
	Questions  []models.Question `json:"questions"`
	Pagination models.Pagination `json:"pagination"`
}

// Client is the surface of the question-bank backend the qbank CLI consumes.
//
// All methods honor context cancellation. Protected endpoints rely on the
// TokenSource wired into the concrete implementation; a 401 is logged by the
// adapter and returned to the caller untouched (no auto-retry or redirect).
type Client interface {
	RegisterProfile(ctx context.Context, req RegisterRequest) error
	Me(ctx context.Context) (*models.Profile, error)
	MediaAuth(ctx context.Context) (*MediaAuthParams, error)

	Courses(ctx context.Context, q string, page, limit int) (*CoursePage, error)
	Course(ctx context.Context, id string) (*models.Course, error)

	Questions(ctx context.Context, query QuestionQuery) (*QuestionPage, error)
	CreateQuestion(ctx context.Context, req CreateQuestionRequest) error
	DeleteQuestion(ctx context.Context, id string) error
	ApproveQuestion(ctx context.Context, id string) error
	BulkImport(ctx context.Context, fileName string, csv io.Reader) error
	Export(ctx context.Context, format string, w io.Writer) error
}
