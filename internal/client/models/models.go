// Package models holds the client-side view of the entities owned by the
// question-bank backend. All durable state lives on the server; these are
// ephemeral copies decoded from API responses.
package models

import "time"

// Role is the backend-assigned role of a profile.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Profile is the backend user record keyed by the external identity
// provider's uid. It is fetched fresh on every session change and never
// cached beyond the current session.
type Profile struct {
	ID              string `json:"_id"`
	ProviderUID     string `json:"firebaseUid"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Role            Role   `json:"role"`
	BloodGroup      string `json:"blood_group,omitempty"`
	PhoneNumber     string `json:"phone_number,omitempty"`
	UniversityRegNo string `json:"university_reg_no,omitempty"`
}

// IsAdmin reports whether the profile carries the admin role.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Course is read-only from the client's perspective.
type Course struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// ExamType enumerates the exam a question appeared in.
type ExamType string

const (
	ExamMidterm    ExamType = "midterm"
	ExamFinal      ExamType = "final"
	ExamViva       ExamType = "viva"
	ExamAssignment ExamType = "assignment"
	ExamQuiz       ExamType = "quiz"
)

// QuestionType enumerates the answer format of a question.
type QuestionType string

const (
	QuestionMCQ     QuestionType = "MCQ"
	QuestionShort   QuestionType = "short"
	QuestionLong    QuestionType = "long"
	QuestionProblem QuestionType = "problem"
)

// Difficulty enumerates the subjective difficulty of a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// UserRef is the uploader reference embedded in a question.
type UserRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

// Question is a single exam question as returned by the backend.
type Question struct {
	ID           string       `json:"_id"`
	Title        string       `json:"title"`
	Body         string       `json:"body"`
	Course       Course       `json:"course"`
	Year         int          `json:"year"`
	ExamType     ExamType     `json:"exam_type"`
	QuestionType QuestionType `json:"question_type"`
	Difficulty   Difficulty   `json:"difficulty"`
	Tags         []string     `json:"tags"`
	Images       []string     `json:"images"`
	Approved     bool         `json:"approved"`
	UploadedBy   UserRef      `json:"uploadedBy"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Pagination is the envelope the backend returns with every listing query.
// Page is 1-based; Pages is the total page count for the current filters.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}
