package listing

import (
	"context"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/client/models"
)

// NewCourses returns the controller behind the course catalogue. Supported
// filter: "q" (free-text search).
func NewCourses(client api.Client, limit int) *Controller[models.Course] {
	fetch := func(ctx context.Context, filters map[string]string, page int) (Page[models.Course], error) {
		resp, err := client.Courses(ctx, filters["q"], page, limit)
		if err != nil {
			return Page[models.Course]{}, err
		}
		return Page[models.Course]{Items: resp.Courses, Pagination: resp.Pagination}, nil
	}
	return NewController(fetch)
}

// questionFetch builds a FetchFunc over GET /questions with a base query;
// per-view filters overlay it.
func questionFetch(client api.Client, base api.QuestionQuery) FetchFunc[models.Question] {
	return func(ctx context.Context, filters map[string]string, page int) (Page[models.Question], error) {
		q := base
		q.Year = filters["year"]
		q.ExamType = filters["exam_type"]
		q.QuestionType = filters["question_type"]
		q.Difficulty = filters["difficulty"]
		q.Q = filters["q"]
		q.Page = page
		resp, err := client.Questions(ctx, q)
		if err != nil {
			return Page[models.Question]{}, err
		}
		return Page[models.Question]{Items: resp.Questions, Pagination: resp.Pagination}, nil
	}
}

// NewCourseQuestions returns the controller behind a single course's
// question list. Supported filters: year, exam_type, question_type,
// difficulty, q.
func NewCourseQuestions(client api.Client, courseID string, limit int) *Controller[models.Question] {
	return NewController(questionFetch(client, api.QuestionQuery{Course: courseID, Limit: limit}))
}

// NewDashboard returns the controller behind the signed-in user's own
// uploads.
func NewDashboard(client api.Client, profileID string, limit int) *Controller[models.Question] {
	return NewController(questionFetch(client, api.QuestionQuery{UploadedBy: profileID, Limit: limit}))
}

// NewAdmin returns the controller behind the admin moderation list.
// pendingOnly narrows it to unapproved submissions.
func NewAdmin(client api.Client, pendingOnly bool, limit int) *Controller[models.Question] {
	base := api.QuestionQuery{Limit: limit}
	if pendingOnly {
		approved := false
		base.Approved = &approved
	}
	return NewController(questionFetch(client, base))
}
