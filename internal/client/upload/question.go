// Package upload implements the submission flows: the question form with its
// client-side required-field checks, delegated per-image uploads, and bulk
// CSV import with a bounded preview.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/client/media"
	"github.com/shafayetkh/qbank/internal/client/models"
)

// ErrCourseRequired is the client-side failure for a missing course
// selection; it fires before any network request.
var ErrCourseRequired = errors.New("Please select a course")

var validate = validator.New(validator.WithRequiredStructEnabled())

// QuestionForm collects the fields of one question submission.
type QuestionForm struct {
	Title        string              `validate:"required"`
	Body         string              `validate:"required"`
	CourseID     string              `validate:"required"`
	Year         int                 `validate:"required,gte=1900,lte=2100"`
	ExamType     models.ExamType     `validate:"required,oneof=midterm final viva assignment quiz"`
	QuestionType models.QuestionType `validate:"required,oneof=MCQ short long problem"`
	Difficulty   models.Difficulty   `validate:"required,oneof=easy medium hard"`

	// Tags is the raw comma-separated input; parsed on submission.
	Tags string

	// Images holds hosted URLs in upload order.
	Images []string
}

// Validate runs the client-side checks. A missing course is reported as
// ErrCourseRequired; everything else surfaces the first offending field.
func (f *QuestionForm) Validate() error {
	if strings.TrimSpace(f.CourseID) == "" {
		return ErrCourseRequired
	}
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s (%s)", strings.ToLower(fe.Field()), fe.Tag())
		}
		return err
	}
	return nil
}

// ParseTags splits a comma-separated tag string: whitespace trimmed, empty
// entries dropped, duplicates removed, order preserved.
func ParseTags(s string) []string {
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		tag := strings.TrimSpace(p)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// AddImage uploads one image through the media host and appends its hosted
// URL to the form's ordered image list.
func (f *QuestionForm) AddImage(ctx context.Context, uploader media.Uploader, r io.Reader, fileName string) error {
	url, err := uploader.Upload(ctx, r, fileName)
	if err != nil {
		return err
	}
	f.Images = append(f.Images, url)
	return nil
}

// RemoveImage drops the image at the given index from the local list. The
// hosted file is not deleted; submission simply stops referencing it.
func (f *QuestionForm) RemoveImage(index int) {
	if index < 0 || index >= len(f.Images) {
		return
	}
	f.Images = append(f.Images[:index], f.Images[index+1:]...)
}

// Submit validates the form and sends the question as one request. On
// validation failure no request is issued.
func Submit(ctx context.Context, client api.Client, f *QuestionForm) error {
	if err := f.Validate(); err != nil {
		return err
	}
	return client.CreateQuestion(ctx, api.CreateQuestionRequest{
		Title:        f.Title,
		Body:         f.Body,
		CourseID:     f.CourseID,
		Year:         f.Year,
		ExamType:     f.ExamType,
		QuestionType: f.QuestionType,
		Difficulty:   f.Difficulty,
		Tags:         ParseTags(f.Tags),
		Images:       f.Images,
	})
}
