package cli

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shafayetkh/qbank/internal/client/models"
	"github.com/shafayetkh/qbank/internal/client/upload"
)

// Upload walks the question submission form: fields, optional images, then
// one submission request.
func (a *App) Upload(ctx context.Context) error {
	if !a.isSignedIn() {
		a.println("Sign in to upload questions.")
		return nil
	}

	form := &upload.QuestionForm{
		Year:         time.Now().Year(),
		ExamType:     models.ExamFinal,
		QuestionType: models.QuestionShort,
		Difficulty:   models.DifficultyMedium,
	}

	// Course list first, so the user can pick an id.
	courses, err := a.api.Courses(ctx, "", 0, 0)
	if err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	a.println("Courses:")
	for _, c := range courses.Courses {
		a.printf("  %s  %s - %s\n", c.ID, c.Code, c.Name)
	}

	if form.CourseID, err = getSimpleText(a.reader, "Course id", a.out); err != nil {
		return err
	}
	if form.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if form.Body, err = GetMultiline(a.reader, "Question text:", a.out); err != nil {
		return err
	}

	if year, err := getSimpleText(a.reader, "Year (default "+strconv.Itoa(form.Year)+")", a.out); err != nil {
		return err
	} else if year != "" {
		if n, convErr := strconv.Atoi(year); convErr == nil {
			form.Year = n
		}
	}

	if v, err := getSimpleText(a.reader, "Exam type (midterm/final/viva/assignment/quiz, default final)", a.out); err != nil {
		return err
	} else if v != "" {
		form.ExamType = models.ExamType(v)
	}
	if v, err := getSimpleText(a.reader, "Question type (MCQ/short/long/problem, default short)", a.out); err != nil {
		return err
	} else if v != "" {
		form.QuestionType = models.QuestionType(v)
	}
	if v, err := getSimpleText(a.reader, "Difficulty (easy/medium/hard, default medium)", a.out); err != nil {
		return err
	} else if v != "" {
		form.Difficulty = models.Difficulty(v)
	}
	if form.Tags, err = getSimpleText(a.reader, "Tags (comma-separated)", a.out); err != nil {
		return err
	}

	if err := a.attachImages(ctx, form); err != nil {
		return err
	}

	if err := upload.Submit(ctx, a.api, form); err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	a.println("Question uploaded successfully")
	return nil
}

// attachImages uploads local files one by one; each successful upload
// appends its hosted URL to the form. A failed upload is reported and the
// loop continues with the list as it was.
func (a *App) attachImages(ctx context.Context, form *upload.QuestionForm) error {
	for {
		path, err := getSimpleText(a.reader, "Image file to attach (empty to continue)", a.out)
		if err != nil {
			return err
		}
		if path == "" {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			a.notifyErr(ctx, err)
			continue
		}
		err = form.AddImage(ctx, a.uploader, f, filepath.Base(path))
		f.Close()
		if err != nil {
			a.notifyErr(ctx, err)
			continue
		}
		a.printf("Uploaded %d image(s)\n", len(form.Images))
	}
}
