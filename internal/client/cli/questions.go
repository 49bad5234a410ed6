package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/shafayetkh/qbank/internal/client/actions"
	"github.com/shafayetkh/qbank/internal/client/listing"
	"github.com/shafayetkh/qbank/internal/client/models"
	"github.com/shafayetkh/qbank/internal/common"
)

// questionFilters are the fields the course-question view accepts for the
// "filter" subcommand.
var questionFilters = map[string]bool{
	"year":          true,
	"exam_type":     true,
	"question_type": true,
	"difficulty":    true,
}

// OpenCourse shows one course's header and its filterable question list.
func (a *App) OpenCourse(ctx context.Context, id string) error {
	course, err := a.api.Course(ctx, id)
	if err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	a.printf("%s (%s)\n", course.Name, course.Code)
	if course.Description != "" {
		a.println(course.Description)
	}

	ctrl := listing.NewCourseQuestions(a.api, id, a.config.QuestionPageSize)
	if err := ctrl.Refresh(ctx); err != nil {
		a.notifyErr(ctx, err)
		return err
	}
	return a.questionLoop(ctx, ctrl)
}

// questionLoop drives a question listing: filters, search, pagination, and
// the per-question actions.
func (a *App) questionLoop(ctx context.Context, ctrl *listing.Controller[models.Question]) error {
	for {
		a.renderQuestions(ctrl)

		cmd, err := getSimpleText(a.reader,
			"questions: filter <field> <value> | search <text> | next | prev | delete <id> | back", a.out)
		if err != nil {
			return err
		}
		parts := strings.Fields(cmd)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "filter":
			if len(parts) < 2 || !questionFilters[parts[1]] {
				a.println("Usage: filter year|exam_type|question_type|difficulty <value>")
				continue
			}
			value := ""
			if len(parts) > 2 {
				value = parts[2]
			}
			if err := ctrl.SetFilter(ctx, parts[1], value); err != nil {
				a.notifyErr(ctx, err)
			}
		case "search":
			if err := ctrl.Search(ctx, strings.Join(parts[1:], " ")); err != nil {
				a.notifyErr(ctx, err)
			}
		case "next":
			if !ctrl.CanNext() {
				a.println("Already at the last page.")
				continue
			}
			if err := ctrl.NextPage(ctx); err != nil {
				a.notifyErr(ctx, err)
			}
		case "prev":
			if !ctrl.CanPrev() {
				a.println("Already at the first page.")
				continue
			}
			if err := ctrl.PrevPage(ctx); err != nil {
				a.notifyErr(ctx, err)
			}
		case "delete":
			if len(parts) < 2 {
				a.println("Usage: delete <question-id>")
				continue
			}
			a.deleteQuestion(ctx, ctrl, parts[1])
		case "back", "b":
			return nil
		default:
			a.println("Unknown command:", parts[0])
		}
	}
}

// deleteQuestion runs the confirmed delete flow and refreshes the listing on
// success. The view keeps its prior state on failure or cancellation.
func (a *App) deleteQuestion(ctx context.Context, ctrl *listing.Controller[models.Question], id string) {
	profile := a.session.Snapshot().Profile

	var target *models.Question
	for _, q := range ctrl.Items() {
		if q.ID == id {
			target = &q
			break
		}
	}
	if target == nil {
		a.println("No such question on this page:", id)
		return
	}
	if !actions.CanDelete(profile, *target) {
		a.println("You cannot delete this question.")
		return
	}

	err := actions.Delete(ctx, a.api, *target, func(prompt string) bool {
		return Confirm(a.reader, prompt, a.out)
	})
	if err != nil {
		if errors.Is(err, common.ErrCancelled) {
			return
		}
		a.notifyErr(ctx, err)
		return
	}

	a.println("Question deleted")
	if err := ctrl.Refresh(ctx); err != nil {
		a.notifyErr(ctx, err)
	}
}

func (a *App) renderQuestions(ctrl *listing.Controller[models.Question]) {
	questions := ctrl.Items()
	if ctrl.Empty() {
		a.println("No questions found")
		return
	}

	profile := a.session.Snapshot().Profile
	for _, q := range questions {
		a.printf("%s  [%d %s/%s/%s] %s\n",
			q.ID, q.Year, q.ExamType, q.QuestionType, q.Difficulty, q.Title)
		a.println("    " + strings.ReplaceAll(q.Body, "\n", "\n    "))
		if len(q.Tags) > 0 {
			a.println("    tags: " + strings.Join(q.Tags, ", "))
		}
		for _, img := range q.Images {
			a.println("    image: " + img)
		}
		if !q.Approved {
			a.println("    (pending approval)")
		}

		var affordances []string
		if actions.CanEdit(profile, q) {
			affordances = append(affordances, "edit")
		}
		if actions.CanDelete(profile, q) {
			affordances = append(affordances, "delete")
		}
		if len(affordances) > 0 {
			a.println("    actions: " + strings.Join(affordances, ", "))
		}
	}
	if ctrl.ShowPagination() {
		a.printf("Page %d of %d\n", ctrl.Page(), ctrl.Pagination().Pages)
	}
}
