package cli

import (
	"context"
	"strings"

	"github.com/shafayetkh/qbank/internal/client/listing"
	"github.com/shafayetkh/qbank/internal/client/models"
)

// Courses renders the course catalogue with search and pagination.
func (a *App) Courses(ctx context.Context) error {
	ctrl := listing.NewCourses(a.api, a.config.QuestionPageSize)
	if err := ctrl.Refresh(ctx); err != nil {
		a.notifyErr(ctx, err)
		return err
	}

	for {
		a.renderCourses(ctrl)

		cmd, err := getSimpleText(a.reader, "courses: search <text> | next | prev | open <id> | back", a.out)
		if err != nil {
			return err
		}
		parts := strings.Fields(cmd)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
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
		case "open":
			if len(parts) < 2 {
				a.println("Usage: open <course-id>")
				continue
			}
			if err := a.OpenCourse(ctx, parts[1]); err != nil {
				return err
			}
		case "back", "b":
			return nil
		default:
			a.println("Unknown command:", parts[0])
		}
	}
}

func (a *App) renderCourses(ctrl *listing.Controller[models.Course]) {
	courses := ctrl.Items()
	if ctrl.Empty() {
		a.println("No courses found")
		return
	}
	for _, c := range courses {
		a.printf("%s  %s - %s\n", c.ID, c.Code, c.Name)
		if c.Description != "" {
			a.printf("    %s\n", c.Description)
		}
	}
	if ctrl.ShowPagination() {
		a.printf("Page %d of %d\n", ctrl.Page(), ctrl.Pagination().Pages)
	}
}
