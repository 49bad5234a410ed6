package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shafayetkh/qbank/internal/client/actions"
	"github.com/shafayetkh/qbank/internal/client/listing"
	"github.com/shafayetkh/qbank/internal/client/models"
	"github.com/shafayetkh/qbank/internal/client/upload"
	"github.com/shafayetkh/qbank/internal/common"
)

// Admin drives the moderation panel: pending/all listings, single and bulk
// approval, CSV import, and export.
func (a *App) Admin(ctx context.Context) error {
	if !a.isAdmin() {
		a.println("Access denied. Admin privileges required.")
		return common.ErrUnauthorized
	}

	pendingOnly := true
	ctrl := listing.NewAdmin(a.api, pendingOnly, a.config.AdminPageSize)
	if err := ctrl.Refresh(ctx); err != nil {
		a.notifyErr(ctx, err)
		return err
	}

	for {
		a.renderQuestions(ctrl)

		cmd, err := getSimpleText(a.reader,
			"admin: pending | all | approve <id> | bulk-approve | import <file> | template <file> | export csv|json <file> | next | prev | back", a.out)
		if err != nil {
			return err
		}
		parts := strings.Fields(cmd)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "pending", "all":
			pendingOnly = parts[0] == "pending"
			ctrl = listing.NewAdmin(a.api, pendingOnly, a.config.AdminPageSize)
			if err := ctrl.Refresh(ctx); err != nil {
				a.notifyErr(ctx, err)
			}
		case "approve":
			if len(parts) < 2 {
				a.println("Usage: approve <question-id>")
				continue
			}
			if err := actions.Approve(ctx, a.api, parts[1]); err != nil {
				a.notifyErr(ctx, err)
				continue
			}
			a.println("Question approved")
			if err := ctrl.Refresh(ctx); err != nil {
				a.notifyErr(ctx, err)
			}
		case "bulk-approve":
			a.bulkApprove(ctx, ctrl)
		case "import":
			if len(parts) < 2 {
				a.println("Usage: import <file.csv>")
				continue
			}
			a.importCSV(ctx, parts[1])
		case "template":
			if len(parts) < 2 {
				a.println("Usage: template <file.csv>")
				continue
			}
			if err := os.WriteFile(parts[1], upload.Template(), 0o644); err != nil {
				a.notifyErr(ctx, err)
				continue
			}
			a.println("Template written to", parts[1])
		case "export":
			if len(parts) < 3 {
				a.println("Usage: export csv|json <file>")
				continue
			}
			a.exportQuestions(ctx, parts[1], parts[2])
		case "next":
			if err := ctrl.NextPage(ctx); err != nil {
				a.notifyErr(ctx, err)
			}
		case "prev":
			if err := ctrl.PrevPage(ctx); err != nil {
				a.notifyErr(ctx, err)
			}
		case "back", "b":
			return nil
		default:
			a.println("Unknown command:", parts[0])
		}
	}
}

// bulkApprove approves every pending question on the current page and
// reports one aggregate notification. Partial success is explicit; nothing
// is rolled back.
func (a *App) bulkApprove(ctx context.Context, ctrl *listing.Controller[models.Question]) {
	pending := 0
	for _, q := range ctrl.Items() {
		if !q.Approved {
			pending++
		}
	}
	if pending == 0 {
		a.println("No pending questions to approve")
		return
	}
	if !Confirm(a.reader, fmt.Sprintf("Approve %d pending questions?", pending), a.out) {
		return
	}

	res := actions.BulkApprove(ctx, a.api, ctrl.Items(), a.log)
	if res.Failed > 0 {
		a.printf("%d questions approved, %d failed\n", res.Approved, res.Failed)
	} else {
		a.printf("%d questions approved\n", res.Approved)
	}
	if err := ctrl.Refresh(ctx); err != nil {
		a.notifyErr(ctx, err)
	}
}

// importCSV previews the file client-side, asks for confirmation, then sends
// the original bytes as one multipart request. Parse and submission errors
// are reported independently.
func (a *App) importCSV(ctx context.Context, path string) {
	content, err := os.ReadFile(path)
	if err != nil {
		a.notifyErr(ctx, err)
		return
	}

	preview, err := upload.Preview(strings.NewReader(string(content)))
	if err != nil {
		a.notifyErr(ctx, err)
		return
	}

	a.printf("Preview (first %d rows):\n", upload.PreviewRows)
	a.println(strings.Join(preview.Header, " | "))
	for _, row := range preview.Rows {
		cells := make([]string, len(preview.Header))
		for i, col := range preview.Header {
			cells[i] = row[col]
		}
		a.println(strings.Join(cells, " | "))
	}

	if !Confirm(a.reader, "Import this file?", a.out) {
		return
	}
	if err := upload.Import(ctx, a.api, path, content); err != nil {
		a.notifyErr(ctx, err)
		return
	}
	a.println("Questions imported successfully")
}

// exportQuestions streams the export endpoint into a local file.
func (a *App) exportQuestions(ctx context.Context, format, path string) {
	f, err := os.Create(path)
	if err != nil {
		a.notifyErr(ctx, err)
		return
	}
	defer f.Close()

	if err := upload.Export(ctx, a.api, format, f); err != nil {
		a.notifyErr(ctx, err)
		return
	}
	a.println("Exported to", path)
}
