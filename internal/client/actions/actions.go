// Package actions computes the per-question action affordances and runs the
// moderation/deletion flows.
//
// The gating here is a UI hint only: the backend re-checks every mutation and
// remains the sole enforcement point. Keep the two in sync deliberately, not
// implicitly.
package actions

import (
	"context"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/client/models"
	"github.com/shafayetkh/qbank/internal/common"
	"github.com/shafayetkh/qbank/internal/logging"
)

// IsOwner reports whether the profile uploaded the question.
func IsOwner(p *models.Profile, q models.Question) bool {
	return p != nil && p.ID != "" && q.UploadedBy.ID == p.ID
}

// CanEdit: owner only, and only while the question is unapproved.
func CanEdit(p *models.Profile, q models.Question) bool {
	return IsOwner(p, q) && !q.Approved
}

// CanDelete: the owner while unapproved, or an admin at any time.
func CanDelete(p *models.Profile, q models.Question) bool {
	return (IsOwner(p, q) && !q.Approved) || p.IsAdmin()
}

// CanApprove: admin only; surfaced only in the admin listing.
func CanApprove(p *models.Profile) bool {
	return p.IsAdmin()
}

// Confirmer asks the user a yes/no question before a destructive action.
type Confirmer func(prompt string) bool

// Delete removes a question after an explicit user confirmation. Returns
// common.ErrCancelled (no request fired) when the user declines.
func Delete(ctx context.Context, client api.Client, q models.Question, confirm Confirmer) error {
	if !confirm("Are you sure you want to delete this question?") {
		return common.ErrCancelled
	}
	return client.DeleteQuestion(ctx, q.ID)
}

// Approve flips a single question to approved.
func Approve(ctx context.Context, client api.Client, id string) error {
	return client.ApproveQuestion(ctx, id)
}

// BulkResult is the aggregate outcome of a bulk approval: partial success is
// explicit, not rolled back.
type BulkResult struct {
	Approved int
	Failed   int
}

// BulkApprove walks the currently loaded set, issuing one approval request
// per still-pending item, sequentially. A failure is counted and logged but
// does not stop the walk or undo already-approved items.
func BulkApprove(ctx context.Context, client api.Client, questions []models.Question, log logging.Logger) BulkResult {
	var res BulkResult
	for _, q := range questions {
		if q.Approved {
			continue
		}
		if err := client.ApproveQuestion(ctx, q.ID); err != nil {
			res.Failed++
			log.Error(ctx, "approve failed", "id", q.ID, "err", err)
			continue
		}
		res.Approved++
	}
	return res
}
