package cli

import (
	"context"

	"github.com/shafayetkh/qbank/internal/client/listing"
)

// Dashboard shows the signed-in user's profile and their own uploads.
func (a *App) Dashboard(ctx context.Context) error {
	st := a.session.Snapshot()
	if !st.SignedIn() {
		a.println("Sign in to see your dashboard.")
		return nil
	}

	_ = a.WhoAmI(ctx)

	ctrl := listing.NewDashboard(a.api, st.Profile.ID, a.config.DashboardPageSize)
	if err := ctrl.Refresh(ctx); err != nil {
		a.notifyErr(ctx, err)
		return err
	}

	a.println("Your uploads:")
	return a.questionLoop(ctx, ctrl)
}
