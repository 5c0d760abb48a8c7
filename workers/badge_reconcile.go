package workers

import (
	"context"
	"log"
	"time"

	"familypoints/models"
	"familypoints/services"

	"gorm.io/gorm"
)

// BadgeReconciler periodically re-runs the badge rule pass for every child.
// Badge evaluation is decoupled from submission approval: a failed pass there
// is only logged, and this loop is what eventually retries it. Evaluation is
// idempotent, so re-running for already-current children is a no-op.
type BadgeReconciler struct {
	DB     *gorm.DB
	Badges *services.BadgeService
}

func NewBadgeReconciler(db *gorm.DB, badges *services.BadgeService) *BadgeReconciler {
	return &BadgeReconciler{DB: db, Badges: badges}
}

// PollBadges runs the reconcile pass on a fixed interval until ctx is
// cancelled.
func PollBadges(ctx context.Context, r *BadgeReconciler, pollInterval time.Duration) {
	log.Println("Starting badge reconcile loop...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Badge reconcile loop stopped.")
			return
		case <-ticker.C:
			if err := r.ReconcileAll(); err != nil {
				log.Printf("❌ Badge reconcile pass failed: %v", err)
			}
		}
	}
}

// ReconcileAll evaluates badges for every child. Per-child failures are
// logged and skipped so one bad row cannot stall the rest of the pass.
func (r *BadgeReconciler) ReconcileAll() error {
	var childIDs []string
	if err := r.DB.Model(&models.User{}).
		Where("role = ?", models.RoleChild).
		Pluck("id", &childIDs).Error; err != nil {
		return err
	}

	for _, childID := range childIDs {
		if err := r.Badges.Evaluate(childID); err != nil {
			log.Printf("⚠️ Badge reconcile failed for child %s: %v", childID, err)
		}
	}
	return nil
}
