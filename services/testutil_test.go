package services

import (
	"fmt"
	"testing"
	"time"

	"familypoints/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database so every pooled connection sees the same
	// in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.Submission{},
		&models.SubmissionEvidence{},
		&models.PointsLedger{},
		&models.Reward{},
		&models.RewardRedemption{},
		&models.Badge{},
		&models.ChildBadge{},
		&models.ParentSettings{},
		&models.Announcement{},
		&models.AnnouncementRead{},
		&models.AnnouncementDismissal{},
	))
	return db
}

func seedFamily(t *testing.T, db *gorm.DB) (parent, child models.User) {
	t.Helper()

	parent = models.User{
		ID:           uuid.NewString(),
		Name:         "Parent",
		PasswordHash: "x",
		Role:         models.RoleParent,
	}
	require.NoError(t, db.Create(&parent).Error)

	child = models.User{
		ID:           uuid.NewString(),
		Name:         "Child",
		PasswordHash: "x",
		Role:         models.RoleChild,
		ParentID:     &parent.ID,
	}
	require.NoError(t, db.Create(&child).Error)
	return parent, child
}

func seedTask(t *testing.T, db *gorm.DB, parentID string, category models.Category, points int) models.Task {
	t.Helper()

	task := models.Task{
		ID:       uuid.NewString(),
		ParentID: parentID,
		Name:     fmt.Sprintf("%s task", category),
		Category: category,
		Points:   points,
		IsActive: true,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func seedReward(t *testing.T, db *gorm.DB, parentID string, cost int) models.Reward {
	t.Helper()

	reward := models.Reward{
		ID:         uuid.NewString(),
		ParentID:   parentID,
		Name:       "Ice Cream",
		Type:       models.RewardTypePrivilege,
		CostPoints: cost,
		IsActive:   true,
	}
	require.NoError(t, db.Create(&reward).Error)
	return reward
}

// seedApprovedSubmission plants an already-reviewed submission directly,
// bypassing the approval flow, for badge and streak assertions.
func seedApprovedSubmission(t *testing.T, db *gorm.DB, childID, taskID string, createdAt time.Time) models.Submission {
	t.Helper()

	submission := models.Submission{
		ID:        uuid.NewString(),
		ChildID:   childID,
		TaskID:    taskID,
		Status:    models.SubmissionApproved,
		CreatedAt: createdAt,
	}
	require.NoError(t, db.Create(&submission).Error)
	return submission
}

func pinClock(ledger *LedgerService, at time.Time) {
	ledger.Now = func() time.Time { return at }
}
