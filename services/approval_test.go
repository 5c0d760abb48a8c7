package services

import (
	"testing"

	"familypoints/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApproval(t *testing.T) (*ApprovalService, models.User, models.User) {
	t.Helper()

	db := newTestDB(t)
	parent, child := seedFamily(t, db)
	ledger := NewLedgerService(db)
	badges := NewBadgeService(db, ledger)
	return NewApprovalService(db, ledger, badges), parent, child
}

func TestCreateSubmissionWithEvidence(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategoryFaith, 20)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{
		TaskID:         task.ID,
		Note:           "Read Psalm 23",
		BibleReference: "Psalm 23",
		EvidenceFiles:  []string{"/uploads/a.jpg", "/uploads/b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionPending, submission.Status)

	var evidence int64
	require.NoError(t, svc.DB.Model(&models.SubmissionEvidence{}).
		Where("submission_id = ?", submission.ID).
		Count(&evidence).Error)
	assert.Equal(t, int64(2), evidence)
}

func TestCreateSubmissionForeignTaskForbidden(t *testing.T) {
	svc, _, child := setupApproval(t)
	otherParent, _ := seedFamily(t, svc.DB)
	task := seedTask(t, svc.DB, otherParent.ID, models.CategoryHome, 20)

	_, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveCreditsLedgerOnce(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 30)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	approved, err := svc.Approve(submission.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionApproved, approved.Status)
	require.NotNil(t, approved.ApprovedAt)
	require.NotNil(t, approved.ReviewedByParentID)
	assert.Equal(t, parent.ID, *approved.ReviewedByParentID)

	entries, err := svc.Ledger.ListEntries(child.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 30, entries[0].DeltaPoints)
	assert.Equal(t, "TASK_APPROVED", entries[0].Reason)
	require.NotNil(t, entries[0].RelatedSubmissionID)
	assert.Equal(t, submission.ID, *entries[0].RelatedSubmissionID)
	require.NotNil(t, entries[0].CreatedByParentID)
	assert.Equal(t, parent.ID, *entries[0].CreatedByParentID)
}

func TestRejectHasNoLedgerEffect(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 30)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	rejected, err := svc.Reject(submission.ID, parent.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionRejected, rejected.Status)
	assert.Nil(t, rejected.ApprovedAt)

	balance, err := svc.Ledger.Balance(child.ID)
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestReviewingTwiceIsRejected(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 30)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	_, err = svc.Approve(submission.ID, parent.ID)
	require.NoError(t, err)

	// A second approval must not double-credit the ledger.
	_, err = svc.Approve(submission.ID, parent.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = svc.Reject(submission.ID, parent.ID)
	assert.ErrorIs(t, err, ErrInvalidState)

	balance, err := svc.Ledger.Balance(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, balance)
}

func TestApproveByOtherParentForbidden(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 30)
	otherParent, _ := seedFamily(t, svc.DB)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	require.NoError(t, err)

	_, err = svc.Approve(submission.ID, otherParent.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestApproveAwardsEarnedBadges(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategoryOther, 250)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	_, err = svc.Approve(submission.ID, parent.ID)
	require.NoError(t, err)

	awarded, err := svc.Badges.ListChildBadges(child.ID)
	require.NoError(t, err)
	require.Len(t, awarded, 1)
	assert.Equal(t, "LEVEL_2", awarded[0].Code)
}

func TestDeleteTaskDetachesLedgerEntries(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 40)

	submission, err := svc.CreateSubmission(child.ID, SubmissionInput{
		TaskID:        task.ID,
		EvidenceFiles: []string{"/uploads/a.jpg"},
	})
	require.NoError(t, err)
	_, err = svc.Approve(submission.ID, parent.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(task.ID, parent.ID))

	var tasks, submissions, evidence int64
	require.NoError(t, svc.DB.Model(&models.Task{}).Count(&tasks).Error)
	require.NoError(t, svc.DB.Model(&models.Submission{}).Count(&submissions).Error)
	require.NoError(t, svc.DB.Model(&models.SubmissionEvidence{}).Count(&evidence).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, submissions)
	assert.Zero(t, evidence)

	// The credit survives with its submission link nulled out.
	entries, err := svc.Ledger.ListEntries(child.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 40, entries[0].DeltaPoints)
	assert.Nil(t, entries[0].RelatedSubmissionID)

	balance, err := svc.Ledger.Balance(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 40, balance)
}

func TestDeleteTaskNotOwnedForbidden(t *testing.T) {
	svc, parent, _ := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 40)
	otherParent, _ := seedFamily(t, svc.DB)

	err := svc.DeleteTask(task.ID, otherParent.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestListPendingScopedToFamily(t *testing.T) {
	svc, parent, child := setupApproval(t)
	task := seedTask(t, svc.DB, parent.ID, models.CategorySchool, 10)
	otherParent, otherChild := seedFamily(t, svc.DB)
	otherTask := seedTask(t, svc.DB, otherParent.ID, models.CategorySchool, 10)

	_, err := svc.CreateSubmission(child.ID, SubmissionInput{TaskID: task.ID})
	require.NoError(t, err)
	_, err = svc.CreateSubmission(otherChild.ID, SubmissionInput{TaskID: otherTask.ID})
	require.NoError(t, err)

	pending, err := svc.ListPending(parent.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, child.ID, pending[0].ChildID)
}
