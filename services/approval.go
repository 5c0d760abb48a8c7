package services

import (
	"errors"
	"fmt"
	"log"

	"familypoints/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalService handles the submission lifecycle: children file claims,
// parents approve or reject. Approval is the only path that credits the
// ledger; the badge pass runs after the credit has committed and never fails
// the approval.
type ApprovalService struct {
	DB     *gorm.DB
	Ledger *LedgerService
	Badges *BadgeService
}

func NewApprovalService(db *gorm.DB, ledger *LedgerService, badges *BadgeService) *ApprovalService {
	return &ApprovalService{DB: db, Ledger: ledger, Badges: badges}
}

// SubmissionInput is a child's claim of a completed task.
type SubmissionInput struct {
	TaskID         string   `json:"task_id"`
	Note           string   `json:"note"`
	BibleReference string   `json:"bible_reference"`
	Reflection     string   `json:"reflection"`
	EvidenceFiles  []string `json:"evidence_files"`
}

// CreateSubmission files a PENDING submission for a task offered by the
// child's parent, attaching any evidence files.
func (s *ApprovalService) CreateSubmission(childID string, in SubmissionInput) (*models.Submission, error) {
	var child models.User
	if err := s.DB.Where("id = ? AND role = ?", childID, models.RoleChild).First(&child).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("child %s: %w", childID, ErrNotFound)
		}
		return nil, err
	}

	var task models.Task
	if err := s.DB.Where("id = ?", in.TaskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %s: %w", in.TaskID, ErrNotFound)
		}
		return nil, err
	}
	if child.ParentID == nil || task.ParentID != *child.ParentID {
		return nil, fmt.Errorf("task %s is not offered to child %s: %w", in.TaskID, childID, ErrForbidden)
	}

	submission := &models.Submission{
		ID:             uuid.NewString(),
		ChildID:        childID,
		TaskID:         task.ID,
		Status:         models.SubmissionPending,
		Note:           in.Note,
		BibleReference: in.BibleReference,
		Reflection:     in.Reflection,
		CreatedAt:      s.Ledger.Now(),
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(submission).Error; err != nil {
			return err
		}
		for _, path := range in.EvidenceFiles {
			evidence := models.SubmissionEvidence{
				ID:           uuid.NewString(),
				SubmissionID: submission.ID,
				FilePath:     path,
				FileType:     "unknown",
			}
			if err := tx.Create(&evidence).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return submission, nil
}

// Approve transitions a PENDING submission to APPROVED and credits the task's
// points in the same transaction. After the commit the badge pass runs; its
// failures are logged and retried by the reconcile worker, never propagated —
// the approval has already happened.
func (s *ApprovalService) Approve(submissionID, parentID string) (*models.Submission, error) {
	submission, err := s.review(submissionID, parentID, models.SubmissionApproved)
	if err != nil {
		return nil, err
	}

	if err := s.Badges.Evaluate(submission.ChildID); err != nil {
		log.Printf("⚠️ Badge evaluation failed for child %s: %v", submission.ChildID, err)
	}
	return submission, nil
}

// Reject stamps the reviewer and status. No ledger or badge effect.
func (s *ApprovalService) Reject(submissionID, parentID string) (*models.Submission, error) {
	return s.review(submissionID, parentID, models.SubmissionRejected)
}

func (s *ApprovalService) review(submissionID, parentID string, target models.SubmissionStatus) (*models.Submission, error) {
	var submission models.Submission

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).Where("id = ?", submissionID).First(&submission).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("submission %s: %w", submissionID, ErrNotFound)
			}
			return err
		}

		var child models.User
		if err := tx.Where("id = ?", submission.ChildID).First(&child).Error; err != nil {
			return err
		}
		if child.ParentID == nil || *child.ParentID != parentID {
			return fmt.Errorf("submission %s is not under parent %s: %w", submissionID, parentID, ErrForbidden)
		}
		if submission.Status != models.SubmissionPending {
			return fmt.Errorf("submission %s is %s: %w", submissionID, submission.Status, ErrInvalidState)
		}

		now := s.Ledger.Now()
		updates := map[string]interface{}{
			"status":                target,
			"reviewed_by_parent_id": parentID,
		}
		if target == models.SubmissionApproved {
			updates["approved_at"] = now
		}
		if err := tx.Model(&models.Submission{}).Where("id = ?", submission.ID).Updates(updates).Error; err != nil {
			return err
		}
		submission.Status = target
		submission.ReviewedByParentID = &parentID
		if target == models.SubmissionApproved {
			submission.ApprovedAt = &now

			var task models.Task
			if err := tx.Where("id = ?", submission.TaskID).First(&task).Error; err != nil {
				return err
			}
			_, err := s.Ledger.Append(tx, submission.ChildID, task.Points,
				"TASK_APPROVED", &submission.ID, &parentID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListPending returns PENDING submissions across all of the parent's children.
func (s *ApprovalService) ListPending(parentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.DB.
		Joins("JOIN users ON users.id = submissions.child_id").
		Where("users.parent_id = ? AND submissions.status = ?", parentID, models.SubmissionPending).
		Preload("Task").
		Preload("Evidence").
		Order("submissions.created_at ASC").
		Find(&submissions).Error
	return submissions, err
}

// ListForChild returns the child's own submissions, newest first.
func (s *ApprovalService) ListForChild(childID string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.DB.
		Where("child_id = ?", childID).
		Preload("Task").
		Preload("Evidence").
		Order("created_at DESC").
		Find(&submissions).Error
	return submissions, err
}

// DeleteTask removes a task and its submissions without corrupting the
// ledger: related entries are decoupled (related_submission_id nulled), never
// deleted, so the accounting trail survives. The whole sequence is one
// transaction.
func (s *ApprovalService) DeleteTask(taskID, parentID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", taskID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task %s: %w", taskID, ErrNotFound)
			}
			return err
		}
		if task.ParentID != parentID {
			return fmt.Errorf("task %s is not owned by parent %s: %w", taskID, parentID, ErrForbidden)
		}

		var submissionIDs []string
		if err := tx.Model(&models.Submission{}).
			Where("task_id = ?", taskID).
			Pluck("id", &submissionIDs).Error; err != nil {
			return err
		}

		if len(submissionIDs) > 0 {
			if err := tx.Model(&models.PointsLedger{}).
				Where("related_submission_id IN ?", submissionIDs).
				Update("related_submission_id", nil).Error; err != nil {
				return err
			}
			if err := tx.Where("submission_id IN ?", submissionIDs).
				Delete(&models.SubmissionEvidence{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id = ?", taskID).
				Delete(&models.Submission{}).Error; err != nil {
				return err
			}
		}

		return tx.Delete(&task).Error
	})
}
