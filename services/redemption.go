package services

import (
	"errors"
	"fmt"
	"log"

	"familypoints/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RedemptionService runs the spend workflow: points come off the balance the
// moment a child requests a reward, and come back only if a parent rejects.
type RedemptionService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewRedemptionService(db *gorm.DB, ledger *LedgerService) *RedemptionService {
	return &RedemptionService{DB: db, Ledger: ledger}
}

// lockForUpdate locks matched rows until the surrounding transaction ends.
// sqlite, which backs the tests, serializes writers on its own and rejects
// FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Request validates the reward, checks the balance and, in one transaction,
// appends the debit entry and opens a REQUESTED redemption with the cost
// frozen at request time. The child row is locked first so two concurrent
// requests against a shrinking balance cannot both pass the check on a stale
// read.
func (s *RedemptionService) Request(childID, rewardID string) (*models.RewardRedemption, error) {
	var redemption *models.RewardRedemption

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var child models.User
		if err := lockForUpdate(tx).
			Where("id = ? AND role = ?", childID, models.RoleChild).
			First(&child).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("child %s: %w", childID, ErrNotFound)
			}
			return err
		}

		var reward models.Reward
		if err := tx.Where("id = ?", rewardID).First(&reward).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("reward %s: %w", rewardID, ErrNotFound)
			}
			return err
		}
		if !reward.IsActive {
			return fmt.Errorf("reward %s is inactive: %w", rewardID, ErrNotFound)
		}
		if child.ParentID == nil || reward.ParentID != *child.ParentID {
			return fmt.Errorf("reward %s is not offered to child %s: %w", rewardID, childID, ErrForbidden)
		}

		balance, err := s.Ledger.sum(tx, "child_id = ?", childID)
		if err != nil {
			return err
		}
		if balance < reward.CostPoints {
			return fmt.Errorf("need %d points, have %d: %w", reward.CostPoints, balance, ErrInsufficientPoints)
		}

		if _, err := s.Ledger.Append(tx, childID, -reward.CostPoints,
			fmt.Sprintf("Reward Redemption: %s", reward.Name), nil, nil); err != nil {
			return err
		}

		redemption = &models.RewardRedemption{
			ID:               uuid.NewString(),
			ChildID:          childID,
			RewardID:         reward.ID,
			Status:           models.RedemptionRequested,
			CostPointsAtTime: reward.CostPoints,
			CreatedAt:        s.Ledger.Now(),
		}
		return tx.Create(redemption).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎁 Redemption requested: child=%s reward=%s cost=%d", childID, rewardID, redemption.CostPointsAtTime)
	return redemption, nil
}

// Approve acknowledges fulfillment. Points were already spent at request time,
// so approval has no ledger effect.
func (s *RedemptionService) Approve(redemptionID, parentID string) (*models.RewardRedemption, error) {
	return s.process(redemptionID, parentID, models.RedemptionApproved)
}

// Reject closes the redemption and refunds CostPointsAtTime — the price frozen
// when the child requested, regardless of what the reward costs now.
func (s *RedemptionService) Reject(redemptionID, parentID string) (*models.RewardRedemption, error) {
	return s.process(redemptionID, parentID, models.RedemptionRejected)
}

func (s *RedemptionService) process(redemptionID, parentID string, target models.RedemptionStatus) (*models.RewardRedemption, error) {
	var redemption models.RewardRedemption

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			Preload("Reward").
			Where("id = ?", redemptionID).
			First(&redemption).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("redemption %s: %w", redemptionID, ErrNotFound)
			}
			return err
		}
		if redemption.Reward.ParentID != parentID {
			return fmt.Errorf("redemption %s belongs to another family: %w", redemptionID, ErrForbidden)
		}
		if redemption.Status != models.RedemptionRequested {
			return fmt.Errorf("redemption %s is %s: %w", redemptionID, redemption.Status, ErrInvalidState)
		}

		now := s.Ledger.Now()
		if err := tx.Model(&models.RewardRedemption{}).
			Where("id = ?", redemption.ID).
			Updates(map[string]interface{}{
				"status":                 target,
				"processed_at":           now,
				"processed_by_parent_id": parentID,
			}).Error; err != nil {
			return err
		}
		redemption.Status = target
		redemption.ProcessedAt = &now
		redemption.ProcessedByParentID = &parentID

		if target == models.RedemptionRejected {
			_, err := s.Ledger.Append(tx, redemption.ChildID, redemption.CostPointsAtTime,
				fmt.Sprintf("Refund: Rejected Reward %s", redemption.Reward.Name), nil, &parentID)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🎁 Redemption %s: %s (parent=%s)", target, redemptionID, parentID)
	return &redemption, nil
}

// ListPending returns every REQUESTED redemption against the parent's rewards.
func (s *RedemptionService) ListPending(parentID string) ([]models.RewardRedemption, error) {
	var redemptions []models.RewardRedemption
	err := s.DB.
		Joins("JOIN rewards ON rewards.id = reward_redemptions.reward_id").
		Where("rewards.parent_id = ? AND reward_redemptions.status = ?", parentID, models.RedemptionRequested).
		Preload("Reward").
		Order("reward_redemptions.created_at ASC").
		Find(&redemptions).Error
	return redemptions, err
}

// ListForChild returns the child's redemption history, newest first.
func (s *RedemptionService) ListForChild(childID string) ([]models.RewardRedemption, error) {
	var redemptions []models.RewardRedemption
	err := s.DB.
		Where("child_id = ?", childID).
		Preload("Reward").
		Order("created_at DESC").
		Find(&redemptions).Error
	return redemptions, err
}
