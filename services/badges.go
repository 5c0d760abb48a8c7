package services

import (
	"fmt"
	"log"
	"time"

	"familypoints/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PointTier maps a lifetime-earned cutoff to the badge it unlocks. Tiers are
// data, not code: each check is independent, so reaching a higher tier never
// requires holding the lower one.
type PointTier struct {
	BadgeCode string
	Points    int
}

var PointTiers = []PointTier{
	{BadgeCode: "LEVEL_2", Points: 200},
	{BadgeCode: "LEVEL_3", Points: 400},
	{BadgeCode: "LEVEL_4", Points: 700},
	{BadgeCode: "LEVEL_5", Points: 1000},
}

const (
	faithDistinctDays      = 5
	categoryBadgeThreshold = 10
)

// BadgeService runs the badge rule pass after any approval-driven credit.
// Every step is idempotent, so the pass can be re-run at any time.
type BadgeService struct {
	DB     *gorm.DB
	Ledger *LedgerService
}

func NewBadgeService(db *gorm.DB, ledger *LedgerService) *BadgeService {
	return &BadgeService{DB: db, Ledger: ledger}
}

// EnsureCatalog inserts any catalog badge that doesn't exist yet, keyed by
// code. Existing rows are never touched; a concurrent first-time
// initialization loses the insert race harmlessly.
func (s *BadgeService) EnsureCatalog() error {
	for _, b := range models.BadgeCatalog {
		var count int64
		if err := s.DB.Model(&models.Badge{}).Where("code = ?", b.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		badge := b
		badge.ID = uuid.NewString()
		badge.IsActive = true
		if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&badge).Error; err != nil {
			return fmt.Errorf("seed badge %s: %w", b.Code, err)
		}
	}
	return nil
}

// Evaluate checks every rule for one child and awards whatever is newly
// earned. Tier badges key off lifetime earned points (debits never count
// against them); FAITH counts distinct calendar days with an approved
// submission, SCHOOL and KINDNESS count approved submissions outright.
func (s *BadgeService) Evaluate(childID string) error {
	if err := s.EnsureCatalog(); err != nil {
		return err
	}

	lifetime, err := s.Ledger.PositiveLifetimeTotal(childID)
	if err != nil {
		return err
	}
	for _, tier := range PointTiers {
		if lifetime >= tier.Points {
			if err := s.awardIfMissing(childID, tier.BadgeCode); err != nil {
				return err
			}
		}
	}

	faithDays, err := s.approvedDistinctDays(childID, models.CategoryFaith)
	if err != nil {
		return err
	}
	if faithDays >= faithDistinctDays {
		if err := s.awardIfMissing(childID, "BIBLE_READER"); err != nil {
			return err
		}
	}

	schoolCount, err := s.approvedCount(childID, models.CategorySchool)
	if err != nil {
		return err
	}
	if schoolCount >= categoryBadgeThreshold {
		if err := s.awardIfMissing(childID, "HOMEWORK_HERO"); err != nil {
			return err
		}
	}

	kindnessCount, err := s.approvedCount(childID, models.CategoryKindness)
	if err != nil {
		return err
	}
	if kindnessCount >= categoryBadgeThreshold {
		if err := s.awardIfMissing(childID, "KIND_HEART"); err != nil {
			return err
		}
	}

	return nil
}

func (s *BadgeService) approvedCount(childID string, category models.Category) (int, error) {
	var count int64
	err := s.DB.Model(&models.Submission{}).
		Joins("JOIN tasks ON tasks.id = submissions.task_id").
		Where("submissions.child_id = ? AND submissions.status = ? AND tasks.category = ?",
			childID, models.SubmissionApproved, category).
		Count(&count).Error
	return int(count), err
}

// approvedDistinctDays counts calendar dates, so five submissions on one day
// count once.
func (s *BadgeService) approvedDistinctDays(childID string, category models.Category) (int, error) {
	var days int64
	err := s.DB.Model(&models.Submission{}).
		Joins("JOIN tasks ON tasks.id = submissions.task_id").
		Where("submissions.child_id = ? AND submissions.status = ? AND tasks.category = ?",
			childID, models.SubmissionApproved, category).
		Select("COUNT(DISTINCT DATE(submissions.created_at))").
		Scan(&days).Error
	return int(days), err
}

func (s *BadgeService) awardIfMissing(childID, badgeCode string) error {
	var badge models.Badge
	if err := s.DB.Where("code = ?", badgeCode).First(&badge).Error; err != nil {
		return err
	}

	var existing int64
	if err := s.DB.Model(&models.ChildBadge{}).
		Where("child_id = ? AND badge_id = ?", childID, badge.ID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	award := models.ChildBadge{
		ID:        uuid.NewString(),
		ChildID:   childID,
		BadgeID:   badge.ID,
		AwardedAt: s.Ledger.Now(),
	}
	// A concurrent evaluator may have won the race; the unique index on
	// (child_id, badge_id) turns the duplicate into a no-op.
	if err := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&award).Error; err != nil {
		return err
	}
	log.Printf("🎖️ Badge awarded: %s → child %s", badgeCode, childID)
	return nil
}

// AwardedBadge is a child's badge joined with its catalog metadata.
type AwardedBadge struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// ListChildBadges returns the child's awards oldest-first.
func (s *BadgeService) ListChildBadges(childID string) ([]AwardedBadge, error) {
	var awarded []AwardedBadge
	err := s.DB.Model(&models.ChildBadge{}).
		Joins("JOIN badges ON badges.id = child_badges.badge_id").
		Where("child_badges.child_id = ?", childID).
		Order("child_badges.awarded_at ASC").
		Select("child_badges.id AS id, badges.code AS code, badges.name AS name, badges.description AS description, child_badges.awarded_at AS awarded_at").
		Scan(&awarded).Error
	return awarded, err
}
