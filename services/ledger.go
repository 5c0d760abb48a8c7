package services

import (
	"time"

	"familypoints/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LedgerService owns the points ledger. Entries are append-only; every balance
// figure is a fresh fold over the stored deltas, never a cached counter.
type LedgerService struct {
	DB *gorm.DB

	// Now supplies the UTC reference clock. Tests pin it.
	Now func() time.Time
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{
		DB:  db,
		Now: func() time.Time { return time.Now().UTC() },
	}
}

// Append writes one immutable signed entry. Callers that need the append to
// commit together with other writes pass their transaction handle as tx;
// standalone callers pass s.DB.
func (s *LedgerService) Append(tx *gorm.DB, childID string, deltaPoints int, reason string, relatedSubmissionID, createdByParentID *string) (*models.PointsLedger, error) {
	entry := &models.PointsLedger{
		ID:                  uuid.NewString(),
		ChildID:             childID,
		DeltaPoints:         deltaPoints,
		Reason:              reason,
		RelatedSubmissionID: relatedSubmissionID,
		CreatedByParentID:   createdByParentID,
		CreatedAt:           s.Now(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Balance is the child's spendable points: the sum of every delta ever
// appended for them. No entries means zero.
func (s *LedgerService) Balance(childID string) (int, error) {
	return s.sum(s.DB, "child_id = ?", childID)
}

// PositiveLifetimeTotal sums only credits. Spending never lowers a child's
// lifetime standing; badge tiers key off this figure.
func (s *LedgerService) PositiveLifetimeTotal(childID string) (int, error) {
	return s.sum(s.DB, "child_id = ? AND delta_points > 0", childID)
}

// WindowedBalance sums deltas created at or after from.
func (s *LedgerService) WindowedBalance(childID string, from time.Time) (int, error) {
	return s.sum(s.DB, "child_id = ? AND created_at >= ?", childID, from)
}

// ListEntries returns the child's ledger newest-first.
func (s *LedgerService) ListEntries(childID string) ([]models.PointsLedger, error) {
	var entries []models.PointsLedger
	err := s.DB.Where("child_id = ?", childID).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, err
}

func (s *LedgerService) sum(tx *gorm.DB, query string, args ...interface{}) (int, error) {
	var total int64
	err := tx.Model(&models.PointsLedger{}).
		Where(query, args...).
		Select("COALESCE(SUM(delta_points), 0)").
		Scan(&total).Error
	return int(total), err
}

// PointsSummary is the read-side view handed to dashboards.
type PointsSummary struct {
	TotalPoints              int     `json:"totalPoints"`
	TotalMoneyEquivalent     float64 `json:"totalMoneyEquivalent"`
	ThisMonthMoneyEquivalent float64 `json:"thisMonthMoneyEquivalent"`
}

// PointsSummary converts the ledger into points and money equivalents. The
// month window opens at the first instant of the current UTC calendar month
// and is recomputed on every call. A non-positive pointsPerDollar disables the
// money figures instead of dividing by zero.
func (s *LedgerService) PointsSummary(childID string, pointsPerDollar int) (*PointsSummary, error) {
	total, err := s.Balance(childID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthPoints, err := s.WindowedBalance(childID, startOfMonth)
	if err != nil {
		return nil, err
	}

	summary := &PointsSummary{TotalPoints: total}
	if pointsPerDollar > 0 {
		summary.TotalMoneyEquivalent = float64(total) / float64(pointsPerDollar)
		summary.ThisMonthMoneyEquivalent = float64(monthPoints) / float64(pointsPerDollar)
	}
	return summary, nil
}
