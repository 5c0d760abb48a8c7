package models

import (
	"time"
)

// PointsLedger is one immutable signed point movement for a child. Rows are
// only ever appended; a child's balance is the sum of their deltas, never a
// stored counter. When a task is deleted, RelatedSubmissionID is nulled so the
// accounting trail survives the cascade.
type PointsLedger struct {
	ID                  string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChildID             string    `gorm:"type:uuid;not null;index" json:"child_id"`
	DeltaPoints         int       `gorm:"not null" json:"delta_points"` // positive = credit, negative = debit
	Reason              string    `gorm:"not null" json:"reason"`
	RelatedSubmissionID *string   `gorm:"type:uuid" json:"related_submission_id,omitempty"`
	CreatedAt           time.Time `gorm:"index" json:"created_at"`
	CreatedByParentID   *string   `gorm:"type:uuid" json:"created_by_parent_id,omitempty"` // nil for system/child-initiated entries
}

func (PointsLedger) TableName() string {
	return "points_ledger"
}
