package models

import (
	"time"
)

type RewardType string

const (
	RewardTypeMoney     RewardType = "MONEY"
	RewardTypePrivilege RewardType = "PRIVILEGE"
	RewardTypeGift      RewardType = "GIFT"
)

type RedemptionStatus string

const (
	RedemptionRequested RedemptionStatus = "REQUESTED"
	RedemptionApproved  RedemptionStatus = "APPROVED"
	RedemptionRejected  RedemptionStatus = "REJECTED"
	// RedemptionFulfilled is set by external fulfillment tracking, never by the
	// redemption workflow itself.
	RedemptionFulfilled RedemptionStatus = "FULFILLED"
)

// Reward is something a child can spend points on. Visible only to the owning
// parent's children. Deletion is a soft IsActive flip so old redemptions keep
// their reference.
type Reward struct {
	ID          string     `gorm:"primaryKey;type:uuid" json:"id"`
	ParentID    string     `gorm:"type:uuid;not null;index" json:"parent_id"`
	Name        string     `gorm:"not null" json:"name"`
	Type        RewardType `gorm:"type:varchar(12);not null" json:"type"`
	CostPoints  int        `gorm:"not null" json:"cost_points"`
	Description string     `gorm:"type:text" json:"description"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// RewardRedemption tracks one spend request. CostPointsAtTime freezes the
// price at request time; refunds always use it, not the reward's current cost.
type RewardRedemption struct {
	ID                  string           `gorm:"primaryKey;type:uuid" json:"id"`
	ChildID             string           `gorm:"type:uuid;not null;index" json:"child_id"`
	RewardID            string           `gorm:"type:uuid;not null;index" json:"reward_id"`
	Status              RedemptionStatus `gorm:"type:varchar(12);not null;default:'REQUESTED';index" json:"status"`
	CostPointsAtTime    int              `gorm:"not null" json:"cost_points_at_time"`
	CreatedAt           time.Time        `json:"created_at"`
	ProcessedAt         *time.Time       `json:"processed_at,omitempty"`
	ProcessedByParentID *string          `gorm:"type:uuid" json:"processed_by_parent_id,omitempty"`

	Reward Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
}
