package models

import (
	"time"
)

// Announcement is a parent's message to their children. An optional ExpiresAt
// lets the sweeper deactivate it automatically.
type Announcement struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	ParentID  string     `gorm:"type:uuid;not null;index" json:"parent_id"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
}

// AnnouncementRead marks that a child has seen an announcement. A child must
// read before they may dismiss.
type AnnouncementRead struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	AnnouncementID string    `gorm:"type:uuid;not null;uniqueIndex:idx_announcement_read" json:"announcement_id"`
	ChildID        string    `gorm:"type:uuid;not null;uniqueIndex:idx_announcement_read" json:"child_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// AnnouncementDismissal hides an announcement from one child's feed.
type AnnouncementDismissal struct {
	ID             string    `gorm:"primaryKey;type:uuid" json:"id"`
	AnnouncementID string    `gorm:"type:uuid;not null;uniqueIndex:idx_announcement_dismissal" json:"announcement_id"`
	ChildID        string    `gorm:"type:uuid;not null;uniqueIndex:idx_announcement_dismissal" json:"child_id"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
}
