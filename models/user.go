package models

import (
	"time"
)

type Role string

const (
	RoleParent Role = "PARENT"
	RoleChild  Role = "CHILD"
)

// User covers both parents and children. A child always carries the owning
// parent's ID; a parent's ParentID is nil.
type User struct {
	ID           string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string  `gorm:"not null" json:"name"`
	Email        *string `gorm:"uniqueIndex" json:"email,omitempty"`
	Username     *string `gorm:"uniqueIndex" json:"username,omitempty"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Role         Role    `gorm:"type:varchar(8);not null;index" json:"role"`
	ParentID     *string `gorm:"type:uuid;index" json:"parent_id,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
