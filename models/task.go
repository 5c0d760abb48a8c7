package models

import (
	"time"
)

type Category string

const (
	CategoryFaith    Category = "FAITH"
	CategorySchool   Category = "SCHOOL"
	CategoryHome     Category = "HOME"
	CategoryKindness Category = "KINDNESS"
	CategoryOther    Category = "OTHER"
)

// Task is a parent-defined activity worth a fixed number of points.
type Task struct {
	ID          string   `gorm:"primaryKey;type:uuid" json:"id"`
	ParentID    string   `gorm:"type:uuid;not null;index" json:"parent_id"`
	Name        string   `gorm:"not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Category    Category `gorm:"type:varchar(16);not null;index" json:"category"`
	Points      int      `gorm:"not null;default:0" json:"points"`
	IsActive    bool     `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
