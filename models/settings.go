package models

import (
	"time"
)

// ParentSettings holds per-family knobs. Created lazily with defaults the
// first time a parent reads their settings.
type ParentSettings struct {
	ID                       string  `gorm:"primaryKey;type:uuid" json:"id"`
	ParentID                 string  `gorm:"type:uuid;uniqueIndex;not null" json:"parent_id"`
	PointsPerDollar          int     `gorm:"default:100" json:"points_per_dollar"`
	MonthlyDollarCapPerChild float64 `gorm:"default:10" json:"monthly_dollar_cap_per_child"`
	ShowMoneyToChildren      bool    `gorm:"default:true" json:"show_money_to_children"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

const DefaultPointsPerDollar = 100
