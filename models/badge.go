package models

import (
	"time"
)

// Badge is a catalog entry. The catalog is ensured (insert-if-missing by code)
// before every evaluation and existing rows are never updated.
type Badge struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Code         string `gorm:"uniqueIndex;not null" json:"code"`
	Name         string `gorm:"not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	CriteriaType string `json:"criteria_type"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`
}

// ChildBadge is one award. The composite unique index makes awarding
// idempotent: at most one row per (child, badge) pair.
type ChildBadge struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChildID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_child_badge" json:"child_id"`
	BadgeID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_child_badge" json:"badge_id"`
	AwardedAt time.Time `json:"awarded_at"`
}

// BadgeCatalog is the fixed badge set. Three submission-driven badges plus the
// four lifetime-point tiers; the tier cutoffs live in services.PointTiers.
var BadgeCatalog = []Badge{
	{Code: "BIBLE_READER", Name: "Bible Reader", Description: "5 FAITH submissions on different days", CriteriaType: "BIBLE_READER"},
	{Code: "HOMEWORK_HERO", Name: "Homework Hero", Description: "10 approved SCHOOL submissions", CriteriaType: "HOMEWORK_HERO"},
	{Code: "KIND_HEART", Name: "Kind Heart", Description: "10 approved KINDNESS submissions", CriteriaType: "KIND_HEART"},
	{Code: "LEVEL_2", Name: "Level 2 Reached", Description: "Reached 200 Points", CriteriaType: "POINTS_200"},
	{Code: "LEVEL_3", Name: "Level 3 Reached", Description: "Reached 400 Points", CriteriaType: "POINTS_400"},
	{Code: "LEVEL_4", Name: "Level 4 Reached", Description: "Reached 700 Points", CriteriaType: "POINTS_700"},
	{Code: "LEVEL_5", Name: "Level 5 Reached", Description: "Reached 1000 Points", CriteriaType: "POINTS_1000"},
}
