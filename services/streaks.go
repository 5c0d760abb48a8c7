package services

import (
	"time"

	"familypoints/models"

	"gorm.io/gorm"
)

// LevelThresholds mirror the point-tier badge cutoffs; level is computed over
// the child's net balance, not lifetime earned.
var LevelThresholds = []int{200, 400, 700, 1000}

// ComputeLevel folds the ledger into a 1-based level.
func (s *LedgerService) ComputeLevel(childID string) (int, error) {
	total, err := s.Balance(childID)
	if err != nil {
		return 0, err
	}
	level := 1
	for _, threshold := range LevelThresholds {
		if total >= threshold {
			level++
		}
	}
	return level, nil
}

// StreakSummary reports the two streaks the dashboard shows.
type StreakSummary struct {
	BibleReadingStreak int `json:"bibleReadingStreak"`
	HomeworkStreak     int `json:"homeworkStreak"`
}

// ComputeStreak counts consecutive distinct UTC days, ending today, with at
// least one approved submission in the category. Multiple submissions on one
// day count once; a missed day ends the streak.
func ComputeStreak(db *gorm.DB, childID string, category models.Category, today time.Time) (int, error) {
	var createdAts []time.Time
	err := db.Model(&models.Submission{}).
		Joins("JOIN tasks ON tasks.id = submissions.task_id").
		Where("submissions.child_id = ? AND submissions.status = ? AND tasks.category = ?",
			childID, models.SubmissionApproved, category).
		Order("submissions.created_at DESC").
		Pluck("submissions.created_at", &createdAts).Error
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(createdAts))
	var days []time.Time
	for _, ts := range createdAts {
		day := ts.UTC().Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	// createdAts arrive newest-first, so days is already descending.

	streak := 0
	cursor := today.UTC().Truncate(24 * time.Hour)
	for _, day := range days {
		if day.Equal(cursor) {
			streak++
			cursor = cursor.AddDate(0, 0, -1)
		} else if day.Before(cursor) {
			break
		}
	}
	return streak, nil
}

// ComputeAllStreaks bundles the category streaks the summary endpoint exposes.
func ComputeAllStreaks(db *gorm.DB, childID string, today time.Time) (*StreakSummary, error) {
	faith, err := ComputeStreak(db, childID, models.CategoryFaith, today)
	if err != nil {
		return nil, err
	}
	school, err := ComputeStreak(db, childID, models.CategorySchool, today)
	if err != nil {
		return nil, err
	}
	return &StreakSummary{BibleReadingStreak: faith, HomeworkStreak: school}, nil
}
