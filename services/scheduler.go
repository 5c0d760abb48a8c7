// services/scheduler.go
package services

import (
	"log"
	"time"

	"familypoints/models"

	"github.com/go-co-op/gocron/v2"
)

// StartExpirySweeper deactivates announcements whose expiry has passed.
func (s *AnnouncementService) StartExpirySweeper() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now().UTC()
			result := s.DB.Model(&models.Announcement{}).
				Where("is_active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
				Update("is_active", false)
			if result.Error != nil {
				log.Printf("[Sweeper] DB error: %v", result.Error)
				return
			}
			if result.RowsAffected > 0 {
				log.Printf("✅ Expired %d announcement(s)", result.RowsAffected)
			}
		}),
	)
}
