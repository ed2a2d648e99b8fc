package services

import (
	"context"
	"log"
	"time"

	"dofe-kas/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// CronService runs scheduled maintenance jobs
type CronService struct {
	userRepo repositories.UserRepository
	cron     *cron.Cron
}

// NewCronService creates a new cron service
func NewCronService(userRepo repositories.UserRepository) *CronService {
	return &CronService{
		userRepo: userRepo,
		cron:     cron.New(),
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() {
	// Clear expired refresh credentials nightly at 02:00
	_, err := s.cron.AddFunc("0 2 * * *", s.cleanupExpiredRefreshTokens)
	if err != nil {
		log.Printf("❌ Failed to schedule refresh token cleanup: %v", err)
		return
	}

	s.cron.Start()
	log.Println("🚀 CronService started")
}

// Stop stops the scheduler and waits for running jobs
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) cleanupExpiredRefreshTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cleared, err := s.userRepo.ClearExpiredRefreshTokens(ctx, time.Now())
	if err != nil {
		log.Printf("❌ Refresh token cleanup error: %v", err)
		return
	}
	if cleared > 0 {
		log.Printf("🧹 Cleared %d expired refresh credentials", cleared)
	}
}
