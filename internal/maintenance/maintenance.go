// Package maintenance runs scheduled background jobs.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/foodgram-app/foodgram/internal/storage"
)

// DefaultTokenPurgeSpec purges revocable tokens hourly.
const DefaultTokenPurgeSpec = "@hourly"

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	runner *cron.Cron
	tokens storage.TokenStore
}

// NewScheduler builds a scheduler over the token store.
func NewScheduler(tokens storage.TokenStore) *Scheduler {
	return &Scheduler{runner: cron.New(), tokens: tokens}
}

// AddTokenPurge schedules removal of expired auth tokens.
func (s *Scheduler) AddTokenPurge(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultTokenPurgeSpec
	}
	_, err := s.runner.AddFunc(spec, func() {
		purged, err := s.tokens.DeleteExpiredTokens(ctx, time.Now().UTC())
		if err != nil {
			log.Printf("purge expired tokens: %v", err)
			return
		}
		if purged > 0 {
			log.Printf("purged %d expired tokens", purged)
		}
	})
	if err != nil {
		return err
	}
	return nil
}

// Start launches the cron runner in its own goroutine.
func (s *Scheduler) Start() {
	if s == nil || s.runner == nil {
		return
	}
	s.runner.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	if s == nil || s.runner == nil {
		return
	}
	<-s.runner.Stop().Done()
}
