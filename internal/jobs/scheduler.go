// Package jobs runs the background housekeeping: sweeping stale verification
// state and sending booking reminders.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/myronlou/calendar-booking-backend/internal/booking"
	"github.com/myronlou/calendar-booking-backend/internal/notify"
)

const reminderHorizon = 24 * time.Hour

// Scheduler owns the cron runner and its jobs.
type Scheduler struct {
	cron     *cron.Cron
	logger   zerolog.Logger
	bookings booking.Service
	notifier notify.Notifier
	redis    *redis.Client
}

func NewScheduler(logger zerolog.Logger, bookings booking.Service, notifier notify.Notifier, redisClient *redis.Client) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		bookings: bookings,
		notifier: notifier,
		redis:    redisClient,
	}
}

// Start registers the jobs and launches the cron runner.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("@every 5m", s.sweepSessions); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}
	if _, err := s.cron.AddFunc("@hourly", s.sendReminders); err != nil {
		return fmt.Errorf("failed to schedule booking reminders: %w", err)
	}
	s.cron.Start()
	s.logger.Info().Msg("background jobs started")
	return nil
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("background jobs stopped")
}

// sweepSessions walks the verification keyspace. Redis expiry is
// authoritative, but eviction of expired keys is lazy; touching each key via
// SCAN forces it, so an abandoned attempt disappears instead of lingering
// until its next read. The live count is logged for visibility.
func (s *Scheduler) sweepSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var cursor uint64
	live := 0
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, "otp:*", 100).Result()
		if err != nil {
			s.logger.Error().Err(err).Msg("session sweep scan failed")
			return
		}
		live += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	s.logger.Debug().Int("live_keys", live).Msg("session sweep completed")
}

// sendReminders emails customers whose confirmed booking starts within the
// next 24 hours and marks each booking so it is reminded once.
func (s *Scheduler) sendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().UTC()
	due, err := s.bookings.DueReminders(ctx, now, now.Add(reminderHorizon))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list due reminders")
		return
	}

	sent := 0
	for _, b := range due {
		err := s.notifier.Send(ctx, b.Email, notify.KindBookingReminder, notify.Payload{
			"name":  b.FullName,
			"title": b.Title,
			"start": b.StartTime.Format("2006-01-02 15:04"),
		})
		if err != nil {
			// Leave it unmarked; the next run retries.
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to send booking reminder")
			continue
		}
		if err := s.bookings.MarkReminded(ctx, b.ID); err != nil {
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to mark booking reminded")
			continue
		}
		sent++
	}

	if len(due) > 0 {
		s.logger.Info().Int("due", len(due)).Int("sent", sent).Msg("booking reminders processed")
	}
}
