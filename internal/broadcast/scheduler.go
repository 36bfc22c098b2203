package broadcast

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Scheduler fires one broadcast per day at a fixed wall-clock time in a
// fixed timezone. There is no last-run marker: a restart between the target
// instant and the run simply re-arms for tomorrow.
type Scheduler struct {
	dispatcher *Dispatcher
	hour       int
	minute     int
	loc        *time.Location
	message    string
}

func NewScheduler(dispatcher *Dispatcher, hour, minute int, loc *time.Location, message string) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		hour:       hour,
		minute:     minute,
		loc:        loc,
		message:    message,
	}
}

// Start blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	log.WithField("time", fmt.Sprintf("%02d:%02d %s", s.hour, s.minute, s.loc)).
		Info("Broadcast scheduler started")

	for {
		wait := time.Until(s.nextRun(time.Now().In(s.loc)))
		log.WithField("wait", wait.Round(time.Second).String()).Info("Next broadcast scheduled")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Info("Broadcast scheduler stopped")
			return
		case <-timer.C:
		}

		if _, _, err := s.dispatcher.Run(ctx, s.message); err != nil {
			log.WithError(err).Error("Broadcast run failed")
		}
	}
}

// nextRun returns today's target instant, or tomorrow's if it has passed.
func (s *Scheduler) nextRun(now time.Time) time.Time {
	target := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, s.loc)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}
