package scheduler

import (
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"shelterly/server/internal/relay"
	"shelterly/server/internal/store"
)

// Scheduler runs the periodic jobs: an hourly sweep of pending
// notifications, the nightly retention cleanup at midnight, and a
// half-hourly listing cache warm-up.
type Scheduler struct {
	relay    *relay.Relay
	listings *store.ListingStore
	logger   *logrus.Logger
	stopChan chan struct{}
	wg       sync.WaitGroup
	jobMutex sync.Mutex // Ensures sequential job execution
}

// NewScheduler creates a new scheduler
func NewScheduler(relay *relay.Relay, listings *store.ListingStore, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Scheduler{
		relay:    relay,
		listings: listings,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start begins the scheduled tasks
func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.runScheduler()
}

func (s *Scheduler) runScheduler() {
	defer s.wg.Done()

	// Catch up on anything left pending from before the restart
	go func() {
		s.jobMutex.Lock()
		defer s.jobMutex.Unlock()
		s.logger.Info("Running startup notification sweep")
		if err := s.relay.ProcessPending(); err != nil {
			s.logger.WithError(err).Error("Startup notification sweep failed")
		}
		s.logger.Info("Startup notification sweep completed")
	}()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case t := <-ticker.C:
			s.executeScheduledJobs(t)
		}
	}
}

// executeScheduledJobs runs all jobs that are scheduled for the given time
func (s *Scheduler) executeScheduledJobs(t time.Time) {
	s.jobMutex.Lock()
	defer s.jobMutex.Unlock()

	s.logger.WithFields(logrus.Fields{
		"hour":   t.Hour(),
		"minute": t.Minute(),
	}).Debug("Checking scheduled jobs")

	// Retention cleanup at midnight
	if t.Hour() == 0 && t.Minute() == 0 {
		s.logger.Info("Starting scheduled notification cleanup")
		s.relay.CleanupOld()
		s.logger.Info("Completed scheduled notification cleanup")
	}

	// Pending-notification sweep every hour
	if t.Minute() == 0 {
		s.logger.Info("Starting scheduled notification sweep")
		if err := s.relay.ProcessPending(); err != nil {
			s.logger.WithError(err).Error("Notification sweep failed")
		} else {
			s.logger.Info("Completed scheduled notification sweep")
		}
	}

	// Warm the listing cache on the half hour, right as the TTL lapses
	if t.Minute()%30 == 0 {
		count := len(s.listings.GetListings())
		s.logger.WithField("listings", count).Debug("Refreshed listing cache")
	}
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	close(s.stopChan)
	s.wg.Wait()
}
