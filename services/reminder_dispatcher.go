package services

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"wardrobeAPI/internal/notification"
	"wardrobeAPI/internal/types/calendar"
	"wardrobeAPI/internal/types/device"
)

// PushProvider is satisfied by *notification.FCMService.
type PushProvider interface {
	SendPush(ctx context.Context, tokens []device.DeviceToken, push notification.Push) error
}

// Reminder is one planned calendar day and the devices of its owner.
type Reminder struct {
	Entry  calendar.Entry
	Tokens []device.DeviceToken
}

// ReminderStore is satisfied by *CalendarService.
type ReminderStore interface {
	DueReminders(ctx context.Context, date time.Time, limit int) ([]Reminder, error)
	MarkReminded(ctx context.Context, userID, date string) error
}

var remindersSent = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wardrobe_outfit_reminders_total",
		Help: "Outfit reminder pushes by outcome",
	},
	[]string{"outcome"},
)

const (
	reminderBatchSize = 100
	defaultRemindHour = 7
)

// ReminderDispatcher pushes "today's outfit" notifications for calendar
// entries. Each entry gets one attempt per day; a failed push is not retried.
type ReminderDispatcher struct {
	store        ReminderStore
	pushProvider PushProvider
	logger       *zap.Logger
	workers      int
	interval     time.Duration
	remindHour   int
	now          func() time.Time
	jobQueue     chan Reminder
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewReminderDispatcher(store ReminderStore, push PushProvider, logger *zap.Logger) *ReminderDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderDispatcher{
		store:        store,
		pushProvider: push,
		logger:       logger,
		workers:      5,
		interval:     time.Minute,
		remindHour:   defaultRemindHour,
		now:          time.Now,
		jobQueue:     make(chan Reminder, reminderBatchSize),
		stopChan:     make(chan struct{}),
		inFlight:     make(map[string]bool),
	}
}

// Start launches the worker pool and the periodic scan for due reminders.
func (d *ReminderDispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	d.wg.Add(1)
	go d.schedule()
}

func (d *ReminderDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			return
		}
	}
}

func (d *ReminderDispatcher) schedule() {
	defer d.wg.Done()
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.processDue(context.Background())
		case <-d.stopChan:
			return
		}
	}
}

func reminderKey(r Reminder) string {
	return r.Entry.UserID + "|" + r.Entry.Date
}

// processDue queues today's pending reminders once the reminder hour is reached.
func (d *ReminderDispatcher) processDue(ctx context.Context) int {
	now := d.now()
	if now.Hour() < d.remindHour {
		return 0
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	due, err := d.store.DueReminders(ctx, today, reminderBatchSize)
	if err != nil {
		d.logger.Error("failed to fetch due reminders", zap.Error(err))
		return 0
	}

	queued := 0
	for _, r := range due {
		if d.Dispatch(ctx, r) {
			queued++
		}
	}
	if queued > 0 {
		d.logger.Info("queued outfit reminders", zap.Int("count", queued))
	}
	return queued
}

// Dispatch queues r unless it is already queued or being sent.
func (d *ReminderDispatcher) Dispatch(ctx context.Context, r Reminder) bool {
	key := reminderKey(r)
	d.mu.Lock()
	if d.inFlight[key] {
		d.mu.Unlock()
		return false
	}
	d.inFlight[key] = true
	d.mu.Unlock()

	select {
	case d.jobQueue <- r:
		return true
	case <-ctx.Done():
	case <-d.stopChan:
	case <-time.After(5 * time.Second):
		d.logger.Warn("reminder queue full", zap.String("user_id", r.Entry.UserID))
	}
	d.release(key)
	return false
}

func (d *ReminderDispatcher) release(key string) {
	d.mu.Lock()
	delete(d.inFlight, key)
	d.mu.Unlock()
}

func (d *ReminderDispatcher) processJob(r Reminder) {
	defer d.release(reminderKey(r))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	outcome := "sent"
	if d.pushProvider == nil || len(r.Tokens) == 0 {
		outcome = "skipped"
	} else if err := d.pushProvider.SendPush(ctx, r.Tokens, notification.OutfitReminder(r.Entry)); err != nil {
		d.logger.Warn("outfit reminder push failed", zap.String("user_id", r.Entry.UserID), zap.Error(err))
		outcome = "failed"
	}
	remindersSent.WithLabelValues(outcome).Inc()

	if err := d.store.MarkReminded(ctx, r.Entry.UserID, r.Entry.Date); err != nil {
		d.logger.Error("failed to mark reminder", zap.String("user_id", r.Entry.UserID), zap.Error(err))
	}
}

// Stop ends the scheduler and workers and waits for them. Queued jobs that
// were not picked up are dropped and will be found again on the next start.
func (d *ReminderDispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.logger.Info("stopping reminder dispatcher")
		close(d.stopChan)
		d.wg.Wait()
	})
}
