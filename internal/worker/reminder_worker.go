package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/tour-backoffice/internal/events"
	"github.com/spec-kit/tour-backoffice/internal/repository"
)

// ReminderWorker periodically nudges employees who still hold unprocessed
// requests. It publishes reminder events; the notification service turns
// them into emails.
type ReminderWorker struct {
	requests   repository.RequestRepository
	employees  repository.EmployeeRepository
	dispatcher events.Dispatcher
	interval   time.Duration
	logger     *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewReminderWorker constructs the worker.
func NewReminderWorker(requests repository.RequestRepository, employees repository.EmployeeRepository, dispatcher events.Dispatcher, interval time.Duration, logger *zap.Logger) *ReminderWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ReminderWorker{
		requests:   requests,
		employees:  employees,
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
	}
}

// Start launches the ticker loop.
func (w *ReminderWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.done = make(chan struct{})

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.runOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for the current pass to finish.
func (w *ReminderWorker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

func (w *ReminderWorker) runOnce(ctx context.Context) {
	loads, err := w.requests.UnprocessedCounts(ctx)
	if err != nil {
		w.logger.Error("reminder pass failed", zap.Error(err))
		return
	}

	for _, load := range loads {
		if load.Count == 0 {
			continue
		}
		employee, err := w.employees.GetByID(ctx, load.EmployeeID)
		if err != nil {
			w.logger.Warn("employee lookup for reminder failed",
				zap.Int64("employee_id", load.EmployeeID), zap.Error(err))
			continue
		}
		if !employee.Active {
			continue
		}
		_ = w.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventRequestReminderDue,
			Timestamp: time.Now(),
			Payload: events.ReminderDuePayload{
				Employee:         *employee,
				UnprocessedCount: load.Count,
			},
		})
	}
}
