package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/events"
	"github.com/spec-kit/tour-backoffice/internal/mail"
	"github.com/spec-kit/tour-backoffice/internal/observability"
	"github.com/spec-kit/tour-backoffice/internal/repository"
)

// NotificationService turns request lifecycle events into emails. Delivery is
// best effort: failures are logged and never surface to the operation that
// produced the event.
type NotificationService struct {
	sender  mail.Sender
	tours   repository.TourRepository
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewNotificationService constructs the service.
func NewNotificationService(sender mail.Sender, tours repository.TourRepository, logger *zap.Logger, metrics *observability.Metrics) *NotificationService {
	return &NotificationService{sender: sender, tours: tours, logger: logger, metrics: metrics}
}

// Register subscribes the service to all request lifecycle events.
func (n *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventRequestCreated, n.handleRequestCreated)
	dispatcher.Subscribe(events.EventRequestStatusChanged, n.handleStatusChanged)
	dispatcher.Subscribe(events.EventRequestAssigned, n.handleRequestAssigned)
	dispatcher.Subscribe(events.EventRequestReminderDue, n.handleReminderDue)
}

func (n *NotificationService) handleRequestCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	n.metrics.RecordEvent(string(event.Type))

	req := payload.Request
	body := fmt.Sprintf(
		"Hello %s,\n\nWe have received your request #%d for the tour %q.\nOur manager will contact you shortly.\n\nTour back office",
		req.RequesterName, req.ID, n.tourName(ctx, req.TourID))
	n.send(ctx, mail.Message{
		To:      req.RequesterEmail,
		Subject: fmt.Sprintf("Request #%d received", req.ID),
		Body:    body,
	})
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	n.metrics.RecordEvent(string(event.Type))

	req := payload.Request
	body := fmt.Sprintf(
		"Hello %s,\n\nYour request #%d for the tour %q is now %q.\n%s\n\nTour back office",
		req.RequesterName, req.ID, n.tourName(ctx, req.TourID),
		req.Status.DisplayName(), StatusMessage(req.Status))
	n.send(ctx, mail.Message{
		To:      req.RequesterEmail,
		Subject: fmt.Sprintf("Request #%d status update", req.ID),
		Body:    body,
	})
	return nil
}

func (n *NotificationService) handleRequestAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.RequestAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	n.metrics.RecordEvent(string(event.Type))

	req := payload.Request
	body := fmt.Sprintf(
		"Hello %s,\n\nRequest #%d has been assigned to you.\nRequester: %s (%s)\nTour: %s\nPriority: %s\n",
		payload.Employee.FullName, req.ID, req.RequesterName, req.RequesterEmail,
		n.tourName(ctx, req.TourID), req.Priority.DisplayName())
	n.send(ctx, mail.Message{
		To:      payload.Employee.Email,
		Subject: fmt.Sprintf("Request #%d assigned to you", req.ID),
		Body:    body,
	})
	return nil
}

func (n *NotificationService) handleReminderDue(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReminderDuePayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	n.metrics.RecordEvent(string(event.Type))

	body := fmt.Sprintf(
		"Hello %s,\n\nYou have %d request(s) still in progress. Please follow up with the clients.\n",
		payload.Employee.FullName, payload.UnprocessedCount)
	n.send(ctx, mail.Message{
		To:      payload.Employee.Email,
		Subject: "Unprocessed requests reminder",
		Body:    body,
	})
	return nil
}

// StatusMessage returns the client-facing explanation for a status. Every
// defined status has a message.
func StatusMessage(status domain.RequestStatus) string {
	switch status {
	case domain.RequestStatusNew:
		return "Your request is waiting for a manager."
	case domain.RequestStatusInProgress:
		return "A manager is working on your request."
	case domain.RequestStatusCompleted:
		return "Your request has been completed. Thank you for choosing us!"
	case domain.RequestStatusCancelled:
		return "Your request has been cancelled. Contact us if you have any questions."
	}
	return "Your request has been updated."
}

func (n *NotificationService) tourName(ctx context.Context, tourID int64) string {
	tour, err := n.tours.GetByID(ctx, tourID)
	if err != nil {
		n.logger.Warn("tour lookup for notification failed",
			zap.Int64("tour_id", tourID), zap.Error(err))
		return fmt.Sprintf("tour #%d", tourID)
	}
	return tour.Name
}

func (n *NotificationService) send(ctx context.Context, msg mail.Message) {
	if msg.To == "" {
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.logger.Error("email delivery failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}
