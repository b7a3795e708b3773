package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/events"
	"github.com/spec-kit/tour-backoffice/internal/mail"
	"github.com/spec-kit/tour-backoffice/internal/observability"
)

type recordingSender struct {
	mu       sync.Mutex
	messages []mail.Message
	fail     bool
}

func (r *recordingSender) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("smtp unavailable")
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSender) sent() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message{}, r.messages...)
}

func newNotificationFixture(fail bool) (*NotificationService, *recordingSender) {
	sender := &recordingSender{fail: fail}
	tours := &memTourRepo{tours: map[int64]*domain.Tour{
		1: {ID: 1, Name: "City break", Price: 45000},
	}}
	svc := NewNotificationService(sender, tours, zap.NewNop(), observability.NewMetrics())
	return svc, sender
}

func TestStatusMessageCoversAllStatuses(t *testing.T) {
	for _, status := range []domain.RequestStatus{
		domain.RequestStatusNew,
		domain.RequestStatusInProgress,
		domain.RequestStatusCompleted,
		domain.RequestStatusCancelled,
	} {
		require.NotEmpty(t, StatusMessage(status), "status %s", status)
	}
}

func TestNotificationOnRequestCreated(t *testing.T) {
	svc, sender := newNotificationFixture(false)

	err := svc.handleRequestCreated(context.Background(), events.Event{
		Type: events.EventRequestCreated,
		Payload: events.RequestCreatedPayload{Request: domain.ClientRequest{
			ID:             7,
			TourID:         1,
			RequesterName:  "Ivan Sidorov",
			RequesterEmail: "ivan@example.com",
		}},
	})
	require.NoError(t, err)

	messages := sender.sent()
	require.Len(t, messages, 1)
	require.Equal(t, "ivan@example.com", messages[0].To)
	require.Contains(t, messages[0].Subject, "#7")
	require.Contains(t, messages[0].Body, "City break")
}

func TestNotificationOnStatusChanged(t *testing.T) {
	svc, sender := newNotificationFixture(false)

	err := svc.handleStatusChanged(context.Background(), events.Event{
		Type: events.EventRequestStatusChanged,
		Payload: events.RequestStatusChangedPayload{
			Request: domain.ClientRequest{
				ID:             7,
				TourID:         1,
				RequesterName:  "Ivan Sidorov",
				RequesterEmail: "ivan@example.com",
				Status:         domain.RequestStatusCompleted,
			},
			OldStatus: domain.RequestStatusInProgress,
		},
	})
	require.NoError(t, err)

	messages := sender.sent()
	require.Len(t, messages, 1)
	require.Contains(t, messages[0].Body, StatusMessage(domain.RequestStatusCompleted))
}

func TestNotificationOnAssignedGoesToEmployee(t *testing.T) {
	svc, sender := newNotificationFixture(false)

	err := svc.handleRequestAssigned(context.Background(), events.Event{
		Type: events.EventRequestAssigned,
		Payload: events.RequestAssignedPayload{
			Request:  domain.ClientRequest{ID: 7, TourID: 1, RequesterName: "Ivan", RequesterEmail: "ivan@example.com", Priority: domain.RequestPriorityHigh},
			Employee: domain.Employee{ID: 20, FullName: "Anna Smirnova", Email: "anna@agency.example"},
		},
	})
	require.NoError(t, err)

	messages := sender.sent()
	require.Len(t, messages, 1)
	require.Equal(t, "anna@agency.example", messages[0].To)
}

func TestNotificationDeliveryFailureIsSwallowed(t *testing.T) {
	svc, _ := newNotificationFixture(true)

	err := svc.handleRequestCreated(context.Background(), events.Event{
		Type: events.EventRequestCreated,
		Payload: events.RequestCreatedPayload{Request: domain.ClientRequest{
			ID: 7, TourID: 1, RequesterName: "Ivan", RequesterEmail: "ivan@example.com",
		}},
	})
	require.NoError(t, err)
}

func TestNotificationUnexpectedPayload(t *testing.T) {
	svc, sender := newNotificationFixture(false)

	err := svc.handleRequestCreated(context.Background(), events.Event{
		Type:    events.EventRequestCreated,
		Payload: "garbage",
	})
	require.Error(t, err)
	require.Empty(t, sender.sent())
}
