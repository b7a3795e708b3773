package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

type requestFixture struct {
	svc       *RequestService
	requests  *memRequestRepo
	tours     *memTourRepo
	clients   *memClientRepo
	employees *memEmployeeRepo
}

func newRequestFixture() *requestFixture {
	requests := newMemRequestRepo()
	tours := &memTourRepo{tours: map[int64]*domain.Tour{
		1: {ID: 1, Name: "City break", Price: 45000, DestinationCity: "Prague", Active: true},
		2: {ID: 2, Name: "Safari deluxe", Price: 250000, DestinationCity: "Nairobi", Active: true},
	}}
	clients := &memClientRepo{clients: map[int64]*domain.Client{
		10: {ID: 10, FirstName: "Vera", LastName: "Ivanova", Email: "vera@example.com", VIPStatus: true, Active: true},
		11: {ID: 11, UserID: int64Ptr(100), FirstName: "Oleg", LastName: "Petrov", Email: "oleg@example.com", Active: true},
	}}
	employees := &memEmployeeRepo{employees: map[int64]*domain.Employee{
		20: {ID: 20, UserID: 200, FullName: "Anna Smirnova", Email: "anna@agency.example", Active: true},
		21: {ID: 21, UserID: 201, FullName: "Pavel Orlov", Email: "pavel@agency.example", Active: true},
	}}

	return &requestFixture{
		svc: NewRequestService(RequestDependencies{
			RequestRepo:  requests,
			HistoryRepo:  &memHistoryRepo{store: requests},
			TourRepo:     tours,
			ClientRepo:   clients,
			EmployeeRepo: employees,
		}),
		requests:  requests,
		tours:     tours,
		clients:   clients,
		employees: employees,
	}
}

func int64Ptr(v int64) *int64 { return &v }

func TestDeterminePriority(t *testing.T) {
	f := newRequestFixture()
	cheap := &domain.Tour{Price: 45000}
	expensive := &domain.Tour{Price: 250000}
	vip := &domain.Client{VIPStatus: true}
	regular := &domain.Client{}
	urgent := domain.RequestPriorityUrgent
	bogus := domain.RequestPriority("PANIC")

	cases := []struct {
		name     string
		explicit *domain.RequestPriority
		tour     *domain.Tour
		client   *domain.Client
		want     domain.RequestPriority
	}{
		{"explicit wins over vip", &urgent, expensive, vip, domain.RequestPriorityUrgent},
		{"invalid explicit ignored", &bogus, cheap, regular, domain.RequestPriorityNormal},
		{"vip escalates", nil, cheap, vip, domain.RequestPriorityHigh},
		{"expensive tour escalates", nil, expensive, regular, domain.RequestPriorityHigh},
		{"boundary price stays normal", nil, &domain.Tour{Price: 100000}, regular, domain.RequestPriorityNormal},
		{"default normal", nil, cheap, regular, domain.RequestPriorityNormal},
		{"no client defaults normal", nil, cheap, nil, domain.RequestPriorityNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, f.svc.determinePriority(tc.explicit, tc.tour, tc.client))
		})
	}
}

func TestCreateRequest(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.CreateRequest(context.Background(), RequestCreateInput{
		TourID:         1,
		RequesterName:  "Ivan Sidorov",
		RequesterEmail: "ivan@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusNew, req.Status)
	require.Equal(t, domain.RequestPriorityNormal, req.Priority)
	require.Nil(t, req.ClientID)
	require.Nil(t, req.EmployeeID)
	require.NotZero(t, req.ID)

	history := f.requests.historyFor(req.ID)
	require.Len(t, history, 1)
	require.Equal(t, domain.FieldStatus, history[0].Field)
	require.Nil(t, history[0].OldValue)
	require.Equal(t, string(domain.RequestStatusNew), *history[0].NewValue)
	require.Equal(t, "Request created", history[0].Description)
}

func TestCreateRequestLinksKnownClient(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.CreateRequest(context.Background(), RequestCreateInput{
		TourID:         1,
		RequesterName:  "Vera Ivanova",
		RequesterEmail: "vera@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, req.ClientID)
	require.Equal(t, int64(10), *req.ClientID)
	// VIP profile escalates the default priority
	require.Equal(t, domain.RequestPriorityHigh, req.Priority)
}

func TestCreateRequestUnknownTour(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.CreateRequest(context.Background(), RequestCreateInput{
		TourID:         999,
		RequesterName:  "Ivan",
		RequesterEmail: "ivan@example.com",
	})
	require.Error(t, err)
	require.True(t, apperr.IsNotFound(err))
}

func TestCreateRequestValidation(t *testing.T) {
	f := newRequestFixture()

	cases := []struct {
		name  string
		input RequestCreateInput
	}{
		{"missing name", RequestCreateInput{TourID: 1, RequesterEmail: "a@b.cd"}},
		{"missing email", RequestCreateInput{TourID: 1, RequesterName: "Ivan"}},
		{"bad email", RequestCreateInput{TourID: 1, RequesterName: "Ivan", RequesterEmail: "not-an-email"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRequest(context.Background(), tc.input)
			require.Error(t, err)
			require.True(t, apperr.IsValidation(err))
		})
	}
}

func TestCreateRequestForClient(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.CreateRequestForClient(context.Background(), 100, RequestCreateInput{TourID: 2})
	require.NoError(t, err)
	require.NotNil(t, req.ClientID)
	require.Equal(t, int64(11), *req.ClientID)
	require.Equal(t, "Oleg Petrov", req.RequesterName)
	require.Equal(t, "oleg@example.com", req.RequesterEmail)
	// expensive tour escalates
	require.Equal(t, domain.RequestPriorityHigh, req.Priority)
}

func TestCreateRequestForClientMissingProfile(t *testing.T) {
	f := newRequestFixture()

	_, err := f.svc.CreateRequestForClient(context.Background(), 999, RequestCreateInput{TourID: 1})
	require.True(t, apperr.IsNotFound(err))
}

func TestUpdateStatusIsIdempotent(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), req.ID, RequestStatusInput{Status: domain.RequestStatusNew})
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusNew, updated.Status)
	// no new history beyond the creation entry
	require.Len(t, f.requests.historyFor(req.ID), 1)
}

func TestUpdateStatusRecordsTransition(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	updated, err := f.svc.UpdateStatus(context.Background(), req.ID, RequestStatusInput{Status: domain.RequestStatusCancelled})
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusCancelled, updated.Status)

	history := f.requests.historyFor(req.ID)
	require.Len(t, history, 2)
	require.Equal(t, domain.FieldStatus, history[0].Field)
	require.Equal(t, string(domain.RequestStatusNew), *history[0].OldValue)
	require.Equal(t, string(domain.RequestStatusCancelled), *history[0].NewValue)
	require.Equal(t, "Status changed from NEW to CANCELLED", history[0].Description)
}

func TestUpdateStatusReassignsEmployee(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	_, err := f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)

	// the unguarded path may move the request to another employee
	updated, err := f.svc.UpdateStatus(context.Background(), req.ID, RequestStatusInput{
		Status:     domain.RequestStatusInProgress,
		EmployeeID: int64Ptr(21),
	})
	require.NoError(t, err)
	require.Equal(t, int64(21), *updated.EmployeeID)

	history := f.requests.historyFor(req.ID)
	require.Equal(t, domain.FieldEmployee, history[0].Field)
	require.Equal(t, "Anna Smirnova", *history[0].OldValue)
	require.Equal(t, "Pavel Orlov", *history[0].NewValue)
	require.Equal(t, "Employee assigned: Pavel Orlov", history[0].Description)
}

func TestUpdateStatusUnknownStatus(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	_, err := f.svc.UpdateStatus(context.Background(), req.ID, RequestStatusInput{Status: "BROKEN"})
	require.True(t, apperr.IsValidation(err))
}

func TestUpdatePriority(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	updated, err := f.svc.UpdatePriority(context.Background(), req.ID, domain.RequestPriorityUrgent, nil)
	require.NoError(t, err)
	require.Equal(t, domain.RequestPriorityUrgent, updated.Priority)

	history := f.requests.historyFor(req.ID)
	require.Equal(t, domain.FieldPriority, history[0].Field)
	require.Equal(t, "Priority changed from NORMAL to URGENT", history[0].Description)

	// no-op writes nothing
	_, err = f.svc.UpdatePriority(context.Background(), req.ID, domain.RequestPriorityUrgent, nil)
	require.NoError(t, err)
	require.Len(t, f.requests.historyFor(req.ID), 2)
}

func TestTakeRequest(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	taken, err := f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusInProgress, taken.Status)
	require.Equal(t, int64(20), *taken.EmployeeID)

	history := f.requests.historyFor(req.ID)
	require.Len(t, history, 3)
	require.Equal(t, domain.FieldEmployee, history[0].Field)
	require.Equal(t, "Request taken by Anna Smirnova", history[0].Description)
	require.Equal(t, domain.FieldStatus, history[1].Field)
}

func TestTakeRequestAlreadyAssigned(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	_, err := f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)

	_, err = f.svc.TakeRequest(context.Background(), req.ID, 21)
	require.True(t, apperr.IsConflict(err))
	require.Contains(t, err.Error(), "Anna Smirnova")
}

func TestTakeRequestConcurrentExactlyOnce(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	const takers = 8
	var wg sync.WaitGroup
	errs := make([]error, takers)
	for i := 0; i < takers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			employeeID := int64(20 + i%2)
			_, errs[i] = f.svc.TakeRequest(context.Background(), req.ID, employeeID)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.True(t, apperr.IsConflict(err))
		}
	}
	require.Equal(t, 1, winners)

	stored, err := f.svc.GetRequest(context.Background(), req.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.EmployeeID)
	require.Equal(t, domain.RequestStatusInProgress, stored.Status)
}

func TestUpdateStatusByEmployee(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	_, err := f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)

	updated, err := f.svc.UpdateStatusByEmployee(context.Background(), req.ID, 20, domain.RequestStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusCompleted, updated.Status)

	// setting the same status again is a no-op
	before := len(f.requests.historyFor(req.ID))
	_, err = f.svc.UpdateStatusByEmployee(context.Background(), req.ID, 20, domain.RequestStatusCompleted)
	require.NoError(t, err)
	require.Len(t, f.requests.historyFor(req.ID), before)
}

func TestUpdateStatusByEmployeeForbidden(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	// unassigned request
	_, err := f.svc.UpdateStatusByEmployee(context.Background(), req.ID, 20, domain.RequestStatusCompleted)
	require.True(t, apperr.IsForbidden(err))

	_, err = f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)

	// another employee
	_, err = f.svc.UpdateStatusByEmployee(context.Background(), req.ID, 21, domain.RequestStatusCompleted)
	require.True(t, apperr.IsForbidden(err))
}

func TestRequestHistoryNewestFirst(t *testing.T) {
	f := newRequestFixture()
	req := mustCreate(t, f)

	_, err := f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatusByEmployee(context.Background(), req.ID, 20, domain.RequestStatusCompleted)
	require.NoError(t, err)

	history, err := f.svc.RequestHistory(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, history, 4)
	require.Equal(t, "Status changed from IN_PROGRESS to COMPLETED", history[0].Description)
	require.Equal(t, "Request created", history[len(history)-1].Description)
}

func TestAvailableRequestsExcludesTaken(t *testing.T) {
	f := newRequestFixture()
	first := mustCreate(t, f)
	second := mustCreate(t, f)

	_, err := f.svc.TakeRequest(context.Background(), first.ID, 20)
	require.NoError(t, err)

	available, err := f.svc.AvailableRequests(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, available, 1)
	require.Equal(t, second.ID, available[0].ID)
}

// Full walkthrough: submission, claim, completion, with the audit trail
// reflecting every step.
func TestRequestLifecycleEndToEnd(t *testing.T) {
	f := newRequestFixture()

	req, err := f.svc.CreateRequest(context.Background(), RequestCreateInput{
		TourID:         2,
		RequesterName:  "Vera Ivanova",
		RequesterEmail: "vera@example.com",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RequestPriorityHigh, req.Priority)

	taken, err := f.svc.TakeRequest(context.Background(), req.ID, 20)
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusInProgress, taken.Status)

	done, err := f.svc.UpdateStatusByEmployee(context.Background(), req.ID, 20, domain.RequestStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.RequestStatusCompleted, done.Status)

	history, err := f.svc.RequestHistory(context.Background(), req.ID)
	require.NoError(t, err)

	var fields []domain.ChangedField
	for _, entry := range history {
		fields = append(fields, entry.Field)
	}
	require.Equal(t, []domain.ChangedField{
		domain.FieldStatus,
		domain.FieldEmployee,
		domain.FieldStatus,
		domain.FieldStatus,
	}, fields)
}

func mustCreate(t *testing.T, f *requestFixture) *domain.ClientRequest {
	t.Helper()
	req, err := f.svc.CreateRequest(context.Background(), RequestCreateInput{
		TourID:         1,
		RequesterName:  "Ivan Sidorov",
		RequesterEmail: "ivan@example.com",
	})
	require.NoError(t, err)
	return req
}
