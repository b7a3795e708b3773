package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/events"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

// highValueTourPrice is the price above which a request is escalated to HIGH.
const highValueTourPrice = 100000.0

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RequestService coordinates the client request lifecycle: intake, triage,
// assignment and status transitions, with an audit entry for every change.
type RequestService struct {
	requests  repository.RequestRepository
	history   repository.RequestHistoryRepository
	tours     repository.TourRepository
	clients   repository.ClientRepository
	employees repository.EmployeeRepository

	dispatcher events.Dispatcher
}

// RequestDependencies bundles repositories for the request service.
type RequestDependencies struct {
	RequestRepo  repository.RequestRepository
	HistoryRepo  repository.RequestHistoryRepository
	TourRepo     repository.TourRepository
	ClientRepo   repository.ClientRepository
	EmployeeRepo repository.EmployeeRepository
	Dispatcher   events.Dispatcher
}

// RequestCreateInput describes a request submission.
type RequestCreateInput struct {
	TourID         int64
	RequesterName  string
	RequesterEmail string
	RequesterPhone *string
	Comment        *string
	Priority       *domain.RequestPriority
}

// RequestStatusInput describes a back-office status update. EmployeeID, when
// set, reassigns the request to that employee in the same operation.
type RequestStatusInput struct {
	Status     domain.RequestStatus
	EmployeeID *int64
	ActorID    *int64
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:   deps.RequestRepo,
		history:    deps.HistoryRepo,
		tours:      deps.TourRepo,
		clients:    deps.ClientRepo,
		employees:  deps.EmployeeRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateRequest registers an inquiry from the public form. When the requester
// email matches a known client profile the request is linked to it; the link
// is best effort and an unknown email is not an error.
func (s *RequestService) CreateRequest(ctx context.Context, input RequestCreateInput) (*domain.ClientRequest, error) {
	if err := validateSubmission(&input); err != nil {
		return nil, err
	}

	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("tour %d not found", input.TourID))
		}
		return nil, apperr.From(err)
	}

	client, err := s.clients.GetByEmail(ctx, input.RequesterEmail)
	if err != nil {
		return nil, apperr.From(err)
	}

	req := &domain.ClientRequest{
		TourID:         tour.ID,
		RequesterName:  input.RequesterName,
		RequesterEmail: input.RequesterEmail,
		RequesterPhone: input.RequesterPhone,
		Comment:        input.Comment,
		Status:         domain.RequestStatusNew,
		Priority:       s.determinePriority(input.Priority, tour, client),
	}
	if client != nil {
		req.ClientID = &client.ID
	}

	entry := &domain.RequestHistory{
		Field:       domain.FieldStatus,
		NewValue:    strPtr(string(domain.RequestStatusNew)),
		Description: "Request created",
	}
	if err := s.requests.CreateWithHistory(ctx, req, entry); err != nil {
		return nil, apperr.From(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: req.ID,
		Payload:   events.RequestCreatedPayload{Request: *req},
	})
	return req, nil
}

// CreateRequestForClient registers an inquiry on behalf of an authenticated
// client. Requester contact fields are taken from the client profile.
func (s *RequestService) CreateRequestForClient(ctx context.Context, userID int64, input RequestCreateInput) (*domain.ClientRequest, error) {
	client, err := s.clients.GetByUserID(ctx, userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound("client profile not found")
		}
		return nil, apperr.From(err)
	}

	tour, err := s.tours.GetByID(ctx, input.TourID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("tour %d not found", input.TourID))
		}
		return nil, apperr.From(err)
	}

	req := &domain.ClientRequest{
		TourID:         tour.ID,
		ClientID:       &client.ID,
		RequesterName:  client.FullName(),
		RequesterEmail: client.Email,
		RequesterPhone: client.Phone,
		Comment:        input.Comment,
		Status:         domain.RequestStatusNew,
		Priority:       s.determinePriority(input.Priority, tour, client),
	}

	entry := &domain.RequestHistory{
		Field:       domain.FieldStatus,
		NewValue:    strPtr(string(domain.RequestStatusNew)),
		Description: "Request created",
	}
	if err := s.requests.CreateWithHistory(ctx, req, entry); err != nil {
		return nil, apperr.From(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: req.ID,
		Payload:   events.RequestCreatedPayload{Request: *req},
	})
	return req, nil
}

// UpdateStatus applies a back-office status change and, optionally, an
// employee reassignment. The reassignment path here is unguarded: it may move
// a request from one employee to another. Setting the current status again is
// a no-op and writes no history.
func (s *RequestService) UpdateStatus(ctx context.Context, requestID int64, input RequestStatusInput) (*domain.ClientRequest, error) {
	if !input.Status.Valid() {
		return nil, apperr.NewValidation(fmt.Sprintf("unknown status: %s", input.Status))
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	oldStatus := req.Status
	var entries []*domain.RequestHistory

	if oldStatus != input.Status {
		req.Status = input.Status
		entries = append(entries, &domain.RequestHistory{
			RequestID:           req.ID,
			ChangedByEmployeeID: input.ActorID,
			Field:               domain.FieldStatus,
			OldValue:            strPtr(string(oldStatus)),
			NewValue:            strPtr(string(input.Status)),
			Description:         fmt.Sprintf("Status changed from %s to %s", oldStatus, input.Status),
		})
	}

	var assigned *domain.Employee
	if input.EmployeeID != nil && (req.EmployeeID == nil || *req.EmployeeID != *input.EmployeeID) {
		employee, err := s.employees.GetByID(ctx, *input.EmployeeID)
		if err != nil {
			if err == pgx.ErrNoRows {
				return nil, apperr.NewNotFound(fmt.Sprintf("employee %d not found", *input.EmployeeID))
			}
			return nil, apperr.From(err)
		}

		var oldName *string
		if req.EmployeeID != nil {
			if prev, prevErr := s.employees.GetByID(ctx, *req.EmployeeID); prevErr == nil {
				oldName = strPtr(prev.FullName)
			}
		}
		req.EmployeeID = input.EmployeeID
		entries = append(entries, &domain.RequestHistory{
			RequestID:           req.ID,
			ChangedByEmployeeID: input.ActorID,
			Field:               domain.FieldEmployee,
			OldValue:            oldName,
			NewValue:            strPtr(employee.FullName),
			Description:         "Employee assigned: " + employee.FullName,
		})
		assigned = employee
	}

	if len(entries) == 0 {
		return req, nil
	}

	if err := s.requests.UpdateWithHistory(ctx, req, entries); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return nil, apperr.From(err)
	}

	if oldStatus != req.Status {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventRequestStatusChanged,
			RequestID: req.ID,
			Payload:   events.RequestStatusChangedPayload{Request: *req, OldStatus: oldStatus},
		})
	}
	if assigned != nil {
		s.publishEvent(ctx, events.Event{
			Type:      events.EventRequestAssigned,
			RequestID: req.ID,
			Payload:   events.RequestAssignedPayload{Request: *req, Employee: *assigned},
		})
	}
	return req, nil
}

// UpdatePriority changes the triage priority. Setting the current priority
// again is a no-op.
func (s *RequestService) UpdatePriority(ctx context.Context, requestID int64, priority domain.RequestPriority, actorID *int64) (*domain.ClientRequest, error) {
	if !priority.Valid() {
		return nil, apperr.NewValidation(fmt.Sprintf("unknown priority: %s", priority))
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Priority == priority {
		return req, nil
	}

	oldPriority := req.Priority
	req.Priority = priority
	entries := []*domain.RequestHistory{{
		RequestID:           req.ID,
		ChangedByEmployeeID: actorID,
		Field:               domain.FieldPriority,
		OldValue:            strPtr(string(oldPriority)),
		NewValue:            strPtr(string(priority)),
		Description:         fmt.Sprintf("Priority changed from %s to %s", oldPriority, priority),
	}}
	if err := s.requests.UpdateWithHistory(ctx, req, entries); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return nil, apperr.From(err)
	}
	return req, nil
}

// TakeRequest lets an employee claim an unassigned request. The claim is
// conditional on the request still being unassigned, so exactly one of
// several concurrent takers wins; the losers get a conflict naming the
// current holder. Claiming also moves the request to IN_PROGRESS.
func (s *RequestService) TakeRequest(ctx context.Context, requestID, employeeID int64) (*domain.ClientRequest, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Assigned() {
		return nil, s.conflictAlreadyAssigned(ctx, req)
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("employee %d not found", employeeID))
		}
		return nil, apperr.From(err)
	}

	var entries []*domain.RequestHistory
	if req.Status != domain.RequestStatusInProgress {
		entries = append(entries, &domain.RequestHistory{
			RequestID:           req.ID,
			ChangedByEmployeeID: &employee.ID,
			Field:               domain.FieldStatus,
			OldValue:            strPtr(string(req.Status)),
			NewValue:            strPtr(string(domain.RequestStatusInProgress)),
			Description:         fmt.Sprintf("Status changed from %s to %s", req.Status, domain.RequestStatusInProgress),
		})
	}
	entries = append(entries, &domain.RequestHistory{
		RequestID:           req.ID,
		ChangedByEmployeeID: &employee.ID,
		Field:               domain.FieldEmployee,
		NewValue:            strPtr(employee.FullName),
		Description:         "Request taken by " + employee.FullName,
	})

	claimed, err := s.requests.Claim(ctx, req, employee.ID, domain.RequestStatusInProgress, entries)
	if err != nil {
		return nil, apperr.From(err)
	}
	if !claimed {
		fresh, freshErr := s.requests.GetByID(ctx, requestID)
		if freshErr != nil {
			if freshErr == pgx.ErrNoRows {
				return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
			}
			return nil, apperr.From(freshErr)
		}
		return nil, s.conflictAlreadyAssigned(ctx, fresh)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestAssigned,
		RequestID: req.ID,
		Payload:   events.RequestAssignedPayload{Request: *req, Employee: *employee},
	})
	return req, nil
}

// UpdateStatusByEmployee applies a status change on behalf of an employee.
// Unlike UpdateStatus it is guarded: only the assigned employee may move the
// request.
func (s *RequestService) UpdateStatusByEmployee(ctx context.Context, requestID, employeeID int64, status domain.RequestStatus) (*domain.ClientRequest, error) {
	if !status.Valid() {
		return nil, apperr.NewValidation(fmt.Sprintf("unknown status: %s", status))
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.EmployeeID == nil || *req.EmployeeID != employeeID {
		return nil, apperr.NewForbidden("request is not assigned to you")
	}
	if req.Status == status {
		return req, nil
	}

	oldStatus := req.Status
	req.Status = status
	entries := []*domain.RequestHistory{{
		RequestID:           req.ID,
		ChangedByEmployeeID: &employeeID,
		Field:               domain.FieldStatus,
		OldValue:            strPtr(string(oldStatus)),
		NewValue:            strPtr(string(status)),
		Description:         fmt.Sprintf("Status changed from %s to %s", oldStatus, status),
	}}
	if err := s.requests.UpdateWithHistory(ctx, req, entries); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return nil, apperr.From(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: req.ID,
		Payload:   events.RequestStatusChangedPayload{Request: *req, OldStatus: oldStatus},
	})
	return req, nil
}

// GetRequest returns a single request.
func (s *RequestService) GetRequest(ctx context.Context, requestID int64) (*domain.ClientRequest, error) {
	return s.getRequest(ctx, requestID)
}

// ListRequests returns requests matching the filter.
func (s *RequestService) ListRequests(ctx context.Context, filter repository.RequestFilter) ([]domain.ClientRequest, error) {
	items, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperr.From(err)
	}
	return items, nil
}

// AvailableRequests returns unassigned requests for the worklist, newest
// first.
func (s *RequestService) AvailableRequests(ctx context.Context, limit, offset int) ([]domain.ClientRequest, error) {
	filter := repository.RequestFilter{
		Statuses:   []domain.RequestStatus{domain.RequestStatusNew},
		Unassigned: true,
		Limit:      limit,
		Offset:     offset,
	}
	items, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperr.From(err)
	}
	return items, nil
}

// RequestHistory returns the audit trail for a request, newest first.
func (s *RequestService) RequestHistory(ctx context.Context, requestID int64) ([]domain.RequestHistory, error) {
	if _, err := s.getRequest(ctx, requestID); err != nil {
		return nil, err
	}
	entries, err := s.history.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperr.From(err)
	}
	return entries, nil
}

func (s *RequestService) getRequest(ctx context.Context, requestID int64) (*domain.ClientRequest, error) {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperr.NewNotFound(fmt.Sprintf("request %d not found", requestID))
		}
		return nil, apperr.From(err)
	}
	return req, nil
}

// determinePriority resolves the initial priority: an explicit valid value
// wins, then VIP clients and expensive tours escalate to HIGH, otherwise
// NORMAL.
func (s *RequestService) determinePriority(explicit *domain.RequestPriority, tour *domain.Tour, client *domain.Client) domain.RequestPriority {
	if explicit != nil && explicit.Valid() {
		return *explicit
	}
	if client != nil && client.VIPStatus {
		return domain.RequestPriorityHigh
	}
	if tour != nil && tour.Price > highValueTourPrice {
		return domain.RequestPriorityHigh
	}
	return domain.RequestPriorityNormal
}

func (s *RequestService) conflictAlreadyAssigned(ctx context.Context, req *domain.ClientRequest) error {
	holder := "another employee"
	if req.EmployeeID != nil {
		if employee, err := s.employees.GetByID(ctx, *req.EmployeeID); err == nil {
			holder = employee.FullName
		}
	}
	return apperr.NewConflict("request already assigned to employee: " + holder)
}

func (s *RequestService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateSubmission(input *RequestCreateInput) error {
	input.RequesterName = strings.TrimSpace(input.RequesterName)
	input.RequesterEmail = strings.TrimSpace(input.RequesterEmail)

	if input.RequesterName == "" {
		return apperr.NewValidation("requester name is required")
	}
	if len(input.RequesterName) > 100 {
		return apperr.NewValidation("requester name too long")
	}
	if input.RequesterEmail == "" {
		return apperr.NewValidation("requester email is required")
	}
	if len(input.RequesterEmail) > 255 || !emailPattern.MatchString(input.RequesterEmail) {
		return apperr.NewValidation("requester email is invalid")
	}
	if input.RequesterPhone != nil && len(*input.RequesterPhone) > 32 {
		return apperr.NewValidation("requester phone too long")
	}
	if input.Comment != nil && len(*input.Comment) > 2000 {
		return apperr.NewValidation("comment too long")
	}
	if input.Priority != nil && !input.Priority.Valid() {
		return apperr.NewValidation(fmt.Sprintf("unknown priority: %s", *input.Priority))
	}
	return nil
}

func strPtr(v string) *string {
	return &v
}
