package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
)

// memRequestRepo is an in-memory RequestRepository with the same claim
// semantics as the SQL implementation.
type memRequestRepo struct {
	mu       sync.Mutex
	seq      int64
	requests map[int64]*domain.ClientRequest
	history  []domain.RequestHistory
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[int64]*domain.ClientRequest)}
}

func (m *memRequestRepo) CreateWithHistory(_ context.Context, req *domain.ClientRequest, entry *domain.RequestHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	req.ID = m.seq
	req.CreatedAt = time.Now()
	stored := *req
	m.requests[req.ID] = &stored
	entry.RequestID = req.ID
	m.appendHistory(entry)
	return nil
}

func (m *memRequestRepo) UpdateWithHistory(_ context.Context, req *domain.ClientRequest, entries []*domain.RequestHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return pgx.ErrNoRows
	}
	stored := *req
	m.requests[req.ID] = &stored
	for _, entry := range entries {
		m.appendHistory(entry)
	}
	return nil
}

func (m *memRequestRepo) Claim(_ context.Context, req *domain.ClientRequest, employeeID int64, status domain.RequestStatus, entries []*domain.RequestHistory) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[req.ID]
	if !ok || stored.EmployeeID != nil {
		return false, nil
	}
	stored.EmployeeID = &employeeID
	stored.Status = status
	req.EmployeeID = &employeeID
	req.Status = status
	for _, entry := range entries {
		m.appendHistory(entry)
	}
	return true, nil
}

func (m *memRequestRepo) GetByID(_ context.Context, id int64) (*domain.ClientRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (m *memRequestRepo) ListWithFilter(_ context.Context, filter repository.RequestFilter) ([]domain.ClientRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.ClientRequest
	for _, req := range m.requests {
		if filter.Unassigned && req.EmployeeID != nil {
			continue
		}
		if filter.ClientID != nil && (req.ClientID == nil || *req.ClientID != *filter.ClientID) {
			continue
		}
		if filter.EmployeeID != nil && (req.EmployeeID == nil || *req.EmployeeID != *filter.EmployeeID) {
			continue
		}
		if len(filter.Statuses) > 0 {
			matched := false
			for _, status := range filter.Statuses {
				if req.Status == status {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		out = append(out, *req)
	}
	return out, nil
}

func (m *memRequestRepo) Count(ctx context.Context, filter repository.RequestFilter) (int64, error) {
	items, _ := m.ListWithFilter(ctx, filter)
	return int64(len(items)), nil
}

func (m *memRequestRepo) CountCreatedOn(_ context.Context, _ time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.requests)), nil
}

func (m *memRequestRepo) UnprocessedCounts(_ context.Context) ([]repository.EmployeeLoad, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int64]int)
	for _, req := range m.requests {
		if req.EmployeeID != nil && req.Status == domain.RequestStatusInProgress {
			counts[*req.EmployeeID]++
		}
	}
	out := make([]repository.EmployeeLoad, 0, len(counts))
	for id, count := range counts {
		out = append(out, repository.EmployeeLoad{EmployeeID: id, Count: count})
	}
	return out, nil
}

// appendHistory requires m.mu held.
func (m *memRequestRepo) appendHistory(entry *domain.RequestHistory) {
	entry.ID = int64(len(m.history) + 1)
	entry.CreatedAt = time.Now()
	m.history = append(m.history, *entry)
}

func (m *memRequestRepo) historyFor(requestID int64) []domain.RequestHistory {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.RequestHistory
	// newest first, matching the SQL ordering
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].RequestID == requestID {
			out = append(out, m.history[i])
		}
	}
	return out
}

// memHistoryRepo exposes the request repo's audit entries.
type memHistoryRepo struct {
	store *memRequestRepo
}

func (m *memHistoryRepo) Create(_ context.Context, entry *domain.RequestHistory) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	m.store.appendHistory(entry)
	return nil
}

func (m *memHistoryRepo) ListByRequest(_ context.Context, requestID int64) ([]domain.RequestHistory, error) {
	return m.store.historyFor(requestID), nil
}

type memTourRepo struct {
	tours map[int64]*domain.Tour
}

func (m *memTourRepo) Create(_ context.Context, tour *domain.Tour) error {
	m.tours[tour.ID] = tour
	return nil
}
func (m *memTourRepo) Update(_ context.Context, tour *domain.Tour) error {
	m.tours[tour.ID] = tour
	return nil
}
func (m *memTourRepo) GetByID(_ context.Context, id int64) (*domain.Tour, error) {
	tour, ok := m.tours[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *tour
	return &copied, nil
}
func (m *memTourRepo) ListWithFilter(_ context.Context, _ repository.TourFilter) ([]domain.Tour, error) {
	var out []domain.Tour
	for _, tour := range m.tours {
		out = append(out, *tour)
	}
	return out, nil
}
func (m *memTourRepo) SetFlights(_ context.Context, _ int64, _ []int64) error { return nil }
func (m *memTourRepo) Count(_ context.Context, _ bool) (int64, error) {
	return int64(len(m.tours)), nil
}
func (m *memTourRepo) TopDestinations(_ context.Context, _ int) ([]repository.DestinationStat, error) {
	return nil, nil
}
func (m *memTourRepo) PriceStats(_ context.Context) (repository.PriceStats, error) {
	return repository.PriceStats{}, nil
}

type memClientRepo struct {
	clients map[int64]*domain.Client
}

func (m *memClientRepo) Create(_ context.Context, client *domain.Client) error {
	m.clients[client.ID] = client
	return nil
}
func (m *memClientRepo) Update(_ context.Context, client *domain.Client) error {
	m.clients[client.ID] = client
	return nil
}
func (m *memClientRepo) GetByID(_ context.Context, id int64) (*domain.Client, error) {
	client, ok := m.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *client
	return &copied, nil
}
func (m *memClientRepo) GetByEmail(_ context.Context, email string) (*domain.Client, error) {
	for _, client := range m.clients {
		if client.Email == email {
			copied := *client
			return &copied, nil
		}
	}
	return nil, nil
}
func (m *memClientRepo) GetByUserID(_ context.Context, userID int64) (*domain.Client, error) {
	for _, client := range m.clients {
		if client.UserID != nil && *client.UserID == userID {
			copied := *client
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *memClientRepo) List(_ context.Context, _ repository.ClientFilter) ([]domain.Client, error) {
	var out []domain.Client
	for _, client := range m.clients {
		out = append(out, *client)
	}
	return out, nil
}

type memEmployeeRepo struct {
	employees map[int64]*domain.Employee
}

func (m *memEmployeeRepo) Create(_ context.Context, employee *domain.Employee) error {
	m.employees[employee.ID] = employee
	return nil
}
func (m *memEmployeeRepo) Update(_ context.Context, employee *domain.Employee) error {
	m.employees[employee.ID] = employee
	return nil
}
func (m *memEmployeeRepo) GetByID(_ context.Context, id int64) (*domain.Employee, error) {
	employee, ok := m.employees[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *employee
	return &copied, nil
}
func (m *memEmployeeRepo) GetByUserID(_ context.Context, userID int64) (*domain.Employee, error) {
	for _, employee := range m.employees {
		if employee.UserID == userID {
			copied := *employee
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *memEmployeeRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	for _, employee := range m.employees {
		if employee.Email == email {
			copied := *employee
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
func (m *memEmployeeRepo) List(_ context.Context, _ repository.EmployeeFilter) ([]domain.Employee, error) {
	var out []domain.Employee
	for _, employee := range m.employees {
		out = append(out, *employee)
	}
	return out, nil
}
