package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/tour-backoffice/internal/domain"
	"github.com/spec-kit/tour-backoffice/internal/repository"
	"github.com/spec-kit/tour-backoffice/pkg/apperr"
)

const statsCacheKey = "stats:snapshot"

// StatisticsSnapshot aggregates back-office counters at a point in time.
type StatisticsSnapshot struct {
	GeneratedAt        time.Time                        `json:"generated_at"`
	TotalRequests      int64                            `json:"total_requests"`
	RequestsByStatus   map[domain.RequestStatus]int64   `json:"requests_by_status"`
	RequestsByPriority map[domain.RequestPriority]int64 `json:"requests_by_priority"`
	RequestsToday      int64                            `json:"requests_today"`
	UnassignedRequests int64                            `json:"unassigned_requests"`
	ActiveTours        int64                            `json:"active_tours"`
	TopDestinations    []DestinationReport              `json:"top_destinations"`
	TourPriceAvg       float64                          `json:"tour_price_avg"`
	TourPriceMin       float64                          `json:"tour_price_min"`
	TourPriceMax       float64                          `json:"tour_price_max"`
}

// DestinationReport mirrors repository.DestinationStat for JSON output.
type DestinationReport struct {
	Destination  string `json:"destination"`
	TourCount    int64  `json:"tour_count"`
	RequestCount int64  `json:"request_count"`
}

// StatisticsService builds reporting snapshots. Snapshots are cached in Redis
// so dashboard refreshes do not hammer the database.
type StatisticsService struct {
	requests repository.RequestRepository
	tours    repository.TourRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewStatisticsService constructs the service. cache may be nil, in which
// case every snapshot is computed fresh.
func NewStatisticsService(requests repository.RequestRepository, tours repository.TourRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{requests: requests, tours: tours, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Snapshot returns the current counters, served from cache when fresh.
func (s *StatisticsService) Snapshot(ctx context.Context) (*StatisticsSnapshot, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	snapshot, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, snapshot)
	return snapshot, nil
}

// ExportCSV renders the snapshot as a CSV report for download.
func (s *StatisticsService) ExportCSV(ctx context.Context) ([]byte, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{
		{"metric", "value"},
		{"generated_at", snapshot.GeneratedAt.Format(time.RFC3339)},
		{"total_requests", strconv.FormatInt(snapshot.TotalRequests, 10)},
		{"requests_today", strconv.FormatInt(snapshot.RequestsToday, 10)},
		{"unassigned_requests", strconv.FormatInt(snapshot.UnassignedRequests, 10)},
		{"active_tours", strconv.FormatInt(snapshot.ActiveTours, 10)},
		{"tour_price_avg", strconv.FormatFloat(snapshot.TourPriceAvg, 'f', 2, 64)},
		{"tour_price_min", strconv.FormatFloat(snapshot.TourPriceMin, 'f', 2, 64)},
		{"tour_price_max", strconv.FormatFloat(snapshot.TourPriceMax, 'f', 2, 64)},
	}
	for _, status := range []domain.RequestStatus{domain.RequestStatusNew, domain.RequestStatusInProgress, domain.RequestStatusCompleted, domain.RequestStatusCancelled} {
		records = append(records, []string{"requests_" + string(status), strconv.FormatInt(snapshot.RequestsByStatus[status], 10)})
	}
	for _, priority := range []domain.RequestPriority{domain.RequestPriorityLow, domain.RequestPriorityNormal, domain.RequestPriorityHigh, domain.RequestPriorityUrgent} {
		records = append(records, []string{"requests_priority_" + string(priority), strconv.FormatInt(snapshot.RequestsByPriority[priority], 10)})
	}
	for _, dest := range snapshot.TopDestinations {
		records = append(records, []string{"destination_" + dest.Destination, strconv.FormatInt(dest.RequestCount, 10)})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, apperr.From(err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperr.From(err)
	}
	return buf.Bytes(), nil
}

func (s *StatisticsService) compute(ctx context.Context) (*StatisticsSnapshot, error) {
	snapshot := &StatisticsSnapshot{
		GeneratedAt:        time.Now(),
		RequestsByStatus:   make(map[domain.RequestStatus]int64),
		RequestsByPriority: make(map[domain.RequestPriority]int64),
	}

	total, err := s.requests.Count(ctx, repository.RequestFilter{})
	if err != nil {
		return nil, apperr.From(err)
	}
	snapshot.TotalRequests = total

	for _, status := range []domain.RequestStatus{domain.RequestStatusNew, domain.RequestStatusInProgress, domain.RequestStatusCompleted, domain.RequestStatusCancelled} {
		count, err := s.requests.Count(ctx, repository.RequestFilter{Statuses: []domain.RequestStatus{status}})
		if err != nil {
			return nil, apperr.From(err)
		}
		snapshot.RequestsByStatus[status] = count
	}
	for _, priority := range []domain.RequestPriority{domain.RequestPriorityLow, domain.RequestPriorityNormal, domain.RequestPriorityHigh, domain.RequestPriorityUrgent} {
		count, err := s.requests.Count(ctx, repository.RequestFilter{Priorities: []domain.RequestPriority{priority}})
		if err != nil {
			return nil, apperr.From(err)
		}
		snapshot.RequestsByPriority[priority] = count
	}

	today, err := s.requests.CountCreatedOn(ctx, time.Now())
	if err != nil {
		return nil, apperr.From(err)
	}
	snapshot.RequestsToday = today

	unassigned, err := s.requests.Count(ctx, repository.RequestFilter{Unassigned: true})
	if err != nil {
		return nil, apperr.From(err)
	}
	snapshot.UnassignedRequests = unassigned

	activeTours, err := s.tours.Count(ctx, true)
	if err != nil {
		return nil, apperr.From(err)
	}
	snapshot.ActiveTours = activeTours

	destinations, err := s.tours.TopDestinations(ctx, 10)
	if err != nil {
		return nil, apperr.From(err)
	}
	for _, dest := range destinations {
		snapshot.TopDestinations = append(snapshot.TopDestinations, DestinationReport{
			Destination:  dest.Destination,
			TourCount:    dest.TourCount,
			RequestCount: dest.RequestCount,
		})
	}

	prices, err := s.tours.PriceStats(ctx)
	if err != nil {
		return nil, apperr.From(err)
	}
	snapshot.TourPriceAvg = prices.Avg
	snapshot.TourPriceMin = prices.Min
	snapshot.TourPriceMax = prices.Max

	return snapshot, nil
}

func (s *StatisticsService) fromCache(ctx context.Context) *StatisticsSnapshot {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, statsCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("statistics cache read failed", zap.Error(err))
		}
		return nil
	}
	var snapshot StatisticsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		s.logger.Warn("statistics cache decode failed", zap.Error(err))
		return nil
	}
	return &snapshot
}

func (s *StatisticsService) toCache(ctx context.Context, snapshot *StatisticsSnapshot) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.Warn("statistics cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, statsCacheKey, raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("statistics cache write failed", zap.Error(err))
	}
}
