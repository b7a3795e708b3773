package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/tour-backoffice/internal/domain"
)

func TestStatisticsSnapshot(t *testing.T) {
	f := newRequestFixture()
	first := mustCreate(t, f)
	mustCreate(t, f)
	_, err := f.svc.TakeRequest(context.Background(), first.ID, 20)
	require.NoError(t, err)

	stats := NewStatisticsService(f.requests, f.tours, nil, 0, zap.NewNop())
	snapshot, err := stats.Snapshot(context.Background())
	require.NoError(t, err)

	require.Equal(t, int64(2), snapshot.TotalRequests)
	require.Equal(t, int64(1), snapshot.RequestsByStatus[domain.RequestStatusNew])
	require.Equal(t, int64(1), snapshot.RequestsByStatus[domain.RequestStatusInProgress])
	require.Equal(t, int64(1), snapshot.UnassignedRequests)
	require.Equal(t, int64(2), snapshot.RequestsByPriority[domain.RequestPriorityNormal])
}

func TestStatisticsExportCSV(t *testing.T) {
	f := newRequestFixture()
	mustCreate(t, f)

	stats := NewStatisticsService(f.requests, f.tours, nil, 0, zap.NewNop())
	report, err := stats.ExportCSV(context.Background())
	require.NoError(t, err)

	body := string(report)
	require.True(t, strings.HasPrefix(body, "metric,value"))
	require.Contains(t, body, "total_requests,1")
	require.Contains(t, body, "requests_NEW,1")
}
