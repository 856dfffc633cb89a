package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/pkg/cache"
	"github.com/hrms-platform/leave-service-go/internal/service/authz"
)

// countingRepo serves fixed counts and records how often it is hit so cache
// behavior can be asserted.
type countingRepo struct {
	summary     leave.Summary
	onLeave     int64
	summaryHits int
	onLeaveHits int
}

func (r *countingRepo) Create(context.Context, leave.Leave) (leave.Leave, error) {
	return leave.Leave{}, nil
}

func (r *countingRepo) GetByID(context.Context, int64) (leave.Leave, error) {
	return leave.Leave{}, leave.ErrLeaveRequestNotFound
}

func (r *countingRepo) List(context.Context, leave.Filter) ([]leave.Leave, int64, error) {
	return nil, 0, nil
}

func (r *countingRepo) UpdateStatusIfPending(context.Context, int64, leave.Status, *int64, *string) (leave.Leave, error) {
	return leave.Leave{}, leave.ErrLeaveRequestNotFound
}

func (r *countingRepo) CancelIfActive(context.Context, int64) (leave.Leave, error) {
	return leave.Leave{}, leave.ErrLeaveRequestNotFound
}

func (r *countingRepo) CountByStatus(context.Context) (leave.Summary, error) {
	r.summaryHits++
	return r.summary, nil
}

func (r *countingRepo) CountOnLeave(context.Context, time.Time) (int64, error) {
	r.onLeaveHits++
	return r.onLeave, nil
}

// memoryStore is a map-backed cache.Store for tests. TTLs are ignored.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (s *memoryStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, nil
	}
	return true, nil
}

func (s *memoryStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = data
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

// emptyDirectory satisfies identity.Directory; the dashboard never needs
// team lookups.
type emptyDirectory struct{}

func (emptyDirectory) GetEmployee(context.Context, int64) (identity.EmployeeRecord, error) {
	return identity.EmployeeRecord{}, identity.ErrEmployeeNotFound
}

func (emptyDirectory) GetEmployeeByEmail(context.Context, string) (identity.EmployeeRecord, error) {
	return identity.EmployeeRecord{}, identity.ErrEmployeeNotFound
}

func (emptyDirectory) ListTeamMembers(context.Context, int64) ([]identity.EmployeeRecord, error) {
	return nil, nil
}

func hrPrincipal() identity.Principal {
	return identity.Principal{
		Subject:    "user-hr",
		Email:      "hr@example.com",
		Roles:      identity.RoleSet{identity.RoleHRManager: {}},
		EmployeeID: 9,
	}
}

func newService(repo *countingRepo, store cache.Store) leave.DashboardService {
	logger := slog.New(slog.DiscardHandler)
	return NewDashboardService(repo, store, authz.New(emptyDirectory{}, logger), logger)
}

func TestSummary(t *testing.T) {
	repo := &countingRepo{summary: leave.Summary{
		TotalLeaves:    10,
		PendingLeaves:  3,
		ApprovedLeaves: 5,
		RejectedLeaves: 1,
		CancelledLeaves: 1,
	}}
	store := newMemoryStore()
	svc := newService(repo, store)

	summary, err := svc.Summary(context.Background(), hrPrincipal())
	require.NoError(t, err)
	assert.Equal(t, int64(10), summary.TotalLeaves)
	assert.Equal(t, int64(3), summary.PendingLeaves)
	assert.Equal(t, 1, repo.summaryHits)

	// Second call is served from cache.
	_, err = svc.Summary(context.Background(), hrPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.summaryHits)
}

func TestSummary_RequiresHR(t *testing.T) {
	svc := newService(&countingRepo{}, nil)

	actor := identity.Principal{
		Subject:    "user-mgr",
		Roles:      identity.RoleSet{identity.RoleManager: {}},
		EmployeeID: 3,
	}
	_, err := svc.Summary(context.Background(), actor)
	assert.ErrorIs(t, err, identity.ErrPermissionDenied)
}

func TestOnLeaveToday(t *testing.T) {
	repo := &countingRepo{onLeave: 4}
	store := newMemoryStore()
	svc := newService(repo, store)

	result, err := svc.OnLeaveToday(context.Background(), hrPrincipal())
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Count)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), result.Date)
	assert.Equal(t, 1, repo.onLeaveHits)

	_, err = svc.OnLeaveToday(context.Background(), hrPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.onLeaveHits)
}

func TestDashboard_NilCache(t *testing.T) {
	repo := &countingRepo{summary: leave.Summary{TotalLeaves: 2}, onLeave: 1}
	svc := newService(repo, nil)

	_, err := svc.Summary(context.Background(), hrPrincipal())
	require.NoError(t, err)
	_, err = svc.Summary(context.Background(), hrPrincipal())
	require.NoError(t, err)
	assert.Equal(t, 2, repo.summaryHits)
}
