package identity

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/pkg/token"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func directoryServer(t *testing.T, employees []identity.EmployeeRecord) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/employees/internal/list", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(employees)
	})

	mux.HandleFunc("GET /api/v1/employees/internal/by-email/{email}", func(w http.ResponseWriter, r *http.Request) {
		email := r.PathValue("email")
		for _, emp := range employees {
			if emp.Email == email {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(emp)
				return
			}
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("GET /api/v1/employees/internal/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, emp := range employees {
			if r.PathValue("id") == jsonID(emp.ID) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(emp)
				return
			}
		}
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func jsonID(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}

func TestDirectoryClient_GetEmployee(t *testing.T) {
	managerID := int64(3)
	server := directoryServer(t, []identity.EmployeeRecord{
		{ID: 5, FullName: "Dana Reyes", Email: "dana@example.com", ManagerID: &managerID},
	})
	client := NewDirectoryClient(server.URL, time.Second, nil, testLogger())

	record, err := client.GetEmployee(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", record.FullName)
	require.NotNil(t, record.ManagerID)
	assert.Equal(t, int64(3), *record.ManagerID)

	_, err = client.GetEmployee(context.Background(), 404)
	assert.ErrorIs(t, err, identity.ErrEmployeeNotFound)
}

func TestDirectoryClient_GetEmployeeByEmail(t *testing.T) {
	server := directoryServer(t, []identity.EmployeeRecord{
		{ID: 5, FullName: "Dana Reyes", Email: "dana+hr@example.com"},
	})
	client := NewDirectoryClient(server.URL, time.Second, nil, testLogger())

	record, err := client.GetEmployeeByEmail(context.Background(), "dana+hr@example.com")
	require.NoError(t, err)
	assert.Equal(t, int64(5), record.ID)

	_, err = client.GetEmployeeByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, identity.ErrEmployeeNotFound)
}

func TestDirectoryClient_ListTeamMembers(t *testing.T) {
	managerID := int64(3)
	otherManagerID := int64(4)
	server := directoryServer(t, []identity.EmployeeRecord{
		{ID: 3, FullName: "Mo Farrow", Email: "mo@example.com"},
		{ID: 5, FullName: "Dana Reyes", Email: "dana@example.com", ManagerID: &managerID},
		{ID: 6, FullName: "Ian Cole", Email: "ian@example.com", ManagerID: &otherManagerID},
		{ID: 7, FullName: "Avery Kim", Email: "avery@example.com", ManagerID: &managerID},
	})
	client := NewDirectoryClient(server.URL, time.Second, nil, testLogger())

	team, err := client.ListTeamMembers(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, team, 2)
	for _, member := range team {
		require.NotNil(t, member.ManagerID)
		assert.Equal(t, int64(3), *member.ManagerID)
	}

	empty, err := client.ListTeamMembers(context.Background(), 99)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDirectoryClient_ServerErrorsAreUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)
	client := NewDirectoryClient(server.URL, time.Second, nil, testLogger())

	_, err := client.GetEmployee(context.Background(), 5)
	assert.ErrorIs(t, err, identity.ErrDirectoryUnavailable)

	_, err = client.GetEmployeeByEmail(context.Background(), "dana@example.com")
	assert.ErrorIs(t, err, identity.ErrDirectoryUnavailable)

	_, err = client.ListTeamMembers(context.Background(), 3)
	assert.ErrorIs(t, err, identity.ErrDirectoryUnavailable)
}

func TestDirectoryClient_UnreachableHostIsUnavailable(t *testing.T) {
	client := NewDirectoryClient("http://127.0.0.1:1", 100*time.Millisecond, nil, testLogger())

	_, err := client.GetEmployee(context.Background(), 5)
	assert.ErrorIs(t, err, identity.ErrDirectoryUnavailable)
}

// recordingStore counts lookups so cache-hit behavior is observable.
type recordingStore struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
}

func (s *recordingStore) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	data, ok := s.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (s *recordingStore) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = data
	return nil
}

func (s *recordingStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.entries, key)
	}
	return nil
}

func TestDirectoryClient_CachesLookups(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(identity.EmployeeRecord{ID: 5, FullName: "Dana Reyes", Email: "dana@example.com"})
	}))
	t.Cleanup(server.Close)

	store := &recordingStore{entries: make(map[string][]byte)}
	client := NewDirectoryClient(server.URL, time.Second, store, testLogger())

	_, err := client.GetEmployee(context.Background(), 5)
	require.NoError(t, err)
	_, err = client.GetEmployee(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, 1, requests)
	assert.Equal(t, 2, store.gets)
}

func TestResolver_PrincipalFromClaims(t *testing.T) {
	resolver := NewResolver(nil, testLogger())

	p := resolver.PrincipalFromClaims(token.Claims{
		Subject: "user-1",
		Email:   "dana@example.com",
		Groups:  []string{"/Employees", "Team_Managers", "Skunkworks"},
	})

	assert.Equal(t, "user-1", p.Subject)
	assert.Equal(t, "dana@example.com", p.Email)
	assert.True(t, p.Roles.Has(identity.RoleEmployee))
	assert.True(t, p.Roles.Has(identity.RoleManager))
	assert.False(t, p.Roles.IsHR())
	assert.Zero(t, p.EmployeeID)
}

func TestResolver_ResolveEmployee(t *testing.T) {
	server := directoryServer(t, []identity.EmployeeRecord{
		{ID: 5, FullName: "Dana Reyes", Email: "dana@example.com"},
	})
	client := NewDirectoryClient(server.URL, time.Second, nil, testLogger())
	resolver := NewResolver(client, testLogger())

	p := identity.Principal{Subject: "user-1", Email: "dana@example.com"}
	record, err := resolver.ResolveEmployee(context.Background(), &p)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.EmployeeID)
	assert.Equal(t, "Dana Reyes", record.FullName)

	missing := identity.Principal{Subject: "user-2", Email: "ghost@example.com"}
	_, err = resolver.ResolveEmployee(context.Background(), &missing)
	assert.ErrorIs(t, err, identity.ErrEmployeeNotFound)
}
