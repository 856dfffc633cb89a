package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/pkg/cache"
)

// DirectoryClient talks to the employee directory's internal API. Internal
// endpoints are service-to-service and carry no user authentication.
type DirectoryClient struct {
	baseURL string
	client  *http.Client
	cache   cache.Store
	logger  *slog.Logger
}

func NewDirectoryClient(baseURL string, timeout time.Duration, store cache.Store, logger *slog.Logger) *DirectoryClient {
	return &DirectoryClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   store,
		logger:  logger,
	}
}

func (d *DirectoryClient) GetEmployee(ctx context.Context, employeeID int64) (identity.EmployeeRecord, error) {
	key := cache.KeyDirectoryEmployee(employeeID)
	var cached identity.EmployeeRecord
	if d.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/employees/internal/%d", d.baseURL, employeeID)
	record, err := d.fetchEmployee(ctx, endpoint)
	if err != nil {
		return identity.EmployeeRecord{}, err
	}

	d.cacheSet(ctx, key, record)
	return record, nil
}

func (d *DirectoryClient) GetEmployeeByEmail(ctx context.Context, email string) (identity.EmployeeRecord, error) {
	key := cache.KeyDirectoryEmail(email)
	var cached identity.EmployeeRecord
	if d.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/employees/internal/by-email/%s", d.baseURL, url.PathEscape(email))
	record, err := d.fetchEmployee(ctx, endpoint)
	if err != nil {
		return identity.EmployeeRecord{}, err
	}

	d.cacheSet(ctx, key, record)
	return record, nil
}

// ListTeamMembers fetches the directory listing and filters for direct
// reports. The directory has no by-manager endpoint yet, so filtering
// happens client-side.
func (d *DirectoryClient) ListTeamMembers(ctx context.Context, managerID int64) ([]identity.EmployeeRecord, error) {
	endpoint := fmt.Sprintf("%s/api/v1/employees/internal/list?limit=1000", d.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("directory request failed", "error", err)
		return nil, identity.ErrDirectoryUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Warn("directory returned unexpected status", "status", resp.StatusCode)
		return nil, identity.ErrDirectoryUnavailable
	}

	var all []identity.EmployeeRecord
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		return nil, identity.ErrDirectoryUnavailable
	}

	var team []identity.EmployeeRecord
	for _, emp := range all {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			team = append(team, emp)
		}
	}
	return team, nil
}

func (d *DirectoryClient) fetchEmployee(ctx context.Context, endpoint string) (identity.EmployeeRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return identity.EmployeeRecord{}, err
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("directory request failed", "error", err)
		return identity.EmployeeRecord{}, identity.ErrDirectoryUnavailable
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var record identity.EmployeeRecord
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return identity.EmployeeRecord{}, identity.ErrDirectoryUnavailable
		}
		return record, nil
	case http.StatusNotFound:
		return identity.EmployeeRecord{}, identity.ErrEmployeeNotFound
	default:
		d.logger.Warn("directory returned unexpected status", "status", resp.StatusCode)
		return identity.EmployeeRecord{}, identity.ErrDirectoryUnavailable
	}
}

func (d *DirectoryClient) cacheGet(ctx context.Context, key string, dest any) bool {
	if d.cache == nil {
		return false
	}
	hit, err := d.cache.GetJSON(ctx, key, dest)
	if err != nil {
		d.logger.Warn("cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (d *DirectoryClient) cacheSet(ctx context.Context, key string, value any) {
	if d.cache == nil {
		return
	}
	if err := d.cache.SetJSON(ctx, key, value, cache.TTLShort); err != nil {
		d.logger.Warn("cache write failed", "key", key, "error", err)
	}
}
