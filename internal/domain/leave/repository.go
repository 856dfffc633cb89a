package leave

import (
	"context"
	"time"
)

// Filter narrows List queries. Zero values mean "no constraint".
// EmployeeIDs restricts results to a set of employees, used for
// team-scoped listings.
type Filter struct {
	EmployeeID  int64
	EmployeeIDs []int64
	Status      Status
	LeaveType   Type
	Offset      int
	Limit       int
}

// Repository - interface for the leave_requests table.
type Repository interface {
	Create(ctx context.Context, l Leave) (Leave, error)
	GetByID(ctx context.Context, id int64) (Leave, error)
	List(ctx context.Context, filter Filter) ([]Leave, int64, error)

	// UpdateStatusIfPending applies a status transition only while the
	// request is still pending. When another actor already processed the
	// request it returns ErrAlreadyProcessed, or ErrLeaveRequestNotFound
	// if the id never existed. This is the guard that makes concurrent
	// approve/reject races resolve to exactly one winner.
	UpdateStatusIfPending(ctx context.Context, id int64, status Status, approvedBy *int64, rejectionReason *string) (Leave, error)

	// CancelIfActive cancels a request that is pending or approved.
	// Terminal requests yield ErrNotCancellable.
	CancelIfActive(ctx context.Context, id int64) (Leave, error)

	CountByStatus(ctx context.Context) (Summary, error)
	CountOnLeave(ctx context.Context, date time.Time) (int64, error)
}
