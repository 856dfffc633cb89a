package leave

import (
	"context"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
)

type Service interface {
	// Self-service
	CreateSelf(ctx context.Context, actor identity.Principal, req CreateSelfLeaveRequest) (LeaveResponse, error)
	ListMine(ctx context.Context, actor identity.Principal, filter ListLeaveFilter) ([]LeaveResponse, int64, error)
	CancelOwn(ctx context.Context, actor identity.Principal, id int64) (LeaveResponse, error)

	// Approval workflow
	ListPending(ctx context.Context, actor identity.Principal, filter ListLeaveFilter) ([]LeaveResponse, int64, error)
	Approve(ctx context.Context, actor identity.Principal, id int64, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actor identity.Principal, id int64, req RejectLeaveRequest) (LeaveResponse, error)

	// Administration
	CreateForEmployee(ctx context.Context, actor identity.Principal, req CreateLeaveRequest) (LeaveResponse, error)
	ListAll(ctx context.Context, actor identity.Principal, filter ListLeaveFilter) ([]LeaveResponse, int64, error)
	CancelByHR(ctx context.Context, actor identity.Principal, id int64) (LeaveResponse, error)

	// General access, role-scoped
	Get(ctx context.Context, actor identity.Principal, id int64) (LeaveResponse, error)
	List(ctx context.Context, actor identity.Principal, filter ListLeaveFilter) ([]LeaveResponse, int64, error)
	ListByEmployee(ctx context.Context, actor identity.Principal, employeeID int64, filter ListLeaveFilter) ([]LeaveResponse, int64, error)

	// Legacy status update kept for older API consumers
	UpdateStatus(ctx context.Context, actor identity.Principal, id int64, req UpdateLeaveStatusRequest) (LeaveResponse, error)
}

type DashboardService interface {
	Summary(ctx context.Context, actor identity.Principal) (Summary, error)
	OnLeaveToday(ctx context.Context, actor identity.Principal) (OnLeaveToday, error)
}
