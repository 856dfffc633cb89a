package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/pkg/validator"
	"github.com/hrms-platform/leave-service-go/internal/service/authz"
	identitysvc "github.com/hrms-platform/leave-service-go/internal/service/identity"
)

// Self-service listings cap lower than administrative ones.
const (
	maxPageLimit     = 200
	maxSelfPageLimit = 100
)

type LeaveServiceImpl struct {
	repo        leave.Repository
	authorizer  *authz.Authorizer
	resolver    *identitysvc.Resolver
	directory   identity.Directory
	enricher    *Enricher
	coordinator *Coordinator
	logger      *slog.Logger
}

func NewLeaveService(
	repo leave.Repository,
	authorizer *authz.Authorizer,
	resolver *identitysvc.Resolver,
	directory identity.Directory,
	enricher *Enricher,
	coordinator *Coordinator,
	logger *slog.Logger,
) leave.Service {
	return &LeaveServiceImpl{
		repo:        repo,
		authorizer:  authorizer,
		resolver:    resolver,
		directory:   directory,
		enricher:    enricher,
		coordinator: coordinator,
		logger:      logger,
	}
}

// CreateSelf implements leave.Service.
func (s *LeaveServiceImpl) CreateSelf(ctx context.Context, actor identity.Principal, req leave.CreateSelfLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	record, err := s.resolver.ResolveEmployee(ctx, &actor)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := s.create(ctx, record.ID, req.LeaveType, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.logger.Info("leave request created",
		"leave_id", created.ID,
		"employee_id", created.EmployeeID,
		"leave_type", string(created.LeaveType),
	)
	s.coordinator.LeaveRequested(ctx, actor, created)

	resp := leave.NewLeaveResponse(created)
	resp.EmployeeName = &record.FullName
	return resp, nil
}

// CreateForEmployee implements leave.Service. HR records leave on behalf of
// an employee; backdated periods are accepted here.
func (s *LeaveServiceImpl) CreateForEmployee(ctx context.Context, actor identity.Principal, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := s.authorizer.RequireHR(actor, "create_for_employee"); err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	// The employee must exist before a request is recorded against them.
	record, err := s.directory.GetEmployee(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	created, err := s.create(ctx, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.logger.Info("leave request created on behalf of employee",
		"leave_id", created.ID,
		"employee_id", created.EmployeeID,
		"actor", actor.Subject,
	)
	s.coordinator.LeaveRequested(ctx, actor, created)

	resp := leave.NewLeaveResponse(created)
	resp.EmployeeName = &record.FullName
	return resp, nil
}

func (s *LeaveServiceImpl) create(ctx context.Context, employeeID int64, leaveType, startDate, endDate string, reason *string) (leave.Leave, error) {
	parsedType, _ := leave.ParseType(leaveType)
	start, _ := validator.IsValidDate(startDate)
	end, _ := validator.IsValidDate(endDate)

	created, err := s.repo.Create(ctx, leave.Leave{
		EmployeeID: employeeID,
		LeaveType:  parsedType,
		StartDate:  start,
		EndDate:    end,
		Reason:     reason,
		Status:     leave.StatusPending,
	})
	if err != nil {
		return leave.Leave{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// ListMine implements leave.Service.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, actor identity.Principal, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}
	record, err := s.resolver.ResolveEmployee(ctx, &actor)
	if err != nil {
		return nil, 0, err
	}

	filter.Normalize(maxSelfPageLimit)
	return s.list(ctx, filter, leave.Filter{EmployeeID: record.ID})
}

// CancelOwn implements leave.Service.
func (s *LeaveServiceImpl) CancelOwn(ctx context.Context, actor identity.Principal, id int64) (leave.LeaveResponse, error) {
	if _, err := s.resolver.ResolveEmployee(ctx, &actor); err != nil {
		return leave.LeaveResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := s.authorizer.CanCancelSelf(actor, existing); err != nil {
		return leave.LeaveResponse{}, err
	}

	cancelled, err := s.repo.CancelIfActive(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.logger.Info("leave request cancelled", "leave_id", id, "employee_id", cancelled.EmployeeID)
	s.coordinator.LeaveCancelled(ctx, actor, cancelled)

	resp := leave.NewLeaveResponse(cancelled)
	s.enricher.Enrich(ctx, &resp)
	return resp, nil
}

// CancelByHR implements leave.Service.
func (s *LeaveServiceImpl) CancelByHR(ctx context.Context, actor identity.Principal, id int64) (leave.LeaveResponse, error) {
	if err := s.authorizer.RequireHR(actor, "cancel_any"); err != nil {
		return leave.LeaveResponse{}, err
	}

	cancelled, err := s.repo.CancelIfActive(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.logger.Info("leave request cancelled by hr", "leave_id", id, "actor", actor.Subject)
	s.coordinator.LeaveCancelled(ctx, actor, cancelled)

	resp := leave.NewLeaveResponse(cancelled)
	s.enricher.Enrich(ctx, &resp)
	return resp, nil
}

// ListPending implements leave.Service. HR sees all pending requests;
// a team manager sees only their direct reports' pending requests.
func (s *LeaveServiceImpl) ListPending(ctx context.Context, actor identity.Principal, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
	if err := s.authorizer.RequireManager(actor, "list_pending"); err != nil {
		return nil, 0, err
	}

	repoFilter := leave.Filter{Status: leave.StatusPending}

	if !actor.Roles.IsHR() {
		record, err := s.resolver.ResolveEmployee(ctx, &actor)
		if err != nil {
			return nil, 0, err
		}
		team, err := s.directory.ListTeamMembers(ctx, record.ID)
		if err != nil {
			return nil, 0, err
		}
		if len(team) == 0 {
			return []leave.LeaveResponse{}, 0, nil
		}
		ids := make([]int64, 0, len(team))
		for _, member := range team {
			ids = append(ids, member.ID)
		}
		repoFilter.EmployeeIDs = ids
	}

	return s.list(ctx, filter, repoFilter)
}

// Approve implements leave.Service.
func (s *LeaveServiceImpl) Approve(ctx context.Context, actor identity.Principal, id int64, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := s.resolver.ResolveEmployee(ctx, &actor); err != nil {
		return leave.LeaveResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := s.authorizer.CanDecide(ctx, actor, existing); err != nil {
		return leave.LeaveResponse{}, err
	}

	approvedBy := actor.EmployeeID
	approved, err := s.repo.UpdateStatusIfPending(ctx, id, leave.StatusApproved, &approvedBy, nil)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.logger.Info("leave request approved",
		"leave_id", id,
		"employee_id", approved.EmployeeID,
		"approved_by", approvedBy,
	)
	s.coordinator.LeaveApproved(ctx, actor, approved, req.Comments)

	resp := leave.NewLeaveResponse(approved)
	s.enricher.Enrich(ctx, &resp)
	return resp, nil
}

// Reject implements leave.Service.
func (s *LeaveServiceImpl) Reject(ctx context.Context, actor identity.Principal, id int64, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	if _, err := s.resolver.ResolveEmployee(ctx, &actor); err != nil {
		return leave.LeaveResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if err := s.authorizer.CanDecide(ctx, actor, existing); err != nil {
		return leave.LeaveResponse{}, err
	}

	rejectedBy := actor.EmployeeID
	rejected, err := s.repo.UpdateStatusIfPending(ctx, id, leave.StatusRejected, &rejectedBy, &req.RejectionReason)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.logger.Info("leave request rejected",
		"leave_id", id,
		"employee_id", rejected.EmployeeID,
		"rejected_by", rejectedBy,
	)
	s.coordinator.LeaveRejected(ctx, actor, rejected)

	resp := leave.NewLeaveResponse(rejected)
	s.enricher.Enrich(ctx, &resp)
	return resp, nil
}

// Get implements leave.Service.
func (s *LeaveServiceImpl) Get(ctx context.Context, actor identity.Principal, id int64) (leave.LeaveResponse, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	if !actor.Roles.IsHR() {
		if _, err := s.resolver.ResolveEmployee(ctx, &actor); err != nil {
			// Managers may still pass the degraded view check below;
			// anyone else cannot establish ownership.
			if !actor.Roles.IsManager() {
				return leave.LeaveResponse{}, err
			}
		}
	}
	if err := s.authorizer.CanView(ctx, actor, existing); err != nil {
		return leave.LeaveResponse{}, err
	}

	resp := leave.NewLeaveResponse(existing)
	s.enricher.Enrich(ctx, &resp)
	return resp, nil
}

// List implements leave.Service. Results are scoped by role: HR sees all
// requests, a manager sees their team's and their own, and an employee
// sees only their own.
func (s *LeaveServiceImpl) List(ctx context.Context, actor identity.Principal, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	if actor.Roles.IsHR() {
		return s.list(ctx, filter, leave.Filter{})
	}

	record, err := s.resolver.ResolveEmployee(ctx, &actor)
	if err != nil {
		return nil, 0, err
	}

	if !actor.Roles.IsManager() {
		return s.list(ctx, filter, leave.Filter{EmployeeID: record.ID})
	}

	team, err := s.directory.ListTeamMembers(ctx, record.ID)
	if err != nil {
		return nil, 0, err
	}
	ids := make([]int64, 0, len(team)+1)
	for _, member := range team {
		ids = append(ids, member.ID)
	}
	ids = append(ids, record.ID)

	return s.list(ctx, filter, leave.Filter{EmployeeIDs: ids})
}

// ListAll implements leave.Service.
func (s *LeaveServiceImpl) ListAll(ctx context.Context, actor identity.Principal, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
	if err := s.authorizer.RequireHR(actor, "list_all"); err != nil {
		return nil, 0, err
	}
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	return s.list(ctx, filter, leave.Filter{})
}

// ListByEmployee implements leave.Service.
func (s *LeaveServiceImpl) ListByEmployee(ctx context.Context, actor identity.Principal, employeeID int64, filter leave.ListLeaveFilter) ([]leave.LeaveResponse, int64, error) {
	if err := filter.Validate(); err != nil {
		return nil, 0, err
	}

	if !actor.Roles.IsHR() {
		if _, err := s.resolver.ResolveEmployee(ctx, &actor); err != nil {
			if !actor.Roles.IsManager() {
				return nil, 0, err
			}
		}
	}
	if err := s.authorizer.CanViewEmployee(ctx, actor, employeeID); err != nil {
		return nil, 0, err
	}

	// The target must exist; an unknown employee id is a 404, not an empty
	// list. A directory outage degrades to the listing, same as the view
	// checks above.
	if _, err := s.directory.GetEmployee(ctx, employeeID); err != nil {
		if !errors.Is(err, identity.ErrDirectoryUnavailable) {
			return nil, 0, err
		}
		s.logger.Warn("employee existence check skipped, directory unavailable", "employee_id", employeeID)
	}

	return s.list(ctx, filter, leave.Filter{EmployeeID: employeeID})
}

// UpdateStatus implements leave.Service. This is the legacy transition
// endpoint; it enforces the same state machine and authorization rules as
// the dedicated approve/reject/cancel routes.
func (s *LeaveServiceImpl) UpdateStatus(ctx context.Context, actor identity.Principal, id int64, req leave.UpdateLeaveStatusRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	target, _ := leave.ParseStatus(req.Status)

	if _, err := s.resolver.ResolveEmployee(ctx, &actor); err != nil && !actor.Roles.IsHR() {
		return leave.LeaveResponse{}, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return leave.LeaveResponse{}, err
	}
	if !existing.Status.CanTransitionTo(target) {
		if existing.Status.IsTerminal() || existing.Status == leave.StatusApproved {
			return leave.LeaveResponse{}, leave.ErrAlreadyProcessed
		}
		return leave.LeaveResponse{}, leave.ErrInvalidTransition
	}

	var updated leave.Leave
	switch target {
	case leave.StatusApproved:
		if err := s.authorizer.CanDecide(ctx, actor, existing); err != nil {
			return leave.LeaveResponse{}, err
		}
		approvedBy := actor.EmployeeID
		if req.ApprovedBy != nil {
			approvedBy = *req.ApprovedBy
		}
		updated, err = s.repo.UpdateStatusIfPending(ctx, id, leave.StatusApproved, &approvedBy, nil)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		s.coordinator.LeaveApproved(ctx, actor, updated, nil)

	case leave.StatusRejected:
		if err := s.authorizer.CanDecide(ctx, actor, existing); err != nil {
			return leave.LeaveResponse{}, err
		}
		// HR callers without a directory record have no employee id to
		// attribute the rejection to; leave the column NULL.
		var rejectedBy *int64
		if actor.EmployeeID != 0 {
			rejectedBy = &actor.EmployeeID
		}
		updated, err = s.repo.UpdateStatusIfPending(ctx, id, leave.StatusRejected, rejectedBy, req.RejectionReason)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		s.coordinator.LeaveRejected(ctx, actor, updated)

	case leave.StatusCancelled:
		if !actor.Roles.IsHR() {
			if err := s.authorizer.CanCancelSelf(actor, existing); err != nil {
				return leave.LeaveResponse{}, err
			}
		}
		updated, err = s.repo.CancelIfActive(ctx, id)
		if err != nil {
			return leave.LeaveResponse{}, err
		}
		s.coordinator.LeaveCancelled(ctx, actor, updated)

	default:
		return leave.LeaveResponse{}, leave.ErrInvalidTransition
	}

	s.logger.Info("leave status updated",
		"leave_id", id,
		"status", string(target),
		"actor", actor.Subject,
	)

	resp := leave.NewLeaveResponse(updated)
	s.enricher.Enrich(ctx, &resp)
	return resp, nil
}

func (s *LeaveServiceImpl) list(ctx context.Context, filter leave.ListLeaveFilter, repoFilter leave.Filter) ([]leave.LeaveResponse, int64, error) {
	filter.Normalize(maxPageLimit)

	if filter.Status != "" {
		repoFilter.Status, _ = leave.ParseStatus(filter.Status)
	}
	if filter.LeaveType != "" {
		repoFilter.LeaveType, _ = leave.ParseType(filter.LeaveType)
	}
	repoFilter.Limit = filter.Limit
	repoFilter.Offset = (filter.Page - 1) * filter.Limit

	leaves, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resps := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		resps = append(resps, leave.NewLeaveResponse(l))
	}
	s.enricher.EnrichAll(ctx, resps)
	return resps, total, nil
}
