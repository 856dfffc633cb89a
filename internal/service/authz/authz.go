package authz

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
)

// Authorizer makes access decisions for leave resources. Every decision is
// audit-logged with the actor, action, resource and outcome.
type Authorizer struct {
	directory identity.Directory
	logger    *slog.Logger
}

func New(directory identity.Directory, logger *slog.Logger) *Authorizer {
	return &Authorizer{directory: directory, logger: logger}
}

// RequireHR gates HR-only operations.
func (a *Authorizer) RequireHR(actor identity.Principal, action string) error {
	allowed := actor.Roles.IsHR()
	a.audit(actor, action, 0, allowed, "hr role required")
	if !allowed {
		return identity.ErrPermissionDenied
	}
	return nil
}

// RequireManager gates operations available to managers and HR.
func (a *Authorizer) RequireManager(actor identity.Principal, action string) error {
	allowed := actor.Roles.IsManager()
	a.audit(actor, action, 0, allowed, "manager role required")
	if !allowed {
		return identity.ErrPermissionDenied
	}
	return nil
}

// CanView decides read access to a leave request. HR sees everything, the
// owner sees their own, and a manager sees their direct reports' requests.
// When the directory is down the team check cannot run; viewing degrades to
// any-manager access with a warning rather than blocking reads.
func (a *Authorizer) CanView(ctx context.Context, actor identity.Principal, l leave.Leave) error {
	if actor.Roles.IsHR() {
		a.audit(actor, "view", l.ID, true, "hr role")
		return nil
	}
	if actor.EmployeeID != 0 && actor.EmployeeID == l.EmployeeID {
		a.audit(actor, "view", l.ID, true, "owner")
		return nil
	}
	if actor.Roles.IsManager() {
		manages, err := a.managerOf(ctx, actor, l.EmployeeID)
		if err != nil {
			if errors.Is(err, identity.ErrDirectoryUnavailable) {
				a.logger.Warn("team check unavailable, degrading to role-only view access",
					"actor", actor.Subject,
					"leave_id", l.ID,
				)
				a.audit(actor, "view", l.ID, true, "manager role, team check degraded")
				return nil
			}
			a.audit(actor, "view", l.ID, false, "team check failed")
			return identity.ErrPermissionDenied
		}
		if manages {
			a.audit(actor, "view", l.ID, true, "team manager")
			return nil
		}
	}
	a.audit(actor, "view", l.ID, false, "not owner, manager of owner, or hr")
	return identity.ErrPermissionDenied
}

// CanDecide decides approve/reject access. The self-approval check runs
// before any role shortcut. Unlike viewing, decisions never degrade: a
// plain manager must be verified as the owner's manager, and a directory
// outage denies the decision.
func (a *Authorizer) CanDecide(ctx context.Context, actor identity.Principal, l leave.Leave) error {
	if actor.EmployeeID != 0 && actor.EmployeeID == l.EmployeeID {
		a.audit(actor, "decide", l.ID, false, "self approval")
		return identity.ErrSelfApproval
	}
	if actor.Roles.IsHR() {
		a.audit(actor, "decide", l.ID, true, "hr role")
		return nil
	}
	if !actor.Roles.IsManager() {
		a.audit(actor, "decide", l.ID, false, "manager role required")
		return identity.ErrPermissionDenied
	}

	manages, err := a.managerOf(ctx, actor, l.EmployeeID)
	if err != nil {
		a.audit(actor, "decide", l.ID, false, "team check unavailable")
		if errors.Is(err, identity.ErrDirectoryUnavailable) {
			return identity.ErrDirectoryUnavailable
		}
		return identity.ErrPermissionDenied
	}
	if !manages {
		a.audit(actor, "decide", l.ID, false, "not the owner's manager")
		return identity.ErrPermissionDenied
	}

	a.audit(actor, "decide", l.ID, true, "team manager")
	return nil
}

// CanViewEmployee decides read access to another employee's leave history,
// following the same rules as CanView.
func (a *Authorizer) CanViewEmployee(ctx context.Context, actor identity.Principal, employeeID int64) error {
	if actor.Roles.IsHR() {
		a.audit(actor, "view_employee", employeeID, true, "hr role")
		return nil
	}
	if actor.EmployeeID != 0 && actor.EmployeeID == employeeID {
		a.audit(actor, "view_employee", employeeID, true, "owner")
		return nil
	}
	if actor.Roles.IsManager() {
		manages, err := a.managerOf(ctx, actor, employeeID)
		if err != nil {
			if errors.Is(err, identity.ErrDirectoryUnavailable) {
				a.logger.Warn("team check unavailable, degrading to role-only view access",
					"actor", actor.Subject,
					"employee_id", employeeID,
				)
				a.audit(actor, "view_employee", employeeID, true, "manager role, team check degraded")
				return nil
			}
			a.audit(actor, "view_employee", employeeID, false, "team check failed")
			return identity.ErrPermissionDenied
		}
		if manages {
			a.audit(actor, "view_employee", employeeID, true, "team manager")
			return nil
		}
	}
	a.audit(actor, "view_employee", employeeID, false, "not owner, manager of owner, or hr")
	return identity.ErrPermissionDenied
}

// CanCancelSelf decides whether the actor may cancel the given request as
// its owner.
func (a *Authorizer) CanCancelSelf(actor identity.Principal, l leave.Leave) error {
	allowed := actor.EmployeeID != 0 && actor.EmployeeID == l.EmployeeID
	a.audit(actor, "cancel", l.ID, allowed, "owner check")
	if !allowed {
		return identity.ErrPermissionDenied
	}
	return nil
}

func (a *Authorizer) managerOf(ctx context.Context, actor identity.Principal, employeeID int64) (bool, error) {
	owner, err := a.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		return false, err
	}
	return owner.ManagerID != nil && *owner.ManagerID == actor.EmployeeID, nil
}

func (a *Authorizer) audit(actor identity.Principal, action string, leaveID int64, allowed bool, reason string) {
	a.logger.Info("authorization check",
		"actor", actor.Subject,
		"actor_role", string(actor.Roles.Primary()),
		"action", action,
		"resource", "leave",
		"resource_id", leaveID,
		"allowed", allowed,
		"reason", reason,
	)
}
