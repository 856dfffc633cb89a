package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/hrms-platform/leave-service-go/internal/pkg/validator"
)

const maxReasonLength = 500

// CreateSelfLeaveRequest is the payload for self-service leave creation.
// The employee is taken from the authenticated caller.
type CreateSelfLeaveRequest struct {
	LeaveType string  `json:"leave_type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Reason    *string `json:"reason,omitempty"`
}

func (r *CreateSelfLeaveRequest) Validate() error {
	errs := validateLeaveWindow(r.LeaveType, r.StartDate, r.EndDate, r.Reason, false)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CreateLeaveRequest is the payload for HR creating a leave request on
// behalf of an employee. Backdated requests are allowed here so HR can
// record leave taken before it was entered.
type CreateLeaveRequest struct {
	EmployeeID int64   `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequest) Validate() error {
	errs := validateLeaveWindow(r.LeaveType, r.StartDate, r.EndDate, r.Reason, true)

	// Employee ID
	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateLeaveWindow(leaveType, startDate, endDate string, reason *string, allowPast bool) validator.ValidationErrors {
	var errs validator.ValidationErrors

	// Leave type
	if validator.IsEmpty(leaveType) {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type is required",
		})
	} else if _, ok := ParseType(leaveType); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: fmt.Sprintf("leave_type must be one of: %s", strings.Join(ValidTypes(), ", ")),
		})
	}

	// Dates
	start, startOK := validator.IsValidDate(startDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be a valid date in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(endDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be a valid date in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && !end.After(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be after start_date",
		})
	}
	if startOK && !allowPast {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if start.Before(today) {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must not be in the past",
			})
		}
	}

	// Reason
	if reason != nil && len(*reason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: fmt.Sprintf("reason must not exceed %d characters", maxReasonLength),
		})
	}

	return errs
}

// ApproveLeaveRequest carries optional approver comments.
type ApproveLeaveRequest struct {
	Comments *string `json:"comments,omitempty"`
}

func (r *ApproveLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Comments != nil && len(*r.Comments) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "comments",
			Message: fmt.Sprintf("comments must not exceed %d characters", maxReasonLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// RejectLeaveRequest requires a rejection reason so the employee always
// learns why the request was declined.
type RejectLeaveRequest struct {
	RejectionReason string `json:"rejection_reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RejectionReason) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason is required",
		})
	}
	if len(r.RejectionReason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: fmt.Sprintf("rejection_reason must not exceed %d characters", maxReasonLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateLeaveStatusRequest is the legacy status update payload kept for
// older API consumers. Newer clients use the approve/reject/cancel routes.
type UpdateLeaveStatusRequest struct {
	Status          string  `json:"status"`
	RejectionReason *string `json:"rejection_reason,omitempty"`
	ApprovedBy      *int64  `json:"approved_by,omitempty"`
}

func (r *UpdateLeaveStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	status, ok := ParseStatus(r.Status)
	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	} else if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("status must be one of: %s", strings.Join(ValidStatuses(), ", ")),
		})
	}

	if status == StatusApproved && r.ApprovedBy == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "approved_by",
			Message: "approved_by is required when approving a leave request",
		})
	}
	if status == StatusRejected && (r.RejectionReason == nil || validator.IsEmpty(*r.RejectionReason)) {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: "rejection_reason is required when rejecting a leave request",
		})
	}
	if r.RejectionReason != nil && len(*r.RejectionReason) > maxReasonLength {
		errs = append(errs, validator.ValidationError{
			Field:   "rejection_reason",
			Message: fmt.Sprintf("rejection_reason must not exceed %d characters", maxReasonLength),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListLeaveFilter is the query filter for list endpoints.
type ListLeaveFilter struct {
	Status    string
	LeaveType string
	Page      int
	Limit     int
}

func (f *ListLeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" {
		if _, ok := ParseStatus(f.Status); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: fmt.Sprintf("status must be one of: %s", strings.Join(ValidStatuses(), ", ")),
			})
		}
	}
	if f.LeaveType != "" {
		if _, ok := ParseType(f.LeaveType); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "leave_type",
				Message: fmt.Sprintf("leave_type must be one of: %s", strings.Join(ValidTypes(), ", ")),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Normalize clamps paging parameters to sane bounds.
func (f *ListLeaveFilter) Normalize(maxLimit int) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 50
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
}

// LeaveResponse is the API representation of a leave request. The
// enrichment fields are nil when the directory could not supply names;
// core data is always present.
type LeaveResponse struct {
	ID              int64   `json:"id"`
	EmployeeID      int64   `json:"employee_id"`
	LeaveType       string  `json:"leave_type"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	Reason          *string `json:"reason"`
	Status          string  `json:"status"`
	ApprovedBy      *int64  `json:"approved_by"`
	RejectionReason *string `json:"rejection_reason"`
	DaysCount       int     `json:"days_count"`
	EmployeeName    *string `json:"employee_name"`
	ApproverName    *string `json:"approver_name"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

func NewLeaveResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:              l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate.Format("2006-01-02"),
		EndDate:         l.EndDate.Format("2006-01-02"),
		Reason:          l.Reason,
		Status:          string(l.Status),
		ApprovedBy:      l.ApprovedBy,
		RejectionReason: l.RejectionReason,
		DaysCount:       l.DaysCount(),
		CreatedAt:       l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.Format(time.RFC3339),
	}
}

// Summary aggregates leave request counts for the dashboard.
type Summary struct {
	TotalLeaves     int64 `json:"total_leaves"`
	PendingLeaves   int64 `json:"pending_leaves"`
	ApprovedLeaves  int64 `json:"approved_leaves"`
	RejectedLeaves  int64 `json:"rejected_leaves"`
	CancelledLeaves int64 `json:"cancelled_leaves"`
}

// OnLeaveToday reports how many employees have approved leave covering
// the current date.
type OnLeaveToday struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}
