package response

import (
	"errors"
	"net/http"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/pkg/token"
	"github.com/hrms-platform/leave-service-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, token.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, identity.ErrSelfApproval):
		Forbidden(w, "You cannot approve or reject your own leave request")
	case errors.Is(err, identity.ErrPermissionDenied):
		Forbidden(w, "You do not have permission to perform this action")
	case errors.Is(err, identity.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, identity.ErrDirectoryUnavailable):
		ServiceUnavailable(w, "Employee directory is unavailable")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrNotCancellable):
		Conflict(w, "Only pending or approved leave requests can be cancelled")
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Invalid leave status transition")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
