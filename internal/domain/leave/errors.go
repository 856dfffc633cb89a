package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("Leave request not found")
	// ErrAlreadyProcessed signals a state transition attempted on a request
	// that is no longer pending. Concurrent approve/reject races surface as
	// this error for the loser.
	ErrAlreadyProcessed  = errors.New("Leave request has already been processed")
	ErrNotCancellable    = errors.New("Only pending or approved leave requests can be cancelled")
	ErrInvalidTransition = errors.New("Invalid leave status transition")
)
