package identity

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("Employee not found in directory")
	ErrDirectoryUnavailable = errors.New("Employee directory is unavailable")

	ErrPermissionDenied = errors.New("You do not have permission to perform this action")
	// ErrSelfApproval is checked before any role shortcut: nobody decides
	// their own leave request, HR included.
	ErrSelfApproval = errors.New("You cannot approve or reject your own leave request")
)
