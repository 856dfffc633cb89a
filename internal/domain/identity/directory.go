package identity

import "context"

// Directory abstracts the employee directory service. Implementations must
// return ErrEmployeeNotFound when the employee does not exist and
// ErrDirectoryUnavailable when the directory cannot be reached.
type Directory interface {
	GetEmployee(ctx context.Context, employeeID int64) (EmployeeRecord, error)
	GetEmployeeByEmail(ctx context.Context, email string) (EmployeeRecord, error)
	// ListTeamMembers returns the direct reports of the given manager.
	ListTeamMembers(ctx context.Context, managerID int64) ([]EmployeeRecord, error)
}
