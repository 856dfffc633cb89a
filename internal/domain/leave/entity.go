package leave

import (
	"time"
)

// Status is the lifecycle state of a leave request.
//
// Valid transitions:
//
//	pending  -> approved, rejected, cancelled
//	approved -> cancelled
//
// Rejected and cancelled are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

func ValidStatuses() []string {
	return []string{
		string(StatusPending),
		string(StatusApproved),
		string(StatusRejected),
		string(StatusCancelled),
	}
}

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

func (s Status) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}

func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusPending:
		return target == StatusApproved || target == StatusRejected || target == StatusCancelled
	case StatusApproved:
		return target == StatusCancelled
	default:
		return false
	}
}

// Type is the category of leave being requested.
type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeCasual    Type = "casual"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
	TypeOther     Type = "other"
)

func ValidTypes() []string {
	return []string{
		string(TypeAnnual),
		string(TypeSick),
		string(TypeCasual),
		string(TypeUnpaid),
		string(TypeMaternity),
		string(TypePaternity),
		string(TypeOther),
	}
}

func ParseType(s string) (Type, bool) {
	switch Type(s) {
	case TypeAnnual, TypeSick, TypeCasual, TypeUnpaid, TypeMaternity, TypePaternity, TypeOther:
		return Type(s), true
	}
	return "", false
}

// Leave entity
type Leave struct {
	ID              int64
	EmployeeID      int64
	LeaveType       Type
	StartDate       time.Time
	EndDate         time.Time
	Reason          *string
	Status          Status
	ApprovedBy      *int64
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DaysCount returns the inclusive number of calendar days the leave spans.
func (l Leave) DaysCount() int {
	return DaysBetween(l.StartDate, l.EndDate)
}

// Covers reports whether the given date falls inside the leave period.
func (l Leave) Covers(date time.Time) bool {
	day := date.Truncate(24 * time.Hour)
	return !day.Before(l.StartDate.Truncate(24*time.Hour)) && !day.After(l.EndDate.Truncate(24*time.Hour))
}

// DaysBetween counts calendar days between two dates, inclusive of both
// endpoints. Returns 0 when end precedes start.
func DaysBetween(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// ReturnDate is the first working day after the leave ends.
func (l Leave) ReturnDate() time.Time {
	return l.EndDate.AddDate(0, 0, 1)
}
