package event

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
)

// Kafka topics, named <domain>-<event-type>.
const (
	TopicLeaveRequested = "leave-requested"
	TopicLeaveApproved  = "leave-approved"
	TopicLeaveRejected  = "leave-rejected"
	TopicLeaveCancelled = "leave-cancelled"
)

// Event types carried in the envelope and message headers.
const (
	TypeLeaveRequested = "leave.requested"
	TypeLeaveApproved  = "leave.approved"
	TypeLeaveRejected  = "leave.rejected"
	TypeLeaveCancelled = "leave.cancelled"
)

const sourceService = "leave-management-service"

// Publisher writes serialized envelopes to a topic. The key is the
// aggregate identifier so per-leave ordering is preserved.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload []byte, eventType string) error
}

// Metadata travels with every event for tracing and audit.
type Metadata struct {
	SourceService string `json:"source_service"`
	CorrelationID string `json:"correlation_id"`
	ActorUserID   string `json:"actor_user_id,omitempty"`
	ActorRole     string `json:"actor_role,omitempty"`
}

// Envelope is the standard wrapper for all events this service emits.
type Envelope struct {
	EventID   string   `json:"event_id"`
	EventType string   `json:"event_type"`
	Timestamp string   `json:"timestamp"`
	Version   string   `json:"version"`
	Data      any      `json:"data"`
	Metadata  Metadata `json:"metadata"`
}

// NewEnvelope wraps event data with identity and tracing metadata. A fresh
// correlation id is minted when the caller has none to propagate.
func NewEnvelope(eventType string, data any, actorUserID, actorRole, correlationID string) Envelope {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	return Envelope{
		EventID:   uuid.NewString(),
		EventType: eventType,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0",
		Data:      data,
		Metadata: Metadata{
			SourceService: sourceService,
			CorrelationID: correlationID,
			ActorUserID:   actorUserID,
			ActorRole:     actorRole,
		},
	}
}

// LeaveRequested is the payload for leave.requested.
type LeaveRequested struct {
	LeaveID    int64   `json:"leave_id"`
	EmployeeID int64   `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	ReturnDate string  `json:"return_date"`
	TotalDays  int     `json:"total_days"`
	Reason     *string `json:"reason,omitempty"`
}

// LeaveApproved is the payload for leave.approved.
type LeaveApproved struct {
	LeaveID      int64   `json:"leave_id"`
	EmployeeID   int64   `json:"employee_id"`
	LeaveType    string  `json:"leave_type"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	ReturnDate   string  `json:"return_date"`
	TotalDays    int     `json:"total_days"`
	ApprovedBy   int64   `json:"approved_by"`
	ApprovalDate string  `json:"approval_date"`
	Comments     *string `json:"approval_notes,omitempty"`
}

// LeaveRejected is the payload for leave.rejected.
type LeaveRejected struct {
	LeaveID         int64  `json:"leave_id"`
	EmployeeID      int64  `json:"employee_id"`
	LeaveType       string `json:"leave_type"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalDays       int    `json:"total_days"`
	RejectedBy      int64  `json:"rejected_by"`
	RejectionReason string `json:"rejection_reason"`
	RejectionDate   string `json:"rejection_date"`
}

// LeaveCancelled is the payload for leave.cancelled.
type LeaveCancelled struct {
	LeaveID          int64  `json:"leave_id"`
	EmployeeID       int64  `json:"employee_id"`
	LeaveType        string `json:"leave_type"`
	StartDate        string `json:"start_date"`
	EndDate          string `json:"end_date"`
	TotalDays        int    `json:"total_days"`
	CancelledBy      int64  `json:"cancelled_by"`
	CancellationDate string `json:"cancellation_date"`
}

const dateLayout = "2006-01-02"

func NewLeaveRequested(l leave.Leave) LeaveRequested {
	return LeaveRequested{
		LeaveID:    l.ID,
		EmployeeID: l.EmployeeID,
		LeaveType:  string(l.LeaveType),
		StartDate:  l.StartDate.Format(dateLayout),
		EndDate:    l.EndDate.Format(dateLayout),
		ReturnDate: l.ReturnDate().Format(dateLayout),
		TotalDays:  l.DaysCount(),
		Reason:     l.Reason,
	}
}

func NewLeaveApproved(l leave.Leave, approvedBy int64, comments *string) LeaveApproved {
	return LeaveApproved{
		LeaveID:      l.ID,
		EmployeeID:   l.EmployeeID,
		LeaveType:    string(l.LeaveType),
		StartDate:    l.StartDate.Format(dateLayout),
		EndDate:      l.EndDate.Format(dateLayout),
		ReturnDate:   l.ReturnDate().Format(dateLayout),
		TotalDays:    l.DaysCount(),
		ApprovedBy:   approvedBy,
		ApprovalDate: time.Now().UTC().Format(time.RFC3339),
		Comments:     comments,
	}
}

func NewLeaveRejected(l leave.Leave, rejectedBy int64, reason string) LeaveRejected {
	return LeaveRejected{
		LeaveID:         l.ID,
		EmployeeID:      l.EmployeeID,
		LeaveType:       string(l.LeaveType),
		StartDate:       l.StartDate.Format(dateLayout),
		EndDate:         l.EndDate.Format(dateLayout),
		TotalDays:       l.DaysCount(),
		RejectedBy:      rejectedBy,
		RejectionReason: reason,
		RejectionDate:   time.Now().UTC().Format(time.RFC3339),
	}
}

func NewLeaveCancelled(l leave.Leave, cancelledBy int64) LeaveCancelled {
	return LeaveCancelled{
		LeaveID:          l.ID,
		EmployeeID:       l.EmployeeID,
		LeaveType:        string(l.LeaveType),
		StartDate:        l.StartDate.Format(dateLayout),
		EndDate:          l.EndDate.Format(dateLayout),
		TotalDays:        l.DaysCount(),
		CancelledBy:      cancelledBy,
		CancellationDate: time.Now().UTC().Format(time.RFC3339),
	}
}
