package leave

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/hrms-platform/leave-service-go/internal/domain/event"
	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/pkg/cache"
)

// Coordinator runs the side effects of a completed state transition:
// publishing the domain event and invalidating affected cache views.
// Side effects are strictly best-effort and run off the request path. The
// transition has already committed by the time the coordinator runs, so
// failures here are logged and swallowed, never propagated, and a slow
// broker never delays the response.
type Coordinator struct {
	publisher event.Publisher
	cache     cache.Store
	logger    *slog.Logger
}

// dispatchTimeout bounds a single side-effect run once it is detached from
// the request.
const dispatchTimeout = 10 * time.Second

func NewCoordinator(publisher event.Publisher, store cache.Store, logger *slog.Logger) *Coordinator {
	return &Coordinator{publisher: publisher, cache: store, logger: logger}
}

func (c *Coordinator) LeaveRequested(ctx context.Context, actor identity.Principal, l leave.Leave) {
	c.dispatch(ctx, actor, l, event.TopicLeaveRequested, event.TypeLeaveRequested, event.NewLeaveRequested(l))
}

func (c *Coordinator) LeaveApproved(ctx context.Context, actor identity.Principal, l leave.Leave, comments *string) {
	approvedBy := int64(0)
	if l.ApprovedBy != nil {
		approvedBy = *l.ApprovedBy
	}
	c.dispatch(ctx, actor, l, event.TopicLeaveApproved, event.TypeLeaveApproved, event.NewLeaveApproved(l, approvedBy, comments))
}

func (c *Coordinator) LeaveRejected(ctx context.Context, actor identity.Principal, l leave.Leave) {
	reason := ""
	if l.RejectionReason != nil {
		reason = *l.RejectionReason
	}
	c.dispatch(ctx, actor, l, event.TopicLeaveRejected, event.TypeLeaveRejected, event.NewLeaveRejected(l, actor.EmployeeID, reason))
}

func (c *Coordinator) LeaveCancelled(ctx context.Context, actor identity.Principal, l leave.Leave) {
	c.dispatch(ctx, actor, l, event.TopicLeaveCancelled, event.TypeLeaveCancelled, event.NewLeaveCancelled(l, actor.EmployeeID))
}

func (c *Coordinator) dispatch(ctx context.Context, actor identity.Principal, l leave.Leave, topic, eventType string, data any) {
	// The envelope is built before detaching so the request id is still
	// available even after the request context is gone.
	envelope := event.NewEnvelope(eventType, data, actor.Subject, string(actor.Roles.Primary()), chimiddleware.GetReqID(ctx))

	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, dispatchTimeout)
		defer cancel()

		c.invalidate(ctx, l)

		if c.publisher == nil {
			return
		}

		payload, err := json.Marshal(envelope)
		if err != nil {
			c.logger.Warn("event serialization failed", "event_type", eventType, "leave_id", l.ID, "error", err)
			return
		}

		if err := c.publisher.Publish(ctx, topic, strconv.FormatInt(l.ID, 10), payload, eventType); err != nil {
			c.logger.Warn("event publish failed",
				"topic", topic,
				"event_type", eventType,
				"leave_id", l.ID,
				"error", err,
			)
		}
	}()
}

func (c *Coordinator) invalidate(ctx context.Context, l leave.Leave) {
	if c.cache == nil {
		return
	}
	keys := []string{
		cache.KeyDashboardSummary,
		cache.KeyTodayOnLeave,
		cache.KeyEmployeeLeaves(l.EmployeeID),
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Warn("cache invalidation failed", "leave_id", l.ID, "error", err)
	}
}
