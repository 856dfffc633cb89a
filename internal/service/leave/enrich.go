package leave

import (
	"context"
	"log/slog"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
)

// Enricher decorates leave responses with employee and approver names from
// the directory. Enrichment is decorative: when a lookup fails the name
// stays nil and the core response is returned unchanged.
type Enricher struct {
	directory identity.Directory
	logger    *slog.Logger
}

func NewEnricher(directory identity.Directory, logger *slog.Logger) *Enricher {
	return &Enricher{directory: directory, logger: logger}
}

func (e *Enricher) Enrich(ctx context.Context, resp *leave.LeaveResponse) {
	if name := e.lookupName(ctx, resp.EmployeeID); name != nil {
		resp.EmployeeName = name
	}
	if resp.ApprovedBy != nil {
		if name := e.lookupName(ctx, *resp.ApprovedBy); name != nil {
			resp.ApproverName = name
		}
	}
}

func (e *Enricher) EnrichAll(ctx context.Context, resps []leave.LeaveResponse) {
	for i := range resps {
		e.Enrich(ctx, &resps[i])
	}
}

func (e *Enricher) lookupName(ctx context.Context, employeeID int64) *string {
	record, err := e.directory.GetEmployee(ctx, employeeID)
	if err != nil {
		e.logger.Debug("name enrichment skipped", "employee_id", employeeID, "error", err)
		return nil
	}
	return &record.FullName
}
