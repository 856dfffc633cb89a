package leave

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrms-platform/leave-service-go/internal/pkg/validator"
)

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateSelfLeaveRequest_Validate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "annual",
			StartDate: futureDate(7),
			EndDate:   futureDate(10),
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("every known type accepted", func(t *testing.T) {
		for _, leaveType := range ValidTypes() {
			req := CreateSelfLeaveRequest{
				LeaveType: leaveType,
				StartDate: futureDate(7),
				EndDate:   futureDate(10),
			}
			assert.NoError(t, req.Validate(), "type %s", leaveType)
		}
	})

	t.Run("catch-all type accepted", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "other",
			StartDate: futureDate(7),
			EndDate:   futureDate(10),
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("past start date rejected", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "annual",
			StartDate: futureDate(-3),
			EndDate:   futureDate(2),
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "start_date")
	})

	t.Run("end before start rejected", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "annual",
			StartDate: futureDate(10),
			EndDate:   futureDate(7),
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "end_date")
	})

	t.Run("end equal to start rejected", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "annual",
			StartDate: futureDate(7),
			EndDate:   futureDate(7),
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "end_date")
	})

	t.Run("invalid type lists valid values", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "sabbatical",
			StartDate: futureDate(7),
			EndDate:   futureDate(10),
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap()["leave_type"], "annual")
	})

	t.Run("malformed dates rejected", func(t *testing.T) {
		req := CreateSelfLeaveRequest{
			LeaveType: "annual",
			StartDate: "03/02/2026",
			EndDate:   "not-a-date",
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "start_date")
		assert.Contains(t, errs.ToMap(), "end_date")
	})

	t.Run("oversized reason rejected", func(t *testing.T) {
		reason := strings.Repeat("a", 501)
		req := CreateSelfLeaveRequest{
			LeaveType: "annual",
			StartDate: futureDate(7),
			EndDate:   futureDate(10),
			Reason:    &reason,
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "reason")
	})
}

func TestCreateLeaveRequest_Validate(t *testing.T) {
	t.Run("backdated period allowed for hr entry", func(t *testing.T) {
		req := CreateLeaveRequest{
			EmployeeID: 7,
			LeaveType:  "sick",
			StartDate:  futureDate(-10),
			EndDate:    futureDate(-8),
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("employee id required", func(t *testing.T) {
		req := CreateLeaveRequest{
			LeaveType: "sick",
			StartDate: futureDate(1),
			EndDate:   futureDate(2),
		}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "employee_id")
	})
}

func TestRejectLeaveRequest_Validate(t *testing.T) {
	t.Run("reason required", func(t *testing.T) {
		req := RejectLeaveRequest{}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "rejection_reason")
	})

	t.Run("whitespace-only reason rejected", func(t *testing.T) {
		req := RejectLeaveRequest{RejectionReason: "   "}
		assert.Error(t, req.Validate())
	})

	t.Run("valid reason accepted", func(t *testing.T) {
		req := RejectLeaveRequest{RejectionReason: "Coverage conflict during release week"}
		assert.NoError(t, req.Validate())
	})
}

func TestUpdateLeaveStatusRequest_Validate(t *testing.T) {
	approver := int64(12)

	t.Run("approve requires approved_by", func(t *testing.T) {
		req := UpdateLeaveStatusRequest{Status: "approved"}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "approved_by")
	})

	t.Run("reject requires reason", func(t *testing.T) {
		req := UpdateLeaveStatusRequest{Status: "rejected"}
		err := req.Validate()
		require.Error(t, err)

		var errs validator.ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.ToMap(), "rejection_reason")
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		req := UpdateLeaveStatusRequest{Status: "archived"}
		assert.Error(t, req.Validate())
	})

	t.Run("valid approve", func(t *testing.T) {
		req := UpdateLeaveStatusRequest{Status: "approved", ApprovedBy: &approver}
		assert.NoError(t, req.Validate())
	})
}

func TestListLeaveFilter_Normalize(t *testing.T) {
	f := ListLeaveFilter{Page: 0, Limit: 1000}
	f.Normalize(200)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 200, f.Limit)

	f = ListLeaveFilter{}
	f.Normalize(200)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 50, f.Limit)
}

func TestNewLeaveResponse(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-03-02")
	end, _ := time.Parse("2006-01-02", "2026-03-06")
	l := Leave{
		ID:         42,
		EmployeeID: 7,
		LeaveType:  TypeAnnual,
		StartDate:  start,
		EndDate:    end,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	resp := NewLeaveResponse(l)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "2026-03-02", resp.StartDate)
	assert.Equal(t, "2026-03-06", resp.EndDate)
	assert.Equal(t, 5, resp.DaysCount)
	assert.Nil(t, resp.EmployeeName)
	assert.Nil(t, resp.ApproverName)
}
