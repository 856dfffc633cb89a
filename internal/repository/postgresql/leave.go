package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hrms-platform/leave-service-go/internal/domain/leave"
	"github.com/hrms-platform/leave-service-go/internal/pkg/database"
)

const leaveColumns = `id, employee_id, leave_type, start_date, end_date, reason, status, approved_by, rejection_reason, created_at, updated_at`

type leaveRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRepository(db *database.DB) leave.Repository {
	return &leaveRepositoryImpl{db: db}
}

func (r *leaveRepositoryImpl) Create(ctx context.Context, l leave.Leave) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, leave_type, start_date, end_date, reason,
			status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, NOW(), NOW()
		)
		RETURNING ` + leaveColumns

	row := q.QueryRow(ctx, query,
		l.EmployeeID,
		string(l.LeaveType),
		l.StartDate,
		l.EndDate,
		l.Reason,
		string(leave.StatusPending),
	)

	return scanLeave(row)
}

func (r *leaveRepositoryImpl) GetByID(ctx context.Context, id int64) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `
		FROM leave_requests
		WHERE id = $1
	`

	l, err := scanLeave(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return leave.Leave{}, leave.ErrLeaveRequestNotFound
	}
	return l, err
}

func (r *leaveRepositoryImpl) List(ctx context.Context, filter leave.Filter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID > 0 {
		whereClause += fmt.Sprintf(" AND employee_id = $%d", argIdx)
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if len(filter.EmployeeIDs) > 0 {
		whereClause += fmt.Sprintf(" AND employee_id = ANY($%d)", argIdx)
		args = append(args, filter.EmployeeIDs)
		argIdx++
	}
	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	if filter.LeaveType != "" {
		whereClause += fmt.Sprintf(" AND leave_type = $%d", argIdx)
		args = append(args, string(filter.LeaveType))
		argIdx++
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM leave_requests
		%s
	`, whereClause)

	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT `+leaveColumns+`
		FROM leave_requests
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		l, err := scanLeave(rows)
		if err != nil {
			return nil, 0, err
		}
		leaves = append(leaves, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return leaves, total, nil
}

// UpdateStatusIfPending relies on the WHERE status = 'pending' predicate
// for correctness under concurrency: two racing decisions produce exactly
// one row update, and the loser gets ErrAlreadyProcessed.
func (r *leaveRepositoryImpl) UpdateStatusIfPending(ctx context.Context, id int64, status leave.Status, approvedBy *int64, rejectionReason *string) (leave.Leave, error) {
	query := `
		UPDATE leave_requests
		SET status = $2, approved_by = $3, rejection_reason = $4, updated_at = NOW()
		WHERE id = $1 AND status = $5
		RETURNING ` + leaveColumns

	var updated leave.Leave
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		l, err := scanLeave(q.QueryRow(txCtx, query, id, string(status), approvedBy, rejectionReason, string(leave.StatusPending)))
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing row from one that was already decided.
			if _, getErr := r.GetByID(txCtx, id); getErr != nil {
				return getErr
			}
			return leave.ErrAlreadyProcessed
		}
		updated = l
		return err
	})
	if err != nil {
		return leave.Leave{}, err
	}
	return updated, nil
}

func (r *leaveRepositoryImpl) CancelIfActive(ctx context.Context, id int64) (leave.Leave, error) {
	query := `
		UPDATE leave_requests
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status IN ($3, $4)
		RETURNING ` + leaveColumns

	var cancelled leave.Leave
	err := WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)
		q := GetQuerier(txCtx, r.db)

		l, err := scanLeave(q.QueryRow(txCtx, query, id,
			string(leave.StatusCancelled),
			string(leave.StatusPending),
			string(leave.StatusApproved),
		))
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(txCtx, id); getErr != nil {
				return getErr
			}
			return leave.ErrNotCancellable
		}
		cancelled = l
		return err
	})
	if err != nil {
		return leave.Leave{}, err
	}
	return cancelled, nil
}

func (r *leaveRepositoryImpl) CountByStatus(ctx context.Context) (leave.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected'),
			COUNT(*) FILTER (WHERE status = 'cancelled')
		FROM leave_requests
	`

	var summary leave.Summary
	err := q.QueryRow(ctx, query).Scan(
		&summary.TotalLeaves,
		&summary.PendingLeaves,
		&summary.ApprovedLeaves,
		&summary.RejectedLeaves,
		&summary.CancelledLeaves,
	)
	return summary, err
}

func (r *leaveRepositoryImpl) CountOnLeave(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(DISTINCT employee_id)
		FROM leave_requests
		WHERE status = 'approved' AND start_date <= $1 AND end_date >= $1
	`

	var count int64
	err := q.QueryRow(ctx, query, date).Scan(&count)
	return count, err
}

func scanLeave(row pgx.Row) (leave.Leave, error) {
	var l leave.Leave
	var leaveType, status string
	err := row.Scan(
		&l.ID,
		&l.EmployeeID,
		&leaveType,
		&l.StartDate,
		&l.EndDate,
		&l.Reason,
		&status,
		&l.ApprovedBy,
		&l.RejectionReason,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return leave.Leave{}, err
	}
	l.LeaveType = leave.Type(leaveType)
	l.Status = leave.Status(status)
	return l, nil
}
