package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// EnrollmentRepository defines operations for enrollments
type EnrollmentRepository interface {
	Create(ctx context.Context, e *model.Enrollment) error
	FindByID(ctx context.Context, id string) (*model.Enrollment, error)
	List(ctx context.Context, filters model.EnrollmentFilters) ([]model.Enrollment, error)
	SetStatus(ctx context.Context, id string, status model.EnrollmentStatus) error
}

type enrollmentRepository struct {
	db DB
}

func NewEnrollmentRepository(db DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

const enrollmentColumns = `id, account_id, service_id, contract_price, total_hours, remaining_hours, status, created_at`

func scanEnrollment(row pgx.Row) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	var status string
	if err := row.Scan(&e.ID, &e.AccountID, &e.ServiceID, &e.ContractPrice, &e.TotalHours, &e.RemainingHours, &status, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Status = model.EnrollmentStatus(status)
	return e, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	sql := `INSERT INTO enrollments (` + enrollmentColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	err := r.db.QueryRow(ctx, sql, e.ID, e.AccountID, e.ServiceID, e.ContractPrice, e.TotalHours, e.RemainingHours, e.Status, e.CreatedAt).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create enrollment: %w", err)
	}
	return nil
}

func (r *enrollmentRepository) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	e, err := scanEnrollment(r.db.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find enrollment by ID: %w", err)
	}
	return e, nil
}

func (r *enrollmentRepository) List(ctx context.Context, filters model.EnrollmentFilters) ([]model.Enrollment, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + enrollmentColumns + ` FROM enrollments`)

	args := []interface{}{}
	argCount := 1
	var conditions []string

	if filters.AccountID != nil && *filters.AccountID != "" {
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", argCount))
		args = append(args, *filters.AccountID)
		argCount++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCount))
		args = append(args, *filters.Status)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []model.Enrollment
	for rows.Next() {
		e, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment row: %w", err)
		}
		enrollments = append(enrollments, *e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return enrollments, nil
}

func (r *enrollmentRepository) SetStatus(ctx context.Context, id string, status model.EnrollmentStatus) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE enrollments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update enrollment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
