package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// AttendanceRepository records lessons against enrollments
type AttendanceRepository interface {
	Record(ctx context.Context, log *model.AttendanceLog, check func(*model.Enrollment) error) (*model.Enrollment, error)
	ListByInstructor(ctx context.Context, instructorID string) ([]model.AttendanceLog, error)
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]model.AttendanceLog, error)
}

type attendanceRepository struct {
	db DB
}

func NewAttendanceRepository(db DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

// Record locks the enrollment row, lets check veto the write, then
// inserts the log and decrements remaining hours in the same
// transaction. An enrollment that reaches zero hours is completed.
func (r *attendanceRepository) Record(ctx context.Context, log *model.AttendanceLog, check func(*model.Enrollment) error) (*model.Enrollment, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	e, err := scanEnrollment(tx.QueryRow(ctx, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1 FOR UPDATE`, log.EnrollmentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock enrollment: %w", err)
	}
	if err := check(e); err != nil {
		return nil, err
	}

	sql := `INSERT INTO attendance_logs (id, enrollment_id, instructor_id, hours_spent, session_date, created_at)
            VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	err = tx.QueryRow(ctx, sql, log.ID, log.EnrollmentID, log.InstructorID, log.HoursSpent, log.SessionDate, log.CreatedAt).Scan(&log.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert attendance log: %w", err)
	}

	e.RemainingHours = math.Round((e.RemainingHours-log.HoursSpent)*100) / 100
	if e.RemainingHours <= 0 {
		e.RemainingHours = 0
		e.Status = model.EnrollmentStatusCompleted
	}
	if _, err := tx.Exec(ctx, `UPDATE enrollments SET remaining_hours = $1, status = $2 WHERE id = $3`, e.RemainingHours, e.Status, e.ID); err != nil {
		return nil, fmt.Errorf("failed to decrement enrollment hours: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit attendance: %w", err)
	}
	return e, nil
}

func (r *attendanceRepository) ListByInstructor(ctx context.Context, instructorID string) ([]model.AttendanceLog, error) {
	return r.list(ctx, `WHERE instructor_id = $1`, instructorID)
}

func (r *attendanceRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]model.AttendanceLog, error) {
	return r.list(ctx, `WHERE enrollment_id = $1`, enrollmentID)
}

func (r *attendanceRepository) list(ctx context.Context, where string, arg any) ([]model.AttendanceLog, error) {
	sql := `SELECT id, enrollment_id, instructor_id, hours_spent, session_date, created_at
            FROM attendance_logs ` + where + ` ORDER BY session_date DESC, created_at DESC`
	rows, err := r.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance logs: %w", err)
	}
	defer rows.Close()

	var logs []model.AttendanceLog
	for rows.Next() {
		var l model.AttendanceLog
		if err := rows.Scan(&l.ID, &l.EnrollmentID, &l.InstructorID, &l.HoursSpent, &l.SessionDate, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows: %w", err)
	}
	return logs, nil
}
