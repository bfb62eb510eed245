package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrEnrollmentNotActive = errors.New("enrollment is not active")
	ErrInsufficientHours   = errors.New("hours spent exceed remaining hours")
	ErrInvalidHours        = errors.New("hours must be positive")
)

// EnrollmentService sells hour blocks and burns them down through attendance.
type EnrollmentService interface {
	Create(ctx context.Context, req model.CreateEnrollmentRequest) (*model.Enrollment, error)
	Get(ctx context.Context, id string) (*model.Enrollment, error)
	List(ctx context.Context, filters model.EnrollmentFilters) ([]model.Enrollment, error)
	Cancel(ctx context.Context, id string) (*model.Enrollment, error)
	RecordAttendance(ctx context.Context, instructorID string, req model.RecordAttendanceRequest) (*model.AttendanceLog, *model.Enrollment, error)
	ListAttendance(ctx context.Context, instructorID string) ([]model.AttendanceLog, error)
	ListEnrollmentAttendance(ctx context.Context, enrollmentID string) ([]model.AttendanceLog, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	attendance  repository.AttendanceRepository
	accounts    repository.AccountRepository
	catalog     CatalogService
	now         func() time.Time
}

func NewEnrollmentService(
	enrollments repository.EnrollmentRepository,
	attendance repository.AttendanceRepository,
	accounts repository.AccountRepository,
	catalog CatalogService,
) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollments,
		attendance:  attendance,
		accounts:    accounts,
		catalog:     catalog,
		now:         time.Now,
	}
}

// Create opens an enrollment. Price and hours fall back to the service's
// defaults when the request leaves them out.
func (s *enrollmentService) Create(ctx context.Context, req model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	account, err := s.accounts.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	svc, err := s.catalog.Get(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	price := svc.DefaultPrice
	if req.ContractPrice != nil {
		price = *req.ContractPrice
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	hours := svc.DefaultHours
	if req.TotalHours != nil {
		hours = *req.TotalHours
	}
	hours = roundHours(hours)
	if hours <= 0 {
		return nil, ErrInvalidHours
	}

	e := &model.Enrollment{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		ServiceID:      svc.ID,
		ContractPrice:  price.Round(2),
		TotalHours:     hours,
		RemainingHours: hours,
		Status:         model.EnrollmentStatusActive,
		CreatedAt:      s.now(),
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create enrollment in repo: %w", err)
	}
	return e, nil
}

func (s *enrollmentService) Get(ctx context.Context, id string) (*model.Enrollment, error) {
	e, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find enrollment: %w", err)
	}
	if e == nil {
		return nil, ErrEnrollmentNotFound
	}
	return e, nil
}

func (s *enrollmentService) List(ctx context.Context, filters model.EnrollmentFilters) ([]model.Enrollment, error) {
	list, err := s.enrollments.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments from repo: %w", err)
	}
	return list, nil
}

func (s *enrollmentService) Cancel(ctx context.Context, id string) (*model.Enrollment, error) {
	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status != model.EnrollmentStatusActive {
		return nil, ErrEnrollmentNotActive
	}
	if err := s.enrollments.SetStatus(ctx, id, model.EnrollmentStatusCancelled); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("failed to cancel enrollment: %w", err)
	}
	e.Status = model.EnrollmentStatusCancelled
	return e, nil
}

// RecordAttendance logs a session and takes its hours off the
// enrollment. A session longer than what remains is refused outright.
func (s *enrollmentService) RecordAttendance(ctx context.Context, instructorID string, req model.RecordAttendanceRequest) (*model.AttendanceLog, *model.Enrollment, error) {
	hours := roundHours(req.HoursSpent)
	if hours <= 0 {
		return nil, nil, ErrInvalidHours
	}

	now := s.now()
	sessionDate := req.SessionDate
	if sessionDate.IsZero() {
		sessionDate = now
	}

	log := &model.AttendanceLog{
		ID:           uuid.NewString(),
		EnrollmentID: req.EnrollmentID,
		InstructorID: instructorID,
		HoursSpent:   hours,
		SessionDate:  sessionDate,
		CreatedAt:    now,
	}

	e, err := s.attendance.Record(ctx, log, func(e *model.Enrollment) error {
		if e.Status != model.EnrollmentStatusActive {
			return ErrEnrollmentNotActive
		}
		if hours > e.RemainingHours {
			return ErrInsufficientHours
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, ErrEnrollmentNotFound
		case errors.Is(err, ErrEnrollmentNotActive), errors.Is(err, ErrInsufficientHours):
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to record attendance: %w", err)
	}
	return log, e, nil
}

func (s *enrollmentService) ListAttendance(ctx context.Context, instructorID string) ([]model.AttendanceLog, error) {
	logs, err := s.attendance.ListByInstructor(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return logs, nil
}

func (s *enrollmentService) ListEnrollmentAttendance(ctx context.Context, enrollmentID string) ([]model.AttendanceLog, error) {
	logs, err := s.attendance.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return logs, nil
}

func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
