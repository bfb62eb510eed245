package service

import (
	"context"
	"testing"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testAccountID    = "3c1f4b8e-2a0d-4c55-8f3e-6a9b1d2c3e4f"
	testServiceID    = "5d2e6f7a-1b3c-4d5e-9f0a-1b2c3d4e5f60"
	testEnrollmentID = "9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"
	testInstructorID = "1f2e3d4c-5b6a-4978-8a6b-5c4d3e2f1a0b"
)

type enrollmentMocks struct {
	enrollments *MockEnrollmentRepo
	attendance  *MockAttendanceRepo
	accounts    *MockAccountRepo
	services    *MockServiceRepo
}

func newEnrollmentService() (*enrollmentService, enrollmentMocks) {
	m := enrollmentMocks{
		enrollments: new(MockEnrollmentRepo),
		attendance:  new(MockAttendanceRepo),
		accounts:    new(MockAccountRepo),
		services:    new(MockServiceRepo),
	}
	svc := NewEnrollmentService(m.enrollments, m.attendance, m.accounts, NewCatalogService(m.services)).(*enrollmentService)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func TestEnrollmentService_CreateUsesServiceDefaults(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.accounts.On("FindByID", ctx, testAccountID).Return(&model.Account{ID: testAccountID}, nil).Once()
	m.services.On("FindByID", ctx, testServiceID).Return(&model.Service{
		ID: testServiceID, DefaultHours: 20, DefaultPrice: decimal.NewFromInt(1200),
	}, nil).Once()
	m.enrollments.On("Create", ctx, mock.AnythingOfType("*model.Enrollment")).Return(nil).Once()

	e, err := svc.Create(ctx, model.CreateEnrollmentRequest{AccountID: testAccountID, ServiceID: testServiceID})
	require.NoError(t, err)
	assert.Equal(t, 20.0, e.TotalHours)
	assert.Equal(t, 20.0, e.RemainingHours)
	assert.True(t, decimal.NewFromInt(1200).Equal(e.ContractPrice))
	assert.Equal(t, model.EnrollmentStatusActive, e.Status)
	m.enrollments.AssertExpectations(t)
}

func TestEnrollmentService_CreateWithOverrides(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()
	price := decimal.RequireFromString("999.99")
	hours := 7.5

	m.accounts.On("FindByID", ctx, testAccountID).Return(&model.Account{ID: testAccountID}, nil).Once()
	m.services.On("FindByID", ctx, testServiceID).Return(&model.Service{
		ID: testServiceID, DefaultHours: 20, DefaultPrice: decimal.NewFromInt(1200),
	}, nil).Once()
	m.enrollments.On("Create", ctx, mock.Anything).Return(nil).Once()

	e, err := svc.Create(ctx, model.CreateEnrollmentRequest{
		AccountID: testAccountID, ServiceID: testServiceID, ContractPrice: &price, TotalHours: &hours,
	})
	require.NoError(t, err)
	assert.Equal(t, 7.5, e.TotalHours)
	assert.True(t, price.Equal(e.ContractPrice))
}

func TestEnrollmentService_CreateUnknownAccount(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.accounts.On("FindByID", ctx, testAccountID).Return(nil, nil).Once()

	_, err := svc.Create(ctx, model.CreateEnrollmentRequest{AccountID: testAccountID, ServiceID: testServiceID})
	assert.ErrorIs(t, err, ErrAccountNotFound)
	m.enrollments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnrollmentService_RecordAttendanceDecrements(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.attendance.On("Record", ctx, mock.MatchedBy(func(l *model.AttendanceLog) bool {
		return l.EnrollmentID == testEnrollmentID && l.InstructorID == testInstructorID && l.HoursSpent == 1.5
	})).Return(&model.Enrollment{
		ID: testEnrollmentID, TotalHours: 10, RemainingHours: 10, Status: model.EnrollmentStatusActive,
	}, nil).Once()

	log, e, err := svc.RecordAttendance(ctx, testInstructorID, model.RecordAttendanceRequest{
		EnrollmentID: testEnrollmentID, HoursSpent: 1.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 8.5, e.RemainingHours)
	assert.Equal(t, model.EnrollmentStatusActive, e.Status)
	assert.Equal(t, svc.now(), log.SessionDate)
	m.attendance.AssertExpectations(t)
}

func TestEnrollmentService_RecordAttendanceExactRemainderCompletes(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.attendance.On("Record", ctx, mock.Anything).Return(&model.Enrollment{
		ID: testEnrollmentID, TotalHours: 10, RemainingHours: 2, Status: model.EnrollmentStatusActive,
	}, nil).Once()

	_, e, err := svc.RecordAttendance(ctx, testInstructorID, model.RecordAttendanceRequest{
		EnrollmentID: testEnrollmentID, HoursSpent: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, e.RemainingHours)
	assert.Equal(t, model.EnrollmentStatusCompleted, e.Status)
}

func TestEnrollmentService_RecordAttendanceRejectsOverdraw(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.attendance.On("Record", ctx, mock.Anything).Return(&model.Enrollment{
		ID: testEnrollmentID, TotalHours: 10, RemainingHours: 1, Status: model.EnrollmentStatusActive,
	}, nil).Once()

	_, _, err := svc.RecordAttendance(ctx, testInstructorID, model.RecordAttendanceRequest{
		EnrollmentID: testEnrollmentID, HoursSpent: 1.25,
	})
	assert.ErrorIs(t, err, ErrInsufficientHours)
}

func TestEnrollmentService_RecordAttendanceInactive(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.attendance.On("Record", ctx, mock.Anything).Return(&model.Enrollment{
		ID: testEnrollmentID, TotalHours: 10, RemainingHours: 4, Status: model.EnrollmentStatusCancelled,
	}, nil).Once()

	_, _, err := svc.RecordAttendance(ctx, testInstructorID, model.RecordAttendanceRequest{
		EnrollmentID: testEnrollmentID, HoursSpent: 1,
	})
	assert.ErrorIs(t, err, ErrEnrollmentNotActive)
}

func TestEnrollmentService_RecordAttendanceUnknownEnrollment(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.attendance.On("Record", ctx, mock.Anything).Return(nil, repository.ErrNotFound).Once()

	_, _, err := svc.RecordAttendance(ctx, testInstructorID, model.RecordAttendanceRequest{
		EnrollmentID: testEnrollmentID, HoursSpent: 1,
	})
	assert.ErrorIs(t, err, ErrEnrollmentNotFound)
}

func TestEnrollmentService_RecordAttendanceRejectsZeroHours(t *testing.T) {
	svc, m := newEnrollmentService()

	_, _, err := svc.RecordAttendance(context.Background(), testInstructorID, model.RecordAttendanceRequest{
		EnrollmentID: testEnrollmentID, HoursSpent: 0.001,
	})
	assert.ErrorIs(t, err, ErrInvalidHours)
	m.attendance.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestEnrollmentService_Cancel(t *testing.T) {
	svc, m := newEnrollmentService()
	ctx := context.Background()

	m.enrollments.On("FindByID", ctx, testEnrollmentID).Return(&model.Enrollment{
		ID: testEnrollmentID, Status: model.EnrollmentStatusActive,
	}, nil).Once()
	m.enrollments.On("SetStatus", ctx, testEnrollmentID, model.EnrollmentStatusCancelled).Return(nil).Once()

	e, err := svc.Cancel(ctx, testEnrollmentID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentStatusCancelled, e.Status)

	m.enrollments.On("FindByID", ctx, testEnrollmentID).Return(&model.Enrollment{
		ID: testEnrollmentID, Status: model.EnrollmentStatusCompleted,
	}, nil).Once()
	_, err = svc.Cancel(ctx, testEnrollmentID)
	assert.ErrorIs(t, err, ErrEnrollmentNotActive)
	m.enrollments.AssertExpectations(t)
}
