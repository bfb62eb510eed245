package handler

import (
	"context"
	"net/http"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*model.Profile, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockSessions struct {
	mock.Mock
}

func (m *MockSessions) SignIn(userID string) ([]*http.Cookie, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*http.Cookie), args.Error(1)
}
func (m *MockSessions) SignOut(userID string) []*http.Cookie {
	args := m.Called(userID)
	return args.Get(0).([]*http.Cookie)
}

type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) RecordEntry(ctx context.Context, req model.LedgerEntryRequest) (*model.LedgerEntry, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) ComputeBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerService) ListEntries(ctx context.Context, types []model.EntryType) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, types)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) ListAccountEntries(ctx context.Context, accountID string) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}
func (m *MockLedgerService) Stats(ctx context.Context) (*model.LedgerStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerStats), args.Error(1)
}
func (m *MockLedgerService) ExportEntriesCSV(ctx context.Context, types []model.EntryType) (string, error) {
	args := m.Called(ctx, types)
	return args.String(0), args.Error(1)
}

type MockEnrollmentService struct {
	mock.Mock
}

func (m *MockEnrollmentService) Create(ctx context.Context, req model.CreateEnrollmentRequest) (*model.Enrollment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}
func (m *MockEnrollmentService) Get(ctx context.Context, id string) (*model.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}
func (m *MockEnrollmentService) List(ctx context.Context, filters model.EnrollmentFilters) ([]model.Enrollment, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]model.Enrollment), args.Error(1)
}
func (m *MockEnrollmentService) Cancel(ctx context.Context, id string) (*model.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}
func (m *MockEnrollmentService) RecordAttendance(ctx context.Context, instructorID string, req model.RecordAttendanceRequest) (*model.AttendanceLog, *model.Enrollment, error) {
	args := m.Called(ctx, instructorID, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*model.AttendanceLog), args.Get(1).(*model.Enrollment), args.Error(2)
}
func (m *MockEnrollmentService) ListAttendance(ctx context.Context, instructorID string) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, instructorID)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
func (m *MockEnrollmentService) ListEnrollmentAttendance(ctx context.Context, enrollmentID string) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, enrollmentID)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
