package service

import (
	"context"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateWithProfile(ctx context.Context, user *model.User, profile *model.Profile) error {
	args := m.Called(ctx, user, profile)
	return args.Error(0)
}
func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) CreateIfMissing(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	args := m.Called(ctx, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
func (m *MockProfileRepo) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
func (m *MockProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepo) SetRole(ctx context.Context, id string, role model.Role) (*model.Profile, error) {
	args := m.Called(ctx, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}
func (m *MockProfileRepo) List(ctx context.Context) ([]model.Profile, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Profile), args.Error(1)
}

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) Create(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) FindByID(ctx context.Context, id string) (*model.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
func (m *MockAccountRepo) FindByProfileID(ctx context.Context, profileID string) (*model.Account, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
func (m *MockAccountRepo) List(ctx context.Context, filters model.AccountFilters) ([]model.Account, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]model.Account), args.Error(1)
}
func (m *MockAccountRepo) Update(ctx context.Context, account *model.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}
func (m *MockAccountRepo) SetStatus(ctx context.Context, id string, status model.AccountStatus) (*model.Account, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
func (m *MockAccountRepo) ReconcileBalances(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockServiceRepo struct {
	mock.Mock
}

func (m *MockServiceRepo) Create(ctx context.Context, s *model.Service) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}
func (m *MockServiceRepo) FindByID(ctx context.Context, id string) (*model.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Service), args.Error(1)
}
func (m *MockServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Service), args.Error(1)
}

type MockEnrollmentRepo struct {
	mock.Mock
}

func (m *MockEnrollmentRepo) Create(ctx context.Context, e *model.Enrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
func (m *MockEnrollmentRepo) FindByID(ctx context.Context, id string) (*model.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Enrollment), args.Error(1)
}
func (m *MockEnrollmentRepo) List(ctx context.Context, filters model.EnrollmentFilters) ([]model.Enrollment, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]model.Enrollment), args.Error(1)
}
func (m *MockEnrollmentRepo) SetStatus(ctx context.Context, id string, status model.EnrollmentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockAttendanceRepo runs the veto and the decrement against the
// enrollment the expectation hands back, the way the real store does
// inside its transaction.
type MockAttendanceRepo struct {
	mock.Mock
}

func (m *MockAttendanceRepo) Record(ctx context.Context, log *model.AttendanceLog, check func(*model.Enrollment) error) (*model.Enrollment, error) {
	args := m.Called(ctx, log)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	e := *args.Get(0).(*model.Enrollment)
	if err := check(&e); err != nil {
		return nil, err
	}
	e.RemainingHours = roundHours(e.RemainingHours - log.HoursSpent)
	if e.RemainingHours <= 0 {
		e.RemainingHours = 0
		e.Status = model.EnrollmentStatusCompleted
	}
	return &e, args.Error(1)
}
func (m *MockAttendanceRepo) ListByInstructor(ctx context.Context, instructorID string) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, instructorID)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}
func (m *MockAttendanceRepo) ListByEnrollment(ctx context.Context, enrollmentID string) ([]model.AttendanceLog, error) {
	args := m.Called(ctx, enrollmentID)
	return args.Get(0).([]model.AttendanceLog), args.Error(1)
}

type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) Append(ctx context.Context, entry *model.LedgerEntry) (*model.Account, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Account), args.Error(1)
}
func (m *MockLedgerRepo) SumByAccount(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
func (m *MockLedgerRepo) ListByTypes(ctx context.Context, types []model.EntryType) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, types)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) ListByAccount(ctx context.Context, accountID string) ([]model.LedgerEntry, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).([]model.LedgerEntry), args.Error(1)
}
func (m *MockLedgerRepo) Stats(ctx context.Context) (*model.LedgerStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LedgerStats), args.Error(1)
}
