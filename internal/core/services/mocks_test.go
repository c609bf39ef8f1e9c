package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/nexavault/lockin_backend/internal/core/domain"
)

// --- Mock PlanRepository ---

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindPlanByID(ctx context.Context, planID string) (*domain.LockinPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LockinPlan), args.Error(1)
}

func (m *MockPlanRepository) ListPlans(ctx context.Context) ([]domain.LockinPlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LockinPlan), args.Error(1)
}

func (m *MockPlanRepository) SavePlan(ctx context.Context, plan domain.LockinPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) UpdatePlan(ctx context.Context, plan domain.LockinPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) DeactivatePlan(ctx context.Context, planID string, userID string, now time.Time) error {
	args := m.Called(ctx, planID, userID, now)
	return args.Error(0)
}

// --- Mock LockinRepository ---

type MockLockinRepository struct {
	mock.Mock
}

func (m *MockLockinRepository) FindLockinByID(ctx context.Context, lockinID string) (*domain.Lockin, error) {
	args := m.Called(ctx, lockinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Lockin), args.Error(1)
}

func (m *MockLockinRepository) ListLockinsByUser(ctx context.Context, userID string) ([]domain.Lockin, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lockin), args.Error(1)
}

func (m *MockLockinRepository) CountActiveByPlan(ctx context.Context, planID string) (int64, error) {
	args := m.Called(ctx, planID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLockinRepository) ListAccrualDue(ctx context.Context, accrualDate time.Time) ([]domain.Lockin, error) {
	args := m.Called(ctx, accrualDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Lockin), args.Error(1)
}

func (m *MockLockinRepository) CreateLockinWithDebit(ctx context.Context, lockin *domain.Lockin, debit domain.WalletTransaction) error {
	args := m.Called(ctx, lockin, debit)
	return args.Error(0)
}

func (m *MockLockinRepository) ApplyDailyAccrual(ctx context.Context, lockin domain.Lockin, profit domain.ProfitTransaction, credit domain.WalletTransaction, completes bool) error {
	args := m.Called(ctx, lockin, profit, credit, completes)
	return args.Error(0)
}

func (m *MockLockinRepository) MarkCompletedDue(ctx context.Context, now time.Time, userID string) (int64, error) {
	args := m.Called(ctx, now, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLockinRepository) ResolveToWallet(ctx context.Context, lockin domain.Lockin, payout domain.WalletTransaction) error {
	args := m.Called(ctx, lockin, payout)
	return args.Error(0)
}

func (m *MockLockinRepository) Relock(ctx context.Context, old domain.Lockin, next *domain.Lockin) error {
	args := m.Called(ctx, old, next)
	return args.Error(0)
}

// --- Mock WalletRepository ---

type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) FindWalletByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Wallet), args.Error(1)
}

func (m *MockWalletRepository) ListWalletTransactions(ctx context.Context, userID string, limit int) ([]domain.WalletTransaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WalletTransaction), args.Error(1)
}

func (m *MockWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	args := m.Called(ctx, wallet)
	return args.Error(0)
}

// --- Mock ProfitRepository ---

type MockProfitRepository struct {
	mock.Mock
}

func (m *MockProfitRepository) ListProfitsByUser(ctx context.Context, userID string) ([]domain.ProfitTransaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProfitTransaction), args.Error(1)
}

func (m *MockProfitRepository) SumProfitByUser(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, wallet domain.Wallet) error {
	args := m.Called(ctx, user, wallet)
	return args.Error(0)
}

// --- Mock email Sender ---

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendLockinMatured(toEmail, toName, lockinName, principal string) error {
	args := m.Called(toEmail, toName, lockinName, principal)
	return args.Error(0)
}
