package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/core/services"
	"github.com/nexavault/lockin_backend/internal/dto"
)

type LockinServiceTestSuite struct {
	suite.Suite
	mockLockinRepo *MockLockinRepository
	mockPlanRepo   *MockPlanRepository
	mockWalletRepo *MockWalletRepository
	mockUserRepo   *MockUserRepository
	service        portssvc.LockinSvcFacade
}

func (suite *LockinServiceTestSuite) SetupTest() {
	suite.mockLockinRepo = new(MockLockinRepository)
	suite.mockPlanRepo = new(MockPlanRepository)
	suite.mockWalletRepo = new(MockWalletRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewLockinService(suite.mockLockinRepo, suite.mockPlanRepo, suite.mockWalletRepo, suite.mockUserRepo)
}

func (suite *LockinServiceTestSuite) activePlan() *domain.LockinPlan {
	return &domain.LockinPlan{
		PlanID:       uuid.NewString(),
		Name:         "30 Day Saver",
		DurationDays: 30,
		DailyRateBps: 50,
		IsActive:     true,
	}
}

func (suite *LockinServiceTestSuite) completedLockin(userID string) *domain.Lockin {
	now := time.Now().UTC()
	return &domain.Lockin{
		LockinID:             uuid.NewString(),
		UserID:               userID,
		PlanID:               uuid.NewString(),
		Name:                 "Lock-In 1",
		PrincipalAmount:      decimal.RequireFromString("1000"),
		SnapshotDurationDays: 30,
		SnapshotDailyRateBps: 50,
		StartDate:            now.AddDate(0, 0, -30),
		EndDate:              now.AddDate(0, 0, -1),
		Status:               domain.LockinCompleted,
		AccruedProfitTotal:   decimal.RequireFromString("150"),
		Version:              31,
	}
}

// --- CreateLockin ---

func (suite *LockinServiceTestSuite) TestCreateLockin_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	plan := suite.activePlan()
	req := dto.CreateLockinRequest{UserID: userID, PlanID: plan.PlanID, Amount: decimal.RequireFromString("1000")}

	suite.mockPlanRepo.On("FindPlanByID", ctx, plan.PlanID).Return(plan, nil).Once()
	suite.mockLockinRepo.On("CreateLockinWithDebit", ctx,
		mock.MatchedBy(func(l *domain.Lockin) bool {
			return l.UserID == userID &&
				l.PlanID == plan.PlanID &&
				l.PrincipalAmount.Equal(req.Amount) &&
				l.SnapshotDurationDays == 30 &&
				l.SnapshotDailyRateBps == 50 &&
				l.Status == domain.LockinActive &&
				l.AccruedProfitTotal.IsZero() &&
				l.EndDate.Equal(l.StartDate.AddDate(0, 0, 30))
		}),
		mock.MatchedBy(func(txn domain.WalletTransaction) bool {
			return txn.Direction == domain.WalletDebit &&
				txn.Kind == domain.TxnLockinDeposit &&
				txn.Amount.Equal(req.Amount)
		}),
	).Run(func(args mock.Arguments) {
		// the repository assigns the sequential label inside the transaction
		args.Get(1).(*domain.Lockin).Name = "Lock-In 3"
	}).Return(nil).Once()

	lockin, err := suite.service.CreateLockin(ctx, req, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(lockin)
	suite.Equal(domain.LockinActive, lockin.Status)
	suite.Equal("Lock-In 3", lockin.Name)
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func (suite *LockinServiceTestSuite) TestCreateLockin_InsufficientBalance() {
	ctx := context.Background()
	userID := uuid.NewString()
	plan := suite.activePlan()
	req := dto.CreateLockinRequest{UserID: userID, PlanID: plan.PlanID, Amount: decimal.RequireFromString("5000")}

	suite.mockPlanRepo.On("FindPlanByID", ctx, plan.PlanID).Return(plan, nil).Once()
	suite.mockLockinRepo.On("CreateLockinWithDebit", ctx, mock.Anything, mock.Anything).
		Return(apperrors.ErrInsufficientBalance).Once()

	lockin, err := suite.service.CreateLockin(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(lockin)
}

func (suite *LockinServiceTestSuite) TestCreateLockin_UnknownPlan() {
	ctx := context.Background()
	userID := uuid.NewString()
	planID := uuid.NewString()
	req := dto.CreateLockinRequest{UserID: userID, PlanID: planID, Amount: decimal.RequireFromString("100")}

	suite.mockPlanRepo.On("FindPlanByID", ctx, planID).Return(nil, apperrors.ErrNotFound).Once()

	lockin, err := suite.service.CreateLockin(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidPlan)
	suite.Nil(lockin)
	suite.mockLockinRepo.AssertNotCalled(suite.T(), "CreateLockinWithDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LockinServiceTestSuite) TestCreateLockin_InactivePlan() {
	ctx := context.Background()
	userID := uuid.NewString()
	plan := suite.activePlan()
	plan.IsActive = false
	req := dto.CreateLockinRequest{UserID: userID, PlanID: plan.PlanID, Amount: decimal.RequireFromString("100")}

	suite.mockPlanRepo.On("FindPlanByID", ctx, plan.PlanID).Return(plan, nil).Once()

	lockin, err := suite.service.CreateLockin(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidPlan)
	suite.Nil(lockin)
}

func (suite *LockinServiceTestSuite) TestCreateLockin_AmountTooSmall() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateLockinRequest{UserID: userID, PlanID: uuid.NewString(), Amount: decimal.RequireFromString("0.001")}

	lockin, err := suite.service.CreateLockin(ctx, req, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(lockin)
	suite.mockPlanRepo.AssertNotCalled(suite.T(), "FindPlanByID", mock.Anything, mock.Anything)
}

func (suite *LockinServiceTestSuite) TestCreateLockin_ForAnotherUser() {
	ctx := context.Background()
	caller := uuid.NewString()
	req := dto.CreateLockinRequest{UserID: uuid.NewString(), PlanID: uuid.NewString(), Amount: decimal.RequireFromString("100")}

	suite.mockUserRepo.On("FindUserByID", ctx, caller).Return(&domain.User{UserID: caller, IsAdmin: false}, nil).Once()

	lockin, err := suite.service.CreateLockin(ctx, req, caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(lockin)
}

// --- Reads ---

func (suite *LockinServiceTestSuite) TestListLockinsByUser_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	expected := []domain.Lockin{*suite.completedLockin(userID)}

	suite.mockLockinRepo.On("ListLockinsByUser", ctx, userID).Return(expected, nil).Once()

	lockins, err := suite.service.ListLockinsByUser(ctx, userID, userID)

	suite.Require().NoError(err)
	suite.Equal(expected, lockins)
}

func (suite *LockinServiceTestSuite) TestListLockinsByUser_OtherUser() {
	ctx := context.Background()
	caller := uuid.NewString()

	suite.mockUserRepo.On("FindUserByID", ctx, caller).Return(&domain.User{UserID: caller, IsAdmin: false}, nil).Once()

	lockins, err := suite.service.ListLockinsByUser(ctx, uuid.NewString(), caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(lockins)
}

func (suite *LockinServiceTestSuite) TestListLockinsByUser_AdminCanReadAnyUser() {
	ctx := context.Background()
	userID := uuid.NewString()
	admin := uuid.NewString()
	expected := []domain.Lockin{*suite.completedLockin(userID)}

	suite.mockUserRepo.On("FindUserByID", ctx, admin).Return(&domain.User{UserID: admin, IsAdmin: true}, nil).Once()
	suite.mockLockinRepo.On("ListLockinsByUser", ctx, userID).Return(expected, nil).Once()

	lockins, err := suite.service.ListLockinsByUser(ctx, userID, admin)

	suite.Require().NoError(err)
	suite.Equal(expected, lockins)
}

func (suite *LockinServiceTestSuite) TestGetLockinByID_OwnershipEnforced() {
	ctx := context.Background()
	owner := uuid.NewString()
	lockin := suite.completedLockin(owner)
	caller := uuid.NewString()

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, caller).Return(&domain.User{UserID: caller, IsAdmin: false}, nil).Once()

	got, err := suite.service.GetLockinByID(ctx, lockin.LockinID, caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(got)
}

// --- AddToWallet ---

func (suite *LockinServiceTestSuite) TestAddToWallet_CreditsPrincipalOnly() {
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)
	updatedWallet := &domain.Wallet{UserID: userID, Balance: decimal.RequireFromString("1150")}

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()
	suite.mockLockinRepo.On("ResolveToWallet", ctx, *lockin, mock.MatchedBy(func(txn domain.WalletTransaction) bool {
		// profit was credited daily; only the principal moves here
		return txn.Amount.Equal(lockin.PrincipalAmount) &&
			txn.Direction == domain.WalletCredit &&
			txn.Kind == domain.TxnLockinPayout
	})).Return(nil).Once()
	suite.mockWalletRepo.On("FindWalletByUserID", ctx, userID).Return(updatedWallet, nil).Once()

	wallet, err := suite.service.AddToWallet(ctx, lockin.LockinID, userID, userID)

	suite.Require().NoError(err)
	suite.Equal(updatedWallet, wallet)
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func (suite *LockinServiceTestSuite) TestAddToWallet_NotMatured() {
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)
	lockin.Status = domain.LockinActive
	lockin.EndDate = time.Now().UTC().AddDate(0, 0, 10)

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()

	wallet, err := suite.service.AddToWallet(ctx, lockin.LockinID, userID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotMatured)
	suite.Nil(wallet)
	suite.mockLockinRepo.AssertNotCalled(suite.T(), "ResolveToWallet", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LockinServiceTestSuite) TestAddToWallet_AlreadyProcessed() {
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)
	lockin.Status = domain.LockinProcessed
	lockin.IsProcessed = true

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()

	wallet, err := suite.service.AddToWallet(ctx, lockin.LockinID, userID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.Nil(wallet)
}

func (suite *LockinServiceTestSuite) TestAddToWallet_RaceLosesCleanly() {
	// Second concurrent resolver hits the repository-level recheck.
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()
	suite.mockLockinRepo.On("ResolveToWallet", ctx, *lockin, mock.Anything).
		Return(apperrors.ErrAlreadyProcessed).Once()

	wallet, err := suite.service.AddToWallet(ctx, lockin.LockinID, userID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyProcessed)
	suite.Nil(wallet)
	suite.mockWalletRepo.AssertNotCalled(suite.T(), "FindWalletByUserID", mock.Anything, mock.Anything)
}

func (suite *LockinServiceTestSuite) TestAddToWallet_WrongUser() {
	ctx := context.Background()
	owner := uuid.NewString()
	caller := uuid.NewString()
	lockin := suite.completedLockin(owner)

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()

	wallet, err := suite.service.AddToWallet(ctx, lockin.LockinID, caller, caller)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(wallet)
}

func (suite *LockinServiceTestSuite) TestAddToWallet_AdminResolvesForUser() {
	ctx := context.Background()
	userID := uuid.NewString()
	admin := uuid.NewString()
	lockin := suite.completedLockin(userID)
	updatedWallet := &domain.Wallet{UserID: userID, Balance: decimal.RequireFromString("1150")}

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, admin).Return(&domain.User{UserID: admin, IsAdmin: true}, nil).Once()
	suite.mockLockinRepo.On("ResolveToWallet", ctx, *lockin, mock.Anything).Return(nil).Once()
	suite.mockWalletRepo.On("FindWalletByUserID", ctx, userID).Return(updatedWallet, nil).Once()

	wallet, err := suite.service.AddToWallet(ctx, lockin.LockinID, userID, admin)

	suite.Require().NoError(err)
	suite.Equal(updatedWallet, wallet)
}

// --- Relock ---

func (suite *LockinServiceTestSuite) TestRelock_RollsPrincipalWithFreshSnapshot() {
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)
	newPlan := &domain.LockinPlan{
		PlanID:       uuid.NewString(),
		Name:         "90 Day Grower",
		DurationDays: 90,
		DailyRateBps: 80,
		IsActive:     true,
	}

	wallet := &domain.Wallet{UserID: userID, Balance: decimal.RequireFromString("150")}

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()
	suite.mockPlanRepo.On("FindPlanByID", ctx, newPlan.PlanID).Return(newPlan, nil).Once()
	suite.mockLockinRepo.On("Relock", ctx, *lockin, mock.MatchedBy(func(next *domain.Lockin) bool {
		return next.PrincipalAmount.Equal(lockin.PrincipalAmount) &&
			next.PlanID == newPlan.PlanID &&
			next.SnapshotDurationDays == 90 &&
			next.SnapshotDailyRateBps == 80 &&
			next.Status == domain.LockinActive &&
			next.AccruedProfitTotal.IsZero() &&
			next.EndDate.Equal(next.StartDate.AddDate(0, 0, 90))
	})).Run(func(args mock.Arguments) {
		args.Get(2).(*domain.Lockin).Name = "Lock-In 2"
	}).Return(nil).Once()
	suite.mockWalletRepo.On("FindWalletByUserID", ctx, userID).Return(wallet, nil).Once()

	next, gotWallet, err := suite.service.Relock(ctx, lockin.LockinID, userID, newPlan.PlanID, userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(next)
	suite.NotEqual(lockin.LockinID, next.LockinID)
	suite.Equal("Lock-In 2", next.Name)
	// relock moves no funds, so the wallet comes back as-is
	suite.Equal(wallet, gotWallet)
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func (suite *LockinServiceTestSuite) TestRelock_InvalidNewPlan() {
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)
	planID := uuid.NewString()

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()
	suite.mockPlanRepo.On("FindPlanByID", ctx, planID).Return(nil, apperrors.ErrNotFound).Once()

	next, wallet, err := suite.service.Relock(ctx, lockin.LockinID, userID, planID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidPlan)
	suite.Nil(next)
	suite.Nil(wallet)
	suite.mockLockinRepo.AssertNotCalled(suite.T(), "Relock", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LockinServiceTestSuite) TestRelock_NotMatured() {
	ctx := context.Background()
	userID := uuid.NewString()
	lockin := suite.completedLockin(userID)
	lockin.Status = domain.LockinActive

	suite.mockLockinRepo.On("FindLockinByID", ctx, lockin.LockinID).Return(lockin, nil).Once()

	next, wallet, err := suite.service.Relock(ctx, lockin.LockinID, userID, uuid.NewString(), userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotMatured)
	suite.Nil(next)
	suite.Nil(wallet)
}

func TestLockinServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LockinServiceTestSuite))
}
