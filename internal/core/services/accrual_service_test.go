package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/core/services"
)

type AccrualServiceTestSuite struct {
	suite.Suite
	mockLockinRepo *MockLockinRepository
	mockUserRepo   *MockUserRepository
	mockSender     *MockEmailSender
	service        portssvc.AccrualSvcFacade
}

func (suite *AccrualServiceTestSuite) SetupTest() {
	suite.mockLockinRepo = new(MockLockinRepository)
	suite.mockUserRepo = new(MockUserRepository)
	suite.mockSender = new(MockEmailSender)
	suite.service = services.NewAccrualService(suite.mockLockinRepo, suite.mockUserRepo, suite.mockSender)
}

func (suite *AccrualServiceTestSuite) activeLockin(userID string, daysLeft int) domain.Lockin {
	now := time.Now().UTC()
	return domain.Lockin{
		LockinID:             uuid.NewString(),
		UserID:               userID,
		PlanID:               uuid.NewString(),
		Name:                 "Lock-In 1",
		PrincipalAmount:      decimal.RequireFromString("1000"),
		SnapshotDurationDays: 30,
		SnapshotDailyRateBps: 50,
		StartDate:            now.AddDate(0, 0, daysLeft-30),
		EndDate:              now.AddDate(0, 0, daysLeft),
		Status:               domain.LockinActive,
		AccruedProfitTotal:   decimal.Zero,
		Version:              1,
	}
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_CreditsDailyProfit() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	lockin := suite.activeLockin(uuid.NewString(), 10)

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{lockin}, nil).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, lockin,
		mock.MatchedBy(func(p domain.ProfitTransaction) bool {
			// 1000 principal at 50 bps is 5 per day
			return p.Quantity.Equal(decimal.RequireFromString("5")) &&
				p.UserID == lockin.UserID &&
				p.AccrualDate.Equal(runDate)
		}),
		mock.MatchedBy(func(c domain.WalletTransaction) bool {
			return c.Amount.Equal(decimal.RequireFromString("5")) &&
				c.Direction == domain.WalletCredit &&
				c.Kind == domain.TxnDailyProfit
		}),
		false,
	).Return(nil).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Processed)
	suite.Equal(0, summary.Completed)
	suite.Equal(0, summary.Failed)
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_CompletesOnFinalDay() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	userID := uuid.NewString()
	lockin := suite.activeLockin(userID, 0)
	lockin.EndDate = now.Add(-time.Hour)
	user := &domain.User{UserID: userID, Username: "alice", Email: "alice@example.com"}

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{lockin}, nil).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, lockin, mock.Anything, mock.Anything, true).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(user, nil).Once()
	suite.mockSender.On("SendLockinMatured", user.Email, user.Username, lockin.Name, lockin.PrincipalAmount.String()).Return(nil).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Processed)
	suite.Equal(1, summary.Completed)
	suite.mockSender.AssertExpectations(suite.T())
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_SkipsAlreadyCreditedDay() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	lockin := suite.activeLockin(uuid.NewString(), 10)
	lockin.LastAccrualDate = &runDate

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{lockin}, nil).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Processed)
	suite.Equal(1, summary.Skipped)
	suite.mockLockinRepo.AssertNotCalled(suite.T(), "ApplyDailyAccrual", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_DuplicateFromConcurrentRun() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	lockin := suite.activeLockin(uuid.NewString(), 10)

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{lockin}, nil).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, lockin, mock.Anything, mock.Anything, false).
		Return(apperrors.ErrDuplicate).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(0, summary.Processed)
	suite.Equal(1, summary.Skipped)
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_FailureDoesNotAbortBatch() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	bad := suite.activeLockin(uuid.NewString(), 10)
	good := suite.activeLockin(uuid.NewString(), 10)

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{bad, good}, nil).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, bad, mock.Anything, mock.Anything, false).
		Return(assert.AnError).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, good, mock.Anything, mock.Anything, false).
		Return(nil).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Processed)
	suite.Equal(1, summary.Failed)
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_EmailFailureDoesNotFailRun() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	userID := uuid.NewString()
	lockin := suite.activeLockin(userID, 0)
	lockin.EndDate = now.Add(-time.Hour)

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{lockin}, nil).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, lockin, mock.Anything, mock.Anything, true).Return(nil).Once()
	suite.mockUserRepo.On("FindUserByID", ctx, userID).Return(nil, assert.AnError).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Completed)
	suite.mockSender.AssertNotCalled(suite.T(), "SendLockinMatured", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccrualServiceTestSuite) TestRunDailyAccrual_ZeroRatePlanStillAccrues() {
	ctx := context.Background()
	now := time.Now().UTC()
	runDate := now.Truncate(24 * time.Hour)
	lockin := suite.activeLockin(uuid.NewString(), 10)
	lockin.SnapshotDailyRateBps = 0

	suite.mockLockinRepo.On("ListAccrualDue", ctx, runDate).Return([]domain.Lockin{lockin}, nil).Once()
	suite.mockLockinRepo.On("ApplyDailyAccrual", ctx, lockin,
		mock.MatchedBy(func(p domain.ProfitTransaction) bool {
			return p.Quantity.IsZero()
		}),
		mock.Anything, false,
	).Return(nil).Once()

	summary, err := suite.service.RunDailyAccrual(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(1, summary.Processed)
}

func (suite *AccrualServiceTestSuite) TestSweepCompleted() {
	ctx := context.Background()
	now := time.Now().UTC()

	suite.mockLockinRepo.On("MarkCompletedDue", ctx, now, "00000000-0000-0000-0000-000000000000").
		Return(int64(4), nil).Once()

	n, err := suite.service.SweepCompleted(ctx, now)

	suite.Require().NoError(err)
	suite.Equal(int64(4), n)
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func TestAccrualServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccrualServiceTestSuite))
}
