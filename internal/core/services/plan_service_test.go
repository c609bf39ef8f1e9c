package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	"github.com/nexavault/lockin_backend/internal/core/domain"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/core/services"
	"github.com/nexavault/lockin_backend/internal/dto"
)

type PlanServiceTestSuite struct {
	suite.Suite
	mockPlanRepo   *MockPlanRepository
	mockLockinRepo *MockLockinRepository
	service        portssvc.PlanSvcFacade
}

func (suite *PlanServiceTestSuite) SetupTest() {
	suite.mockPlanRepo = new(MockPlanRepository)
	suite.mockLockinRepo = new(MockLockinRepository)
	suite.service = services.NewPlanService(suite.mockPlanRepo, suite.mockLockinRepo)
}

func (suite *PlanServiceTestSuite) TestCreatePlan_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreatePlanRequest{
		Name:         "30 Day Saver",
		DurationDays: 30,
		DailyRateBps: 50,
		Description:  "Short term plan",
	}

	suite.mockPlanRepo.On("SavePlan", ctx, mock.MatchedBy(func(p domain.LockinPlan) bool {
		return p.Name == req.Name && p.DurationDays == 30 && p.DailyRateBps == 50 && p.IsActive && p.CreatedBy == creatorUserID
	})).Return(nil).Once()

	plan, err := suite.service.CreatePlan(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(plan)
	suite.Equal(req.Name, plan.Name)
	suite.NotEmpty(plan.PlanID)
	suite.mockPlanRepo.AssertExpectations(suite.T())
}

func (suite *PlanServiceTestSuite) TestCreatePlan_InvalidDuration() {
	ctx := context.Background()
	req := dto.CreatePlanRequest{Name: "Bad", DurationDays: 0, DailyRateBps: 50}

	plan, err := suite.service.CreatePlan(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(plan)
	suite.mockPlanRepo.AssertNotCalled(suite.T(), "SavePlan", mock.Anything, mock.Anything)
}

func (suite *PlanServiceTestSuite) TestCreatePlan_RateOutOfRange() {
	ctx := context.Background()
	req := dto.CreatePlanRequest{Name: "Bad", DurationDays: 30, DailyRateBps: 10001}

	plan, err := suite.service.CreatePlan(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(plan)
}

func (suite *PlanServiceTestSuite) TestCreatePlan_ZeroRateAllowed() {
	ctx := context.Background()
	req := dto.CreatePlanRequest{Name: "Zero", DurationDays: 7, DailyRateBps: 0}

	suite.mockPlanRepo.On("SavePlan", ctx, mock.AnythingOfType("domain.LockinPlan")).Return(nil).Once()

	plan, err := suite.service.CreatePlan(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(int64(0), plan.DailyRateBps)
	suite.mockPlanRepo.AssertExpectations(suite.T())
}

func (suite *PlanServiceTestSuite) TestUpdatePlan_PartialFields() {
	ctx := context.Background()
	planID := uuid.NewString()
	userID := uuid.NewString()
	existing := &domain.LockinPlan{
		PlanID:       planID,
		Name:         "Old Name",
		DurationDays: 30,
		DailyRateBps: 50,
		IsActive:     true,
	}
	newRate := int64(75)
	req := dto.UpdatePlanRequest{DailyRateBps: &newRate}

	suite.mockPlanRepo.On("FindPlanByID", ctx, planID).Return(existing, nil).Once()
	suite.mockPlanRepo.On("UpdatePlan", ctx, mock.MatchedBy(func(p domain.LockinPlan) bool {
		return p.DailyRateBps == 75 && p.Name == "Old Name" && p.DurationDays == 30 && p.LastUpdatedBy == userID
	})).Return(nil).Once()

	plan, err := suite.service.UpdatePlan(ctx, planID, req, userID)

	suite.Require().NoError(err)
	suite.Equal(int64(75), plan.DailyRateBps)
	suite.mockPlanRepo.AssertExpectations(suite.T())
}

func (suite *PlanServiceTestSuite) TestUpdatePlan_InvalidDuration() {
	ctx := context.Background()
	planID := uuid.NewString()
	existing := &domain.LockinPlan{PlanID: planID, DurationDays: 30, DailyRateBps: 50}
	badDuration := 0
	req := dto.UpdatePlanRequest{DurationDays: &badDuration}

	suite.mockPlanRepo.On("FindPlanByID", ctx, planID).Return(existing, nil).Once()

	plan, err := suite.service.UpdatePlan(ctx, planID, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(plan)
	suite.mockPlanRepo.AssertNotCalled(suite.T(), "UpdatePlan", mock.Anything, mock.Anything)
}

func (suite *PlanServiceTestSuite) TestUpdatePlan_NotFound() {
	ctx := context.Background()
	planID := uuid.NewString()

	suite.mockPlanRepo.On("FindPlanByID", ctx, planID).Return(nil, apperrors.ErrNotFound).Once()

	plan, err := suite.service.UpdatePlan(ctx, planID, dto.UpdatePlanRequest{}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(plan)
}

func (suite *PlanServiceTestSuite) TestDeletePlan_NoActiveReferences() {
	ctx := context.Background()
	planID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLockinRepo.On("CountActiveByPlan", ctx, planID).Return(int64(0), nil).Once()
	suite.mockPlanRepo.On("DeactivatePlan", ctx, planID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	referenced, err := suite.service.DeletePlan(ctx, planID, userID)

	suite.Require().NoError(err)
	suite.False(referenced)
	suite.mockPlanRepo.AssertExpectations(suite.T())
	suite.mockLockinRepo.AssertExpectations(suite.T())
}

func (suite *PlanServiceTestSuite) TestDeletePlan_StillReferenced() {
	ctx := context.Background()
	planID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLockinRepo.On("CountActiveByPlan", ctx, planID).Return(int64(3), nil).Once()
	suite.mockPlanRepo.On("DeactivatePlan", ctx, planID, userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	referenced, err := suite.service.DeletePlan(ctx, planID, userID)

	suite.Require().NoError(err)
	suite.True(referenced)
}

func (suite *PlanServiceTestSuite) TestDeletePlan_NotFound() {
	ctx := context.Background()
	planID := uuid.NewString()
	userID := uuid.NewString()

	suite.mockLockinRepo.On("CountActiveByPlan", ctx, planID).Return(int64(0), nil).Once()
	suite.mockPlanRepo.On("DeactivatePlan", ctx, planID, userID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrNotFound).Once()

	_, err := suite.service.DeletePlan(ctx, planID, userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PlanServiceTestSuite) TestListPlans_Success() {
	ctx := context.Background()
	expected := []domain.LockinPlan{
		{PlanID: uuid.NewString(), Name: "7 Day", DurationDays: 7},
		{PlanID: uuid.NewString(), Name: "30 Day", DurationDays: 30},
	}

	suite.mockPlanRepo.On("ListPlans", ctx).Return(expected, nil).Once()

	plans, err := suite.service.ListPlans(ctx)

	suite.Require().NoError(err)
	suite.Equal(expected, plans)
}

func (suite *PlanServiceTestSuite) TestListPlans_RepoError() {
	ctx := context.Background()

	suite.mockPlanRepo.On("ListPlans", ctx).Return(nil, assert.AnError).Once()

	plans, err := suite.service.ListPlans(ctx)

	suite.Require().Error(err)
	suite.ErrorIs(err, assert.AnError)
	suite.Nil(plans)
}

// Updating a plan must not reach back into lock-ins created earlier; those
// carry their own snapshot of duration and rate.
func (suite *PlanServiceTestSuite) TestUpdatePlan_DoesNotTouchLockins() {
	ctx := context.Background()
	planID := uuid.NewString()
	existing := &domain.LockinPlan{PlanID: planID, Name: "Plan", DurationDays: 30, DailyRateBps: 50}
	newName := "Renamed"

	suite.mockPlanRepo.On("FindPlanByID", ctx, planID).Return(existing, nil).Once()
	suite.mockPlanRepo.On("UpdatePlan", ctx, mock.AnythingOfType("domain.LockinPlan")).Return(nil).Once()

	_, err := suite.service.UpdatePlan(ctx, planID, dto.UpdatePlanRequest{Name: &newName}, uuid.NewString())

	suite.Require().NoError(err)
	suite.mockLockinRepo.AssertNotCalled(suite.T(), "ListLockinsByUser", mock.Anything, mock.Anything)
}

func TestPlanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlanServiceTestSuite))
}
