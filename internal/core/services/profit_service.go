package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/nexavault/lockin_backend/internal/core/domain"
	portsrepo "github.com/nexavault/lockin_backend/internal/core/ports/repositories"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/dto"
	"github.com/nexavault/lockin_backend/internal/middleware"
)

// profitService aggregates accrual history for presentation.
type profitService struct {
	profitRepo portsrepo.ProfitRepository
	lockinRepo portsrepo.LockinReader
	userRepo   portsrepo.UserReader
}

// NewProfitService creates a new ProfitService.
func NewProfitService(profitRepo portsrepo.ProfitRepository, lockinRepo portsrepo.LockinReader, userRepo portsrepo.UserReader) portssvc.ProfitSvcFacade {
	return &profitService{
		profitRepo: profitRepo,
		lockinRepo: lockinRepo,
		userRepo:   userRepo,
	}
}

var _ portssvc.ProfitSvcFacade = (*profitService)(nil)

// GetProfitSummary returns the caller's accrual summary and history.
// CurrentProfit only counts lock-ins whose payout has not been resolved yet.
func (s *profitService) GetProfitSummary(ctx context.Context, userID string, callerUserID string) (*dto.ProfitSummaryResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := ensureSelfOrAdmin(ctx, s.userRepo, userID, callerUserID); err != nil {
		return nil, err
	}

	lockins, err := s.lockinRepo.ListLockinsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list lockins for profit summary", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build profit summary: %w", err)
	}

	currentProfit := decimal.Zero
	for _, l := range lockins {
		if l.Status != domain.LockinProcessed {
			currentProfit = currentProfit.Add(l.AccruedProfitTotal)
		}
	}

	totalEarned, err := s.profitRepo.SumProfitByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to sum profits", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build profit summary: %w", err)
	}

	txns, err := s.profitRepo.ListProfitsByUser(ctx, userID)
	if err != nil {
		logger.Error("Failed to list profit transactions", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to build profit summary: %w", err)
	}

	var lastAdded *domain.ProfitTransaction
	for i := range txns {
		if lastAdded == nil || txns[i].CreatedAt.After(lastAdded.CreatedAt) {
			lastAdded = &txns[i]
		}
	}

	summary := &dto.ProfitSummaryResponse{
		CurrentProfit:      currentProfit,
		TotalProfitsEarned: totalEarned,
		ProfitTransactions: dto.ToProfitTransactionResponses(txns),
	}
	if lastAdded != nil {
		t := lastAdded.CreatedAt
		summary.LastProfitAdded = &t
	}
	return summary, nil
}
