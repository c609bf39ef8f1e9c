package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/dto"
	"github.com/nexavault/lockin_backend/internal/middleware"
)

// walletHandler handles wallet balance and history reads.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
}

func newWalletHandler(ws portssvc.WalletSvcFacade) *walletHandler {
	return &walletHandler{
		walletService: ws,
	}
}

// registerWalletRoutes registers routes related to wallets.
func registerWalletRoutes(rg *gin.RouterGroup, ws portssvc.WalletSvcFacade) {
	h := newWalletHandler(ws)

	wallets := rg.Group("/wallets")
	{
		wallets.GET("/:userId", h.getWallet)
	}
}

// getWallet godoc
// @Summary Get wallet
// @Description Retrieves the caller's wallet balance and recent audit records
// @Tags wallets
// @Produce json
// @Param userId path string true "User ID"
// @Param limit query int false "Max transactions to return" default(50)
// @Success 200 {object} dto.Envelope{data=dto.WalletDetailResponse}
// @Failure 403 {object} dto.Envelope "Wallet belongs to another user"
// @Failure 404 {object} dto.Envelope "Wallet not found"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /wallets/{userId} [get]
func (h *walletHandler) getWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userId")

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, dto.Fail("Invalid limit parameter"))
			return
		}
		limit = parsed
	}

	wallet, err := h.walletService.GetWalletByUserID(c.Request.Context(), userID, callerUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.Fail("Wallet belongs to another user"))
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.Fail("Wallet not found"))
		default:
			logger.Error("Failed to get wallet", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve wallet"))
		}
		return
	}

	txns, err := h.walletService.ListTransactions(c.Request.Context(), userID, limit, callerUserID)
	if err != nil {
		logger.Error("Failed to list wallet transactions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve wallet"))
		return
	}

	resp := dto.WalletDetailResponse{
		Wallet:       dto.ToWalletResponse(wallet),
		Transactions: dto.ToWalletTransactionResponses(txns),
	}
	c.JSON(http.StatusOK, dto.OK(resp))
}
