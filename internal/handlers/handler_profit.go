package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexavault/lockin_backend/internal/apperrors"
	portssvc "github.com/nexavault/lockin_backend/internal/core/ports/services"
	"github.com/nexavault/lockin_backend/internal/dto"
	"github.com/nexavault/lockin_backend/internal/middleware"
)

// profitHandler handles profit reporting reads.
type profitHandler struct {
	profitService portssvc.ProfitSvcFacade
}

func newProfitHandler(ps portssvc.ProfitSvcFacade) *profitHandler {
	return &profitHandler{
		profitService: ps,
	}
}

// registerProfitRoutes registers routes related to profit reporting.
func registerProfitRoutes(rg *gin.RouterGroup, ps portssvc.ProfitSvcFacade) {
	h := newProfitHandler(ps)

	profits := rg.Group("/profits")
	{
		profits.GET("/:userId", h.getProfitSummary)
	}
}

// getProfitSummary godoc
// @Summary Get profit summary
// @Description Retrieves the caller's profit position: profit on unresolved lock-ins, lifetime total and the accrual history
// @Tags profits
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.Envelope{data=dto.ProfitSummaryResponse}
// @Failure 403 {object} dto.Envelope "Summary belongs to another user"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /profits/{userId} [get]
func (h *profitHandler) getProfitSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("userId")

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	summary, err := h.profitService.GetProfitSummary(c.Request.Context(), userID, callerUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, dto.Fail("Profit summary belongs to another user"))
		} else {
			logger.Error("Failed to get profit summary", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve profit summary"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK(summary))
}
