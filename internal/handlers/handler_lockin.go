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

// lockinHandler handles HTTP requests for the lock-in ledger and its
// maturity actions.
type lockinHandler struct {
	lockinService portssvc.LockinSvcFacade
}

func newLockinHandler(ls portssvc.LockinSvcFacade) *lockinHandler {
	return &lockinHandler{
		lockinService: ls,
	}
}

// registerLockinRoutes registers routes related to lock-ins.
func registerLockinRoutes(rg *gin.RouterGroup, ls portssvc.LockinSvcFacade) {
	h := newLockinHandler(ls)

	lockins := rg.Group("/lockins")
	{
		lockins.POST("", h.createLockin)
		// :id carries the user id for the list route; gin requires one
		// wildcard name per position, and the maturity routes own it.
		lockins.GET("/:id", h.listLockinsByUser)
		lockins.POST("/:id/add-to-wallet", h.addToWallet)
		lockins.POST("/:id/relock", h.relock)
	}
}

// maturityStatus maps a maturity resolution error to its HTTP status.
func maturityStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "Lock-in not found"
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "Lock-in belongs to another user"
	case errors.Is(err, apperrors.ErrAlreadyProcessed):
		return http.StatusConflict, "Lock-in has already been processed"
	case errors.Is(err, apperrors.ErrNotMatured):
		return http.StatusUnprocessableEntity, "Lock-in has not matured yet"
	case errors.Is(err, apperrors.ErrInvalidPlan):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "Lock-in was modified concurrently, retry"
	default:
		return http.StatusInternalServerError, "Failed to resolve lock-in"
	}
}

// createLockin godoc
// @Summary Open a lock-in
// @Description Debits the wallet by the principal and opens a lock-in with the plan's current terms snapshotted
// @Tags lockins
// @Accept json
// @Produce json
// @Param lockin body dto.CreateLockinRequest true "Lock-in details"
// @Success 201 {object} dto.Envelope{data=dto.LockinResponse}
// @Failure 400 {object} dto.Envelope "Invalid input or plan"
// @Failure 403 {object} dto.Envelope "Cannot act for another user"
// @Failure 422 {object} dto.Envelope "Insufficient balance"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockins [post]
func (h *lockinHandler) createLockin(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateLockinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createLockin", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	lockin, err := h.lockinService.CreateLockin(c.Request.Context(), req, callerUserID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			c.JSON(http.StatusUnprocessableEntity, dto.Fail("Insufficient wallet balance"))
		case errors.Is(err, apperrors.ErrInvalidPlan):
			c.JSON(http.StatusBadRequest, dto.Fail("Plan does not exist or is no longer offered"))
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, dto.Fail("Cannot open a lock-in for another user"))
		default:
			logger.Error("Failed to create lockin", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create lock-in"))
		}
		return
	}

	c.JSON(http.StatusCreated, dto.OK(dto.ToLockinResponse(lockin)))
}

// listLockinsByUser godoc
// @Summary List a user's lock-ins
// @Description Retrieves the caller's lock-ins, most recent start date first
// @Tags lockins
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.Envelope{data=[]dto.LockinResponse}
// @Failure 403 {object} dto.Envelope "Lock-ins belong to another user"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockins/{userId} [get]
func (h *lockinHandler) listLockinsByUser(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID := c.Param("id")

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	lockins, err := h.lockinService.ListLockinsByUser(c.Request.Context(), userID, callerUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, dto.Fail("Lock-ins belong to another user"))
		} else {
			logger.Error("Failed to list lockins", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve lock-ins"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.OK(dto.ToListLockinResponse(lockins)))
}

// addToWallet godoc
// @Summary Resolve a matured lock-in to the wallet
// @Description Credits the principal back to the wallet. Daily profit was already credited during accrual
// @Tags lockins
// @Accept json
// @Produce json
// @Param id path string true "Lock-in ID"
// @Param body body dto.ResolveLockinRequest true "Owner confirmation"
// @Success 200 {object} dto.Envelope{data=dto.ResolveLockinResponse}
// @Failure 403 {object} dto.Envelope "Lock-in belongs to another user"
// @Failure 404 {object} dto.Envelope "Lock-in not found"
// @Failure 409 {object} dto.Envelope "Already processed"
// @Failure 422 {object} dto.Envelope "Not matured"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockins/{id}/add-to-wallet [post]
func (h *lockinHandler) addToWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lockinID := c.Param("id")

	var req dto.ResolveLockinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for addToWallet", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	wallet, err := h.lockinService.AddToWallet(c.Request.Context(), lockinID, req.UserID, callerUserID)
	if err != nil {
		status, msg := maturityStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to resolve lockin to wallet", slog.String("error", err.Error()), slog.String("lockin_id", lockinID))
		}
		c.JSON(status, dto.Fail(msg))
		return
	}

	resp := dto.ResolveLockinResponse{User: dto.ToWalletResponse(wallet)}
	c.JSON(http.StatusOK, dto.OKMessage(resp, "Principal returned to wallet"))
}

// relock godoc
// @Summary Relock a matured lock-in
// @Description Rolls the principal into a new lock-in on the given plan; the wallet balance is unchanged
// @Tags lockins
// @Accept json
// @Produce json
// @Param id path string true "Lock-in ID"
// @Param body body dto.RelockRequest true "New plan choice"
// @Success 200 {object} dto.Envelope{data=dto.RelockResponse}
// @Failure 400 {object} dto.Envelope "Invalid plan"
// @Failure 403 {object} dto.Envelope "Lock-in belongs to another user"
// @Failure 404 {object} dto.Envelope "Lock-in not found"
// @Failure 409 {object} dto.Envelope "Already processed"
// @Failure 422 {object} dto.Envelope "Not matured"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockins/{id}/relock [post]
func (h *lockinHandler) relock(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	lockinID := c.Param("id")

	var req dto.RelockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for relock", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	callerUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	next, wallet, err := h.lockinService.Relock(c.Request.Context(), lockinID, req.UserID, req.PlanID, callerUserID)
	if err != nil {
		status, msg := maturityStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to relock lockin", slog.String("error", err.Error()), slog.String("lockin_id", lockinID))
		}
		c.JSON(status, dto.Fail(msg))
		return
	}

	resp := dto.RelockResponse{
		User:      dto.ToWalletResponse(wallet),
		NewLockin: dto.ToLockinResponse(next),
	}
	c.JSON(http.StatusOK, dto.OKMessage(resp, "Principal rolled into a new lock-in"))
}
