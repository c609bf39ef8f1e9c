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

// planHandler handles HTTP requests for the lock-in plan catalog.
type planHandler struct {
	planService portssvc.PlanSvcFacade
}

func newPlanHandler(ps portssvc.PlanSvcFacade) *planHandler {
	return &planHandler{
		planService: ps,
	}
}

// registerPlanRoutes registers catalog reads for every authenticated user and
// catalog writes behind the admin middleware.
func registerPlanRoutes(rg *gin.RouterGroup, ps portssvc.PlanSvcFacade, adminOnly gin.HandlerFunc) {
	h := newPlanHandler(ps)

	plans := rg.Group("/lockin-plans")
	{
		plans.GET("", h.listPlans)
		plans.GET("/:id", h.getPlanByID)

		admin := plans.Group("", adminOnly)
		{
			admin.POST("", h.createPlan)
			admin.PUT("/:id", h.updatePlan)
			admin.DELETE("/:id", h.deletePlan)
		}
	}
}

// listPlans godoc
// @Summary List lock-in plans
// @Description Retrieves all plans currently offered
// @Tags plans
// @Produce json
// @Success 200 {object} dto.Envelope{data=[]dto.PlanResponse}
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockin-plans [get]
func (h *planHandler) listPlans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	plans, err := h.planService.ListPlans(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list plans", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve plans"))
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToListPlanResponse(plans)))
}

// getPlanByID godoc
// @Summary Get a plan
// @Description Retrieves a single plan by ID
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.Envelope{data=dto.PlanResponse}
// @Failure 404 {object} dto.Envelope "Plan not found"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockin-plans/{id} [get]
func (h *planHandler) getPlanByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("id")

	plan, err := h.planService.GetPlanByID(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Plan not found"))
		} else {
			logger.Error("Failed to get plan", slog.String("error", err.Error()), slog.String("plan_id", planID))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to retrieve plan"))
		}
		return
	}
	c.JSON(http.StatusOK, dto.OK(dto.ToPlanResponse(plan)))
}

// createPlan godoc
// @Summary Create a plan
// @Description Adds a new lock-in plan to the catalog (admin only)
// @Tags plans
// @Accept json
// @Produce json
// @Param plan body dto.CreatePlanRequest true "Plan details"
// @Success 201 {object} dto.Envelope{data=dto.PlanResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 403 {object} dto.Envelope "Admin only"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockin-plans [post]
func (h *planHandler) createPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createPlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, dto.Fail("A plan with this name already exists"))
		} else {
			logger.Error("Failed to create plan", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to create plan"))
		}
		return
	}

	logger.Info("Plan created", slog.String("plan_id", plan.PlanID))
	c.JSON(http.StatusCreated, dto.OK(dto.ToPlanResponse(plan)))
}

// updatePlan godoc
// @Summary Update a plan
// @Description Updates plan fields; lock-ins opened earlier keep their snapshotted terms (admin only)
// @Tags plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Param plan body dto.UpdatePlanRequest true "Fields to update"
// @Success 200 {object} dto.Envelope{data=dto.PlanResponse}
// @Failure 400 {object} dto.Envelope "Invalid input"
// @Failure 403 {object} dto.Envelope "Admin only"
// @Failure 404 {object} dto.Envelope "Plan not found"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockin-plans/{id} [put]
func (h *planHandler) updatePlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("id")

	var req dto.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for updatePlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.Fail("Invalid request format: "+err.Error()))
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), planID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Plan not found"))
		} else if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, dto.Fail(err.Error()))
		} else {
			logger.Error("Failed to update plan", slog.String("error", err.Error()), slog.String("plan_id", planID))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to update plan"))
		}
		return
	}

	logger.Info("Plan updated", slog.String("plan_id", planID))
	c.JSON(http.StatusOK, dto.OK(dto.ToPlanResponse(plan)))
}

// deletePlan godoc
// @Summary Delete a plan
// @Description Removes a plan from the catalog; existing lock-ins keep their snapshotted terms. The response flags whether active lock-ins still reference the plan (admin only)
// @Tags plans
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} dto.Envelope{data=dto.DeletePlanResponse}
// @Failure 403 {object} dto.Envelope "Admin only"
// @Failure 404 {object} dto.Envelope "Plan not found"
// @Failure 500 {object} dto.Envelope
// @Security BearerAuth
// @Router /lockin-plans/{id} [delete]
func (h *planHandler) deletePlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	planID := c.Param("id")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.Fail("Unauthorized"))
		return
	}

	referenced, err := h.planService.DeletePlan(c.Request.Context(), planID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.Fail("Plan not found"))
		} else {
			logger.Error("Failed to delete plan", slog.String("error", err.Error()), slog.String("plan_id", planID))
			c.JSON(http.StatusInternalServerError, dto.Fail("Failed to delete plan"))
		}
		return
	}

	resp := dto.DeletePlanResponse{PlanID: planID, ReferencedByActive: referenced}
	if referenced {
		logger.Warn("Deleted plan still referenced by active lockins", slog.String("plan_id", planID))
		c.JSON(http.StatusOK, dto.OKMessage(resp, "Plan removed; active lock-ins still reference it and keep their terms"))
		return
	}
	logger.Info("Plan deleted", slog.String("plan_id", planID))
	c.JSON(http.StatusOK, dto.OK(resp))
}
