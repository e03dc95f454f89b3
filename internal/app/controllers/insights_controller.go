package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/app/services"
	"github.com/yigit/hirelytics/internal/middleware"
	"github.com/yigit/hirelytics/internal/pkg/insights"
)

// InsightsController serves the college insights to both roles.
type InsightsController struct {
	insightsService *services.InsightsService
	logger          zerolog.Logger
}

// NewInsightsController creates a new InsightsController
func NewInsightsController(insightsService *services.InsightsService, logger zerolog.Logger) *InsightsController {
	return &InsightsController{insightsService: insightsService, logger: logger}
}

// Get returns the insights as JSON
// @Summary College insights
// @Tags insights
// @Security BearerAuth
// @Param branch query string false "Branch filter"
// @Param year query string false "Year filter"
// @Success 200 {object} dto.APIResponse{data=insights.Insights}
// @Failure 404 {object} dto.APIResponse "No dataset"
// @Router /insights [get]
func (c *InsightsController) Get(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)

	var filter insights.Filter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	in, err := c.insightsService.Compute(ctx.Request.Context(), session.CollegeCode, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(in, ""))
}

// Dashboard returns the insights rendered as an HTML page
// @Summary College insights dashboard
// @Tags insights
// @Security BearerAuth
// @Produce html
// @Router /insights/dashboard [get]
func (c *InsightsController) Dashboard(ctx *gin.Context) {
	session, _ := middleware.CurrentSession(ctx)

	var filter insights.Filter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.RespondValidationError(ctx, err)
		return
	}

	page, err := c.insightsService.Dashboard(ctx.Request.Context(), session.CollegeCode, filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
