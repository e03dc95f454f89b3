package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hirelytics/internal/app/models/dto"
)

// HealthController reports liveness.
type HealthController struct {
	storageDriver string
}

func NewHealthController(storageDriver string) *HealthController {
	return &HealthController{storageDriver: storageDriver}
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse}
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{
		Status:  "ok",
		Storage: c.storageDriver,
	}, ""))
}
