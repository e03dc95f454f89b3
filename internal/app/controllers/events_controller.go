package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/hirelytics/internal/middleware"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
	"github.com/yigit/hirelytics/internal/pkg/websocket"
)

// EventsController streams dataset changes to signed-in users.
type EventsController struct {
	hub    *websocket.Hub
	logger zerolog.Logger
}

func NewEventsController(hub *websocket.Hub, logger zerolog.Logger) *EventsController {
	return &EventsController{hub: hub, logger: logger}
}

// Stream godoc
// @Summary Live dataset change feed
// @Description Upgrades to a WebSocket that receives a JSON event whenever the caller's college dataset is uploaded or deleted. Browsers may pass the token as the access_token query parameter.
// @Tags events
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Router /events/ws [get]
func (c *EventsController) Stream(ctx *gin.Context) {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrSessionNotFound)
		return
	}

	// Upgrade writes its own error response.
	if err := c.hub.Serve(ctx.Writer, ctx.Request, session.CollegeCode); err != nil {
		c.logger.Warn().Err(err).Str("college", session.CollegeCode).Msg("Failed to upgrade connection to WebSocket")
	}
}
