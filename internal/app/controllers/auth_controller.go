package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/app/services"
	"github.com/yigit/hirelytics/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// AdminLogin handles college admin login
// @Summary College admin login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "College code and admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request format"
// @Failure 401 {object} dto.APIResponse "Invalid college code or credentials"
// @Router /auth/admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Debug().Err(err).Msg("Invalid admin login payload")
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.authService.AdminLogin(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// StudentLogin handles student login by college code
// @Summary Student login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.StudentLoginRequest true "College code"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.APIResponse "Unknown college code or no dataset"
// @Failure 503 {object} dto.APIResponse "Data store unavailable"
// @Router /auth/student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Debug().Err(err).Msg("Invalid student login payload")
		middleware.RespondValidationError(ctx, err)
		return
	}

	resp, err := c.authService.StudentLogin(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Login successful"))
}

// Logout ends the caller's session
// @Summary Logout
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	c.authService.Logout(session)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Logged out"))
}

// Session returns the caller's session
// @Summary Current session
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Router /auth/session [get]
func (c *AuthController) Session(ctx *gin.Context) {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")))
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewSessionResponse(session), ""))
}
