package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	appauth "github.com/yigit/hirelytics/internal/app/auth"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/auth"
)

const (
	sessionContextKey = "session"

	// Browsers cannot set headers on a websocket handshake.
	tokenQueryParam = "access_token"
)

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	sessions   *appauth.SessionStore
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, sessions *appauth.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
	}
}

// SessionAuth validates the bearer token and requires the session it names to
// still be live, so logging out revokes the token.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" && websocket.IsWebSocketUpgrade(c.Request) {
			header = c.Query(tokenQueryParam)
		}
		tokenString, err := auth.ExtractBearerToken(header)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		claims, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrorCodeExpiredToken, "Authentication failed", "Token has expired")
				return
			}
			abortUnauthorized(c, dto.ErrorCodeInvalidToken, "Authentication failed", "Invalid token")
			return
		}

		session, err := m.sessions.Get(claims.SessionID)
		if err != nil || session.Role != claims.Role || session.CollegeCode != claims.CollegeCode {
			abortUnauthorized(c, dto.ErrorCodeTokenNotFound, "Authentication failed", "Session has ended")
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// RoleRequired aborts with 403 unless the session holds one of roles.
func (m *AuthMiddleware) RoleRequired(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Session not found")
			return
		}

		if err := appauth.RequireRole(session, roles...); err != nil {
			HandleAPIError(c, err)
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentSession returns the session stored by SessionAuth.
func CurrentSession(c *gin.Context) (*domain.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*domain.Session)
	return session, ok && session != nil
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
