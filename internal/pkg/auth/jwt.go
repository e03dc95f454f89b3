package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/yigit/hirelytics/internal/domain"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey   string
	TokenExp    time.Duration
	TokenIssuer string
}

// JWTService signs and verifies session tokens.
type JWTService struct {
	config JWTConfig
}

func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// Claims identifies the server-side session a token belongs to.
type Claims struct {
	SessionID   string      `json:"sid"`
	Role        domain.Role `json:"role"`
	CollegeCode string      `json:"college"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token for session that expires with it.
func (s *JWTService) GenerateToken(session *domain.Session) (token string, expiresIn int64, err error) {
	now := time.Now()
	claims := &Claims{
		SessionID:   session.ID,
		Role:        session.Role,
		CollegeCode: session.CollegeCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   session.CollegeCode,
			ID:        uuid.NewString(),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, int64(time.Until(session.ExpiresAt).Seconds()), nil
}

// ValidateToken verifies the signature, expiry and issuer of tokenString.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	}, jwt.WithIssuer(s.config.TokenIssuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrInvalidFormat
	}
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token), nil
	}
	return authHeader, nil
}
