package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/hirelytics/internal/app/auth"
	"github.com/yigit/hirelytics/internal/app/models/dto"
	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
	"github.com/yigit/hirelytics/internal/pkg/auth"
	"github.com/yigit/hirelytics/internal/pkg/validation"
)

// credentials is one college admin login.
type credentials struct {
	username string
	password string
}

// AuthService handles authentication operations
type AuthService struct {
	colleges   map[string]credentials
	sessions   *appauth.SessionStore
	jwtService *auth.JWTService
	datasets   *DatasetService
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService. colleges maps a college code to
// "username:password"; the password may be a bcrypt hash.
func NewAuthService(
	colleges map[string]string,
	sessions *appauth.SessionStore,
	jwtService *auth.JWTService,
	datasets *DatasetService,
	logger zerolog.Logger,
) *AuthService {
	parsed := make(map[string]credentials, len(colleges))
	for code, raw := range colleges {
		user, pass, _ := strings.Cut(raw, ":")
		parsed[strings.TrimSpace(code)] = credentials{username: strings.TrimSpace(user), password: pass}
	}
	return &AuthService{
		colleges:   parsed,
		sessions:   sessions,
		jwtService: jwtService,
		datasets:   datasets,
		logger:     logger,
	}
}

// AdminLogin checks the configured admin credentials of a college.
func (s *AuthService) AdminLogin(ctx context.Context, req dto.AdminLoginRequest) (*dto.AuthResponse, error) {
	code := validation.NormalizeCollegeCode(req.CollegeCode)
	creds, ok := s.colleges[code]
	if !ok {
		s.logger.Warn().Str("college", code).Msg("Admin login for unknown college code")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCollegeCode, "Invalid college code")
	}

	if req.Username != creds.username || !auth.CheckPassword(creds.password, req.Password) {
		s.logger.Warn().Str("college", code).Str("username", req.Username).Msg("Admin login rejected")
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.issue(domain.RoleAdmin, code, creds.username)
}

// StudentLogin accepts any well formed college code that has a dataset.
func (s *AuthService) StudentLogin(ctx context.Context, req dto.StudentLoginRequest) (*dto.AuthResponse, error) {
	code := validation.NormalizeCollegeCode(req.CollegeCode)
	if !validation.ValidCollegeCode(code) {
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCollegeCode, "Invalid college code")
	}

	exists, err := s.datasets.Exists(ctx, code)
	if err != nil {
		return nil, err
	}
	if !exists {
		s.logger.Info().Str("college", code).Msg("Student login for college without dataset")
		return nil, apperrors.NewCustomError(apperrors.ErrInvalidCollegeCode,
			"Invalid college code or no placement data uploaded yet")
	}

	return s.issue(domain.RoleStudent, code, "")
}

// Logout ends the session.
func (s *AuthService) Logout(session *domain.Session) {
	s.sessions.Delete(session.ID)
	s.logger.Info().Str("college", session.CollegeCode).Str("role", string(session.Role)).Msg("Logged out")
}

func (s *AuthService) issue(role domain.Role, code, username string) (*dto.AuthResponse, error) {
	session := s.sessions.Create(role, code, username)

	token, expiresIn, err := s.jwtService.GenerateToken(session)
	if err != nil {
		s.sessions.Delete(session.ID)
		return nil, err
	}

	s.logger.Info().Str("college", code).Str("role", string(role)).Msg("Session started")
	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		Session: dto.NewSessionResponse(session),
	}, nil
}
