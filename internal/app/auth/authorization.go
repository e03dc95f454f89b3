package auth

import (
	"fmt"
	"slices"

	"github.com/yigit/hirelytics/internal/domain"
	"github.com/yigit/hirelytics/internal/pkg/apperrors"
)

// RequireRole returns apperrors.ErrPermissionDenied unless the session holds
// one of roles.
func RequireRole(session *domain.Session, roles ...domain.Role) error {
	if session == nil {
		return apperrors.ErrSessionNotFound
	}
	if !slices.Contains(roles, session.Role) {
		return apperrors.NewCustomError(apperrors.ErrPermissionDenied,
			fmt.Sprintf("role %s cannot access this resource", session.Role))
	}
	return nil
}
