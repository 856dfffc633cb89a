package identity

import (
	"context"
	"log/slog"

	"github.com/hrms-platform/leave-service-go/internal/domain/identity"
	"github.com/hrms-platform/leave-service-go/internal/pkg/token"
)

// Resolver turns verified token claims into a Principal and resolves the
// principal's employee record from the directory when an operation needs
// ownership or team checks.
type Resolver struct {
	directory identity.Directory
	logger    *slog.Logger
}

func NewResolver(directory identity.Directory, logger *slog.Logger) *Resolver {
	return &Resolver{directory: directory, logger: logger}
}

// PrincipalFromClaims maps identity-provider groups to roles. Unknown
// groups are logged and ignored; they never grant privileges.
func (r *Resolver) PrincipalFromClaims(claims token.Claims) identity.Principal {
	roles, unknown := identity.RolesFromGroups(claims.Groups)
	for _, group := range unknown {
		r.logger.Warn("unrecognized identity group ignored",
			"group", group,
			"subject", claims.Subject,
		)
	}
	return identity.Principal{
		Subject: claims.Subject,
		Email:   claims.Email,
		Roles:   roles,
	}
}

// ResolveEmployee looks up the caller's employee record by email and fills
// in the principal's employee id. Callers that only need role checks skip
// this.
func (r *Resolver) ResolveEmployee(ctx context.Context, p *identity.Principal) (identity.EmployeeRecord, error) {
	record, err := r.directory.GetEmployeeByEmail(ctx, p.Email)
	if err != nil {
		return identity.EmployeeRecord{}, err
	}
	p.EmployeeID = record.ID
	return record, nil
}
