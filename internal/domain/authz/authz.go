// Package authz is the authorization capability injected into every domain
// operation. It reads the caller identity placed in the context by the HTTP
// auth middleware; it never authenticates anyone itself.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uniedit/returns/internal/model"
	"github.com/uniedit/returns/internal/utils/requestctx"
)

var (
	ErrUnauthenticated = errors.New("caller identity missing")
	ErrAccessDenied    = errors.New("access denied")
)

// Authorizer answers role and ownership questions about the current caller.
type Authorizer interface {
	// Identity returns the caller or ErrUnauthenticated.
	Identity(ctx context.Context) (*model.Identity, error)

	// RequireRole fails with ErrAccessDenied unless the caller has the role.
	RequireRole(ctx context.Context, role model.Role) (*model.Identity, error)

	// RequireSelf fails with ErrAccessDenied unless the caller is userID.
	RequireSelf(ctx context.Context, userID uuid.UUID) (*model.Identity, error)

	// RequireOwnerOrAdmin fails with ErrAccessDenied unless the caller is ownerID or an admin.
	RequireOwnerOrAdmin(ctx context.Context, ownerID uuid.UUID) (*model.Identity, error)
}

type contextAuthorizer struct{}

// New returns an Authorizer backed by requestctx.
func New() Authorizer {
	return contextAuthorizer{}
}

func (contextAuthorizer) Identity(ctx context.Context) (*model.Identity, error) {
	id := requestctx.Identity(ctx)
	if id == nil || id.UserID == uuid.Nil || !id.Role.IsValid() {
		return nil, ErrUnauthenticated
	}
	return id, nil
}

func (a contextAuthorizer) RequireRole(ctx context.Context, role model.Role) (*model.Identity, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if id.Role != role {
		return nil, fmt.Errorf("%w: requires role %s", ErrAccessDenied, role)
	}
	return id, nil
}

func (a contextAuthorizer) RequireSelf(ctx context.Context, userID uuid.UUID) (*model.Identity, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if id.UserID != userID {
		return nil, fmt.Errorf("%w: caller does not match user", ErrAccessDenied)
	}
	return id, nil
}

func (a contextAuthorizer) RequireOwnerOrAdmin(ctx context.Context, ownerID uuid.UUID) (*model.Identity, error) {
	id, err := a.Identity(ctx)
	if err != nil {
		return nil, err
	}
	if id.IsAdmin() || id.UserID == ownerID {
		return id, nil
	}
	return nil, fmt.Errorf("%w: not the owner", ErrAccessDenied)
}
