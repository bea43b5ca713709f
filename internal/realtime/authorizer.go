package realtime

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/auth"
	"github.com/samridhi-events/backend/internal/models"
)

// Handshake rejection reasons. These are terminal for the connection attempt;
// the client may retry with fresh credentials.
var (
	ErrIdentityNotFound = errors.New("unauthorized: identity not found")
	ErrInsufficientRole = errors.New("unauthorized: insufficient permissions")
	ErrStoreUnavailable = errors.New("unauthorized: server error")
)

// IdentityStore resolves users for the realtime handshake.
type IdentityStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authorizer gates websocket handshakes: it resolves the caller's identity
// from the supplied token and admits only approved roles. Any store failure
// rejects the handshake (fails closed).
type Authorizer struct {
	jwt    *auth.JWTService
	store  IdentityStore
	logger *zap.Logger
}

// NewAuthorizer creates a connection authorizer.
func NewAuthorizer(jwt *auth.JWTService, store IdentityStore, logger *zap.Logger) *Authorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{jwt: jwt, store: store, logger: logger}
}

// Authorize validates the handshake token and resolves the identity fresh
// from the store, so the role in force now wins over the role baked into the
// token. Returns the identity to attach to the connection, or a rejection.
func (a *Authorizer) Authorize(ctx context.Context, token string) (*models.User, error) {
	claims, err := a.jwt.Validate(token)
	if err != nil {
		return nil, ErrIdentityNotFound
	}

	user, err := a.store.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		a.logger.Error("identity lookup failed", zap.String("user_id", claims.UserID.String()), zap.Error(err))
		return nil, ErrStoreUnavailable
	}
	if user == nil {
		return nil, ErrIdentityNotFound
	}
	if !user.Role.Approved() {
		return nil, ErrInsufficientRole
	}
	return user, nil
}
