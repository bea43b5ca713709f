package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/samridhi-events/backend/internal/auth"
	"github.com/samridhi-events/backend/internal/models"
)

type fakeStore struct {
	users map[uuid.UUID]*models.User
	err   error
}

func (s *fakeStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return u, nil
}

func newTestAuthorizer(store *fakeStore) (*Authorizer, *auth.JWTService) {
	jwt := auth.NewJWTService("test-secret", 1)
	return NewAuthorizer(jwt, store, zap.NewNop()), jwt
}

func TestAuthorizeSuccess(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{users: map[uuid.UUID]*models.User{
		id: {ID: id, Email: "u1@example.com", FullName: "u1", Role: models.RoleCoordinator},
	}}
	a, jwt := newTestAuthorizer(store)

	token, err := jwt.Generate(id, "u1@example.com", string(models.RoleCoordinator))
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	user, err := a.Authorize(context.Background(), token)
	if err != nil {
		t.Fatalf("Authorize() error = %v, want nil", err)
	}
	if user.ID != id {
		t.Errorf("user ID = %s, want %s", user.ID, id)
	}
	if user.Role != models.RoleCoordinator {
		t.Errorf("role = %s, want coordinator", user.Role)
	}
}

func TestAuthorizeInvalidToken(t *testing.T) {
	a, _ := newTestAuthorizer(&fakeStore{})

	if _, err := a.Authorize(context.Background(), "not-a-token"); !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("Authorize() error = %v, want %v", err, ErrIdentityNotFound)
	}
}

func TestAuthorizeIdentityNotFound(t *testing.T) {
	store := &fakeStore{users: map[uuid.UUID]*models.User{}}
	a, jwt := newTestAuthorizer(store)

	token, _ := jwt.Generate(uuid.New(), "ghost@example.com", "super")
	if _, err := a.Authorize(context.Background(), token); !errors.Is(err, ErrIdentityNotFound) {
		t.Errorf("Authorize() error = %v, want %v", err, ErrIdentityNotFound)
	}
}

func TestAuthorizeInsufficientRole(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{users: map[uuid.UUID]*models.User{
		id: {ID: id, Role: models.RolePending},
	}}
	a, jwt := newTestAuthorizer(store)

	token, _ := jwt.Generate(id, "pending@example.com", string(models.RolePending))
	if _, err := a.Authorize(context.Background(), token); !errors.Is(err, ErrInsufficientRole) {
		t.Errorf("Authorize() error = %v, want %v", err, ErrInsufficientRole)
	}
}

// A revoked role rejects even when the token still carries an approved role.
func TestAuthorizeRevokedRole(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{users: map[uuid.UUID]*models.User{
		id: {ID: id, Role: models.RolePending},
	}}
	a, jwt := newTestAuthorizer(store)

	token, _ := jwt.Generate(id, "demoted@example.com", string(models.RoleAdmin))
	if _, err := a.Authorize(context.Background(), token); !errors.Is(err, ErrInsufficientRole) {
		t.Errorf("Authorize() error = %v, want %v", err, ErrInsufficientRole)
	}
}

func TestAuthorizeStoreErrorFailsClosed(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	a, jwt := newTestAuthorizer(store)

	token, _ := jwt.Generate(uuid.New(), "u@example.com", "super")
	if _, err := a.Authorize(context.Background(), token); !errors.Is(err, ErrStoreUnavailable) {
		t.Errorf("Authorize() error = %v, want %v", err, ErrStoreUnavailable)
	}
}
