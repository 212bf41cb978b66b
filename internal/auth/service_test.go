package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mateflow/mateflow/internal/shared"
)

type stubRepo struct {
	byEmail map[string]*User
	byID    map[string]*User
	created *User
}

func newStubRepo() *stubRepo {
	return &stubRepo{byEmail: make(map[string]*User), byID: make(map[string]*User)}
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id string) (*User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) CreateUser(ctx context.Context, email, displayName, passwordHash string) (*User, error) {
	if _, ok := s.byEmail[email]; ok {
		return nil, shared.ErrConflict
	}
	u := &User{ID: "user-1", Email: email, DisplayName: displayName, PasswordHash: passwordHash}
	s.byEmail[email] = u
	s.byID[u.ID] = u
	s.created = u
	return u, nil
}

func seedUser(t *testing.T, repo *stubRepo, email, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{ID: "user-1", Email: email, PasswordHash: string(hash)}
	repo.byEmail[email] = u
	repo.byID[u.ID] = u
	return u
}

func TestAuthenticate(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "owner@shop.test", "correct horse")
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), Credentials{Email: "owner@shop.test", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.test", user.Email)
}

func TestAuthenticateTrimsEmail(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "owner@shop.test", "correct horse")
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), Credentials{Email: "  owner@shop.test  ", Password: "correct horse"})
	assert.NoError(t, err)
}

func TestAuthenticateDoesNotLeakWhichFieldFailed(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "owner@shop.test", "correct horse")
	svc := NewService(repo)

	_, unknownEmail := svc.Authenticate(context.Background(), Credentials{Email: "nobody@shop.test", Password: "correct horse"})
	_, wrongPassword := svc.Authenticate(context.Background(), Credentials{Email: "owner@shop.test", Password: "wrong"})

	assert.ErrorIs(t, unknownEmail, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassword, shared.ErrInvalidCredentials)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	user, err := svc.Register(context.Background(), RegisterInput{Email: "new@shop.test", Password: "secret pass", DisplayName: "New Owner"})
	require.NoError(t, err)

	assert.NotEqual(t, "secret pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret pass")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newStubRepo()
	seedUser(t, repo, "owner@shop.test", "pass")
	svc := NewService(repo)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "owner@shop.test", Password: "whatever1"})
	assert.ErrorIs(t, err, shared.ErrConflict)
}

func TestCurrentUserRequiresSession(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
