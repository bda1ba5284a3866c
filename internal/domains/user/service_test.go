package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vitalis-health/vitalis/pkg/Logger"
)

type memUserRepo struct {
	byEmail map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byEmail: make(map[string]*User)}
}

func (m *memUserRepo) Create(u *User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUserRepo) GetByID(id string) (*User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memUserRepo) GetByEmail(email string) (*User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (m *memUserRepo) EmailExists(email string) (bool, error) {
	_, ok := m.byEmail[email]
	return ok, nil
}

func newTestUserService() UserService {
	return NewUserService(newMemUserRepo(), Logger.New(true), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, CreateUserRequest{
		DisplayName: "Jane Wu",
		Email:       "jane@example.com",
		Password:    "securePassword123",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Email != "jane@example.com" {
		t.Errorf("Expected registered email, got %s", resp.Email)
	}

	user, tokens, err := svc.Login(ctx, LoginRequest{
		Email:    "jane@example.com",
		Password: "securePassword123",
	})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != resp.ID {
		t.Errorf("Expected same user, got %s vs %s", user.ID, resp.ID)
	}
	if tokens.AccessToken == "" {
		t.Error("Expected a signed access token")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	req := CreateUserRequest{DisplayName: "Jane Wu", Email: "jane@example.com", Password: "securePassword123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("Expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, CreateUserRequest{
		DisplayName: "Jane Wu", Email: "jane@example.com", Password: "securePassword123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, _, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}

	// Unknown emails read the same as a bad password
	_, _, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestValidateTokenRoundTrip(t *testing.T) {
	svc := newTestUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, CreateUserRequest{
		DisplayName: "Jane Wu", Email: "jane@example.com", Password: "securePassword123",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	user, tokens, err := svc.Login(ctx, LoginRequest{Email: "jane@example.com", Password: "securePassword123"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	claims, err := svc.ValidateToken(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("Expected claims for %s, got %s", user.ID, claims.UserID)
	}
	if claims.Email != "jane@example.com" {
		t.Errorf("Expected claims email, got %s", claims.Email)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestUserService()

	if _, err := svc.ValidateToken(context.Background(), "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
}
