package services

import (
	"errors"
	"testing"
	"time"

	"github.com/oliverdacre/travel-together/internal/config"
	"github.com/oliverdacre/travel-together/internal/dto"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(db, &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
	})
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(&dto.RegisterRequest{
		Email:    "  Alice@Example.com ",
		Name:     "Alice",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if registered.User.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %q", registered.User.Email)
	}
	if registered.AccessToken == "" || registered.RefreshToken == "" {
		t.Fatal("expected a full token pair")
	}

	loggedIn, err := svc.Login(&dto.LoginRequest{Email: "ALICE@example.com", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if loggedIn.User.ID != registered.User.ID {
		t.Fatal("login resolved a different user")
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	req := &dto.RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"}
	if _, err := svc.Register(req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if _, err := svc.Register(&dto.RegisterRequest{Email: "a@b.com", Name: "A", Password: "short"}); err == nil {
		t.Fatal("expected short password to be rejected")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	if _, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "alice@example.com", Password: "wrong horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Email: "nobody@example.com", Password: "correct horse"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Fatal("refresh must rotate the token")
	}

	// The presented token is dead after rotation.
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db)

	registered, err := svc.Register(&dto.RegisterRequest{Email: "alice@example.com", Name: "Alice", Password: "correct horse"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(&dto.LogoutRequest{RefreshToken: registered.RefreshToken}); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken}); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}
