package services

import (
	"errors"
	"testing"

	"mal_vip_backend/internal/models"
	"mal_vip_backend/internal/repositories"
	"mal_vip_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hashed)
}

func TestRegisterUserAssignsCustomerRole(t *testing.T) {
	var storedHash string
	repo := &mockAuthRepo{
		createFn: func(user *models.User, hashedPassword string) (int64, error) {
			storedHash = hashedPassword
			return 7, nil
		},
	}
	svc := NewAuthService(repo, nil)

	user, err := svc.RegisterUser(RegisterUserRequest{
		Username: "jordan",
		Email:    "jordan@example.com",
		Password: "correct-horse",
		FullName: "Jordan Blake",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != 7 {
		t.Errorf("expected user ID 7, got %d", user.ID)
	}
	if user.Role != models.RoleCustomer {
		t.Errorf("expected customer role, got %s", user.Role)
	}
	if user.Email != "jordan@example.com" || user.FullName != "Jordan Blake" {
		t.Errorf("expected email and full name carried onto the account, got %q %q", user.Email, user.FullName)
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("correct-horse")); err != nil {
		t.Error("expected stored hash to match the supplied password")
	}
}

func TestRegisterUserDuplicateUsername(t *testing.T) {
	repo := &mockAuthRepo{
		createFn: func(user *models.User, hashedPassword string) (int64, error) {
			return 0, repositories.ErrDuplicateKey
		},
	}
	svc := NewAuthService(repo, nil)

	_, err := svc.RegisterUser(RegisterUserRequest{
		Username: "jordan",
		Email:    "jordan@example.com",
		Password: "correct-horse",
		FullName: "Jordan Blake",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestLoginUserSuccess(t *testing.T) {
	hash := hashPassword(t, "correct-horse")
	repo := &mockAuthRepo{
		findByUsernameFn: func(username string) (*models.User, string, error) {
			return &models.User{ID: 7, Username: username, Role: models.RoleCustomer, IsActive: true}, hash, nil
		},
	}
	svc := NewAuthService(repo, nil)

	resp, err := svc.LoginUser(LoginRequest{Username: "jordan", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both access and refresh tokens")
	}
	if resp.User.ID != 7 {
		t.Errorf("expected user 7, got %d", resp.User.ID)
	}
}

func TestLoginUserWrongPassword(t *testing.T) {
	hash := hashPassword(t, "correct-horse")
	repo := &mockAuthRepo{
		findByUsernameFn: func(username string) (*models.User, string, error) {
			return &models.User{ID: 7, Username: username, IsActive: true}, hash, nil
		},
	}
	svc := NewAuthService(repo, nil)

	_, err := svc.LoginUser(LoginRequest{Username: "jordan", Password: "wrong"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUserInactiveAccount(t *testing.T) {
	hash := hashPassword(t, "correct-horse")
	repo := &mockAuthRepo{
		findByUsernameFn: func(username string) (*models.User, string, error) {
			return &models.User{ID: 7, Username: username, IsActive: false}, hash, nil
		},
	}
	svc := NewAuthService(repo, nil)

	_, err := svc.LoginUser(LoginRequest{Username: "jordan", Password: "correct-horse"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginUserUnknownUsername(t *testing.T) {
	svc := NewAuthService(&mockAuthRepo{}, nil)

	_, err := svc.LoginUser(LoginRequest{Username: "nobody", Password: "whatever"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshTokenIssuesNewPair(t *testing.T) {
	refreshToken, err := utils.GenerateRefreshToken(7)
	if err != nil {
		t.Fatalf("failed to generate refresh token: %v", err)
	}
	repo := &mockAuthRepo{
		findByIDFn: func(userID int64) (*models.User, error) {
			return &models.User{ID: userID, Username: "jordan", Role: models.RoleCustomer, IsActive: true}, nil
		},
	}
	svc := NewAuthService(repo, nil)

	resp, err := svc.RefreshToken(RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected a fresh token pair")
	}
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	accessToken, err := utils.GenerateAccessToken(7, "jordan", models.RoleCustomer)
	if err != nil {
		t.Fatalf("failed to generate access token: %v", err)
	}
	svc := NewAuthService(&mockAuthRepo{}, nil)

	_, err = svc.RefreshToken(RefreshTokenRequest{RefreshToken: accessToken})
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestGetUserProfileClearsPasswordHash(t *testing.T) {
	repo := &mockAuthRepo{
		findByIDFn: func(userID int64) (*models.User, error) {
			return &models.User{ID: userID, Username: "jordan", PasswordHash: "secret"}, nil
		},
	}
	svc := NewAuthService(repo, nil)

	user, err := svc.GetUserProfile(7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.PasswordHash != "" {
		t.Error("expected password hash to be cleared from the profile")
	}
}
