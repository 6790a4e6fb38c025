package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	infraRepo "github.com/buzzcafe/billing-api/internal/infrastructure/repository"
	"github.com/buzzcafe/billing-api/pkg/apperror"
	"github.com/buzzcafe/billing-api/pkg/email"
	"github.com/buzzcafe/billing-api/pkg/utils"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	svc       *AuthService
	resetRepo repository.PasswordResetTokenRepository
}

func setupAuthTest(t *testing.T) *authTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&entity.User{}, &entity.PasswordResetToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	resetRepo := infraRepo.NewPasswordResetTokenRepository(db)
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	svc := NewAuthService(
		infraRepo.NewUserRepository(db),
		resetRepo,
		jwtManager,
		email.NewEmailService(email.EmailConfig{}),
	)
	return &authTestEnv{svc: svc, resetRepo: resetRepo}
}

func registerTestUser(t *testing.T, env *authTestEnv, emailAddr string) *entity.User {
	t.Helper()
	user, err := env.svc.Register(context.Background(), &RegisterInput{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     emailAddr,
		Password:  "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()

	user := registerTestUser(t, env, "asha@example.com")
	if user.Role != entity.RoleStaff {
		t.Fatalf("new accounts should be staff, got %q", user.Role)
	}
	if user.Password == "s3cret-pass" {
		t.Fatal("password must be stored hashed")
	}

	out, err := env.svc.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if out.AccessToken == "" || out.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}
	if out.User.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, out.User.ID)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := setupAuthTest(t)
	registerTestUser(t, env, "asha@example.com")

	_, err := env.svc.Register(context.Background(), &RegisterInput{
		FirstName: "Other",
		LastName:  "Person",
		Email:     "asha@example.com",
		Password:  "another-pass",
	})
	if err == nil {
		t.Fatal("expected conflict for duplicate email")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 409 {
		t.Fatalf("expected 409, got %d", appErr.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "asha@example.com")

	// Wrong password and unknown email fail the same way
	for _, input := range []*LoginInput{
		{Email: "asha@example.com", Password: "wrong"},
		{Email: "nobody@example.com", Password: "s3cret-pass"},
	} {
		_, err := env.svc.Login(ctx, input)
		if err == nil {
			t.Fatalf("expected login failure for %s", input.Email)
		}
		if appErr := apperror.GetAppError(err); appErr.Code != 401 {
			t.Fatalf("expected 401, got %d", appErr.Code)
		}
	}
}

func TestRefreshToken(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "asha@example.com")

	out, err := env.svc.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := env.svc.RefreshToken(ctx, out.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.User.Email != "asha@example.com" {
		t.Fatalf("unexpected refresh output: %+v", refreshed.User)
	}

	if _, err := env.svc.RefreshToken(ctx, "not-a-token"); err == nil {
		t.Fatal("expected refresh to fail for a garbage token")
	}
}

func TestChangePassword(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	user := registerTestUser(t, env, "asha@example.com")

	err := env.svc.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "wrong",
		NewPassword:     "new-pass",
	})
	if err == nil {
		t.Fatal("expected failure with wrong current password")
	}

	err = env.svc.ChangePassword(ctx, &ChangePasswordInput{
		UserID:          user.ID,
		CurrentPassword: "s3cret-pass",
		NewPassword:     "new-pass",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := env.svc.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "s3cret-pass"}); err == nil {
		t.Fatal("old password should no longer work")
	}
	if _, err := env.svc.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "new-pass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "asha@example.com")

	token := &entity.PasswordResetToken{
		Email:     "asha@example.com",
		Token:     "valid-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := env.resetRepo.Create(ctx, token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	err := env.svc.ResetPassword(ctx, &ResetPasswordInput{
		Email:       "asha@example.com",
		Token:       "valid-token",
		NewPassword: "reset-pass",
	})
	if err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := env.svc.Login(ctx, &LoginInput{Email: "asha@example.com", Password: "reset-pass"}); err != nil {
		t.Fatalf("login after reset: %v", err)
	}

	// The token is consumed by a successful reset
	err = env.svc.ResetPassword(ctx, &ResetPasswordInput{
		Email:       "asha@example.com",
		Token:       "valid-token",
		NewPassword: "again",
	})
	if err == nil {
		t.Fatal("expected reuse of a consumed token to fail")
	}
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "asha@example.com")

	token := &entity.PasswordResetToken{
		Email:     "asha@example.com",
		Token:     "expired-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	if err := env.resetRepo.Create(ctx, token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	err := env.svc.ResetPassword(ctx, &ResetPasswordInput{
		Email:       "asha@example.com",
		Token:       "expired-token",
		NewPassword: "reset-pass",
	})
	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	if appErr := apperror.GetAppError(err); appErr.Code != 400 {
		t.Fatalf("expected 400, got %d", appErr.Code)
	}
}

func TestResetPasswordRejectsMismatchedEmail(t *testing.T) {
	env := setupAuthTest(t)
	ctx := context.Background()
	registerTestUser(t, env, "asha@example.com")

	token := &entity.PasswordResetToken{
		Email:     "asha@example.com",
		Token:     "valid-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := env.resetRepo.Create(ctx, token); err != nil {
		t.Fatalf("create token: %v", err)
	}

	err := env.svc.ResetPassword(ctx, &ResetPasswordInput{
		Email:       "other@example.com",
		Token:       "valid-token",
		NewPassword: "reset-pass",
	})
	if err == nil {
		t.Fatal("expected token bound to another email to be rejected")
	}
}
