package services

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/logger"
	"github.com/projectcostai/projectcostai/internal/testutil"
)

const testSecret = "test-secret-at-least-32-characters!!"

func newTestLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "disabled", Format: "json"})
}

// bcrypt.MinCost keeps the suite fast
func newTestUserService() (user.Service, *testutil.MockUserRepository, *auth.TokenIssuer) {
	repo := testutil.NewMockUserRepository()
	tokens := auth.NewTokenIssuer(testSecret, time.Hour)
	return NewUserService(repo, tokens, 4, newTestLogger()), repo, tokens
}

func TestUserService_Signup(t *testing.T) {
	service, repo, tokens := newTestUserService()
	ctx := context.Background()

	sess, err := service.Signup(ctx, "Alice", "Alice@Gmail.com", "secret1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if sess.User.Email != "alice@gmail.com" {
		t.Errorf("Signup() email = %v, want normalized", sess.User.Email)
	}
	if sess.User.LoginCount != 1 {
		t.Errorf("Signup() loginCount = %d, want 1", sess.User.LoginCount)
	}
	if sess.User.PasswordHash == "secret1" || !auth.CheckPassword(sess.User.PasswordHash, "secret1") {
		t.Error("Signup() did not store a valid hash")
	}

	id, err := tokens.Authenticate(sess.Token)
	if err != nil || id.UserID != sess.User.ID {
		t.Errorf("token identity = %+v, err = %v", id, err)
	}
	if len(repo.Users) != 1 {
		t.Errorf("stored users = %d, want 1", len(repo.Users))
	}
}

func TestUserService_SignupDuplicateEmail(t *testing.T) {
	service, _, _ := newTestUserService()
	ctx := context.Background()

	if _, err := service.Signup(ctx, "Alice", "alice@gmail.com", "secret1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	for _, password := range []string{"secret1", "different-password"} {
		_, err := service.Signup(ctx, "Other", "alice@gmail.com", password)
		appErr := errors.From(err)
		if appErr == nil || appErr.Message != "Email exists" || appErr.StatusCode != http.StatusBadRequest {
			t.Errorf("Signup(duplicate, %q) error = %v, want Email exists", password, err)
		}
	}
}

func TestUserService_SignupPasswordOverByteLimit(t *testing.T) {
	service, repo, _ := newTestUserService()

	_, err := service.Signup(context.Background(), "Alice", "alice@gmail.com", strings.Repeat("é", 40))
	if !errors.Is(err, errors.ErrCodeBadRequest) {
		t.Fatalf("Signup() error = %v, want bad request", err)
	}
	if len(repo.Users) != 0 {
		t.Errorf("stored users = %d, want 0", len(repo.Users))
	}
}

func TestUserService_SignupRaceConflict(t *testing.T) {
	service, repo, _ := newTestUserService()
	repo.CreateError = errors.Conflict("Email exists")

	_, err := service.Signup(context.Background(), "Alice", "alice@gmail.com", "secret1")
	if !errors.Is(err, errors.ErrCodeBadRequest) {
		t.Errorf("Signup() error = %v, want bad request", err)
	}
}

func TestUserService_LoginIncrementsCount(t *testing.T) {
	service, _, _ := newTestUserService()
	ctx := context.Background()

	if _, err := service.Signup(ctx, "Alice", "alice@gmail.com", "secret1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	for want := 2; want <= 4; want++ {
		sess, err := service.Login(ctx, "alice@gmail.com", "secret1")
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}
		if sess.User.LoginCount != want {
			t.Errorf("Login() loginCount = %d, want %d", sess.User.LoginCount, want)
		}
		if sess.Token == "" {
			t.Error("Login() returned empty token")
		}
	}
}

func TestUserService_LoginRejectionsAreIdentical(t *testing.T) {
	service, repo, _ := newTestUserService()
	ctx := context.Background()

	if _, err := service.Signup(ctx, "Alice", "alice@gmail.com", "secret1"); err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	_ = repo.Create(ctx, &user.User{Name: "Social", Email: "social@gmail.com", Provider: user.ProviderGoogle})

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "alice@gmail.com", password: "wrong-one"},
		{name: "unknown email", email: "nobody@gmail.com", password: "secret1"},
		{name: "account without password", email: "social@gmail.com", password: "anything"},
		{name: "empty password for external account", email: "social@gmail.com", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Login(ctx, tt.email, tt.password)
			appErr := errors.From(err)
			if appErr == nil {
				t.Fatal("Login() error = nil, want rejection")
			}
			if appErr.Message != "Invalid credentials" || appErr.StatusCode != http.StatusUnauthorized {
				t.Errorf("Login() = %d %q, want 401 Invalid credentials", appErr.StatusCode, appErr.Message)
			}
		})
	}

	if u := repo.EmailIndex["alice@gmail.com"]; u.LoginCount != 1 {
		t.Errorf("failed logins changed loginCount to %d", u.LoginCount)
	}
}

func TestUserService_LoginExternal(t *testing.T) {
	service, repo, _ := newTestUserService()
	ctx := context.Background()

	profile := auth.ExternalProfile{Provider: user.ProviderGitHub, Email: "octo@gmail.com", Name: "Octo"}
	sess, err := service.LoginExternal(ctx, profile)
	if err != nil {
		t.Fatalf("LoginExternal() error = %v", err)
	}
	if sess.User.HasPassword() || sess.User.Provider != user.ProviderGitHub || sess.User.LoginCount != 1 {
		t.Errorf("LoginExternal() created %+v", sess.User)
	}

	again, err := service.LoginExternal(ctx, profile)
	if err != nil {
		t.Fatalf("second LoginExternal() error = %v", err)
	}
	if again.User.ID != sess.User.ID || again.User.LoginCount != 2 {
		t.Errorf("second LoginExternal() = %+v", again.User)
	}
	if len(repo.Users) != 1 {
		t.Errorf("stored users = %d, want 1", len(repo.Users))
	}

	if _, err := service.LoginExternal(ctx, auth.ExternalProfile{Provider: "google"}); !errors.Is(err, errors.ErrCodeBadRequest) {
		t.Errorf("LoginExternal(no email) error = %v", err)
	}
}

func TestUserService_GetAndUpdateProfile(t *testing.T) {
	service, _, _ := newTestUserService()
	ctx := context.Background()

	alice, _ := service.Signup(ctx, "Alice", "alice@gmail.com", "secret1")
	bob, _ := service.Signup(ctx, "Bob", "bob@gmail.com", "secret1")
	aliceID := auth.Identity{UserID: alice.User.ID, Role: user.RoleUser}
	admin := auth.Identity{UserID: "admin-id", Role: user.RoleAdmin}

	tests := []struct {
		name     string
		caller   auth.Identity
		target   string
		wantCode string
	}{
		{name: "self", caller: aliceID, target: alice.User.ID},
		{name: "other user", caller: aliceID, target: bob.User.ID, wantCode: errors.ErrCodeForbidden},
		{name: "admin", caller: admin, target: bob.User.ID},
		{name: "admin missing user", caller: admin, target: "missing", wantCode: errors.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Get(ctx, tt.caller, tt.target)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Get() error = %v, want %s", err, tt.wantCode)
				}
			} else if err != nil {
				t.Errorf("Get() error = %v", err)
			}

			u, err := service.UpdateProfile(ctx, tt.caller, tt.target, "Renamed")
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("UpdateProfile() error = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("UpdateProfile() error = %v", err)
			}
			if u.Name != "Renamed" {
				t.Errorf("UpdateProfile() name = %q", u.Name)
			}
		})
	}

	me, err := service.Me(ctx, aliceID)
	if err != nil || me.Email != "alice@gmail.com" {
		t.Errorf("Me() = %+v, %v", me, err)
	}
}

func TestUserService_CurrentRole(t *testing.T) {
	service, repo, _ := newTestUserService()
	ctx := context.Background()

	sess, err := service.Signup(ctx, "Alice", "alice@gmail.com", "secret1")
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	stored, _ := repo.GetByID(ctx, sess.User.ID)
	stored.Role = user.RoleAdmin
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	role, err := service.CurrentRole(ctx, sess.User.ID)
	if err != nil || role != user.RoleAdmin {
		t.Errorf("CurrentRole() = %q, %v, want %q", role, err, user.RoleAdmin)
	}

	if _, err := service.CurrentRole(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("CurrentRole(missing) error = %v, want not found", err)
	}
}
