package postgres

import (
	"context"
	"testing"

	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tests := []struct {
		name     string
		user     *user.User
		wantCode string
	}{
		{
			name: "create user successfully",
			user: &user.User{Name: "Alice", Email: "alice@gmail.com", PasswordHash: "hash", LoginCount: 1},
		},
		{
			name: "create external login user",
			user: &user.User{Name: "Bob", Email: "bob@gmail.com", Provider: user.ProviderGitHub},
		},
		{
			name:     "duplicate email",
			user:     &user.User{Name: "Alice Again", Email: "alice@gmail.com", PasswordHash: "other"},
			wantCode: errors.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, tt.user)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Errorf("Create() error = %v, want code %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if tt.user.ID == "" {
				t.Error("Create() did not set user ID")
			}
			if tt.user.Role != user.RoleUser {
				t.Errorf("Role = %q, want default user", tt.user.Role)
			}
		})
	}
}

func TestUserRepository_GetByIDAndEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Name: "Alice", Email: "alice@gmail.com", PasswordHash: "hash", LoginCount: 1}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Email != u.Email || got.PasswordHash != "hash" || got.LoginCount != 1 || got.Provider != user.ProviderLocal {
		t.Errorf("GetByID() = %+v", got)
	}

	byEmail, err := repo.GetByEmail(ctx, "alice@gmail.com")
	if err != nil || byEmail.ID != u.ID {
		t.Errorf("GetByEmail() = %+v, %v", byEmail, err)
	}

	if _, err := repo.GetByID(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByID(missing) error = %v, want not found", err)
	}
	if _, err := repo.GetByEmail(ctx, "nobody@gmail.com"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("GetByEmail(missing) error = %v, want not found", err)
	}
}

func TestUserRepository_IncrementLoginCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &user.User{Name: "Alice", Email: "alice@gmail.com", LoginCount: 1}
	_ = repo.Create(ctx, u)

	for want := 2; want <= 4; want++ {
		got, err := repo.IncrementLoginCount(ctx, u.ID)
		if err != nil {
			t.Fatalf("IncrementLoginCount() error = %v", err)
		}
		if got != want {
			t.Errorf("IncrementLoginCount() = %d, want %d", got, want)
		}
	}

	if _, err := repo.IncrementLoginCount(ctx, "missing"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("IncrementLoginCount(missing) error = %v", err)
	}
}

func TestUserRepository_UpdateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	for _, email := range []string{"a@gmail.com", "b@gmail.com", "c@gmail.com"} {
		if err := repo.Create(ctx, &user.User{Name: "User", Email: email}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	a, _ := repo.GetByEmail(ctx, "a@gmail.com")
	a.Name = "Renamed"
	a.Role = user.RoleAdmin
	if err := repo.Update(ctx, a); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, _ := repo.GetByID(ctx, a.ID)
	if got.Name != "Renamed" || !got.IsAdmin() {
		t.Errorf("after Update() = %+v", got)
	}

	if err := repo.Update(ctx, &user.User{ID: "missing"}); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Update(missing) error = %v", err)
	}

	page, total, err := repo.List(ctx, 2, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if total != 3 || len(page) != 2 {
		t.Errorf("List() = %d items, total %d", len(page), total)
	}
}
