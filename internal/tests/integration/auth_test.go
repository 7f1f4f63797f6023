package integration

import (
	"context"
	"testing"

	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/repository/postgres"
	"github.com/projectcostai/projectcostai/pkg/client"
)

func TestAuthFlow(t *testing.T) {
	srv := newTestServer(t, 100)
	ctx := context.Background()

	c, u := srv.signup(t, "Ada Lovelace", "Ada@gmail.com")
	if u.Email != "ada@gmail.com" || u.Role != "user" || u.LoginCount != 1 {
		t.Fatalf("signup user = %+v", u)
	}

	me, err := c.Me(ctx)
	if err != nil {
		t.Fatalf("Me() error = %v", err)
	}
	if me.ID != u.ID {
		t.Errorf("Me().ID = %s, want %s", me.ID, u.ID)
	}

	fresh := srv.client()
	resp, err := fresh.Login(ctx, "ada@gmail.com", "secret1")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.LoginCount != 2 || resp.Token == "" {
		t.Errorf("Login() = %+v", resp.User)
	}

	updated, err := fresh.UpdateUser(ctx, u.ID, "Countess Ada")
	if err != nil {
		t.Fatalf("UpdateUser() error = %v", err)
	}
	if updated.Name != "Countess Ada" {
		t.Errorf("UpdateUser().Name = %q", updated.Name)
	}
}

func TestAuthFlow_Rejections(t *testing.T) {
	srv := newTestServer(t, 100)
	ctx := context.Background()

	srv.signup(t, "Ada", "ada@gmail.com")
	other, _ := srv.signup(t, "Grace", "grace@gmail.com")

	tests := []struct {
		name   string
		call   func() error
		status int
	}{
		{
			name: "duplicate email",
			call: func() error {
				_, err := srv.client().Signup(ctx, client.SignupRequest{Name: "Ada", Email: "ADA@gmail.com", Password: "secret1"})
				return err
			},
			status: 400,
		},
		{
			name: "wrong domain",
			call: func() error {
				_, err := srv.client().Signup(ctx, client.SignupRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
				return err
			},
			status: 400,
		},
		{
			name: "bad password",
			call: func() error {
				_, err := srv.client().Login(ctx, "ada@gmail.com", "nope")
				return err
			},
			status: 401,
		},
		{
			name: "no token",
			call: func() error {
				_, err := srv.client().Me(ctx)
				return err
			},
			status: 401,
		},
		{
			name: "garbage token",
			call: func() error {
				c := srv.client()
				c.SetToken("not-a-jwt")
				_, err := c.Me(ctx)
				return err
			},
			status: 401,
		},
		{
			name: "non-admin on admin route",
			call: func() error {
				_, err := other.Admin().Users(ctx, nil)
				return err
			},
			status: 403,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			apiErr, ok := err.(*client.APIError)
			if !ok {
				t.Fatalf("error = %v, want *client.APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d (%s)", apiErr.StatusCode, tt.status, apiErr.Message)
			}
		})
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t, 100)
	c := srv.client()

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	health, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if !health.Success {
		t.Errorf("Health() = %+v", health)
	}
}

func TestRoleChangeAppliesToIssuedTokens(t *testing.T) {
	srv := newTestServer(t, 100)
	ctx := context.Background()

	root := srv.admin(t)
	if _, err := root.Admin().Users(ctx, nil); err != nil {
		t.Fatalf("Users() as admin error = %v", err)
	}

	repo := postgres.NewUserRepository(srv.db)
	u, err := repo.GetByEmail(ctx, "root@gmail.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	u.Role = user.RoleUser
	if err := repo.Update(ctx, u); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	_, err = root.Admin().Users(ctx, nil)
	if apiErr, ok := err.(*client.APIError); !ok || !apiErr.IsForbidden() {
		t.Fatalf("Users() after demotion error = %v, want 403", err)
	}

	me, err := root.Me(ctx)
	if err != nil {
		t.Fatalf("Me() after demotion error = %v", err)
	}
	if me.Role != user.RoleUser {
		t.Errorf("Me().Role = %q, want %q", me.Role, user.RoleUser)
	}
}
