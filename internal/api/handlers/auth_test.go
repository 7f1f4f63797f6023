package handlers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
	"github.com/projectcostai/projectcostai/internal/services"
	"github.com/projectcostai/projectcostai/internal/testutil"
)

func newTestAuthHandler() (*AuthHandler, *testutil.MockUserRepository) {
	repo := testutil.NewMockUserRepository()
	tokens := auth.NewTokenIssuer("handler-test-secret", time.Hour)
	service := services.NewUserService(repo, tokens, 4, newTestLogger())
	return NewAuthHandler(service, newTestLogger(), validator.New(), time.Hour, false), repo
}

func TestAuthHandler_Signup(t *testing.T) {
	handler, _ := newTestAuthHandler()

	rr := serve(t, http.MethodPost, "/auth/signup", "/auth/signup", handler.Signup, nil, map[string]string{
		"name": "Ada", "email": "Ada@gmail.com", "password": "secret1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusCreated)
	}

	var cookie *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			cookie = c
		}
	}
	if cookie == nil || !cookie.HttpOnly {
		t.Errorf("Signup() cookie = %+v, want http-only %s", cookie, middleware.TokenCookie)
	}

	body := decodeBody(t, rr)
	if body["success"] != true || body["token"] == "" {
		t.Errorf("Signup() body = %v", body)
	}
	u := body["user"].(map[string]interface{})
	if u["email"] != "ada@gmail.com" || u["loginCount"] != 1.0 {
		t.Errorf("Signup() user = %v", u)
	}
	if _, leaked := u["password"]; leaked {
		t.Error("Signup() response exposes the password hash")
	}

	dup := serve(t, http.MethodPost, "/auth/signup", "/auth/signup", handler.Signup, nil, map[string]string{
		"name": "Ada", "email": "ada@gmail.com", "password": "secret1",
	})
	if dup.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup status = %v, want %v", dup.Code, http.StatusBadRequest)
	}
	if msg := errorMessage(t, decodeBody(t, dup)); msg != "Email exists" {
		t.Errorf("duplicate signup message = %q", msg)
	}
}

func TestAuthHandler_SignupValidation(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{name: "short name", body: map[string]string{"name": "A", "email": "a@gmail.com", "password": "secret1"}},
		{name: "foreign domain", body: map[string]string{"name": "Ada", "email": "ada@example.com", "password": "secret1"}},
		{name: "short password", body: map[string]string{"name": "Ada", "email": "ada@gmail.com", "password": "abc"}},
		{name: "password over 72 bytes", body: map[string]string{"name": "Ada", "email": "ada@gmail.com", "password": strings.Repeat("é", 40)}},
		{name: "malformed json", body: `{"name":`},
		{name: "empty body", body: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, repo := newTestAuthHandler()
			rr := serve(t, http.MethodPost, "/auth/signup", "/auth/signup", handler.Signup, nil, tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusBadRequest)
			}
			if len(repo.Users) != 0 {
				t.Errorf("invalid signup created %d users", len(repo.Users))
			}
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	handler, _ := newTestAuthHandler()
	serve(t, http.MethodPost, "/auth/signup", "/auth/signup", handler.Signup, nil, map[string]string{
		"name": "Ada", "email": "ada@gmail.com", "password": "secret1",
	})

	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{name: "valid", email: "ada@gmail.com", password: "secret1", expectedStatus: http.StatusOK},
		{name: "wrong password", email: "ada@gmail.com", password: "secret2", expectedStatus: http.StatusUnauthorized},
		{name: "unknown email", email: "nobody@gmail.com", password: "secret1", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(t, http.MethodPost, "/auth/login", "/auth/login", handler.Login, nil, map[string]string{
				"email": tt.email, "password": tt.password,
			})
			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			body := decodeBody(t, rr)
			if tt.expectedStatus == http.StatusUnauthorized {
				if msg := errorMessage(t, body); msg != "Invalid credentials" {
					t.Errorf("Login() message = %q, want generic rejection", msg)
				}
				return
			}
			if u := body["user"].(map[string]interface{}); u["loginCount"] != 2.0 {
				t.Errorf("Login() loginCount = %v, want 2", u["loginCount"])
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler, _ := newTestAuthHandler()
	signup := decodeBody(t, serve(t, http.MethodPost, "/auth/signup", "/auth/signup", handler.Signup, nil, map[string]string{
		"name": "Ada", "email": "ada@gmail.com", "password": "secret1",
	}))
	id := signup["user"].(map[string]interface{})["id"].(string)

	rr := serve(t, http.MethodGet, "/auth/me", "/auth/me", handler.Me, &auth.Identity{UserID: id, Role: "user"}, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if u := decodeBody(t, rr)["user"].(map[string]interface{}); u["id"] != id {
		t.Errorf("Me() id = %v, want %v", u["id"], id)
	}

	gone := serve(t, http.MethodGet, "/auth/me", "/auth/me", handler.Me, &auth.Identity{UserID: "deleted", Role: "user"}, nil)
	if gone.Code != http.StatusNotFound {
		t.Errorf("Me() for a removed account status = %v, want %v", gone.Code, http.StatusNotFound)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	handler, _ := newTestAuthHandler()
	rr := serve(t, http.MethodPost, "/auth/logout", "/auth/logout", handler.Logout, nil, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	cookies := rr.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
		t.Errorf("Logout() cookies = %+v, want one expired cookie", cookies)
	}
}
