package validator

import (
	"strings"
	"testing"
)

type signupInput struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,emaildomain"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

func TestValidator_Signup(t *testing.T) {
	v := New()

	tests := []struct {
		name       string
		input      signupInput
		wantFields []string
	}{
		{
			name:  "valid",
			input: signupInput{Name: "Al", Email: "al.b-c_d@gmail.com", Password: "secret"},
		},
		{
			name:       "short name",
			input:      signupInput{Name: "A", Email: "a@gmail.com", Password: "secret"},
			wantFields: []string{"name"},
		},
		{
			name:       "wrong domain",
			input:      signupInput{Name: "Alice", Email: "alice@example.com", Password: "secret"},
			wantFields: []string{"email"},
		},
		{
			name:  "password at the byte limit",
			input: signupInput{Name: "Alice", Email: "alice@gmail.com", Password: strings.Repeat("é", 36)},
		},
		{
			name:       "multibyte password over the byte limit",
			input:      signupInput{Name: "Alice", Email: "alice@gmail.com", Password: strings.Repeat("é", 40)},
			wantFields: []string{"password"},
		},
		{
			name:       "short password and missing email",
			input:      signupInput{Name: "Alice", Password: "123"},
			wantFields: []string{"email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.input)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Validate() returned %d errors, want %d: %+v", len(errs), len(tt.wantFields), errs)
			}
			for i, field := range tt.wantFields {
				if errs[i].Field != field {
					t.Errorf("errs[%d].Field = %q, want %q", i, errs[i].Field, field)
				}
				if errs[i].Message == "" {
					t.Errorf("errs[%d].Message is empty", i)
				}
			}
		})
	}
}

func TestNewWithEmailPattern(t *testing.T) {
	v, err := NewWithEmailPattern("")
	if err != nil {
		t.Fatalf("NewWithEmailPattern() error = %v", err)
	}
	if errs := v.Validate(signupInput{Name: "Bob", Email: "bob@example.org", Password: "secret"}); len(errs) != 0 {
		t.Errorf("Validate() with empty pattern = %+v, want no errors", errs)
	}
	if errs := v.Validate(signupInput{Name: "Bob", Email: "not-an-email", Password: "secret"}); len(errs) != 1 {
		t.Errorf("Validate() with malformed email = %+v, want 1 error", errs)
	}

	if _, err := NewWithEmailPattern("("); err == nil {
		t.Error("NewWithEmailPattern() expected error for invalid regexp")
	}
}
