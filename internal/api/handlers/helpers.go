package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/projectcostai/projectcostai/internal/api/middleware"
	"github.com/projectcostai/projectcostai/internal/auth"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads a bounded JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	_, err := decodeJSONWithRaw(w, r, dst)
	return err
}

// decodeJSONWithRaw decodes the body into dst and also returns it as a
// generic map, for endpoints that store the client payload verbatim.
func decodeJSONWithRaw(w http.ResponseWriter, r *http.Request, dst interface{}) (map[string]interface{}, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.BadRequest("Request body too large or unreadable")
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, errors.BadRequest("Request body is required")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, errors.BadRequest("Invalid request body")
	}

	raw := map[string]interface{}{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.BadRequest("Request body must be a JSON object")
	}
	return raw, nil
}

// validate returns a 400 carrying per-field details, or nil
func validate(v *validator.Validator, req interface{}) error {
	if errs := v.Validate(req); len(errs) > 0 {
		return errors.ValidationError("Validation failed", errs)
	}
	return nil
}

// caller returns the identity set by the auth middleware. Routes using it
// are always mounted behind RequireAuth.
func caller(r *http.Request) auth.Identity {
	id, _ := middleware.IdentityFrom(r.Context())
	return id
}

func writeError(w http.ResponseWriter, err error) {
	utils.WriteError(w, err)
}
