package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/pkg/validator"
)

// UserHandler serves user profiles
type UserHandler struct {
	service   user.Service
	validator *validator.Validator
}

func NewUserHandler(service user.Service, val *validator.Validator) *UserHandler {
	return &UserHandler{service: service, validator: val}
}

// Get returns a user profile
// @Summary Get user
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.Get(r.Context(), caller(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto.UserResponse{User: dto.UserFromDomain(u)})
}

// Update changes a user's display name
// @Summary Update user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Profile"
// @Success 200 {object} dto.UserResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := validate(h.validator, req); err != nil {
		writeError(w, err)
		return
	}

	u, err := h.service.UpdateProfile(r.Context(), caller(r), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto.UserResponse{User: dto.UserFromDomain(u)})
}
