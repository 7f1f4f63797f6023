package handlers

import (
	"net/http"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/domain/user"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
)

// AdminHandler serves the admin-only listings
type AdminHandler struct {
	users       user.Service
	predictions prediction.Service
}

func NewAdminHandler(users user.Service, predictions prediction.Service) *AdminHandler {
	return &AdminHandler{users: users, predictions: predictions}
}

// Users lists every account, newest first
// @Summary All users
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} dto.ListResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) Users(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	list, total, err := h.users.List(r.Context(), p.PageSize, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, p, dto.UsersFromDomain(list), len(list), total)
}

// Predictions lists every prediction with its owner's name and email
// @Summary All predictions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} dto.ListResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /admin/predictions [get]
func (h *AdminHandler) Predictions(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	list, total, err := h.predictions.ListAll(r.Context(), p.PageSize, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, p, list, len(list), total)
}
