package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/domain/prediction"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
)

// HistoryHandler lists, compares and deletes stored predictions
type HistoryHandler struct {
	service prediction.Service
}

func NewHistoryHandler(service prediction.Service) *HistoryHandler {
	return &HistoryHandler{service: service}
}

// List returns the caller's predictions, newest first
// @Summary Prediction history
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} dto.ListResponse
// @Router /predict/history [get]
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	list, total, err := h.service.History(r.Context(), caller(r), p.PageSize, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, p, list, len(list), total)
}

// ListForUser returns another user's predictions to that user or an admin
// @Summary Prediction history of a user
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Success 200 {object} dto.ListResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /predict/history/{userId} [get]
func (h *HistoryHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	p := utils.ParsePaginationParams(r)
	list, total, err := h.service.UserHistory(r.Context(), caller(r), chi.URLParam(r, "userId"), p.PageSize, p.Offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeList(w, p, list, len(list), total)
}

// Delete removes a prediction owned by the caller, or any for admins
// @Summary Delete a prediction
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param id path string true "Prediction ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 401 {object} utils.ErrorResponse "Not the owner"
// @Failure 404 {object} utils.ErrorResponse
// @Router /predict/history/{id} [delete]
func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), caller(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Prediction deleted successfully", struct{}{})
}

// Compare returns the caller's predictions among a comma separated id list
// @Summary Compare predictions
// @Tags History
// @Produce json
// @Security BearerAuth
// @Param ids query string true "Comma separated prediction IDs"
// @Success 200 {object} dto.CompareResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /predict/compare [get]
func (h *HistoryHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.URL.Query().Get("ids"), ",")
	list, err := h.service.Compare(r.Context(), caller(r), ids)
	if err != nil {
		writeError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, dto.CompareResponse{
		Success: true,
		Count:   len(list),
		Data:    list,
	})
}

func writeList(w http.ResponseWriter, p utils.PaginationParams, data interface{}, count int, total int64) {
	utils.WriteJSON(w, http.StatusOK, dto.ListResponse{
		Success:  true,
		Count:    count,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Data:     data,
	})
}
