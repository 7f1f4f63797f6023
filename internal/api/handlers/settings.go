package handlers

import (
	"net/http"

	"github.com/projectcostai/projectcostai/internal/api/dto"
	"github.com/projectcostai/projectcostai/internal/pkg/errors"
	"github.com/projectcostai/projectcostai/internal/pkg/utils"
	"github.com/projectcostai/projectcostai/internal/settings"
)

const maxSettingsKeys = 50

// SettingsHandler reads and overrides the application settings
type SettingsHandler struct {
	store *settings.Store
}

func NewSettingsHandler(store *settings.Store) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// Get returns the current settings
// @Summary Application settings
// @Tags Settings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SettingsResponse
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dto.SettingsResponse{Settings: h.store.All()})
}

// Update merges the body into the settings. Admin only.
// @Summary Override settings
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body map[string]interface{} true "Keys to set; null removes a key"
// @Success 200 {object} dto.SettingsResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var updates map[string]interface{}
	if err := decodeJSON(w, r, &updates); err != nil {
		writeError(w, err)
		return
	}
	if len(updates) > maxSettingsKeys {
		writeError(w, errors.BadRequest("Too many settings in one update"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, dto.SettingsResponse{Settings: h.store.Merge(updates)})
}
