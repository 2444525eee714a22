package handlers

import (
	"net/http"

	"github.com/agusaisen/recopro/services"
)

type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetWindow returns the configured registration window. 404 until an
// admin configures one.
func (h *SettingsHandler) GetWindow(w http.ResponseWriter, r *http.Request) {
	window, err := h.settingsService.GetWindow(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ventana": window}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) UpdateWindow(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateWindowInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	window, err := h.settingsService.UpdateWindow(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"ventana": window}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
