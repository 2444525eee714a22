package handlers

import (
	"net/http"

	"github.com/agusaisen/recopro/services"
)

type LocalityHandler struct {
	localityService services.LocalityService
}

func NewLocalityHandler(localityService services.LocalityService) *LocalityHandler {
	return &LocalityHandler{localityService: localityService}
}

type localityRequest struct {
	Nombre string `json:"nombre"`
}

func (h *LocalityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input localityRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	locality, err := h.localityService.Create(r.Context(), input.Nombre)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"localidad": locality}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LocalityHandler) List(w http.ResponseWriter, r *http.Request) {
	localities, err := h.localityService.List(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"localidades": localities}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LocalityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input localityRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	locality, err := h.localityService.Update(r.Context(), id, input.Nombre)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"localidad": locality}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *LocalityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.localityService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
