package handlers

import (
	"net/http"

	"github.com/agusaisen/recopro/services"
)

type DisciplineHandler struct {
	disciplineService services.DisciplineService
}

func NewDisciplineHandler(disciplineService services.DisciplineService) *DisciplineHandler {
	return &DisciplineHandler{disciplineService: disciplineService}
}

func (h *DisciplineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.DisciplineInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	discipline, err := h.disciplineService.Create(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"disciplina": discipline}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DisciplineHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	discipline, err := h.disciplineService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"disciplina": discipline}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List returns disciplines. Gestores only see active ones; admins can
// pass ?todas=true to include the inactive.
func (h *DisciplineHandler) List(w http.ResponseWriter, r *http.Request) {
	onlyActive := r.URL.Query().Get("todas") != "true"

	disciplines, err := h.disciplineService.List(r.Context(), onlyActive)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"disciplinas": disciplines}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DisciplineHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.DisciplineInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	discipline, err := h.disciplineService.Update(r.Context(), id, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"disciplina": discipline}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DisciplineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.disciplineService.Delete(r.Context(), id); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
