package handlers

import (
	"net/http"

	"github.com/agusaisen/recopro/middleware"
	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
	"github.com/agusaisen/recopro/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(teamService services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// Create registers a new team for the gestor's locality.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input services.CreateTeamInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, rejection, err := h.teamService.Create(r.Context(), input, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if rejection != nil {
		rejectionResponse(w, r, rejection)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"equipo": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, err := h.teamService.GetByID(r.Context(), id, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"equipo": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// List returns teams visible to the actor. Admins see everything and
// may filter by locality, discipline or status; gestores are pinned to
// their own locality by the service.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	filter := repositories.TeamFilter{
		Status: models.TeamStatus(r.URL.Query().Get("estado")),
	}
	if raw := r.URL.Query().Get("localidad_id"); raw != "" {
		if filter.LocalityID, err = parsePositiveInt(raw); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}
	if raw := r.URL.Query().Get("disciplina_id"); raw != "" {
		if filter.DisciplineID, err = parsePositiveInt(raw); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	teams, err := h.teamService.List(r.Context(), filter, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"equipos": teams}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type reviewTeamRequest struct {
	Aprobar bool `json:"aprobar"`
}

// Review resolves a pending team to APROBADA or RECHAZADA.
func (h *TeamHandler) Review(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input reviewTeamRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	team, rejection, err := h.teamService.Review(r.Context(), id, input.Aprobar, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if rejection != nil {
		rejectionResponse(w, r, rejection)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"equipo": team}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rejection, err := h.teamService.Delete(r.Context(), id, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if rejection != nil {
		rejectionResponse(w, r, rejection)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
