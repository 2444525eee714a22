package handlers

import (
	"net/http"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/middleware"
	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/services"
)

type MemberHandler struct {
	enrollmentService services.EnrollmentService
}

func NewMemberHandler(enrollmentService services.EnrollmentService) *MemberHandler {
	return &MemberHandler{enrollmentService: enrollmentService}
}

type memberRequest struct {
	DNI             string `json:"dni"`
	Nombre          string `json:"nombre"`
	Apellido        string `json:"apellido"`
	FechaNacimiento string `json:"fecha_nacimiento"`
	Genero          string `json:"genero"`
	Tipo            string `json:"tipo"`
}

func (req memberRequest) candidate() eligibility.Candidate {
	return eligibility.Candidate{
		DNI:             req.DNI,
		Nombre:          req.Nombre,
		Apellido:        req.Apellido,
		FechaNacimiento: req.FechaNacimiento,
		Genero:          req.Genero,
		Role:            models.ParticipantRole(req.Tipo),
	}
}

// Add enrolls a candidate into a team's roster. Eligibility rejections
// come back as 422 with a reason code, never as errors.
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	teamID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input memberRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.enrollmentService.AddMember(r.Context(), teamID, input.candidate(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if !result.Decision.Accepted {
		rejectionResponse(w, r, &result.Decision)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"integrante": result.Member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	teamID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input memberRequest
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	result, err := h.enrollmentService.UpdateMember(r.Context(), teamID, participantID, input.candidate(), actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if !result.Decision.Accepted {
		rejectionResponse(w, r, &result.Decision)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"integrante": result.Member}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	teamID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rejection, err := h.enrollmentService.RemoveMember(r.Context(), teamID, participantID, actor)
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
