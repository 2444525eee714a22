package handlers

import (
	"errors"
	"net/http"

	"github.com/agusaisen/recopro/middleware"
	"github.com/agusaisen/recopro/services"
)

const maxDocumentSize = 10 << 20 // 10MB

type DocumentHandler struct {
	documentService services.DocumentService
}

func NewDocumentHandler(documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload stores the scanned DNI document of a participant, replacing
// any previous upload.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participantID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(maxDocumentSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("documento")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing form file \"documento\""))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")

	participant, err := h.documentService.UploadParticipantDoc(r.Context(), participantID, contentType, file, actor)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participante": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.ActorFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	participantID, err := getIDFromURL(r, "id")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.documentService.DeleteParticipantDoc(r.Context(), participantID, actor); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
