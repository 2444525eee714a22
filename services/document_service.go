package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
	"github.com/agusaisen/recopro/storage"
)

var allowedDocContentTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

var ErrDocUnsupportedType = errors.New("unsupported document content type")

// DocumentService stores the scanned ID documents gestores attach to
// participants.
type DocumentService interface {
	UploadParticipantDoc(ctx context.Context, participantID int, contentType string, r io.Reader, actor Actor) (*models.Participant, error)
	DeleteParticipantDoc(ctx context.Context, participantID int, actor Actor) error
}

type documentService struct {
	participantRepo repositories.ParticipantRepository
	uploader        storage.FileUploader
}

func NewDocumentService(participantRepo repositories.ParticipantRepository, uploader storage.FileUploader) DocumentService {
	return &documentService{participantRepo: participantRepo, uploader: uploader}
}

func (s *documentService) loadScoped(ctx context.Context, participantID int, actor Actor) (*models.Participant, error) {
	p, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}
	if actor.Role == models.RoleGestor && p.LocalityID != actor.LocalityID {
		return nil, ErrLocalityMismatch
	}
	return p, nil
}

func (s *documentService) UploadParticipantDoc(ctx context.Context, participantID int, contentType string, r io.Reader, actor Actor) (*models.Participant, error) {
	p, err := s.loadScoped(ctx, participantID, actor)
	if err != nil {
		return nil, err
	}

	ext, ok := allowedDocContentTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrDocUnsupportedType
	}

	key := path.Join("participants", fmt.Sprintf("%d", p.ID), "dni"+ext)
	result, err := s.uploader.Upload(ctx, key, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	if err := s.participantRepo.UpdateDocKey(ctx, p.ID, &result.Key); err != nil {
		return nil, err
	}
	p.DocKey = &result.Key
	url := s.uploader.GetPublicURL(result.Key)
	p.DocURL = &url
	return p, nil
}

func (s *documentService) DeleteParticipantDoc(ctx context.Context, participantID int, actor Actor) error {
	p, err := s.loadScoped(ctx, participantID, actor)
	if err != nil {
		return err
	}
	if p.DocKey == nil {
		return nil
	}
	if err := s.uploader.Delete(ctx, *p.DocKey); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return s.participantRepo.UpdateDocKey(ctx, p.ID, nil)
}
