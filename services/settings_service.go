package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
)

type UpdateWindowInput struct {
	FechaInicio string `json:"fecha_inicio"` // YYYY-MM-DD
	FechaFin    string `json:"fecha_fin"`    // YYYY-MM-DD
}

type SettingsService interface {
	GetWindow(ctx context.Context) (*models.RegistrationWindow, error)
	UpdateWindow(ctx context.Context, input UpdateWindowInput) (*models.RegistrationWindow, error)
	// CurrentWindow loads the stored window as an eligibility.Window
	// anchored to the configured timezone.
	CurrentWindow(ctx context.Context) (eligibility.Window, error)
}

type settingsService struct {
	repo     repositories.SettingsRepository
	location *time.Location
}

func NewSettingsService(repo repositories.SettingsRepository, location *time.Location) SettingsService {
	if location == nil {
		location = time.UTC
	}
	return &settingsService{repo: repo, location: location}
}

func (s *settingsService) GetWindow(ctx context.Context) (*models.RegistrationWindow, error) {
	w, err := s.repo.GetWindow(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrWindowNotFound) {
			return nil, ErrWindowNotConfigured
		}
		return nil, fmt.Errorf("failed to load registration window: %w", err)
	}
	return w, nil
}

func (s *settingsService) UpdateWindow(ctx context.Context, input UpdateWindowInput) (*models.RegistrationWindow, error) {
	start, err := time.ParseInLocation(eligibility.ISODate, input.FechaInicio, s.location)
	if err != nil {
		return nil, ErrValidationFailed
	}
	end, err := time.ParseInLocation(eligibility.ISODate, input.FechaFin, s.location)
	if err != nil {
		return nil, ErrValidationFailed
	}
	if end.Before(start) {
		return nil, ErrWindowInvalidRange
	}

	w := &models.RegistrationWindow{FechaInicio: start, FechaFin: end}
	if err := s.repo.SetWindow(ctx, w); err != nil {
		return nil, fmt.Errorf("failed to store registration window: %w", err)
	}
	return w, nil
}

func (s *settingsService) CurrentWindow(ctx context.Context) (eligibility.Window, error) {
	w, err := s.GetWindow(ctx)
	if err != nil {
		return eligibility.Window{}, err
	}
	return eligibility.Window{
		Start:    w.FechaInicio,
		End:      w.FechaFin,
		Location: s.location,
	}, nil
}
