package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/events"
	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
)

// Actor is the request identity resolved by the auth middleware.
// Gestores carry their locality; admins have LocalityID zero.
type Actor struct {
	UserID     int
	Role       models.UserRole
	LocalityID int
}

type CreateTeamInput struct {
	DisciplineID int     `json:"disciplina_id"`
	Nombre       *string `json:"nombre,omitempty"`
}

type TeamService interface {
	// Create registers a new team for the actor's locality. A non-nil
	// Decision is a business rejection (window closed, duplicate
	// team); error is reserved for system failures.
	Create(ctx context.Context, input CreateTeamInput, actor Actor) (*models.Team, *eligibility.Decision, error)
	GetByID(ctx context.Context, id int, actor Actor) (*models.Team, error)
	List(ctx context.Context, filter repositories.TeamFilter, actor Actor) ([]*models.Team, error)
	Review(ctx context.Context, teamID int, approve bool, actor Actor) (*models.Team, *eligibility.Decision, error)
	Delete(ctx context.Context, teamID int, actor Actor) (*eligibility.Decision, error)
}

type teamService struct {
	teamRepo       repositories.TeamRepository
	disciplineRepo repositories.DisciplineRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	settings       SettingsService
	publisher      events.Publisher
	email          *EmailService
	logger         *slog.Logger
	now            func() time.Time
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	disciplineRepo repositories.DisciplineRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	settings SettingsService,
	publisher events.Publisher,
	email *EmailService,
	logger *slog.Logger,
) TeamService {
	return &teamService{
		teamRepo:       teamRepo,
		disciplineRepo: disciplineRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		settings:       settings,
		publisher:      publisher,
		email:          email,
		logger:         logger,
		now:            time.Now,
	}
}

func windowClosedDecision() *eligibility.Decision {
	return &eligibility.Decision{
		Reason:  eligibility.ReasonWindowClosed,
		Message: "La inscripción está cerrada.",
	}
}

// checkWindow returns a rejection decision when the registration
// window is closed. An unconfigured window counts as closed.
func (s *teamService) checkWindow(ctx context.Context) (*eligibility.Decision, error) {
	window, err := s.settings.CurrentWindow(ctx)
	if err != nil {
		if errors.Is(err, ErrWindowNotConfigured) {
			return windowClosedDecision(), nil
		}
		return nil, err
	}
	if !window.Contains(s.now()) {
		return windowClosedDecision(), nil
	}
	return nil, nil
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput, actor Actor) (*models.Team, *eligibility.Decision, error) {
	if actor.Role != models.RoleGestor || actor.LocalityID == 0 {
		return nil, nil, ErrForbiddenOperation
	}

	if rejected, err := s.checkWindow(ctx); err != nil || rejected != nil {
		return nil, rejected, err
	}

	discipline, err := s.disciplineRepo.GetByID(ctx, input.DisciplineID)
	if err != nil {
		if errors.Is(err, repositories.ErrDisciplineNotFound) {
			return nil, nil, ErrDisciplineNotFound
		}
		return nil, nil, fmt.Errorf("failed to load discipline: %w", err)
	}
	if !discipline.Activa {
		return nil, nil, ErrDisciplineInactive
	}

	// Fast reject; the unique index on (disciplina, localidad,
	// creado_por) remains the authority under concurrent submissions.
	keys, err := s.teamRepo.ListKeysByManager(ctx, actor.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list existing teams: %w", err)
	}
	if !eligibility.CanCreateTeam(input.DisciplineID, actor.LocalityID, actor.UserID, keys) {
		return nil, teamExistsDecision(), nil
	}

	team := &models.Team{
		Nombre:       input.Nombre,
		DisciplineID: input.DisciplineID,
		LocalityID:   actor.LocalityID,
		CreatedBy:    actor.UserID,
		Status:       models.TeamStatusPendiente,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamConflict) {
			return nil, teamExistsDecision(), nil
		}
		return nil, nil, fmt.Errorf("failed to create team: %w", err)
	}
	team.Discipline = discipline

	s.publisher.Publish(events.TeamSubmitted, team)
	return team, nil, nil
}

func teamExistsDecision() *eligibility.Decision {
	return &eligibility.Decision{
		Reason:  eligibility.ReasonTeamAlreadyExists,
		Message: "Ya existe un equipo de esta disciplina para la localidad.",
	}
}

func (s *teamService) GetByID(ctx context.Context, id int, actor Actor) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if actor.Role == models.RoleGestor && team.LocalityID != actor.LocalityID {
		return nil, ErrLocalityMismatch
	}

	members, err := s.membershipRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	team.Members = members
	return team, nil
}

func (s *teamService) List(ctx context.Context, filter repositories.TeamFilter, actor Actor) ([]*models.Team, error) {
	// Gestores only ever see their own locality.
	if actor.Role == models.RoleGestor {
		filter.LocalityID = actor.LocalityID
	}
	teams, err := s.teamRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// Review moves a PENDIENTE team to APROBADA or RECHAZADA. The status
// is terminal once set and transitions are only permitted while the
// registration window is open.
func (s *teamService) Review(ctx context.Context, teamID int, approve bool, actor Actor) (*models.Team, *eligibility.Decision, error) {
	if actor.Role != models.RoleAdmin {
		return nil, nil, ErrForbiddenOperation
	}

	if rejected, err := s.checkWindow(ctx); err != nil || rejected != nil {
		return nil, rejected, err
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, nil, ErrTeamNotFound
		}
		return nil, nil, fmt.Errorf("failed to load team: %w", err)
	}
	if team.Status != models.TeamStatusPendiente {
		return nil, nil, ErrTeamAlreadyReviewed
	}

	status := models.TeamStatusRechazada
	eventType := events.TeamRejected
	if approve {
		status = models.TeamStatusAprobada
		eventType = events.TeamApproved
	}

	if err := s.teamRepo.UpdateStatus(ctx, teamID, status, actor.UserID); err != nil {
		return nil, nil, fmt.Errorf("failed to update team status: %w", err)
	}
	team.Status = status

	s.publisher.Publish(eventType, team)
	s.notifyGestor(ctx, team)

	return team, nil, nil
}

// notifyGestor emails the creating gestor about the review outcome.
// Failures are logged, never surfaced: the review already happened.
func (s *teamService) notifyGestor(ctx context.Context, team *models.Team) {
	if s.email == nil {
		return
	}
	creator, err := s.userRepo.GetByID(ctx, team.CreatedBy)
	if err != nil {
		s.logger.Error("failed to load team creator for notification",
			slog.Int("team_id", team.ID), slog.Any("error", err))
		return
	}
	if err := s.email.SendTeamReviewedEmail(creator.Email, team); err != nil {
		s.logger.Error("failed to send review notification",
			slog.Int("team_id", team.ID), slog.Any("error", err))
	}
}

func (s *teamService) Delete(ctx context.Context, teamID int, actor Actor) (*eligibility.Decision, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if actor.Role == models.RoleGestor && (team.LocalityID != actor.LocalityID || team.CreatedBy != actor.UserID) {
		return nil, ErrForbiddenOperation
	}

	if rejected, err := s.checkWindow(ctx); err != nil || rejected != nil {
		return rejected, err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		return nil, fmt.Errorf("failed to delete team: %w", err)
	}
	return nil, nil
}
