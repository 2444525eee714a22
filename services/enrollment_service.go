package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/events"
	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
)

// EnrollmentResult carries the engine's decision plus, when accepted,
// the persisted membership.
type EnrollmentResult struct {
	Decision eligibility.Decision `json:"decision"`
	Member   *models.TeamMember   `json:"integrante,omitempty"`
}

// EnrollmentService wires the eligibility engine to storage: it loads
// the discipline configuration, the current roster and the DNI
// registry, runs the pure rules, and persists accepted candidates.
type EnrollmentService interface {
	AddMember(ctx context.Context, teamID int, candidate eligibility.Candidate, actor Actor) (*EnrollmentResult, error)
	UpdateMember(ctx context.Context, teamID, participantID int, candidate eligibility.Candidate, actor Actor) (*EnrollmentResult, error)
	RemoveMember(ctx context.Context, teamID, participantID int, actor Actor) (*eligibility.Decision, error)
}

type enrollmentService struct {
	teamRepo        repositories.TeamRepository
	disciplineRepo  repositories.DisciplineRepository
	participantRepo repositories.ParticipantRepository
	membershipRepo  repositories.MembershipRepository
	settings        SettingsService
	publisher       events.Publisher
	minStaffAge     int
	now             func() time.Time
}

func NewEnrollmentService(
	teamRepo repositories.TeamRepository,
	disciplineRepo repositories.DisciplineRepository,
	participantRepo repositories.ParticipantRepository,
	membershipRepo repositories.MembershipRepository,
	settings SettingsService,
	publisher events.Publisher,
	minStaffAge int,
) EnrollmentService {
	if minStaffAge <= 0 {
		minStaffAge = eligibility.DefaultMinStaffAge
	}
	return &enrollmentService{
		teamRepo:        teamRepo,
		disciplineRepo:  disciplineRepo,
		participantRepo: participantRepo,
		membershipRepo:  membershipRepo,
		settings:        settings,
		publisher:       publisher,
		minStaffAge:     minStaffAge,
		now:             time.Now,
	}
}

// loadTeamForRoster resolves the team and enforces gestor scoping:
// only the creating gestor's locality may touch the roster.
func (s *enrollmentService) loadTeamForRoster(ctx context.Context, teamID int, actor Actor) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if actor.Role == models.RoleGestor && team.LocalityID != actor.LocalityID {
		return nil, ErrLocalityMismatch
	}
	return team, nil
}

func (s *enrollmentService) checkWindow(ctx context.Context) (*eligibility.Decision, error) {
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

func rejected(d eligibility.Decision) *EnrollmentResult {
	return &EnrollmentResult{Decision: d}
}

func (s *enrollmentService) AddMember(ctx context.Context, teamID int, candidate eligibility.Candidate, actor Actor) (*EnrollmentResult, error) {
	team, err := s.loadTeamForRoster(ctx, teamID, actor)
	if err != nil {
		return nil, err
	}

	if closed, err := s.checkWindow(ctx); err != nil {
		return nil, err
	} else if closed != nil {
		return rejected(*closed), nil
	}

	rules, counts, dnis, err := s.loadRosterState(ctx, team)
	if err != nil {
		return nil, err
	}

	decision := eligibility.EvaluateAddParticipant(candidate, rules, counts, dnis, s.now())
	if !decision.Accepted {
		return rejected(decision), nil
	}
	norm := decision.Normalized

	existing, err := s.participantRepo.FindByDNI(ctx, norm.DNI)
	if err != nil {
		return nil, fmt.Errorf("failed to look up dni: %w", err)
	}
	var existingLocality string
	if existing != nil && existing.Locality != nil {
		existingLocality = existing.Locality.Nombre
	}

	reuse := eligibility.EvaluateParticipantReuse(existing, existingLocality, team.LocalityID)
	if reuse.Outcome == eligibility.ReuseRejected {
		return rejected(eligibility.Decision{Reason: reuse.Reason, Message: reuse.Message}), nil
	}

	participant, err := s.persistParticipant(ctx, norm, reuse, team.LocalityID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantDNIConflict) {
			// Lost a race with a concurrent submission; the unique
			// index on dni is the source of truth.
			return rejected(conflictDecision()), nil
		}
		return nil, err
	}

	member := &models.TeamMember{TeamID: team.ID, ParticipantID: participant.ID}
	if err := s.membershipRepo.Add(ctx, member); err != nil {
		if errors.Is(err, repositories.ErrMembershipConflict) {
			return rejected(eligibility.Decision{
				Reason:  eligibility.ReasonDuplicateInTeam,
				Message: fmt.Sprintf("El DNI %s ya está cargado en este equipo.", norm.DNI),
			}), nil
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	member.Participant = participant

	s.publisher.Publish(events.RosterChanged, map[string]interface{}{
		"equipo_id":    team.ID,
		"localidad_id": team.LocalityID,
	})

	return &EnrollmentResult{Decision: decision, Member: member}, nil
}

func (s *enrollmentService) UpdateMember(ctx context.Context, teamID, participantID int, candidate eligibility.Candidate, actor Actor) (*EnrollmentResult, error) {
	team, err := s.loadTeamForRoster(ctx, teamID, actor)
	if err != nil {
		return nil, err
	}

	if closed, err := s.checkWindow(ctx); err != nil {
		return nil, err
	} else if closed != nil {
		return rejected(*closed), nil
	}

	current, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to load participant: %w", err)
	}

	// The DNI is the natural key and immutable; an edit that changes
	// it is a different person, which must go through removal and a
	// fresh add.
	if strings.TrimSpace(candidate.DNI) != current.DNI {
		return rejected(eligibility.Decision{
			Reason:  eligibility.ReasonInvalidInput,
			Message: "El DNI no puede modificarse.",
		}), nil
	}

	rules, counts, dnis, err := s.loadRosterState(ctx, team)
	if err != nil {
		return nil, err
	}

	// The participant must already be on this team's roster; edits
	// reach any registry row otherwise.
	if _, ok := dnis[current.DNI]; !ok {
		return nil, ErrMemberNotFound
	}

	// Re-evaluate as if the member were not on the roster yet, so a
	// same-slot edit cannot fail its own duplicate or capacity checks.
	delete(dnis, current.DNI)
	switch current.Role {
	case models.RoleEntrenador:
		counts.Entrenadores--
	case models.RoleDelegado:
		counts.Delegados--
	default:
		counts.Deportistas--
	}

	decision := eligibility.EvaluateAddParticipant(candidate, rules, counts, dnis, s.now())
	if !decision.Accepted {
		return rejected(decision), nil
	}
	norm := decision.Normalized

	birth, err := eligibility.ParseBirthDate(norm.FechaNacimiento)
	if err != nil {
		return nil, fmt.Errorf("normalized birth date unparseable: %w", err)
	}
	current.Nombre = norm.Nombre
	current.Apellido = norm.Apellido
	current.FechaNacimiento = birth
	current.Genero = norm.Genero
	current.Role = norm.Role

	if err := s.participantRepo.Update(ctx, current); err != nil {
		return nil, fmt.Errorf("failed to update participant: %w", err)
	}

	s.publisher.Publish(events.RosterChanged, map[string]interface{}{
		"equipo_id":    team.ID,
		"localidad_id": team.LocalityID,
	})

	return &EnrollmentResult{
		Decision: decision,
		Member:   &models.TeamMember{TeamID: team.ID, ParticipantID: current.ID, Participant: current},
	}, nil
}

// RemoveMember deletes the membership link only; the participant
// record survives for reuse within its locality.
func (s *enrollmentService) RemoveMember(ctx context.Context, teamID, participantID int, actor Actor) (*eligibility.Decision, error) {
	team, err := s.loadTeamForRoster(ctx, teamID, actor)
	if err != nil {
		return nil, err
	}

	if closed, err := s.checkWindow(ctx); err != nil || closed != nil {
		return closed, err
	}

	if err := s.membershipRepo.Remove(ctx, teamID, participantID); err != nil {
		if errors.Is(err, repositories.ErrMembershipNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to remove team member: %w", err)
	}

	s.publisher.Publish(events.RosterChanged, map[string]interface{}{
		"equipo_id":    team.ID,
		"localidad_id": team.LocalityID,
	})
	return nil, nil
}

func (s *enrollmentService) loadRosterState(ctx context.Context, team *models.Team) (eligibility.Rules, eligibility.RosterCounts, map[string]struct{}, error) {
	discipline := team.Discipline
	if discipline == nil {
		var err error
		discipline, err = s.disciplineRepo.GetByID(ctx, team.DisciplineID)
		if err != nil {
			return eligibility.Rules{}, eligibility.RosterCounts{}, nil, fmt.Errorf("failed to load discipline: %w", err)
		}
	}
	rules := eligibility.RulesFromDiscipline(discipline, s.minStaffAge)

	counts, err := s.membershipRepo.RosterCounts(ctx, team.ID)
	if err != nil {
		return eligibility.Rules{}, eligibility.RosterCounts{}, nil, err
	}
	dnis, err := s.membershipRepo.DNISet(ctx, team.ID)
	if err != nil {
		return eligibility.Rules{}, eligibility.RosterCounts{}, nil, err
	}
	return rules, counts, dnis, nil
}

// persistParticipant creates the person on first DNI encounter within
// the locality, or overwrites the mutable fields of the existing
// record (DNI and locality stay immutable).
func (s *enrollmentService) persistParticipant(ctx context.Context, norm *eligibility.Candidate, reuse eligibility.ReuseDecision, localityID int) (*models.Participant, error) {
	birth, err := eligibility.ParseBirthDate(norm.FechaNacimiento)
	if err != nil {
		return nil, fmt.Errorf("normalized birth date unparseable: %w", err)
	}

	if reuse.Outcome == eligibility.ReuseExisting {
		p := reuse.Existing
		p.Nombre = norm.Nombre
		p.Apellido = norm.Apellido
		p.FechaNacimiento = birth
		p.Genero = norm.Genero
		p.Role = norm.Role
		if err := s.participantRepo.Update(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to update participant: %w", err)
		}
		return p, nil
	}

	p := &models.Participant{
		DNI:             norm.DNI,
		Nombre:          norm.Nombre,
		Apellido:        norm.Apellido,
		FechaNacimiento: birth,
		Genero:          norm.Genero,
		Role:            norm.Role,
		LocalityID:      localityID,
	}
	if err := s.participantRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func conflictDecision() eligibility.Decision {
	return eligibility.Decision{
		Reason:  eligibility.ReasonConflict,
		Message: "El registro fue modificado por otra sesión. Intente nuevamente.",
	}
}
