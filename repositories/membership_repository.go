package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/models"
)

var (
	ErrMembershipNotFound = errors.New("team membership not found")
	// ErrMembershipConflict is the unique index on (equipo,
	// participante) tripping: the authoritative guard against a
	// participant appearing twice on one roster.
	ErrMembershipConflict           = errors.New("participant already on this team")
	ErrMembershipParticipantInvalid = errors.New("membership participant invalid")
	ErrMembershipTeamInvalid        = errors.New("membership team invalid")
)

type MembershipRepository interface {
	Add(ctx context.Context, m *models.TeamMember) error
	Remove(ctx context.Context, teamID, participantID int) error
	// RosterCounts returns the per-role headcount of a team in one
	// grouped query.
	RosterCounts(ctx context.Context, teamID int) (eligibility.RosterCounts, error)
	// DNISet returns the DNIs already on a team's roster.
	DNISet(ctx context.Context, teamID int) (map[string]struct{}, error)
	ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMember, error)
	FindTeamIDsByParticipant(ctx context.Context, participantID int) ([]int, error)
}

type postgresMembershipRepository struct {
	db *sql.DB
}

func NewPostgresMembershipRepository(db *sql.DB) MembershipRepository {
	return &postgresMembershipRepository{db: db}
}

func (r *postgresMembershipRepository) Add(ctx context.Context, m *models.TeamMember) error {
	query := `
		INSERT INTO equipo_integrantes (equipo_id, participante_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, m.TeamID, m.ParticipantID).
		Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		switch pqConstraint(err) {
		case "equipo_integrantes_equipo_participante_key":
			return ErrMembershipConflict
		case "equipo_integrantes_participante_id_fkey":
			return ErrMembershipParticipantInvalid
		case "equipo_integrantes_equipo_id_fkey":
			return ErrMembershipTeamInvalid
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

// Remove deletes the membership row only; the participant record
// survives for reuse in other teams of the same locality.
func (r *postgresMembershipRepository) Remove(ctx context.Context, teamID, participantID int) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM equipo_integrantes WHERE equipo_id = $1 AND participante_id = $2`,
		teamID, participantID)
	if err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return checkAffectedRows(result, ErrMembershipNotFound)
}

func (r *postgresMembershipRepository) RosterCounts(ctx context.Context, teamID int) (eligibility.RosterCounts, error) {
	query := `
		SELECT p.tipo, COUNT(*)
		FROM equipo_integrantes m
		JOIN participantes p ON m.participante_id = p.id
		WHERE m.equipo_id = $1
		GROUP BY p.tipo`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return eligibility.RosterCounts{}, fmt.Errorf("failed to count roster: %w", err)
	}
	defer rows.Close()

	var counts eligibility.RosterCounts
	for rows.Next() {
		var role models.ParticipantRole
		var n int
		if err := rows.Scan(&role, &n); err != nil {
			return eligibility.RosterCounts{}, fmt.Errorf("failed to scan roster count: %w", err)
		}
		switch role {
		case models.RoleEntrenador:
			counts.Entrenadores = n
		case models.RoleDelegado:
			counts.Delegados = n
		default:
			counts.Deportistas = n
		}
	}
	if err := rows.Err(); err != nil {
		return eligibility.RosterCounts{}, fmt.Errorf("error iterating roster counts: %w", err)
	}
	return counts, nil
}

func (r *postgresMembershipRepository) DNISet(ctx context.Context, teamID int) (map[string]struct{}, error) {
	query := `
		SELECT p.dni
		FROM equipo_integrantes m
		JOIN participantes p ON m.participante_id = p.id
		WHERE m.equipo_id = $1`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team dni set: %w", err)
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var dni string
		if err := rows.Scan(&dni); err != nil {
			return nil, fmt.Errorf("failed to scan dni: %w", err)
		}
		set[dni] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating dni rows: %w", err)
	}
	return set, nil
}

func (r *postgresMembershipRepository) ListByTeam(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	query := `
		SELECT
			m.id, m.equipo_id, m.participante_id, m.created_at,
			p.id, p.dni, p.nombre, p.apellido, p.fecha_nacimiento, p.genero, p.tipo,
			p.localidad_id, p.doc_key, p.created_at
		FROM equipo_integrantes m
		JOIN participantes p ON m.participante_id = p.id
		WHERE m.equipo_id = $1
		ORDER BY p.tipo, p.apellido, p.nombre`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		var p models.Participant
		if err := rows.Scan(
			&m.ID, &m.TeamID, &m.ParticipantID, &m.CreatedAt,
			&p.ID, &p.DNI, &p.Nombre, &p.Apellido, &p.FechaNacimiento, &p.Genero, &p.Role,
			&p.LocalityID, &p.DocKey, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan member row: %w", err)
		}
		m.Participant = &p
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return members, nil
}

func (r *postgresMembershipRepository) FindTeamIDsByParticipant(ctx context.Context, participantID int) ([]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT equipo_id FROM equipo_integrantes WHERE participante_id = $1`, participantID)
	if err != nil {
		return nil, fmt.Errorf("failed to find teams for participant: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan team id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team ids: %w", err)
	}
	return ids, nil
}
