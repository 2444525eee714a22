package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/models"
)

var (
	ErrTeamNotFound = errors.New("team not found")
	// ErrTeamConflict is the unique index on (disciplina, localidad,
	// creado_por) tripping. The index is the authority for the
	// one-team-per-discipline invariant; the service's pre-check is
	// only a fast reject.
	ErrTeamConflict          = errors.New("team already exists for discipline, locality and gestor")
	ErrTeamDisciplineInvalid = errors.New("team discipline invalid")
	ErrTeamLocalityInvalid   = errors.New("team locality invalid")
)

// TeamFilter narrows List: zero values mean no filter.
type TeamFilter struct {
	LocalityID   int
	DisciplineID int
	Status       models.TeamStatus
}

type TeamRepository interface {
	Create(ctx context.Context, t *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context, filter TeamFilter) ([]*models.Team, error)
	ListKeysByManager(ctx context.Context, managerID int) ([]eligibility.TeamKey, error)
	UpdateStatus(ctx context.Context, id int, status models.TeamStatus, reviewerID int) error
	UpdateName(ctx context.Context, id int, name *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, t *models.Team) error {
	query := `
		INSERT INTO equipos (nombre, disciplina_id, localidad_id, creado_por, estado)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Nombre, t.DisciplineID, t.LocalityID, t.CreatedBy, t.Status,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		switch pqConstraint(err) {
		case "equipos_disciplina_localidad_gestor_key":
			return ErrTeamConflict
		case "equipos_disciplina_id_fkey":
			return ErrTeamDisciplineInvalid
		case "equipos_localidad_id_fkey":
			return ErrTeamLocalityInvalid
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT
			e.id, e.nombre, e.disciplina_id, e.localidad_id, e.creado_por,
			e.estado, e.revisado_por, e.revisado_en, e.created_at,
			d.id, d.nombre, d.genero, d.anio_desde, d.anio_hasta,
			d.cantidad_integrantes, d.entrenadores, d.delegados, d.activa, d.created_at,
			l.id, l.nombre, l.created_at
		FROM equipos e
		JOIN disciplinas d ON e.disciplina_id = d.id
		JOIN localidades l ON e.localidad_id = l.id
		WHERE e.id = $1`

	var t models.Team
	var d models.Discipline
	var l models.Locality

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Nombre, &t.DisciplineID, &t.LocalityID, &t.CreatedBy,
		&t.Status, &t.ReviewedBy, &t.ReviewedAt, &t.CreatedAt,
		&d.ID, &d.Nombre, &d.Genero, &d.AnioDesde, &d.AnioHasta,
		&d.CantidadIntegrantes, &d.Entrenadores, &d.Delegados, &d.Activa, &d.CreatedAt,
		&l.ID, &l.Nombre, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	t.Discipline = &d
	t.Locality = &l
	return &t, nil
}

func (r *postgresTeamRepository) List(ctx context.Context, filter TeamFilter) ([]*models.Team, error) {
	var b strings.Builder
	b.WriteString(`
		SELECT
			e.id, e.nombre, e.disciplina_id, e.localidad_id, e.creado_por,
			e.estado, e.revisado_por, e.revisado_en, e.created_at,
			d.nombre, d.genero, l.nombre
		FROM equipos e
		JOIN disciplinas d ON e.disciplina_id = d.id
		JOIN localidades l ON e.localidad_id = l.id
		WHERE 1=1`)

	args := []interface{}{}
	if filter.LocalityID > 0 {
		args = append(args, filter.LocalityID)
		fmt.Fprintf(&b, " AND e.localidad_id = $%d", len(args))
	}
	if filter.DisciplineID > 0 {
		args = append(args, filter.DisciplineID)
		fmt.Fprintf(&b, " AND e.disciplina_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&b, " AND e.estado = $%d", len(args))
	}
	b.WriteString(" ORDER BY l.nombre, d.nombre")

	rows, err := r.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		var d models.Discipline
		var l models.Locality
		if err := rows.Scan(
			&t.ID, &t.Nombre, &t.DisciplineID, &t.LocalityID, &t.CreatedBy,
			&t.Status, &t.ReviewedBy, &t.ReviewedAt, &t.CreatedAt,
			&d.Nombre, &d.Genero, &l.Nombre,
		); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		d.ID = t.DisciplineID
		l.ID = t.LocalityID
		t.Discipline = &d
		t.Locality = &l
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) ListKeysByManager(ctx context.Context, managerID int) ([]eligibility.TeamKey, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT disciplina_id, localidad_id, creado_por FROM equipos WHERE creado_por = $1`, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team keys: %w", err)
	}
	defer rows.Close()

	keys := make([]eligibility.TeamKey, 0)
	for rows.Next() {
		var k eligibility.TeamKey
		if err := rows.Scan(&k.DisciplineID, &k.LocalityID, &k.CreatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan team key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team keys: %w", err)
	}
	return keys, nil
}

func (r *postgresTeamRepository) UpdateStatus(ctx context.Context, id int, status models.TeamStatus, reviewerID int) error {
	query := `UPDATE equipos SET estado = $1, revisado_por = $2, revisado_en = now() WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, reviewerID, id)
	if err != nil {
		return fmt.Errorf("failed to update team status: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateName(ctx context.Context, id int, name *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE equipos SET nombre = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to update team name: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM equipos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
