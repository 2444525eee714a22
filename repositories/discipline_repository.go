package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agusaisen/recopro/models"
)

var (
	ErrDisciplineNotFound     = errors.New("discipline not found")
	ErrDisciplineNameConflict = errors.New("discipline name conflict")
)

type DisciplineRepository interface {
	Create(ctx context.Context, d *models.Discipline) error
	GetByID(ctx context.Context, id int) (*models.Discipline, error)
	Update(ctx context.Context, d *models.Discipline) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context, onlyActive bool) ([]*models.Discipline, error)
}

type postgresDisciplineRepository struct {
	db *sql.DB
}

func NewPostgresDisciplineRepository(db *sql.DB) DisciplineRepository {
	return &postgresDisciplineRepository{db: db}
}

const disciplineColumns = `id, nombre, genero, anio_desde, anio_hasta, cantidad_integrantes, entrenadores, delegados, activa, created_at`

func (r *postgresDisciplineRepository) Create(ctx context.Context, d *models.Discipline) error {
	query := `
		INSERT INTO disciplinas (nombre, genero, anio_desde, anio_hasta, cantidad_integrantes, entrenadores, delegados, activa)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		d.Nombre, d.Genero, d.AnioDesde, d.AnioHasta,
		d.CantidadIntegrantes, d.Entrenadores, d.Delegados, d.Activa,
	).Scan(&d.ID, &d.CreatedAt)

	if err != nil {
		if pqConstraint(err) == "disciplinas_nombre_genero_key" {
			return ErrDisciplineNameConflict
		}
		return fmt.Errorf("failed to create discipline: %w", err)
	}
	return nil
}

func (r *postgresDisciplineRepository) scan(row *sql.Row) (*models.Discipline, error) {
	var d models.Discipline
	err := row.Scan(&d.ID, &d.Nombre, &d.Genero, &d.AnioDesde, &d.AnioHasta,
		&d.CantidadIntegrantes, &d.Entrenadores, &d.Delegados, &d.Activa, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDisciplineNotFound
		}
		return nil, fmt.Errorf("failed to scan discipline: %w", err)
	}
	return &d, nil
}

func (r *postgresDisciplineRepository) GetByID(ctx context.Context, id int) (*models.Discipline, error) {
	query := `SELECT ` + disciplineColumns + ` FROM disciplinas WHERE id = $1`
	return r.scan(r.db.QueryRowContext(ctx, query, id))
}

func (r *postgresDisciplineRepository) Update(ctx context.Context, d *models.Discipline) error {
	query := `
		UPDATE disciplinas
		SET nombre = $1, genero = $2, anio_desde = $3, anio_hasta = $4,
		    cantidad_integrantes = $5, entrenadores = $6, delegados = $7, activa = $8
		WHERE id = $9`

	result, err := r.db.ExecContext(ctx, query,
		d.Nombre, d.Genero, d.AnioDesde, d.AnioHasta,
		d.CantidadIntegrantes, d.Entrenadores, d.Delegados, d.Activa, d.ID)
	if err != nil {
		if pqConstraint(err) == "disciplinas_nombre_genero_key" {
			return ErrDisciplineNameConflict
		}
		return fmt.Errorf("failed to update discipline: %w", err)
	}
	return checkAffectedRows(result, ErrDisciplineNotFound)
}

func (r *postgresDisciplineRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM disciplinas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete discipline: %w", err)
	}
	return checkAffectedRows(result, ErrDisciplineNotFound)
}

func (r *postgresDisciplineRepository) List(ctx context.Context, onlyActive bool) ([]*models.Discipline, error) {
	query := `SELECT ` + disciplineColumns + ` FROM disciplinas`
	if onlyActive {
		query += ` WHERE activa`
	}
	query += ` ORDER BY nombre, genero`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list disciplines: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Discipline, 0)
	for rows.Next() {
		var d models.Discipline
		if err := rows.Scan(&d.ID, &d.Nombre, &d.Genero, &d.AnioDesde, &d.AnioHasta,
			&d.CantidadIntegrantes, &d.Entrenadores, &d.Delegados, &d.Activa, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan discipline row: %w", err)
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discipline rows: %w", err)
	}
	return out, nil
}
