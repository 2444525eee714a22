package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agusaisen/recopro/models"
)

var (
	ErrLocalityNotFound     = errors.New("locality not found")
	ErrLocalityNameConflict = errors.New("locality name conflict")
	ErrLocalityInUse        = errors.New("locality has teams or participants")
)

type LocalityRepository interface {
	Create(ctx context.Context, l *models.Locality) error
	GetByID(ctx context.Context, id int) (*models.Locality, error)
	Update(ctx context.Context, l *models.Locality) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*models.Locality, error)
}

type postgresLocalityRepository struct {
	db *sql.DB
}

func NewPostgresLocalityRepository(db *sql.DB) LocalityRepository {
	return &postgresLocalityRepository{db: db}
}

func (r *postgresLocalityRepository) Create(ctx context.Context, l *models.Locality) error {
	query := `INSERT INTO localidades (nombre) VALUES ($1) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, l.Nombre).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		if pqConstraint(err) == "localidades_nombre_key" {
			return ErrLocalityNameConflict
		}
		return fmt.Errorf("failed to create locality: %w", err)
	}
	return nil
}

func (r *postgresLocalityRepository) GetByID(ctx context.Context, id int) (*models.Locality, error) {
	var l models.Locality
	err := r.db.QueryRowContext(ctx,
		`SELECT id, nombre, created_at FROM localidades WHERE id = $1`, id).
		Scan(&l.ID, &l.Nombre, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLocalityNotFound
		}
		return nil, fmt.Errorf("failed to get locality: %w", err)
	}
	return &l, nil
}

func (r *postgresLocalityRepository) Update(ctx context.Context, l *models.Locality) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE localidades SET nombre = $1 WHERE id = $2`, l.Nombre, l.ID)
	if err != nil {
		if pqConstraint(err) == "localidades_nombre_key" {
			return ErrLocalityNameConflict
		}
		return fmt.Errorf("failed to update locality: %w", err)
	}
	return checkAffectedRows(result, ErrLocalityNotFound)
}

func (r *postgresLocalityRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM localidades WHERE id = $1`, id)
	if err != nil {
		// Referenced by usuarios, equipos or participantes.
		if pqConstraint(err) != "" {
			return ErrLocalityInUse
		}
		return fmt.Errorf("failed to delete locality: %w", err)
	}
	return checkAffectedRows(result, ErrLocalityNotFound)
}

func (r *postgresLocalityRepository) List(ctx context.Context) ([]*models.Locality, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, nombre, created_at FROM localidades ORDER BY nombre`)
	if err != nil {
		return nil, fmt.Errorf("failed to list localities: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Locality, 0)
	for rows.Next() {
		var l models.Locality
		if err := rows.Scan(&l.ID, &l.Nombre, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan locality row: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locality rows: %w", err)
	}
	return out, nil
}
