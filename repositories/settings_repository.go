package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agusaisen/recopro/models"
)

var ErrWindowNotFound = errors.New("registration window not configured")

type SettingsRepository interface {
	GetWindow(ctx context.Context) (*models.RegistrationWindow, error)
	SetWindow(ctx context.Context, w *models.RegistrationWindow) error
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func (r *postgresSettingsRepository) GetWindow(ctx context.Context) (*models.RegistrationWindow, error) {
	var w models.RegistrationWindow
	err := r.db.QueryRowContext(ctx,
		`SELECT id, fecha_inicio, fecha_fin, updated_at FROM configuracion WHERE id = 1`).
		Scan(&w.ID, &w.FechaInicio, &w.FechaFin, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWindowNotFound
		}
		return nil, fmt.Errorf("failed to get registration window: %w", err)
	}
	return &w, nil
}

// SetWindow upserts the singleton settings row.
func (r *postgresSettingsRepository) SetWindow(ctx context.Context, w *models.RegistrationWindow) error {
	query := `
		INSERT INTO configuracion (id, fecha_inicio, fecha_fin, updated_at)
		VALUES (1, $1, $2, now())
		ON CONFLICT (id) DO UPDATE
		SET fecha_inicio = EXCLUDED.fecha_inicio, fecha_fin = EXCLUDED.fecha_fin, updated_at = now()
		RETURNING id, updated_at`

	err := r.db.QueryRowContext(ctx, query, w.FechaInicio, w.FechaFin).
		Scan(&w.ID, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to set registration window: %w", err)
	}
	return nil
}
