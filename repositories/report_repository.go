package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agusaisen/recopro/models"
)

// ReportRepository runs the aggregate queries behind the admin
// dashboard and the exported reports.
type ReportRepository interface {
	CountLocalities(ctx context.Context) (int, error)
	CountActiveDisciplines(ctx context.Context) (int, error)
	CountTeams(ctx context.Context, status *models.TeamStatus) (int, error)
	CountParticipants(ctx context.Context) (int, error)
	DisciplineRows(ctx context.Context) ([]models.DisciplineReportRow, error)
	LocalityRows(ctx context.Context) ([]models.LocalityReportRow, error)
}

type postgresReportRepository struct {
	db *sql.DB
}

func NewPostgresReportRepository(db *sql.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) count(ctx context.Context, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}

func (r *postgresReportRepository) CountLocalities(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM localidades`)
}

func (r *postgresReportRepository) CountActiveDisciplines(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM disciplinas WHERE activa`)
}

func (r *postgresReportRepository) CountTeams(ctx context.Context, status *models.TeamStatus) (int, error) {
	if status == nil {
		return r.count(ctx, `SELECT COUNT(*) FROM equipos`)
	}
	return r.count(ctx, `SELECT COUNT(*) FROM equipos WHERE estado = $1`, *status)
}

func (r *postgresReportRepository) CountParticipants(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM participantes`)
}

func (r *postgresReportRepository) DisciplineRows(ctx context.Context) ([]models.DisciplineReportRow, error) {
	query := `
		SELECT
			d.id, d.nombre, d.genero,
			COUNT(DISTINCT e.id),
			COUNT(*) FILTER (WHERE p.tipo = 'deportista'),
			COUNT(*) FILTER (WHERE p.tipo = 'entrenador'),
			COUNT(*) FILTER (WHERE p.tipo = 'delegado')
		FROM disciplinas d
		LEFT JOIN equipos e ON e.disciplina_id = d.id
		LEFT JOIN equipo_integrantes m ON m.equipo_id = e.id
		LEFT JOIN participantes p ON p.id = m.participante_id
		GROUP BY d.id, d.nombre, d.genero
		ORDER BY d.nombre, d.genero`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to build discipline report: %w", err)
	}
	defer rows.Close()

	out := make([]models.DisciplineReportRow, 0)
	for rows.Next() {
		var row models.DisciplineReportRow
		if err := rows.Scan(&row.DisciplineID, &row.Disciplina, &row.Genero,
			&row.Equipos, &row.Deportistas, &row.Entrenadores, &row.Delegados); err != nil {
			return nil, fmt.Errorf("failed to scan discipline report row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discipline report: %w", err)
	}
	return out, nil
}

func (r *postgresReportRepository) LocalityRows(ctx context.Context) ([]models.LocalityReportRow, error) {
	query := `
		SELECT
			l.id, l.nombre,
			COUNT(DISTINCT e.id),
			COUNT(DISTINCT p.id)
		FROM localidades l
		LEFT JOIN equipos e ON e.localidad_id = l.id
		LEFT JOIN participantes p ON p.localidad_id = l.id
		GROUP BY l.id, l.nombre
		ORDER BY l.nombre`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to build locality report: %w", err)
	}
	defer rows.Close()

	out := make([]models.LocalityReportRow, 0)
	for rows.Next() {
		var row models.LocalityReportRow
		if err := rows.Scan(&row.LocalityID, &row.Localidad, &row.Equipos, &row.Participantes); err != nil {
			return nil, fmt.Errorf("failed to scan locality report row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locality report: %w", err)
	}
	return out, nil
}
