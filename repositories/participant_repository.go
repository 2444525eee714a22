package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agusaisen/recopro/models"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrParticipantDNIConflict is the global unique index on dni
	// tripping: the DNI is already registered, possibly under another
	// locality. The index is the authority for DNI exclusivity.
	ErrParticipantDNIConflict     = errors.New("participant dni already registered")
	ErrParticipantLocalityInvalid = errors.New("participant locality invalid")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.Participant) error
	GetByID(ctx context.Context, id int) (*models.Participant, error)
	// FindByDNI looks a DNI up across all localities; the joined
	// locality is always populated so callers can report a
	// cross-locality conflict. Returns (nil, nil) when unknown.
	FindByDNI(ctx context.Context, dni string) (*models.Participant, error)
	Update(ctx context.Context, p *models.Participant) error
	UpdateDocKey(ctx context.Context, id int, key *string) error
	ListByLocality(ctx context.Context, localityID int) ([]*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.Participant) error {
	query := `
		INSERT INTO participantes (dni, nombre, apellido, fecha_nacimiento, genero, tipo, localidad_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.DNI, p.Nombre, p.Apellido, p.FechaNacimiento, p.Genero, p.Role, p.LocalityID,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		switch pqConstraint(err) {
		case "participantes_dni_key":
			return ErrParticipantDNIConflict
		case "participantes_localidad_id_fkey":
			return ErrParticipantLocalityInvalid
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

const selectParticipantSQL = `
	SELECT
		p.id, p.dni, p.nombre, p.apellido, p.fecha_nacimiento, p.genero, p.tipo,
		p.localidad_id, p.doc_key, p.created_at,
		l.id, l.nombre, l.created_at
	FROM participantes p
	JOIN localidades l ON p.localidad_id = l.id`

func (r *postgresParticipantRepository) scanOne(row *sql.Row) (*models.Participant, error) {
	var p models.Participant
	var l models.Locality
	err := row.Scan(
		&p.ID, &p.DNI, &p.Nombre, &p.Apellido, &p.FechaNacimiento, &p.Genero, &p.Role,
		&p.LocalityID, &p.DocKey, &p.CreatedAt,
		&l.ID, &l.Nombre, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Locality = &l
	return &p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, id int) (*models.Participant, error) {
	p, err := r.scanOne(r.db.QueryRowContext(ctx, selectParticipantSQL+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) FindByDNI(ctx context.Context, dni string) (*models.Participant, error) {
	p, err := r.scanOne(r.db.QueryRowContext(ctx, selectParticipantSQL+` WHERE p.dni = $1`, dni))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find participant by dni: %w", err)
	}
	return p, nil
}

// Update overwrites the mutable fields of a participant. The DNI and
// the locality are immutable once the record exists.
func (r *postgresParticipantRepository) Update(ctx context.Context, p *models.Participant) error {
	query := `
		UPDATE participantes
		SET nombre = $1, apellido = $2, fecha_nacimiento = $3, genero = $4, tipo = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		p.Nombre, p.Apellido, p.FechaNacimiento, p.Genero, p.Role, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update participant: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateDocKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE participantes SET doc_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update participant doc key: %w", err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ListByLocality(ctx context.Context, localityID int) ([]*models.Participant, error) {
	query := `
		SELECT id, dni, nombre, apellido, fecha_nacimiento, genero, tipo, localidad_id, doc_key, created_at
		FROM participantes
		WHERE localidad_id = $1
		ORDER BY apellido, nombre`

	rows, err := r.db.QueryContext(ctx, query, localityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Participant, 0)
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.DNI, &p.Nombre, &p.Apellido, &p.FechaNacimiento,
			&p.Genero, &p.Role, &p.LocalityID, &p.DocKey, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}
	return out, nil
}
