package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/agusaisen/recopro/models"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserEmailConflict   = errors.New("user email conflict")
	ErrUserLocalityInvalid = errors.New("user locality invalid")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int) error
	List(ctx context.Context) ([]*models.User, error)
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO usuarios (nombre, apellido, email, password_hash, role, localidad_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Nombre,
		user.Apellido,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.LocalityID,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		switch pqConstraint(err) {
		case "usuarios_email_key":
			return ErrUserEmailConflict
		case "usuarios_localidad_id_fkey":
			return ErrUserLocalityInvalid
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

const selectUserSQL = `
	SELECT
		u.id, u.nombre, u.apellido, u.email, u.password_hash, u.role, u.localidad_id, u.created_at,
		l.id, l.nombre, l.created_at
	FROM usuarios u
	LEFT JOIN localidades l ON u.localidad_id = l.id`

func (r *postgresUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var locID sql.NullInt64
	var locName sql.NullString
	var locCreated sql.NullTime

	err := row.Scan(
		&user.ID, &user.Nombre, &user.Apellido, &user.Email,
		&user.PasswordHash, &user.Role, &user.LocalityID, &user.CreatedAt,
		&locID, &locName, &locCreated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	if locID.Valid {
		user.Locality = &models.Locality{
			ID:        int(locID.Int64),
			Nombre:    locName.String,
			CreatedAt: locCreated.Time,
		}
	}
	return &user, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUserSQL+` WHERE u.id = $1`, id))
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx, selectUserSQL+` WHERE u.email = $1`, email))
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE usuarios
		SET nombre = $1, apellido = $2, email = $3, password_hash = $4, role = $5, localidad_id = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		user.Nombre, user.Apellido, user.Email, user.PasswordHash, user.Role, user.LocalityID, user.ID)
	if err != nil {
		if pqConstraint(err) == "usuarios_email_key" {
			return ErrUserEmailConflict
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, apellido, email, role, localidad_id, created_at
		FROM usuarios
		ORDER BY apellido, nombre`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email, &u.Role, &u.LocalityID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}
