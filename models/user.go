package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleGestor UserRole = "gestor"
)

// User is an account of the administrative application. Gestores are
// scoped to a single locality; admins have no locality.
type User struct {
	ID           int       `json:"id" db:"id"`
	Nombre       string    `json:"nombre" db:"nombre"`
	Apellido     string    `json:"apellido" db:"apellido"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         UserRole  `json:"role" db:"role"`
	LocalityID   *int      `json:"localidad_id,omitempty" db:"localidad_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`

	Locality *Locality `json:"localidad,omitempty" db:"-"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
