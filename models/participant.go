package models

import "time"

// ParticipantRole mirrors the ENUM in the participantes table.
type ParticipantRole string

const (
	RoleDeportista ParticipantRole = "deportista"
	RoleEntrenador ParticipantRole = "entrenador"
	RoleDelegado   ParticipantRole = "delegado"
)

// Valid reports whether r is one of the three known roles.
func (r ParticipantRole) Valid() bool {
	switch r {
	case RoleDeportista, RoleEntrenador, RoleDelegado:
		return true
	}
	return false
}

// IsStaff reports whether r is a non-athlete role subject to the
// minimum age rule.
func (r ParticipantRole) IsStaff() bool {
	return r == RoleEntrenador || r == RoleDelegado
}

// Participant is a person record. The DNI is the natural key: unique
// within a locality, and a DNI may never appear under two localities.
// The record is independent of any team; teams reference it through
// TeamMember rows and removing a membership never deletes the person.
type Participant struct {
	ID              int             `json:"id" db:"id"`
	DNI             string          `json:"dni" db:"dni"`
	Nombre          string          `json:"nombre" db:"nombre"`
	Apellido        string          `json:"apellido" db:"apellido"`
	FechaNacimiento time.Time       `json:"fecha_nacimiento" db:"fecha_nacimiento"`
	Genero          string          `json:"genero" db:"genero"`
	Role            ParticipantRole `json:"tipo" db:"tipo"`
	LocalityID      int             `json:"localidad_id" db:"localidad_id"`
	DocKey          *string         `json:"-" db:"doc_key"`
	DocURL          *string         `json:"doc_url,omitempty" db:"-"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	Locality *Locality `json:"localidad,omitempty" db:"-"`
}

// TeamMember links a participant to a team. A participant appears at
// most once per team.
type TeamMember struct {
	ID            int       `json:"id" db:"id"`
	TeamID        int       `json:"equipo_id" db:"equipo_id"`
	ParticipantID int       `json:"participante_id" db:"participante_id"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	Participant *Participant `json:"participante,omitempty" db:"-"`
}
