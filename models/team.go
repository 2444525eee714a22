package models

import "time"

// TeamStatus mirrors the ENUM in the equipos table. PENDIENTE is the
// initial state; APROBADA and RECHAZADA are terminal.
type TeamStatus string

const (
	TeamStatusPendiente TeamStatus = "PENDIENTE"
	TeamStatusAprobada  TeamStatus = "APROBADA"
	TeamStatusRechazada TeamStatus = "RECHAZADA"
)

// Team is one discipline entry for one locality, created by exactly one
// gestor. At most one team may exist per (discipline, locality, gestor).
type Team struct {
	ID           int        `json:"id" db:"id"`
	Nombre       *string    `json:"nombre,omitempty" db:"nombre"`
	DisciplineID int        `json:"disciplina_id" db:"disciplina_id"`
	LocalityID   int        `json:"localidad_id" db:"localidad_id"`
	CreatedBy    int        `json:"creado_por" db:"creado_por"`
	Status       TeamStatus `json:"estado" db:"estado"`
	ReviewedBy   *int       `json:"revisado_por,omitempty" db:"revisado_por"`
	ReviewedAt   *time.Time `json:"revisado_en,omitempty" db:"revisado_en"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	Discipline *Discipline   `json:"disciplina,omitempty" db:"-"`
	Locality   *Locality     `json:"localidad,omitempty" db:"-"`
	Members    []*TeamMember `json:"integrantes,omitempty" db:"-"`
}
