package models

import "time"

// DisciplineGender mirrors the ENUM in the disciplinas table. Every
// discipline is configured for exactly one gender.
type DisciplineGender string

const (
	GenderMasculino DisciplineGender = "MASCULINO"
	GenderFemenino  DisciplineGender = "FEMENINO"
)

// Discipline is a sport category with its enrollment rules: the birth
// year range athletes must fall in and the per-role roster capacities.
type Discipline struct {
	ID                  int              `json:"id" db:"id"`
	Nombre              string           `json:"nombre" db:"nombre"`
	Genero              DisciplineGender `json:"genero" db:"genero"`
	AnioDesde           int              `json:"anio_desde" db:"anio_desde"`
	AnioHasta           int              `json:"anio_hasta" db:"anio_hasta"`
	CantidadIntegrantes int              `json:"cantidad_integrantes" db:"cantidad_integrantes"`
	Entrenadores        int              `json:"entrenadores" db:"entrenadores"`
	Delegados           int              `json:"delegados" db:"delegados"`
	Activa              bool             `json:"activa" db:"activa"`
	CreatedAt           time.Time        `json:"created_at" db:"created_at"`
}
