package models

import "time"

// RegistrationWindow is the singleton settings row that bounds every
// mutating operation of the enrollment period. Boundaries are whole
// days, inclusive on both ends.
type RegistrationWindow struct {
	ID          int       `json:"id" db:"id"`
	FechaInicio time.Time `json:"fecha_inicio" db:"fecha_inicio"`
	FechaFin    time.Time `json:"fecha_fin" db:"fecha_fin"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
