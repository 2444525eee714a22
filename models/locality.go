package models

import "time"

// Locality is a municipality of the province. Teams, participants and
// gestor accounts all hang off a locality.
type Locality struct {
	ID        int       `json:"id" db:"id"`
	Nombre    string    `json:"nombre" db:"nombre"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
