// Package eligibility implements the enrollment rule engine for the
// Juegos Regionales: the decision logic that accepts or rejects a
// participant for a team roster. Every function here is pure — no
// clock, no storage, no session. Callers load the discipline config,
// the current roster and the DNI registry, and persist the outcome.
//
// Rejections are values, never errors: a candidate that breaks a rule
// produces a Decision with a stable machine-readable Reason and a
// Spanish user-facing message.
package eligibility

import (
	"fmt"
	"strings"
	"time"

	"github.com/agusaisen/recopro/models"
)

// Reason is a stable rejection code. API clients and tests match on
// these, so they never change meaning.
type Reason string

const (
	ReasonDuplicateInTeam      Reason = "DUPLICATE_IN_TEAM"
	ReasonRoleCapacityExceeded Reason = "ROLE_CAPACITY_EXCEEDED"
	ReasonGenderMismatch       Reason = "GENDER_MISMATCH"
	ReasonInvalidDate          Reason = "INVALID_DATE"
	ReasonInvalidInput         Reason = "INVALID_INPUT"
	ReasonBirthYearOutOfRange  Reason = "BIRTH_YEAR_OUT_OF_RANGE"
	ReasonUnderageStaff        Reason = "UNDERAGE_STAFF"
	ReasonCrossLocality        Reason = "CROSS_LOCALITY_CONFLICT"
	ReasonTeamAlreadyExists    Reason = "TEAM_ALREADY_EXISTS"
	ReasonWindowClosed         Reason = "REGISTRATION_WINDOW_CLOSED"
	ReasonConflict             Reason = "CONFLICT"
)

// DefaultMinStaffAge is the minimum age for entrenadores and delegados.
// The legacy system had both 18 and 21 in different call sites; 21 is
// the canonical value and the constant is overridable via MIN_STAFF_AGE.
const DefaultMinStaffAge = 21

// Candidate carries the participant attributes exactly as submitted.
// FechaNacimiento is the raw form value, ISO (YYYY-MM-DD) or DD/MM/YYYY.
type Candidate struct {
	DNI             string                 `json:"dni"`
	Nombre          string                 `json:"nombre"`
	Apellido        string                 `json:"apellido"`
	FechaNacimiento string                 `json:"fecha_nacimiento"`
	Genero          string                 `json:"genero"`
	Role            models.ParticipantRole `json:"tipo"`
}

// Rules is the slice of a discipline's configuration the engine needs.
type Rules struct {
	Genero       string
	AnioDesde    int
	AnioHasta    int
	Deportistas  int
	Entrenadores int
	Delegados    int
	MinStaffAge  int
}

// RulesFromDiscipline builds Rules from a stored discipline. A
// minStaffAge of zero falls back to DefaultMinStaffAge.
func RulesFromDiscipline(d *models.Discipline, minStaffAge int) Rules {
	if minStaffAge <= 0 {
		minStaffAge = DefaultMinStaffAge
	}
	return Rules{
		Genero:       string(d.Genero),
		AnioDesde:    d.AnioDesde,
		AnioHasta:    d.AnioHasta,
		Deportistas:  d.CantidadIntegrantes,
		Entrenadores: d.Entrenadores,
		Delegados:    d.Delegados,
		MinStaffAge:  minStaffAge,
	}
}

// CapacityFor returns the configured cap for a role.
func (r Rules) CapacityFor(role models.ParticipantRole) int {
	switch role {
	case models.RoleEntrenador:
		return r.Entrenadores
	case models.RoleDelegado:
		return r.Delegados
	default:
		return r.Deportistas
	}
}

// RosterCounts holds the current per-role headcount of a team.
type RosterCounts struct {
	Deportistas  int
	Entrenadores int
	Delegados    int
}

// For returns the count for a role.
func (c RosterCounts) For(role models.ParticipantRole) int {
	switch role {
	case models.RoleEntrenador:
		return c.Entrenadores
	case models.RoleDelegado:
		return c.Delegados
	default:
		return c.Deportistas
	}
}

// Decision is the outcome of an eligibility evaluation. When Accepted,
// Normalized holds the candidate ready for persistence: names trimmed,
// gender upper-cased, birth date coerced to ISO YYYY-MM-DD.
type Decision struct {
	Accepted   bool       `json:"accepted"`
	Reason     Reason     `json:"reason,omitempty"`
	Message    string     `json:"message,omitempty"`
	Normalized *Candidate `json:"normalized,omitempty"`
}

func reject(reason Reason, format string, args ...any) Decision {
	return Decision{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// EvaluateAddParticipant decides whether candidate c may join a team of
// the given discipline. Rules run in a fixed order and the first
// failure wins:
//
//  1. duplicate DNI within the team
//  2. role capacity
//  3. gender match (athletes only)
//  4. birth-year range (athletes only)
//  5. minimum staff age (entrenadores/delegados only)
//
// teamDNIs is the set of DNIs already on the target roster. now is the
// reference instant for age computation; passing it in keeps the
// function deterministic.
func EvaluateAddParticipant(c Candidate, rules Rules, counts RosterCounts, teamDNIs map[string]struct{}, now time.Time) Decision {
	dni := strings.TrimSpace(c.DNI)
	if !validDNI(dni) {
		return reject(ReasonInvalidInput, "DNI inválido: %q", c.DNI)
	}
	if !c.Role.Valid() {
		return reject(ReasonInvalidInput, "Tipo de participante inválido: %q", string(c.Role))
	}

	if _, ok := teamDNIs[dni]; ok {
		return reject(ReasonDuplicateInTeam, "El DNI %s ya está cargado en este equipo.", dni)
	}

	if cap := rules.CapacityFor(c.Role); counts.For(c.Role) >= cap {
		return reject(ReasonRoleCapacityExceeded,
			"Se alcanzó el cupo de %s para esta disciplina (máximo %d).", rolePlural(c.Role), cap)
	}

	// The gender rule outranks the date rules for athletes, so it runs
	// before the birth date is even parsed.
	if c.Role == models.RoleDeportista {
		want := strings.ToLower(strings.TrimSpace(rules.Genero))
		got := strings.ToLower(strings.TrimSpace(c.Genero))
		if want != "" && got != want {
			return reject(ReasonGenderMismatch,
				"La disciplina admite solo deportistas de género %s.", strings.ToUpper(want))
		}
	}

	birth, err := ParseBirthDate(c.FechaNacimiento)
	if err != nil {
		return reject(ReasonInvalidDate, "Fecha de nacimiento inválida: %q", c.FechaNacimiento)
	}

	if c.Role == models.RoleDeportista {
		if y := birth.Year(); y < rules.AnioDesde || y > rules.AnioHasta {
			return reject(ReasonBirthYearOutOfRange,
				"Año de nacimiento %d fuera del rango permitido (%d-%d).", y, rules.AnioDesde, rules.AnioHasta)
		}
	}

	if c.Role.IsStaff() {
		if age := Age(birth, now); age < rules.MinStaffAge {
			return reject(ReasonUnderageStaff,
				"El %s debe tener al menos %d años (tiene %d).", string(c.Role), rules.MinStaffAge, age)
		}
	}

	norm := Candidate{
		DNI:             dni,
		Nombre:          strings.TrimSpace(c.Nombre),
		Apellido:        strings.TrimSpace(c.Apellido),
		FechaNacimiento: birth.Format(ISODate),
		Genero:          strings.ToUpper(strings.TrimSpace(c.Genero)),
		Role:            c.Role,
	}
	return Decision{Accepted: true, Normalized: &norm}
}

// ReuseOutcome classifies what the caller should do with a DNI it is
// about to persist.
type ReuseOutcome string

const (
	// ReuseNew means no participant with the DNI exists anywhere; the
	// caller creates one scoped to the submitted locality.
	ReuseNew ReuseOutcome = "new"
	// ReuseExisting means the DNI already exists in the same locality;
	// the caller overwrites the mutable fields of the existing record
	// (DNI itself is immutable) and links it to the team.
	ReuseExisting ReuseOutcome = "existing"
	// ReuseRejected means the DNI belongs to another locality.
	ReuseRejected ReuseOutcome = "rejected"
)

// ReuseDecision is the outcome of EvaluateParticipantReuse.
type ReuseDecision struct {
	Outcome  ReuseOutcome
	Existing *models.Participant
	Reason   Reason
	Message  string
}

// EvaluateParticipantReuse applies the cross-locality exclusivity rule:
// a DNI belongs to at most one locality, forever. existing is the
// registry lookup result (nil when the DNI is unknown) and
// existingLocality its locality name, used only for the message.
func EvaluateParticipantReuse(existing *models.Participant, existingLocality string, localityID int) ReuseDecision {
	if existing == nil {
		return ReuseDecision{Outcome: ReuseNew}
	}
	if existing.LocalityID != localityID {
		return ReuseDecision{
			Outcome: ReuseRejected,
			Reason:  ReasonCrossLocality,
			Message: fmt.Sprintf("El DNI %s ya está registrado en la localidad %s.", existing.DNI, existingLocality),
		}
	}
	return ReuseDecision{Outcome: ReuseExisting, Existing: existing}
}

// TeamKey identifies an existing team for the one-team-per-discipline
// invariant.
type TeamKey struct {
	DisciplineID int
	LocalityID   int
	CreatedBy    int
}

// CanCreateTeam reports whether a gestor may create a new team: true
// iff no existing team matches the exact (discipline, locality, gestor)
// triple. The storage layer's unique index is the authority; this check
// is a fast reject.
func CanCreateTeam(disciplineID, localityID, managerID int, existing []TeamKey) bool {
	for _, k := range existing {
		if k.DisciplineID == disciplineID && k.LocalityID == localityID && k.CreatedBy == managerID {
			return false
		}
	}
	return true
}

// validDNI accepts the Argentine DNI shape: digits only, 7 or 8 of them.
func validDNI(dni string) bool {
	if len(dni) < 7 || len(dni) > 8 {
		return false
	}
	for _, r := range dni {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func rolePlural(role models.ParticipantRole) string {
	switch role {
	case models.RoleEntrenador:
		return "entrenadores"
	case models.RoleDelegado:
		return "delegados"
	default:
		return "deportistas"
	}
}
