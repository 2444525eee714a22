package eligibility

import (
	"strings"
	"testing"
	"time"

	"github.com/agusaisen/recopro/models"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func femRules() Rules {
	return Rules{
		Genero:       "FEMENINO",
		AnioDesde:    2005,
		AnioHasta:    2010,
		Deportistas:  10,
		Entrenadores: 1,
		Delegados:    1,
		MinStaffAge:  DefaultMinStaffAge,
	}
}

func athlete() Candidate {
	return Candidate{
		DNI:             "30111222",
		Nombre:          "Ana",
		Apellido:        "Paz",
		FechaNacimiento: "2007-03-01",
		Genero:          "FEMENINO",
		Role:            models.RoleDeportista,
	}
}

func TestEvaluateAddParticipantAccepted(t *testing.T) {
	d := EvaluateAddParticipant(athlete(), femRules(), RosterCounts{}, nil, testNow)
	if !d.Accepted {
		t.Fatalf("expected accepted, got %s: %s", d.Reason, d.Message)
	}
	if d.Normalized == nil {
		t.Fatal("expected normalized candidate")
	}
	if d.Normalized.FechaNacimiento != "2007-03-01" {
		t.Fatalf("expected ISO date, got %q", d.Normalized.FechaNacimiento)
	}
}

func TestEvaluateAddParticipantNormalizes(t *testing.T) {
	c := athlete()
	c.Nombre = "  Ana "
	c.Genero = " femenino "
	c.FechaNacimiento = "01/03/2007"

	d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow)
	if !d.Accepted {
		t.Fatalf("expected accepted, got %s: %s", d.Reason, d.Message)
	}
	if d.Normalized.Nombre != "Ana" {
		t.Fatalf("expected trimmed name, got %q", d.Normalized.Nombre)
	}
	if d.Normalized.Genero != "FEMENINO" {
		t.Fatalf("expected upper-cased gender, got %q", d.Normalized.Genero)
	}
	if d.Normalized.FechaNacimiento != "2007-03-01" {
		t.Fatalf("expected legacy date coerced to ISO, got %q", d.Normalized.FechaNacimiento)
	}
}

func TestEvaluateAddParticipantRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Candidate)
		counts  RosterCounts
		dnis    map[string]struct{}
		reason  Reason
		message string
	}{
		{
			name:   "duplicate dni in team",
			dnis:   map[string]struct{}{"30111222": {}},
			reason: ReasonDuplicateInTeam,
		},
		{
			name:    "athlete capacity reached",
			counts:  RosterCounts{Deportistas: 10},
			reason:  ReasonRoleCapacityExceeded,
			message: "10",
		},
		{
			name: "coach capacity reached",
			mutate: func(c *Candidate) {
				c.Role = models.RoleEntrenador
				c.FechaNacimiento = "1980-05-04"
			},
			counts: RosterCounts{Entrenadores: 1},
			reason: ReasonRoleCapacityExceeded,
		},
		{
			name:    "gender mismatch",
			mutate:  func(c *Candidate) { c.Genero = "MASCULINO" },
			reason:  ReasonGenderMismatch,
			message: "FEMENINO",
		},
		{
			name:   "unparseable date",
			mutate: func(c *Candidate) { c.FechaNacimiento = "marzo de 2007" },
			reason: ReasonInvalidDate,
		},
		{
			name:    "birth year below range",
			mutate:  func(c *Candidate) { c.FechaNacimiento = "2001-01-01" },
			reason:  ReasonBirthYearOutOfRange,
			message: "2001",
		},
		{
			name:   "birth year above range",
			mutate: func(c *Candidate) { c.FechaNacimiento = "2011-06-15" },
			reason: ReasonBirthYearOutOfRange,
		},
		{
			name:   "non numeric dni",
			mutate: func(c *Candidate) { c.DNI = "3011A222" },
			reason: ReasonInvalidInput,
		},
		{
			name:   "unknown role",
			mutate: func(c *Candidate) { c.Role = "arbitro" },
			reason: ReasonInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := athlete()
			if tt.mutate != nil {
				tt.mutate(&c)
			}
			d := EvaluateAddParticipant(c, femRules(), tt.counts, tt.dnis, testNow)
			if d.Accepted {
				t.Fatal("expected rejection")
			}
			if d.Reason != tt.reason {
				t.Fatalf("expected reason %s, got %s", tt.reason, d.Reason)
			}
			if d.Message == "" {
				t.Fatal("expected a user-facing message")
			}
			if tt.message != "" && !strings.Contains(d.Message, tt.message) {
				t.Fatalf("expected message to contain %q, got %q", tt.message, d.Message)
			}
		})
	}
}

func TestRuleOrderDuplicateWinsOverCapacity(t *testing.T) {
	c := athlete()
	counts := RosterCounts{Deportistas: 10}
	dnis := map[string]struct{}{c.DNI: {}}

	d := EvaluateAddParticipant(c, femRules(), counts, dnis, testNow)
	if d.Reason != ReasonDuplicateInTeam {
		t.Fatalf("expected DUPLICATE_IN_TEAM to win, got %s", d.Reason)
	}
}

func TestRuleOrderGenderWinsOverInvalidDate(t *testing.T) {
	c := athlete()
	c.Genero = "MASCULINO"
	c.FechaNacimiento = "not-a-date"

	d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow)
	if d.Reason != ReasonGenderMismatch {
		t.Fatalf("expected GENDER_MISMATCH to win over the date parse, got %s", d.Reason)
	}
}

func TestDuplicateDNIRejectedRegardlessOfRole(t *testing.T) {
	for _, role := range []models.ParticipantRole{models.RoleDeportista, models.RoleEntrenador, models.RoleDelegado} {
		c := athlete()
		c.Role = role
		c.FechaNacimiento = "1990-01-01"
		d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, map[string]struct{}{c.DNI: {}}, testNow)
		if d.Reason != ReasonDuplicateInTeam {
			t.Fatalf("role %s: expected DUPLICATE_IN_TEAM, got %s", role, d.Reason)
		}
	}
}

func TestGenderRuleSkippedForStaff(t *testing.T) {
	c := athlete()
	c.Role = models.RoleEntrenador
	c.Genero = "MASCULINO"
	c.FechaNacimiento = "1985-01-01"

	d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow)
	if !d.Accepted {
		t.Fatalf("staff gender should not be checked, got %s: %s", d.Reason, d.Message)
	}
}

func TestBirthYearRuleSkippedForStaff(t *testing.T) {
	c := athlete()
	c.Role = models.RoleDelegado
	c.FechaNacimiento = "1975-01-01" // far outside 2005-2010

	d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow)
	if !d.Accepted {
		t.Fatalf("staff birth year should not be range-checked, got %s: %s", d.Reason, d.Message)
	}
}

func TestBirthYearBoundariesInclusive(t *testing.T) {
	for _, year := range []string{"2005-12-31", "2010-01-01"} {
		c := athlete()
		c.FechaNacimiento = year
		d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow)
		if !d.Accepted {
			t.Fatalf("year %s should be inside the inclusive range, got %s", year, d.Reason)
		}
	}
}

func TestStaffAgeBoundary(t *testing.T) {
	exactly21 := testNow.AddDate(-21, 0, 0)
	oneDayShort := testNow.AddDate(-21, 0, 1)

	c := athlete()
	c.Role = models.RoleEntrenador

	c.FechaNacimiento = exactly21.Format(ISODate)
	if d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow); !d.Accepted {
		t.Fatalf("turning 21 today should be accepted, got %s: %s", d.Reason, d.Message)
	}

	c.FechaNacimiento = oneDayShort.Format(ISODate)
	d := EvaluateAddParticipant(c, femRules(), RosterCounts{}, nil, testNow)
	if d.Accepted || d.Reason != ReasonUnderageStaff {
		t.Fatalf("one day short of 21 should be UNDERAGE_STAFF, got accepted=%v reason=%s", d.Accepted, d.Reason)
	}
	if !strings.Contains(d.Message, "21") || !strings.Contains(d.Message, "20") {
		t.Fatalf("message should state minimum and computed age, got %q", d.Message)
	}
}

func TestCapacityBoundary(t *testing.T) {
	c := athlete()
	rules := femRules()

	if d := EvaluateAddParticipant(c, rules, RosterCounts{Deportistas: 9}, nil, testNow); !d.Accepted {
		t.Fatalf("one slot left should be accepted, got %s", d.Reason)
	}
	if d := EvaluateAddParticipant(c, rules, RosterCounts{Deportistas: 10}, nil, testNow); d.Reason != ReasonRoleCapacityExceeded {
		t.Fatalf("full roster should be ROLE_CAPACITY_EXCEEDED, got %s", d.Reason)
	}
}

func TestEvaluateAddParticipantIdempotent(t *testing.T) {
	c := athlete()
	first := EvaluateAddParticipant(c, femRules(), RosterCounts{Deportistas: 3}, nil, testNow)
	second := EvaluateAddParticipant(c, femRules(), RosterCounts{Deportistas: 3}, nil, testNow)

	if first.Accepted != second.Accepted || first.Reason != second.Reason || first.Message != second.Message {
		t.Fatalf("identical inputs produced different decisions: %+v vs %+v", first, second)
	}
}

func TestEvaluateParticipantReuse(t *testing.T) {
	existing := &models.Participant{ID: 7, DNI: "12345678", LocalityID: 3}

	if d := EvaluateParticipantReuse(nil, "", 3); d.Outcome != ReuseNew {
		t.Fatalf("unknown DNI should be new, got %s", d.Outcome)
	}

	d := EvaluateParticipantReuse(existing, "Plottier", 3)
	if d.Outcome != ReuseExisting || d.Existing == nil || d.Existing.ID != 7 {
		t.Fatalf("same-locality DNI should reuse the record, got %+v", d)
	}

	d = EvaluateParticipantReuse(existing, "Plottier", 5)
	if d.Outcome != ReuseRejected || d.Reason != ReasonCrossLocality {
		t.Fatalf("cross-locality DNI should be rejected, got %+v", d)
	}
	if !strings.Contains(d.Message, "Plottier") {
		t.Fatalf("message should name the other locality, got %q", d.Message)
	}
}

func TestCanCreateTeam(t *testing.T) {
	existing := []TeamKey{
		{DisciplineID: 1, LocalityID: 2, CreatedBy: 9},
		{DisciplineID: 4, LocalityID: 2, CreatedBy: 9},
	}

	if CanCreateTeam(1, 2, 9, existing) {
		t.Fatal("exact triple already exists, expected false")
	}
	if !CanCreateTeam(1, 2, 8, existing) {
		t.Fatal("different gestor, expected true")
	}
	if !CanCreateTeam(1, 3, 9, existing) {
		t.Fatal("different locality, expected true")
	}
	if !CanCreateTeam(2, 2, 9, existing) {
		t.Fatal("different discipline, expected true")
	}
}
