package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/events"
	"github.com/agusaisen/recopro/models"
)

type enrollmentFixture struct {
	svc          EnrollmentService
	teams        *fakeTeamRepo
	participants *fakeParticipantRepo
	members      *fakeMembershipRepo
	publisher    *fakePublisher
	team         *models.Team
}

// newEnrollmentFixture builds an enrollment service around a FEMENINO
// 2005-2010 discipline with caps 10/1/1, an open window and one team
// in locality 1, with the clock pinned to 2026-06-15.
func newEnrollmentFixture(t *testing.T) *enrollmentFixture {
	t.Helper()

	discipline := &models.Discipline{
		ID:                  1,
		Nombre:              "Vóley",
		Genero:              models.GenderFemenino,
		AnioDesde:           2005,
		AnioHasta:           2010,
		CantidadIntegrantes: 10,
		Entrenadores:        1,
		Delegados:           1,
		Activa:              true,
	}

	teams := newFakeTeamRepo()
	participants := newFakeParticipantRepo()
	members := newFakeMembershipRepo(participants)
	publisher := &fakePublisher{}
	settings := &fakeSettings{
		configured: true,
		window: eligibility.Window{
			Start:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			End:      time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
			Location: time.UTC,
		},
	}

	team := &models.Team{DisciplineID: 1, LocalityID: 1, CreatedBy: 7, Status: models.TeamStatusPendiente}
	if err := teams.Create(context.Background(), team); err != nil {
		t.Fatalf("seed team: %v", err)
	}

	svc := NewEnrollmentService(teams, newFakeDisciplineRepo(discipline), participants, members, settings, publisher, 21)
	svc.(*enrollmentService).now = func() time.Time {
		return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	}

	return &enrollmentFixture{
		svc:          svc,
		teams:        teams,
		participants: participants,
		members:      members,
		publisher:    publisher,
		team:         team,
	}
}

func gestorActor() Actor {
	return Actor{UserID: 7, Role: models.RoleGestor, LocalityID: 1}
}

func athleteCandidate(dni string) eligibility.Candidate {
	return eligibility.Candidate{
		DNI:             dni,
		Nombre:          "María",
		Apellido:        "Pérez",
		FechaNacimiento: "2007-03-12",
		Genero:          "femenino",
		Role:            models.RoleDeportista,
	}
}

func TestAddMemberAccepted(t *testing.T) {
	f := newEnrollmentFixture(t)

	result, err := f.svc.AddMember(context.Background(), f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if !result.Decision.Accepted {
		t.Fatalf("expected acceptance, got %s: %s", result.Decision.Reason, result.Decision.Message)
	}
	if result.Member == nil || result.Member.Participant == nil {
		t.Fatal("expected persisted member with participant")
	}
	if got := result.Member.Participant.Genero; got != "FEMENINO" {
		t.Errorf("gender not normalized: got %q", got)
	}
	if result.Member.Participant.LocalityID != 1 {
		t.Errorf("participant bound to locality %d, want 1", result.Member.Participant.LocalityID)
	}

	if len(f.publisher.events) != 1 || f.publisher.events[0].Type != events.RosterChanged {
		t.Errorf("expected one RosterChanged event, got %+v", f.publisher.events)
	}
}

func TestAddMemberWindowClosed(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.svc.(*enrollmentService).now = func() time.Time {
		return time.Date(2027, 2, 1, 12, 0, 0, 0, time.UTC)
	}

	result, err := f.svc.AddMember(context.Background(), f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if result.Decision.Accepted {
		t.Fatal("expected rejection outside the window")
	}
	if result.Decision.Reason != eligibility.ReasonWindowClosed {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, eligibility.ReasonWindowClosed)
	}
	if len(f.participants.participants) != 0 {
		t.Error("no participant should be created when the window is closed")
	}
}

func TestAddMemberUnconfiguredWindowCountsAsClosed(t *testing.T) {
	f := newEnrollmentFixture(t)
	f.svc.(*enrollmentService).settings = &fakeSettings{configured: false}

	result, err := f.svc.AddMember(context.Background(), f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if result.Decision.Reason != eligibility.ReasonWindowClosed {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, eligibility.ReasonWindowClosed)
	}
}

func TestAddMemberDuplicateDNI(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	if _, err := f.svc.AddMember(ctx, f.team.ID, athleteCandidate("30111222"), gestorActor()); err != nil {
		t.Fatalf("first AddMember: %v", err)
	}

	// Same DNI again, different role: still a duplicate.
	dup := athleteCandidate("30111222")
	dup.Role = models.RoleEntrenador
	dup.FechaNacimiento = "1980-01-01"

	result, err := f.svc.AddMember(ctx, f.team.ID, dup, gestorActor())
	if err != nil {
		t.Fatalf("second AddMember: %v", err)
	}
	if result.Decision.Reason != eligibility.ReasonDuplicateInTeam {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, eligibility.ReasonDuplicateInTeam)
	}
	if len(f.members.members) != 1 {
		t.Errorf("roster has %d members, want 1", len(f.members.members))
	}
}

func TestAddMemberCrossLocalityConflict(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	// Same DNI already registered by another locality.
	other := &models.Participant{
		DNI:             "30111222",
		Nombre:          "María",
		Apellido:        "Pérez",
		FechaNacimiento: time.Date(2007, 3, 12, 0, 0, 0, 0, time.UTC),
		Genero:          "FEMENINO",
		Role:            models.RoleDeportista,
		LocalityID:      2,
	}
	if err := f.participants.Create(ctx, other); err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	f.participants.participants[other.ID].Locality = &models.Locality{ID: 2, Nombre: "Plottier"}

	result, err := f.svc.AddMember(ctx, f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if result.Decision.Reason != eligibility.ReasonCrossLocality {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, eligibility.ReasonCrossLocality)
	}
	if result.Decision.Message != "El DNI 30111222 ya está registrado en la localidad Plottier." {
		t.Errorf("unexpected message %q", result.Decision.Message)
	}
}

func TestAddMemberReusesSameLocalityParticipant(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	existing := &models.Participant{
		DNI:             "30111222",
		Nombre:          "Maria",
		Apellido:        "Perez",
		FechaNacimiento: time.Date(2007, 3, 12, 0, 0, 0, 0, time.UTC),
		Genero:          "FEMENINO",
		Role:            models.RoleDeportista,
		LocalityID:      1,
	}
	if err := f.participants.Create(ctx, existing); err != nil {
		t.Fatalf("seed participant: %v", err)
	}

	candidate := athleteCandidate("30111222")
	candidate.Nombre = "María José"

	result, err := f.svc.AddMember(ctx, f.team.ID, candidate, gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if !result.Decision.Accepted {
		t.Fatalf("expected acceptance, got %s", result.Decision.Reason)
	}
	if result.Member.ParticipantID != existing.ID {
		t.Errorf("expected reuse of participant %d, got %d", existing.ID, result.Member.ParticipantID)
	}
	if got := f.participants.participants[existing.ID].Nombre; got != "María José" {
		t.Errorf("mutable fields not overwritten: nombre = %q", got)
	}
	if len(f.participants.participants) != 1 {
		t.Errorf("participant count = %d, want 1", len(f.participants.participants))
	}
}

func TestAddMemberStaffCapacity(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	coach := eligibility.Candidate{
		DNI:             "20111222",
		Nombre:          "Carlos",
		Apellido:        "Gómez",
		FechaNacimiento: "1980-05-05",
		Genero:          "MASCULINO",
		Role:            models.RoleEntrenador,
	}
	if _, err := f.svc.AddMember(ctx, f.team.ID, coach, gestorActor()); err != nil {
		t.Fatalf("first coach: %v", err)
	}

	second := coach
	second.DNI = "20111223"
	result, err := f.svc.AddMember(ctx, f.team.ID, second, gestorActor())
	if err != nil {
		t.Fatalf("second coach: %v", err)
	}
	if result.Decision.Reason != eligibility.ReasonRoleCapacityExceeded {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, eligibility.ReasonRoleCapacityExceeded)
	}
}

func TestAddMemberLocalityScoping(t *testing.T) {
	f := newEnrollmentFixture(t)

	outsider := Actor{UserID: 9, Role: models.RoleGestor, LocalityID: 2}
	_, err := f.svc.AddMember(context.Background(), f.team.ID, athleteCandidate("30111222"), outsider)
	if !errors.Is(err, ErrLocalityMismatch) {
		t.Fatalf("err = %v, want ErrLocalityMismatch", err)
	}
}

func TestUpdateMemberDNIImmutable(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	added, err := f.svc.AddMember(ctx, f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	changed := athleteCandidate("30111223")
	result, err := f.svc.UpdateMember(ctx, f.team.ID, added.Member.ParticipantID, changed, gestorActor())
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if result.Decision.Reason != eligibility.ReasonInvalidInput {
		t.Errorf("reason = %s, want %s", result.Decision.Reason, eligibility.ReasonInvalidInput)
	}
}

func TestUpdateMemberRequiresMembership(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	// A registry participant from another locality, never added to
	// this team, must be unreachable through the team's roster.
	outsider := &models.Participant{
		DNI:             "28999888",
		Nombre:          "Laura",
		Apellido:        "Sosa",
		FechaNacimiento: time.Date(2007, 8, 20, 0, 0, 0, 0, time.UTC),
		Genero:          "FEMENINO",
		Role:            models.RoleDeportista,
		LocalityID:      2,
	}
	if err := f.participants.Create(ctx, outsider); err != nil {
		t.Fatalf("seed participant: %v", err)
	}

	edit := athleteCandidate("28999888")
	edit.Nombre = "Otro"

	_, err := f.svc.UpdateMember(ctx, f.team.ID, outsider.ID, edit, gestorActor())
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}
	if got := f.participants.participants[outsider.ID].Nombre; got != "Laura" {
		t.Errorf("participant was mutated through a foreign roster: nombre = %q", got)
	}
}

func TestUpdateMemberDNIWithWhitespace(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	added, err := f.svc.AddMember(ctx, f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// Same DNI padded with whitespace is not a DNI change.
	edit := athleteCandidate(" 30111222 ")
	edit.Apellido = "Pérez Sosa"

	result, err := f.svc.UpdateMember(ctx, f.team.ID, added.Member.ParticipantID, edit, gestorActor())
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if !result.Decision.Accepted {
		t.Fatalf("expected acceptance, got %s: %s", result.Decision.Reason, result.Decision.Message)
	}
	if got := f.participants.participants[added.Member.ParticipantID].Apellido; got != "Pérez Sosa" {
		t.Errorf("apellido = %q after edit", got)
	}
}

func TestUpdateMemberSameSlotEdit(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	added, err := f.svc.AddMember(ctx, f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	// Editing the member must not trip its own duplicate or capacity
	// checks.
	edit := athleteCandidate("30111222")
	edit.Apellido = "Pérez González"

	result, err := f.svc.UpdateMember(ctx, f.team.ID, added.Member.ParticipantID, edit, gestorActor())
	if err != nil {
		t.Fatalf("UpdateMember: %v", err)
	}
	if !result.Decision.Accepted {
		t.Fatalf("expected acceptance, got %s: %s", result.Decision.Reason, result.Decision.Message)
	}
	if got := f.participants.participants[added.Member.ParticipantID].Apellido; got != "Pérez González" {
		t.Errorf("apellido = %q after edit", got)
	}
}

func TestRemoveMemberKeepsParticipant(t *testing.T) {
	f := newEnrollmentFixture(t)
	ctx := context.Background()

	added, err := f.svc.AddMember(ctx, f.team.ID, athleteCandidate("30111222"), gestorActor())
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}

	rejection, err := f.svc.RemoveMember(ctx, f.team.ID, added.Member.ParticipantID, gestorActor())
	if err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if rejection != nil {
		t.Fatalf("unexpected rejection %s", rejection.Reason)
	}
	if len(f.members.members) != 0 {
		t.Error("membership should be gone")
	}
	if len(f.participants.participants) != 1 {
		t.Error("participant record must survive removal")
	}
}

func TestRemoveMemberUnknownMembership(t *testing.T) {
	f := newEnrollmentFixture(t)

	_, err := f.svc.RemoveMember(context.Background(), f.team.ID, 99, gestorActor())
	if !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("err = %v, want ErrMemberNotFound", err)
	}
}
