package services

import (
	"context"
	"time"

	"github.com/agusaisen/recopro/eligibility"
	"github.com/agusaisen/recopro/models"
	"github.com/agusaisen/recopro/repositories"
)

// Hand-rolled fakes backed by maps. They reproduce the unique-index
// behavior of the postgres repositories so services can be exercised
// without a database.

type fakeTeamRepo struct {
	teams  map[int]*models.Team
	nextID int
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{teams: make(map[int]*models.Team), nextID: 1}
}

func (f *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	for _, existing := range f.teams {
		if existing.DisciplineID == t.DisciplineID &&
			existing.LocalityID == t.LocalityID &&
			existing.CreatedBy == t.CreatedBy {
			return repositories.ErrTeamConflict
		}
	}
	t.ID = f.nextID
	f.nextID++
	copied := *t
	f.teams[t.ID] = &copied
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTeamRepo) List(_ context.Context, filter repositories.TeamFilter) ([]*models.Team, error) {
	var out []*models.Team
	for _, t := range f.teams {
		if filter.LocalityID != 0 && t.LocalityID != filter.LocalityID {
			continue
		}
		if filter.DisciplineID != 0 && t.DisciplineID != filter.DisciplineID {
			continue
		}
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		copied := *t
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeTeamRepo) ListKeysByManager(_ context.Context, managerID int) ([]eligibility.TeamKey, error) {
	var keys []eligibility.TeamKey
	for _, t := range f.teams {
		if t.CreatedBy == managerID {
			keys = append(keys, eligibility.TeamKey{
				DisciplineID: t.DisciplineID,
				LocalityID:   t.LocalityID,
				CreatedBy:    t.CreatedBy,
			})
		}
	}
	return keys, nil
}

func (f *fakeTeamRepo) UpdateStatus(_ context.Context, id int, status models.TeamStatus, reviewerID int) error {
	t, ok := f.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	now := time.Now()
	t.Status = status
	t.ReviewedBy = &reviewerID
	t.ReviewedAt = &now
	return nil
}

func (f *fakeTeamRepo) UpdateName(_ context.Context, id int, name *string) error {
	t, ok := f.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.Nombre = name
	return nil
}

func (f *fakeTeamRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(f.teams, id)
	return nil
}

type fakeDisciplineRepo struct {
	disciplines map[int]*models.Discipline
}

func newFakeDisciplineRepo(ds ...*models.Discipline) *fakeDisciplineRepo {
	f := &fakeDisciplineRepo{disciplines: make(map[int]*models.Discipline)}
	for _, d := range ds {
		f.disciplines[d.ID] = d
	}
	return f
}

func (f *fakeDisciplineRepo) Create(_ context.Context, d *models.Discipline) error {
	d.ID = len(f.disciplines) + 1
	f.disciplines[d.ID] = d
	return nil
}

func (f *fakeDisciplineRepo) GetByID(_ context.Context, id int) (*models.Discipline, error) {
	d, ok := f.disciplines[id]
	if !ok {
		return nil, repositories.ErrDisciplineNotFound
	}
	return d, nil
}

func (f *fakeDisciplineRepo) Update(_ context.Context, d *models.Discipline) error {
	if _, ok := f.disciplines[d.ID]; !ok {
		return repositories.ErrDisciplineNotFound
	}
	f.disciplines[d.ID] = d
	return nil
}

func (f *fakeDisciplineRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.disciplines[id]; !ok {
		return repositories.ErrDisciplineNotFound
	}
	delete(f.disciplines, id)
	return nil
}

func (f *fakeDisciplineRepo) List(_ context.Context, onlyActive bool) ([]*models.Discipline, error) {
	var out []*models.Discipline
	for _, d := range f.disciplines {
		if onlyActive && !d.Activa {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

type fakeParticipantRepo struct {
	participants map[int]*models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]*models.Participant), nextID: 1}
}

func (f *fakeParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	for _, existing := range f.participants {
		if existing.DNI == p.DNI {
			return repositories.ErrParticipantDNIConflict
		}
	}
	p.ID = f.nextID
	f.nextID++
	copied := *p
	f.participants[p.ID] = &copied
	return nil
}

func (f *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	p, ok := f.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParticipantRepo) FindByDNI(_ context.Context, dni string) (*models.Participant, error) {
	for _, p := range f.participants {
		if p.DNI == dni {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipantRepo) Update(_ context.Context, p *models.Participant) error {
	if _, ok := f.participants[p.ID]; !ok {
		return repositories.ErrParticipantNotFound
	}
	copied := *p
	f.participants[p.ID] = &copied
	return nil
}

func (f *fakeParticipantRepo) UpdateDocKey(_ context.Context, id int, key *string) error {
	p, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.DocKey = key
	return nil
}

func (f *fakeParticipantRepo) ListByLocality(_ context.Context, localityID int) ([]*models.Participant, error) {
	var out []*models.Participant
	for _, p := range f.participants {
		if p.LocalityID == localityID {
			copied := *p
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeMembershipRepo struct {
	members      map[int]*models.TeamMember
	participants *fakeParticipantRepo
	nextID       int
}

func newFakeMembershipRepo(participants *fakeParticipantRepo) *fakeMembershipRepo {
	return &fakeMembershipRepo{
		members:      make(map[int]*models.TeamMember),
		participants: participants,
		nextID:       1,
	}
}

func (f *fakeMembershipRepo) Add(_ context.Context, m *models.TeamMember) error {
	for _, existing := range f.members {
		if existing.TeamID == m.TeamID && existing.ParticipantID == m.ParticipantID {
			return repositories.ErrMembershipConflict
		}
	}
	m.ID = f.nextID
	f.nextID++
	copied := *m
	f.members[m.ID] = &copied
	return nil
}

func (f *fakeMembershipRepo) Remove(_ context.Context, teamID, participantID int) error {
	for id, m := range f.members {
		if m.TeamID == teamID && m.ParticipantID == participantID {
			delete(f.members, id)
			return nil
		}
	}
	return repositories.ErrMembershipNotFound
}

func (f *fakeMembershipRepo) RosterCounts(_ context.Context, teamID int) (eligibility.RosterCounts, error) {
	var counts eligibility.RosterCounts
	for _, m := range f.members {
		if m.TeamID != teamID {
			continue
		}
		p := f.participants.participants[m.ParticipantID]
		switch p.Role {
		case models.RoleEntrenador:
			counts.Entrenadores++
		case models.RoleDelegado:
			counts.Delegados++
		default:
			counts.Deportistas++
		}
	}
	return counts, nil
}

func (f *fakeMembershipRepo) DNISet(_ context.Context, teamID int) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	for _, m := range f.members {
		if m.TeamID != teamID {
			continue
		}
		set[f.participants.participants[m.ParticipantID].DNI] = struct{}{}
	}
	return set, nil
}

func (f *fakeMembershipRepo) ListByTeam(_ context.Context, teamID int) ([]*models.TeamMember, error) {
	var out []*models.TeamMember
	for _, m := range f.members {
		if m.TeamID != teamID {
			continue
		}
		copied := *m
		copied.Participant = f.participants.participants[m.ParticipantID]
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeMembershipRepo) FindTeamIDsByParticipant(_ context.Context, participantID int) ([]int, error) {
	var out []int
	for _, m := range f.members {
		if m.ParticipantID == participantID {
			out = append(out, m.TeamID)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[int]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	user.ID = len(f.users) + 1
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

// fakeSettings serves a fixed window; configured=false reproduces the
// pre-configuration state.
type fakeSettings struct {
	window     eligibility.Window
	configured bool
}

func (f *fakeSettings) GetWindow(_ context.Context) (*models.RegistrationWindow, error) {
	if !f.configured {
		return nil, ErrWindowNotConfigured
	}
	return &models.RegistrationWindow{
		ID:          1,
		FechaInicio: f.window.Start,
		FechaFin:    f.window.End,
	}, nil
}

func (f *fakeSettings) UpdateWindow(_ context.Context, _ UpdateWindowInput) (*models.RegistrationWindow, error) {
	return nil, ErrValidationFailed
}

func (f *fakeSettings) CurrentWindow(_ context.Context) (eligibility.Window, error) {
	if !f.configured {
		return eligibility.Window{}, ErrWindowNotConfigured
	}
	return f.window, nil
}

type publishedEvent struct {
	Type    string
	Payload interface{}
}

type fakePublisher struct {
	events []publishedEvent
}

func (f *fakePublisher) Publish(eventType string, payload interface{}) {
	f.events = append(f.events, publishedEvent{Type: eventType, Payload: payload})
}
