package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dorothy-center/apiserver/internal/mailer"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrationRepo struct {
	regs map[string]types.Registration
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{regs: make(map[string]types.Registration)}
}

func (f *fakeRegistrationRepo) Get(_ context.Context, id string) (types.Registration, error) {
	reg, ok := f.regs[id]
	if !ok {
		return types.Registration{}, store.ErrNotFound
	}
	return reg, nil
}

func (f *fakeRegistrationRepo) GetByToken(_ context.Context, token string) (types.Registration, error) {
	for _, reg := range f.regs {
		if reg.EmailToken == token || reg.ConsumedEmailToken == token {
			return reg, nil
		}
	}
	return types.Registration{}, store.ErrNotFound
}

func (f *fakeRegistrationRepo) HasActive(_ context.Context, eventID int, email string) (bool, error) {
	for _, reg := range f.regs {
		if reg.EventID == eventID && reg.Email == email && reg.Status != types.RegistrationCancelled {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegistrationRepo) List(_ context.Context, offset, limit int) ([]types.Registration, int, error) {
	all := make([]types.Registration, 0, len(f.regs))
	for _, reg := range f.regs {
		all = append(all, reg)
	}
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], len(f.regs), nil
}

func (f *fakeRegistrationRepo) Create(_ context.Context, reg types.Registration) (types.Registration, error) {
	reg.CreatedAt = time.Now()
	reg.UpdatedAt = reg.CreatedAt
	f.regs[reg.ID] = reg
	return reg, nil
}

func (f *fakeRegistrationRepo) Update(_ context.Context, reg types.Registration) (types.Registration, error) {
	if _, ok := f.regs[reg.ID]; !ok {
		return types.Registration{}, store.ErrNotFound
	}
	reg.UpdatedAt = time.Now()
	f.regs[reg.ID] = reg
	return reg, nil
}

func (f *fakeRegistrationRepo) CountByStatus(_ context.Context) (map[string]int, error) {
	counts := make(map[string]int)
	for _, reg := range f.regs {
		counts[reg.Status]++
	}
	return counts, nil
}

type fakeEventRepo struct {
	events map[int]types.Event
}

func newFakeEventRepo(events ...types.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: make(map[int]types.Event)}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) List(_ context.Context, filter store.EventFilter) ([]types.Event, error) {
	out := make([]types.Event, 0)
	for _, e := range f.events {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Category != "" && e.Category != filter.Category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Get(_ context.Context, id int) (types.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return types.Event{}, store.ErrNotFound
	}
	return e, nil
}

func (f *fakeEventRepo) Create(_ context.Context, e types.Event) (types.Event, error) {
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeEventRepo) Update(_ context.Context, e types.Event) (types.Event, error) {
	if _, ok := f.events[e.ID]; !ok {
		return types.Event{}, store.ErrNotFound
	}
	f.events[e.ID] = e
	return e, nil
}

func (f *fakeEventRepo) Delete(_ context.Context, id int) error {
	if _, ok := f.events[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventRepo) Count(_ context.Context, filter store.EventFilter) (int, error) {
	out, _ := f.List(context.Background(), filter)
	return len(out), nil
}

type fakeMailer struct {
	sent []mailer.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

func testEvent() types.Event {
	return types.Event{
		ID:          7,
		Title:       "Atelier poterie",
		Description: "Initiation à la poterie",
		Date:        "2026-10-12",
		Time:        "14:00",
		Location:    "Salle B",
		Category:    "ATELIER",
		Status:      types.EventStatusPublished,
	}
}

func newTestRegistrationService(t *testing.T) (*RegistrationService, *fakeRegistrationRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeRegistrationRepo()
	mail := &fakeMailer{}
	svc := NewRegistrationService(
		repo,
		newFakeEventRepo(testEvent()),
		mail,
		nil,
		"admin@centre-dorothy.fr",
		"https://api.centre-dorothy.fr",
		zerolog.Nop(),
	)
	return svc, repo, mail
}

func TestRegistrationCreate(t *testing.T) {
	svc, _, mail := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "Marie.Dupont@Example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)

	assert.Equal(t, types.RegistrationPending, reg.Status)
	assert.Equal(t, "marie.dupont@example.com", reg.Email)
	assert.NotEmpty(t, reg.ID)
	assert.Len(t, reg.EmailToken, 64)
	require.NotNil(t, reg.EmailTokenExpiry)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), *reg.EmailTokenExpiry, time.Minute)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "marie.dupont@example.com", mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Text, "https://api.centre-dorothy.fr/registrations/confirm-email?token="+reg.EmailToken)
}

func TestRegistrationCreateUnknownEvent(t *testing.T) {
	svc, _, mail := newTestRegistrationService(t)

	_, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   999,
	})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Empty(t, mail.sent)
}

func TestRegistrationCreateDuplicate(t *testing.T) {
	svc, repo, _ := newTestRegistrationService(t)

	input := CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	}

	first, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), input)
	assert.ErrorIs(t, err, store.ErrConflict)

	// A cancelled registration no longer blocks re-registering.
	cancelled := repo.regs[first.ID]
	cancelled.Status = types.RegistrationCancelled
	repo.regs[first.ID] = cancelled

	_, err = svc.Create(context.Background(), input)
	assert.NoError(t, err)
}

func TestConfirmEmail(t *testing.T) {
	svc, repo, mail := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)
	token := reg.EmailToken
	require.Len(t, mail.sent, 1)

	outcome := svc.ConfirmEmail(context.Background(), token)
	assert.Equal(t, ConfirmOK, outcome)

	stored := repo.regs[reg.ID]
	assert.Equal(t, types.RegistrationEmailConfirmed, stored.Status)
	assert.Empty(t, stored.EmailToken)
	assert.Nil(t, stored.EmailTokenExpiry)
	assert.Equal(t, token, stored.ConsumedEmailToken)
	assert.NotNil(t, stored.EmailConfirmedAt)

	// The admin notification went out once.
	require.Len(t, mail.sent, 2)
	assert.Equal(t, "admin@centre-dorothy.fr", mail.sent[1].To)
}

func TestConfirmEmailReplayIsIdempotent(t *testing.T) {
	svc, _, mail := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)
	token := reg.EmailToken

	require.Equal(t, ConfirmOK, svc.ConfirmEmail(context.Background(), token))
	sentAfterFirst := len(mail.sent)

	// Replaying the consumed token reports already-confirmed and sends
	// no second admin notification.
	assert.Equal(t, ConfirmAlreadyConfirmed, svc.ConfirmEmail(context.Background(), token))
	assert.Equal(t, sentAfterFirst, len(mail.sent))
}

func TestConfirmEmailExpiredToken(t *testing.T) {
	svc, repo, mail := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)

	expired := time.Now().Add(-time.Hour)
	stored := repo.regs[reg.ID]
	stored.EmailTokenExpiry = &expired
	repo.regs[reg.ID] = stored

	sentBefore := len(mail.sent)
	assert.Equal(t, ConfirmTokenExpired, svc.ConfirmEmail(context.Background(), reg.EmailToken))

	// The registration stays PENDING and nothing else goes out.
	assert.Equal(t, types.RegistrationPending, repo.regs[reg.ID].Status)
	assert.Equal(t, sentBefore, len(mail.sent))
}

func TestConfirmEmailUnknownToken(t *testing.T) {
	svc, _, _ := newTestRegistrationService(t)

	assert.Equal(t, ConfirmTokenInvalid, svc.ConfirmEmail(context.Background(), ""))
	assert.Equal(t, ConfirmTokenInvalid, svc.ConfirmEmail(context.Background(), strings.Repeat("a", 64)))
}

func TestConfirmEmailEventDeleted(t *testing.T) {
	repo := newFakeRegistrationRepo()
	eventRepo := newFakeEventRepo(testEvent())
	mail := &fakeMailer{}
	svc := NewRegistrationService(repo, eventRepo, mail, nil,
		"admin@centre-dorothy.fr", "https://api.centre-dorothy.fr", zerolog.Nop())

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)

	require.NoError(t, eventRepo.Delete(context.Background(), 7))

	assert.Equal(t, ConfirmEventMissing, svc.ConfirmEmail(context.Background(), reg.EmailToken))
	// The confirmation itself is committed before the event lookup.
	assert.Equal(t, types.RegistrationEmailConfirmed, repo.regs[reg.ID].Status)
}

func TestUpdateStatusApprove(t *testing.T) {
	svc, repo, mail := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)
	require.Equal(t, ConfirmOK, svc.ConfirmEmail(context.Background(), reg.EmailToken))
	sentBefore := len(mail.sent)

	updated, err := svc.UpdateStatus(context.Background(), reg.ID, types.RegistrationConfirmed, 3)
	require.NoError(t, err)

	assert.Equal(t, types.RegistrationConfirmed, updated.Status)
	require.NotNil(t, updated.AdminApprovedAt)
	require.NotNil(t, updated.AdminApprovedBy)
	assert.Equal(t, 3, *updated.AdminApprovedBy)

	// Exactly one final confirmation email, carrying event details.
	require.Len(t, mail.sent, sentBefore+1)
	final := mail.sent[len(mail.sent)-1]
	assert.Equal(t, "marie@example.com", final.To)
	assert.Contains(t, final.Text, "Atelier poterie")
	assert.Contains(t, final.Text, "2026-10-12")
	assert.Contains(t, final.Text, "Salle B")

	assert.Equal(t, types.RegistrationConfirmed, repo.regs[reg.ID].Status)
}

func TestUpdateStatusApprovePendingConsumesToken(t *testing.T) {
	svc, repo, _ := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)
	token := reg.EmailToken

	// Admin approval straight from PENDING retires the live token.
	_, err = svc.UpdateStatus(context.Background(), reg.ID, types.RegistrationConfirmed, 3)
	require.NoError(t, err)

	stored := repo.regs[reg.ID]
	assert.Empty(t, stored.EmailToken)
	assert.Equal(t, token, stored.ConsumedEmailToken)

	assert.Equal(t, ConfirmAlreadyConfirmed, svc.ConfirmEmail(context.Background(), token))
}

func TestUpdateStatusCancel(t *testing.T) {
	svc, repo, mail := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)
	sentBefore := len(mail.sent)

	updated, err := svc.UpdateStatus(context.Background(), reg.ID, types.RegistrationCancelled, 3)
	require.NoError(t, err)

	assert.Equal(t, types.RegistrationCancelled, updated.Status)
	assert.Nil(t, updated.AdminApprovedAt)
	assert.Nil(t, updated.AdminApprovedBy)
	// Cancellation sends nothing.
	assert.Equal(t, sentBefore, len(mail.sent))

	assert.Equal(t, types.RegistrationCancelled, repo.regs[reg.ID].Status)
}

func TestUpdateStatusIllegalTransitions(t *testing.T) {
	svc, _, _ := newTestRegistrationService(t)

	reg, err := svc.Create(context.Background(), CreateRegistrationInput{
		FirstName: "Marie",
		LastName:  "Dupont",
		Email:     "marie@example.com",
		Phone:     "0601020304",
		EventID:   7,
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), reg.ID, types.RegistrationCancelled, 3)
	require.NoError(t, err)

	// CANCELLED is terminal.
	_, err = svc.UpdateStatus(context.Background(), reg.ID, types.RegistrationConfirmed, 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// Only CONFIRMED and CANCELLED are admin-settable.
	_, err = svc.UpdateStatus(context.Background(), reg.ID, types.RegistrationPending, 3)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusUnknownRegistration(t *testing.T) {
	svc, _, _ := newTestRegistrationService(t)

	_, err := svc.UpdateStatus(context.Background(), "no-such-id", types.RegistrationConfirmed, 3)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
