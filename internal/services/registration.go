package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dorothy-center/apiserver/internal/events"
	"github.com/dorothy-center/apiserver/internal/mailer"
	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const emailTokenTTL = 24 * time.Hour

// ErrInvalidTransition is returned when a status change is not in the
// legal transition set (e.g. CANCELLED → CONFIRMED).
var ErrInvalidTransition = errors.New("invalid status transition")

// Workflow actions applied to a registration.
const (
	actionConfirmEmail = "confirm_email"
	actionApprove      = "approve"
	actionCancel       = "cancel"
)

// registrationTransitions is the legal transition set: current status
// × action → next status. Anything absent is structurally rejected.
var registrationTransitions = map[string]map[string]string{
	types.RegistrationPending: {
		actionConfirmEmail: types.RegistrationEmailConfirmed,
		actionApprove:      types.RegistrationConfirmed,
		actionCancel:       types.RegistrationCancelled,
	},
	types.RegistrationEmailConfirmed: {
		actionApprove: types.RegistrationConfirmed,
		actionCancel:  types.RegistrationCancelled,
	},
	types.RegistrationConfirmed: {
		actionCancel: types.RegistrationCancelled,
	},
	types.RegistrationCancelled: {},
}

func nextStatus(current, action string) (string, bool) {
	next, ok := registrationTransitions[current][action]
	return next, ok
}

// ConfirmOutcome is the result of an email-confirmation attempt. The
// handler translates it into a redirect indicator; this endpoint never
// answers with JSON because it is reached from an emailed link.
type ConfirmOutcome string

const (
	ConfirmOK               ConfirmOutcome = "email_confirme"
	ConfirmAlreadyConfirmed ConfirmOutcome = "deja_confirme"
	ConfirmTokenInvalid     ConfirmOutcome = "token_invalide"
	ConfirmTokenExpired     ConfirmOutcome = "token_expire"
	ConfirmEventMissing     ConfirmOutcome = "evenement_introuvable"
	ConfirmServerError      ConfirmOutcome = "erreur_serveur"
)

// RegistrationRepository defines persistence operations for registrations.
type RegistrationRepository interface {
	Get(ctx context.Context, id string) (types.Registration, error)
	GetByToken(ctx context.Context, token string) (types.Registration, error)
	HasActive(ctx context.Context, eventID int, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]types.Registration, int, error)
	Create(ctx context.Context, reg types.Registration) (types.Registration, error)
	Update(ctx context.Context, reg types.Registration) (types.Registration, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// Mailer sends one transactional message; failures are the caller's
// to log, never to propagate.
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) error
}

// RegistrationService orchestrates the registration workflow:
// create → email-confirm → admin approve/reject, with best-effort
// email and broker side effects at each step.
type RegistrationService struct {
	repo         RegistrationRepository
	eventRepo    EventRepository
	mail         Mailer
	publisher    *events.Publisher
	adminAddress string
	backendURL   string
	log          zerolog.Logger
}

func NewRegistrationService(
	repo RegistrationRepository,
	eventRepo EventRepository,
	mail Mailer,
	publisher *events.Publisher,
	adminAddress string,
	backendURL string,
	log zerolog.Logger,
) *RegistrationService {
	return &RegistrationService{
		repo:         repo,
		eventRepo:    eventRepo,
		mail:         mail,
		publisher:    publisher,
		adminAddress: adminAddress,
		backendURL:   strings.TrimRight(backendURL, "/"),
		log:          log,
	}
}

// CreateRegistrationInput carries the public form fields.
type CreateRegistrationInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Message   string
	EventID   int
}

// Create registers a PENDING attendance request and emails the
// confirmation link. Returns store.ErrNotFound when the event does
// not exist and store.ErrConflict on a duplicate active registration.
func (s *RegistrationService) Create(ctx context.Context, input CreateRegistrationInput) (types.Registration, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	event, err := s.eventRepo.Get(ctx, input.EventID)
	if err != nil {
		return types.Registration{}, err
	}

	// Read-then-insert: a concurrent duplicate submission can slip
	// through between the check and the insert. Accepted at this load.
	exists, err := s.repo.HasActive(ctx, event.ID, email)
	if err != nil {
		return types.Registration{}, err
	}
	if exists {
		return types.Registration{}, store.ErrConflict
	}

	token, err := newEmailToken()
	if err != nil {
		return types.Registration{}, err
	}
	expiry := time.Now().Add(emailTokenTTL)

	reg, err := s.repo.Create(ctx, types.Registration{
		ID:               uuid.NewString(),
		FirstName:        strings.TrimSpace(input.FirstName),
		LastName:         strings.TrimSpace(input.LastName),
		Email:            email,
		Phone:            strings.TrimSpace(input.Phone),
		Message:          strings.TrimSpace(input.Message),
		EventID:          event.ID,
		Status:           types.RegistrationPending,
		EmailToken:       token,
		EmailTokenExpiry: &expiry,
	})
	if err != nil {
		return types.Registration{}, err
	}

	confirmURL := fmt.Sprintf("%s/registrations/confirm-email?token=%s", s.backendURL, token)
	s.sendBestEffort(ctx, mailer.UserConfirmation(reg, event, confirmURL), reg.ID, "user confirmation")

	s.publisher.Registration(ctx, events.RegistrationEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Email:          reg.Email,
		Action:         events.ActionCreated,
		Status:         reg.Status,
	})

	return reg, nil
}

// ConfirmEmail consumes a confirmation token. Replaying an
// already-consumed token reports ConfirmAlreadyConfirmed rather than
// an error, and sends nothing.
func (s *RegistrationService) ConfirmEmail(ctx context.Context, token string) ConfirmOutcome {
	token = strings.TrimSpace(token)
	if token == "" {
		return ConfirmTokenInvalid
	}

	reg, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ConfirmTokenInvalid
		}
		s.log.Error().Err(err).Msg("confirm-email lookup failed")
		return ConfirmServerError
	}

	// The token matched a row it has already been consumed on, or an
	// admin approved the registration while it was still PENDING.
	if reg.Status != types.RegistrationPending {
		return ConfirmAlreadyConfirmed
	}

	if reg.EmailTokenExpiry == nil || time.Now().After(*reg.EmailTokenExpiry) {
		return ConfirmTokenExpired
	}

	next, ok := nextStatus(reg.Status, actionConfirmEmail)
	if !ok {
		return ConfirmAlreadyConfirmed
	}

	now := time.Now()
	reg.Status = next
	reg.ConsumedEmailToken = reg.EmailToken
	reg.EmailToken = ""
	reg.EmailTokenExpiry = nil
	reg.EmailConfirmedAt = &now

	reg, err = s.repo.Update(ctx, reg)
	if err != nil {
		s.log.Error().Err(err).Str("registration_id", reg.ID).Msg("confirm-email update failed")
		return ConfirmServerError
	}

	event, err := s.eventRepo.Get(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ConfirmEventMissing
		}
		s.log.Error().Err(err).Int("event_id", reg.EventID).Msg("confirm-email event lookup failed")
		return ConfirmServerError
	}

	s.sendBestEffort(ctx, mailer.AdminNotification(s.adminAddress, reg, event), reg.ID, "admin notification")

	s.publisher.Registration(ctx, events.RegistrationEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Email:          reg.Email,
		Action:         events.ActionEmailConfirmed,
		Status:         reg.Status,
	})

	return ConfirmOK
}

// List returns registrations for the admin panel, newest first, with
// event display fields joined in.
func (s *RegistrationService) List(ctx context.Context, offset, limit int) ([]types.Registration, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return s.repo.List(ctx, offset, limit)
}

// UpdateStatus applies an admin decision. Only CONFIRMED and
// CANCELLED are admin-settable; illegal transitions return
// ErrInvalidTransition. The final-confirmation email is best-effort:
// an event lookup failure skips it without failing the update.
func (s *RegistrationService) UpdateStatus(ctx context.Context, id, target string, adminID int) (types.Registration, error) {
	var action string
	switch target {
	case types.RegistrationConfirmed:
		action = actionApprove
	case types.RegistrationCancelled:
		action = actionCancel
	default:
		return types.Registration{}, fmt.Errorf("%w: %s is not admin-settable", ErrInvalidTransition, target)
	}

	reg, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Registration{}, err
	}

	next, ok := nextStatus(reg.Status, action)
	if !ok {
		return types.Registration{}, fmt.Errorf("%w: %s → %s", ErrInvalidTransition, reg.Status, target)
	}

	now := time.Now()
	reg.Status = next
	switch action {
	case actionApprove:
		reg.AdminApprovedAt = &now
		reg.AdminApprovedBy = &adminID
		if reg.EmailToken != "" {
			reg.ConsumedEmailToken = reg.EmailToken
			reg.EmailToken = ""
			reg.EmailTokenExpiry = nil
		}
	case actionCancel:
		reg.AdminApprovedAt = nil
		reg.AdminApprovedBy = nil
	}

	reg, err = s.repo.Update(ctx, reg)
	if err != nil {
		return types.Registration{}, err
	}

	brokerAction := events.ActionCancelled
	if action == actionApprove {
		brokerAction = events.ActionConfirmed

		// Status is already committed; the email is advisory.
		if event, err := s.eventRepo.Get(ctx, reg.EventID); err != nil {
			s.log.Warn().Err(err).Str("registration_id", reg.ID).Msg("skipping final confirmation email")
		} else {
			s.sendBestEffort(ctx, mailer.FinalConfirmation(reg, event), reg.ID, "final confirmation")
		}
	}

	s.publisher.Registration(ctx, events.RegistrationEvent{
		RegistrationID: reg.ID,
		EventID:        reg.EventID,
		Email:          reg.Email,
		Action:         brokerAction,
		Status:         reg.Status,
	})

	return reg, nil
}

func (s *RegistrationService) CountByStatus(ctx context.Context) (map[string]int, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *RegistrationService) sendBestEffort(ctx context.Context, msg mailer.Message, regID, kind string) {
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Warn().
			Err(err).
			Str("registration_id", regID).
			Str("email", kind).
			Msg("email send failed")
	}
}

func newEmailToken() (string, error) {
	var buf [32]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf[:]), nil
}
