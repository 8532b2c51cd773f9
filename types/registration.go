package types

import "time"

// Registration statuses. PENDING → EMAIL_CONFIRMED → CONFIRMED is the
// happy path; CANCELLED is terminal and reachable from any
// non-terminal state.
const (
	RegistrationPending        = "PENDING"
	RegistrationEmailConfirmed = "EMAIL_CONFIRMED"
	RegistrationConfirmed      = "CONFIRMED"
	RegistrationCancelled      = "CANCELLED"
)

// Registration represents a request to attend an event. It is the
// only entity with a real lifecycle: created by a public form,
// advanced by the registrant proving email ownership, then finalized
// by an admin.
type Registration struct {
	// ID is an opaque string identifier (UUID).
	ID string `json:"id" db:"id"`

	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`

	// Email is stored lowercased. Together with EventID it identifies
	// the registrant: at most one non-cancelled registration may exist
	// per (event, email) pair.
	Email string `json:"email" db:"email"`

	Phone   string `json:"phone" db:"phone"`
	Message string `json:"message,omitempty" db:"message"`

	// EventID references the event being registered for.
	EventID int `json:"event_id" db:"event_id"`

	// Status is one of the Registration* constants.
	Status string `json:"status" db:"status"`

	// EmailToken is the single-use confirmation credential. Present
	// only while Status is PENDING; cleared on confirmation.
	EmailToken string `json:"-" db:"email_token"`

	// EmailTokenExpiry bounds the token's validity (24h from creation).
	EmailTokenExpiry *time.Time `json:"-" db:"email_token_expiry"`

	// ConsumedEmailToken retains the token's value after it is
	// cleared, so a replayed confirmation link is recognized as
	// already-confirmed instead of rejected as unknown.
	ConsumedEmailToken string `json:"-" db:"consumed_email_token"`

	// EmailConfirmedAt is stamped when the registrant confirms.
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty" db:"email_confirmed_at"`

	// AdminApprovedAt and AdminApprovedBy are stamped when an admin
	// confirms attendance; cleared on cancellation.
	AdminApprovedAt *time.Time `json:"admin_approved_at,omitempty" db:"admin_approved_at"`
	AdminApprovedBy *int       `json:"admin_approved_by,omitempty" db:"admin_approved_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// EventTitle, EventDate and EventLocation are joined from the
	// parent event on admin listings; never persisted on this row.
	EventTitle    string `json:"event_title,omitempty" db:"-"`
	EventDate     string `json:"event_date,omitempty" db:"-"`
	EventLocation string `json:"event_location,omitempty" db:"-"`
}
