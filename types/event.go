package types

import "time"

// Event publication statuses.
const (
	EventStatusDraft     = "DRAFT"
	EventStatusPublished = "PUBLISHED"
	EventStatusCancelled = "CANCELLED"
)

// EventCategories is the closed set of program names an event can
// belong to.
var EventCategories = []string{
	"CULTURE",
	"SPORT",
	"EDUCATION",
	"SOLIDARITE",
	"ATELIER",
	"AUTRE",
}

// Event represents an activity organized by the center. Events are
// managed by admins and shown publicly once PUBLISHED.
type Event struct {
	// ID is the unique identifier of the event.
	ID int `json:"id" db:"id"`

	// Title is the public name of the event.
	Title string `json:"title" db:"title"`

	// Description is the short summary shown on listings.
	Description string `json:"description" db:"description"`

	// Content is the optional long-form body shown on the detail page.
	Content string `json:"content,omitempty" db:"content"`

	// Date is the calendar day of the event, formatted YYYY-MM-DD.
	Date string `json:"date" db:"date"`

	// Time is the optional starting time, formatted HH:MM.
	Time string `json:"time,omitempty" db:"time"`

	// Location is where the event takes place.
	Location string `json:"location" db:"location"`

	// ImageURL points to the event's illustration in object storage.
	ImageURL string `json:"image_url,omitempty" db:"image_url"`

	// Category is one of EventCategories.
	Category string `json:"category" db:"category"`

	// Status is DRAFT, PUBLISHED or CANCELLED. Only PUBLISHED events
	// appear on public listings by default.
	Status string `json:"status" db:"status"`

	// Featured marks the event for front-page highlighting.
	Featured bool `json:"featured" db:"featured"`

	// MaxParticipants caps registrations; zero means unlimited.
	MaxParticipants int `json:"max_participants,omitempty" db:"max_participants"`

	// Tags are free-form labels used for filtering. Persisted as a
	// JSON-encoded text column, always a list in API responses.
	Tags []string `json:"tags" db:"tags"`

	// CreatedBy is the ID of the admin who created the event.
	CreatedBy int `json:"created_by" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ValidEventStatus reports whether s is an allowed event status.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled:
		return true
	}
	return false
}

// ValidEventCategory reports whether c is an allowed category.
func ValidEventCategory(c string) bool {
	for _, known := range EventCategories {
		if c == known {
			return true
		}
	}
	return false
}
