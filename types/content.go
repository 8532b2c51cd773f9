package types

import "time"

// Contact statuses used by the admin inbox.
const (
	ContactNew      = "NEW"
	ContactRead     = "READ"
	ContactArchived = "ARCHIVED"
)

// Contact is a message sent through the public contact form.
type Contact struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Subject   string    `json:"subject" db:"subject"`
	Message   string    `json:"message" db:"message"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// GalleryImage is a photo shown on the public gallery page.
type GalleryImage struct {
	ID        int       `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	ImageURL  string    `json:"image_url" db:"image_url"`
	Category  string    `json:"category" db:"category"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	Tags      []string  `json:"tags" db:"tags"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Partner is an organization displayed on the partners page.
type Partner struct {
	ID          int       `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	LogoURL     string    `json:"logo_url,omitempty" db:"logo_url"`
	Website     string    `json:"website,omitempty" db:"website"`
	Description string    `json:"description,omitempty" db:"description"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Post statuses.
const (
	PostStatusDraft     = "DRAFT"
	PostStatusPublished = "PUBLISHED"
)

// Post is a news article published on the website.
type Post struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Excerpt     string     `json:"excerpt,omitempty" db:"excerpt"`
	Content     string     `json:"content" db:"content"`
	ImageURL    string     `json:"image_url,omitempty" db:"image_url"`
	Category    string     `json:"category" db:"category"`
	Status      string     `json:"status" db:"status"`
	Tags        []string   `json:"tags" db:"tags"`
	PublishedAt *time.Time `json:"published_at,omitempty" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// TeamMember is a staff or volunteer profile on the team page.
type TeamMember struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Bio       string    `json:"bio,omitempty" db:"bio"`
	PhotoURL  string    `json:"photo_url,omitempty" db:"photo_url"`
	SortOrder int       `json:"sort_order" db:"sort_order"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Stats aggregates row counts for the admin dashboard.
type Stats struct {
	Events          int            `json:"events"`
	PublishedEvents int            `json:"published_events"`
	Registrations   map[string]int `json:"registrations"`
	NewContacts     int            `json:"new_contacts"`
	Posts           int            `json:"posts"`
	GalleryImages   int            `json:"gallery_images"`
	Partners        int            `json:"partners"`
	TeamMembers     int            `json:"team_members"`
}
