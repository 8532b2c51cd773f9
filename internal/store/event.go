package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dorothy-center/apiserver/types"
)

// EventFilter narrows event listings. Empty fields match everything.
type EventFilter struct {
	Status   string
	Category string
}

// EventRepository handles persistence for events.
type EventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, title, description, content, date, time, location, image_url,
		category, status, featured, max_participants, tags, created_by, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (types.Event, error) {
	var event types.Event
	var tagsJSON []byte
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Content,
		&event.Date,
		&event.Time,
		&event.Location,
		&event.ImageURL,
		&event.Category,
		&event.Status,
		&event.Featured,
		&event.MaxParticipants,
		&tagsJSON,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return types.Event{}, err
	}
	event.Tags = decodeTags(tagsJSON)
	return event, nil
}

func (r *EventRepository) List(ctx context.Context, filter EventFilter) ([]types.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR category = $2)
		ORDER BY date, id`
	rows, err := r.db.QueryContext(ctx, query, filter.Status, filter.Category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]types.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) Get(ctx context.Context, id int) (types.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1`
	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Event{}, ErrNotFound
		}
		return types.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) Create(ctx context.Context, event types.Event) (types.Event, error) {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.Tags == nil {
		event.Tags = []string{}
	}

	const query = `
		INSERT INTO events (title, description, content, date, time, location, image_url,
			category, status, featured, max_participants, tags, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		event.Title,
		event.Description,
		event.Content,
		event.Date,
		event.Time,
		event.Location,
		event.ImageURL,
		event.Category,
		event.Status,
		event.Featured,
		event.MaxParticipants,
		encodeTags(event.Tags),
		event.CreatedBy,
		event.CreatedAt,
		event.UpdatedAt,
	).Scan(&event.ID); err != nil {
		return types.Event{}, err
	}
	return event, nil
}

func (r *EventRepository) Update(ctx context.Context, event types.Event) (types.Event, error) {
	event.UpdatedAt = time.Now()
	if event.Tags == nil {
		event.Tags = []string{}
	}

	const query = `
		UPDATE events
		SET title = $1,
			description = $2,
			content = $3,
			date = $4,
			time = $5,
			location = $6,
			image_url = $7,
			category = $8,
			status = $9,
			featured = $10,
			max_participants = $11,
			tags = $12,
			updated_at = $13
		WHERE id = $14`
	result, err := r.db.ExecContext(
		ctx,
		query,
		event.Title,
		event.Description,
		event.Content,
		event.Date,
		event.Time,
		event.Location,
		event.ImageURL,
		event.Category,
		event.Status,
		event.Featured,
		event.MaxParticipants,
		encodeTags(event.Tags),
		event.UpdatedAt,
		event.ID,
	)
	if err != nil {
		return types.Event{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Event{}, err
	}
	if affected == 0 {
		return types.Event{}, ErrNotFound
	}
	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM events WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventRepository) Count(ctx context.Context, filter EventFilter) (int, error) {
	const query = `
		SELECT COUNT(1) FROM events
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR category = $2)`
	var total int
	if err := r.db.QueryRowContext(ctx, query, filter.Status, filter.Category).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
