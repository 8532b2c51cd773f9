package services

import (
	"context"

	"github.com/dorothy-center/apiserver/internal/store"
	"github.com/dorothy-center/apiserver/types"
)

// EventRepository defines persistence operations for events.
type EventRepository interface {
	List(ctx context.Context, filter store.EventFilter) ([]types.Event, error)
	Get(ctx context.Context, id int) (types.Event, error)
	Create(ctx context.Context, event types.Event) (types.Event, error)
	Update(ctx context.Context, event types.Event) (types.Event, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, filter store.EventFilter) (int, error)
}

// EventService encapsulates event use-cases.
type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{repo: repo}
}

// ListPublic returns events for the public site. Without an explicit
// status filter only PUBLISHED events are shown.
func (s *EventService) ListPublic(ctx context.Context, status, category string) ([]types.Event, error) {
	if status == "" {
		status = types.EventStatusPublished
	}
	return s.repo.List(ctx, store.EventFilter{Status: status, Category: category})
}

// ListAll returns events without a default status filter, for the
// admin panel.
func (s *EventService) ListAll(ctx context.Context, status, category string) ([]types.Event, error) {
	return s.repo.List(ctx, store.EventFilter{Status: status, Category: category})
}

func (s *EventService) Get(ctx context.Context, id int) (types.Event, error) {
	return s.repo.Get(ctx, id)
}

func (s *EventService) Create(ctx context.Context, event types.Event) (types.Event, error) {
	if event.Status == "" {
		event.Status = types.EventStatusDraft
	}
	return s.repo.Create(ctx, event)
}

func (s *EventService) Update(ctx context.Context, event types.Event) (types.Event, error) {
	return s.repo.Update(ctx, event)
}

func (s *EventService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *EventService) Count(ctx context.Context, status string) (int, error) {
	return s.repo.Count(ctx, store.EventFilter{Status: status})
}
