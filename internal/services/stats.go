package services

import (
	"context"

	"github.com/dorothy-center/apiserver/types"
)

// StatsService aggregates row counts for the admin dashboard.
type StatsService struct {
	events        *EventService
	registrations *RegistrationService
	contacts      *ContactService
	posts         *PostService
	gallery       *GalleryService
	partners      *PartnerService
	team          *TeamService
}

func NewStatsService(
	events *EventService,
	registrations *RegistrationService,
	contacts *ContactService,
	posts *PostService,
	gallery *GalleryService,
	partners *PartnerService,
	team *TeamService,
) *StatsService {
	return &StatsService{
		events:        events,
		registrations: registrations,
		contacts:      contacts,
		posts:         posts,
		gallery:       gallery,
		partners:      partners,
		team:          team,
	}
}

func (s *StatsService) Collect(ctx context.Context) (types.Stats, error) {
	var stats types.Stats
	var err error

	if stats.Events, err = s.events.Count(ctx, ""); err != nil {
		return types.Stats{}, err
	}
	if stats.PublishedEvents, err = s.events.Count(ctx, types.EventStatusPublished); err != nil {
		return types.Stats{}, err
	}
	if stats.Registrations, err = s.registrations.CountByStatus(ctx); err != nil {
		return types.Stats{}, err
	}
	if stats.NewContacts, err = s.contacts.CountNew(ctx); err != nil {
		return types.Stats{}, err
	}
	if stats.Posts, err = s.posts.Count(ctx); err != nil {
		return types.Stats{}, err
	}
	if stats.GalleryImages, err = s.gallery.Count(ctx); err != nil {
		return types.Stats{}, err
	}
	if stats.Partners, err = s.partners.Count(ctx); err != nil {
		return types.Stats{}, err
	}
	if stats.TeamMembers, err = s.team.Count(ctx); err != nil {
		return types.Stats{}, err
	}

	return stats, nil
}
