// Package events publishes registration lifecycle notifications to an
// optional message broker so external tools (dashboards, CRM syncs)
// can follow the workflow. Publishing is strictly best-effort: a nil
// Publisher and a broker failure both leave the workflow untouched.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// RegistrationChannel is the broker channel lifecycle events go to.
const RegistrationChannel = "registrations"

// Registration lifecycle actions.
const (
	ActionCreated        = "created"
	ActionEmailConfirmed = "email_confirmed"
	ActionConfirmed      = "confirmed"
	ActionCancelled      = "cancelled"
)

// RegistrationEvent is the payload published on each transition.
type RegistrationEvent struct {
	RegistrationID string    `json:"registration_id"`
	EventID        int       `json:"event_id"`
	Email          string    `json:"email"`
	Action         string    `json:"action"`
	Status         string    `json:"status"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// Backend defines the broker-agnostic operations used by the app.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Close() error
}

// Publisher wraps a backend. A nil *Publisher is valid and publishes
// nothing, which is how deployments without a broker run.
type Publisher struct {
	backend Backend
	log     zerolog.Logger
}

// NewPublisher constructs a Publisher for the provided backend.
func NewPublisher(backend Backend, log zerolog.Logger) *Publisher {
	return &Publisher{backend: backend, log: log}
}

// Registration publishes one lifecycle event, logging failures
// instead of returning them.
func (p *Publisher) Registration(ctx context.Context, event RegistrationEvent) {
	if p == nil || p.backend == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.log.Warn().Err(err).Msg("failed to encode registration event")
		return
	}

	attrs := map[string]string{"action": event.Action}
	if _, err := p.backend.Publish(ctx, RegistrationChannel, data, attrs); err != nil {
		p.log.Warn().
			Err(err).
			Str("registration_id", event.RegistrationID).
			Str("action", event.Action).
			Msg("failed to publish registration event")
	}
}

// Close closes the underlying backend.
func (p *Publisher) Close() error {
	if p == nil || p.backend == nil {
		return nil
	}
	return p.backend.Close()
}
