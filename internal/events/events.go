// Package events carries kitchen state changes to live displays and the message bus.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/PinJun0711/Thunderbolts/internal/models"
)

// Type names a kitchen event. It doubles as the routing key on the bus.
type Type string

const (
	OrderCreated      Type = "order.created"
	OrderCompleted    Type = "order.completed"
	ItemStatusChanged Type = "item.status_changed"
)

// Event is a single kitchen state change
type Event struct {
	Type       Type          `json:"type"`
	OrderID    string        `json:"orderId"`
	Table      string        `json:"table,omitempty"`
	FoodID     string        `json:"foodId,omitempty"`
	Status     string        `json:"status,omitempty"`
	Order      *models.Order `json:"order,omitempty"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// Publisher delivers events somewhere
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop drops every event
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to several publishers. Every publisher is tried;
// their failures are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
