// internal/model/customer_event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

const EventCustomerCreated = "customer.created"

// CustomerEvent is published whenever the customer collection changes.
type CustomerEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Customer   Customer  `json:"customer"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewCustomerCreatedEvent(c Customer) CustomerEvent {
	return CustomerEvent{
		ID:         uuid.NewString(),
		Type:       EventCustomerCreated,
		Customer:   c,
		OccurredAt: time.Now().UTC(),
	}
}
