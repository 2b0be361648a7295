// Package queue defines booking lifecycle messages exchanged over RabbitMQ,
// together with their publisher and the background consumer.
package queue

import "time"

// BookingQueueName is the durable queue carrying booking lifecycle events.
const BookingQueueName = "booking.events"

// Event types.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published after a booking is created or cancelled.  It
// carries enough information for downstream consumers to log or notify
// without querying the primary database.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	UserID        string    `json:"user_id"`
	PanditID      string    `json:"pandit_id"`
	PanditName    string    `json:"pandit_name,omitempty"`
	PujaType      string    `json:"puja_type"`
	PreferredDate string    `json:"preferred_date"`
	PreferredTime string    `json:"preferred_time"`
	Status        string    `json:"status"`
	TotalAmount   *int64    `json:"total_amount,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
