package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// BookingHours is the fixed billable duration used to price a booking.
const BookingHours = 2

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// CanTransitionTo reports whether s -> next is an edge of the lifecycle.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, to := range bookingTransitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// BookingTotal prices a booking from the provider's hourly rate.  A
// provider without a rate yields nil.
func BookingTotal(ratePerHour *int64) *int64 {
	if ratePerHour == nil {
		return nil
	}
	total := *ratePerHour * BookingHours
	return &total
}

// Booking represents a row in the `bookings` table.
//
// Fields:
//
//	UserID      – requester who created the booking.
//	PanditID    – provider being booked; never equal to UserID.
//	TotalAmount – fixed at creation, nil when the provider had no rate.
type Booking struct {
	ID                  string        `json:"id"`                             // bookings.id
	UserID              string        `json:"user_id"`                        // bookings.user_id
	PanditID            string        `json:"pandit_id"`                      // bookings.pandit_id
	PujaType            string        `json:"puja_type"`                      // bookings.puja_type
	PreferredDate       Date          `json:"preferred_date"`                 // bookings.preferred_date
	PreferredTime       string        `json:"preferred_time"`                 // bookings.preferred_time
	Address             string        `json:"address"`                        // bookings.address
	SpecialRequirements *string       `json:"special_requirements,omitempty"` // bookings.special_requirements (nullable)
	Status              BookingStatus `json:"status"`                         // bookings.status
	TotalAmount         *int64        `json:"total_amount"`                   // bookings.total_amount (nullable)
	CreatedAt           time.Time     `json:"created_at"`                     // bookings.created_at
}

// BookingDetail is a booking joined with the counterpart's display fields.
// Requester listings fill Pandit; provider listings fill Requester.
type BookingDetail struct {
	Booking
	Pandit    *ProfileSummary `json:"pandit,omitempty"`
	Requester *ProfileSummary `json:"requester,omitempty"`
}
