package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/queue"
	"github.com/iliyamo/pandit-seva/internal/repository"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

const publishTimeout = 3 * time.Second

// CreateBookingInput is a requester's booking form.
type CreateBookingInput struct {
	PanditID            string     `json:"pandit_id" validate:"required,max=36"`
	PujaType            string     `json:"puja_type" validate:"required,puja_type"`
	PreferredDate       model.Date `json:"preferred_date"`
	PreferredTime       string     `json:"preferred_time" validate:"required,time_slot"`
	Address             string     `json:"address" validate:"required,max=1000"`
	SpecialRequirements *string    `json:"special_requirements" validate:"omitempty,max=2000"`
}

// BookingService owns the booking lifecycle.  Confirmation and completion
// happen elsewhere; this service only creates and cancels.
type BookingService struct {
	bookings  BookingStore
	profiles  ProfileStore
	publisher EventPublisher // optional
	validate  *validator.Validator
	log       *logger.Logger
	loc       *time.Location
	now       func() time.Time
}

func NewBookingService(bookings BookingStore, profiles ProfileStore, publisher EventPublisher, v *validator.Validator, loc *time.Location, log *logger.Logger) *BookingService {
	if loc == nil {
		loc = time.UTC
	}
	return &BookingService{
		bookings:  bookings,
		profiles:  profiles,
		publisher: publisher,
		validate:  v,
		log:       log.With("component", "bookings"),
		loc:       loc,
		now:       time.Now,
	}
}

// Today is the current calendar day in the service's location.
func (s *BookingService) Today() model.Date {
	return model.DateOf(s.now().In(s.loc))
}

// Create validates the form, prices it from the provider's rate and
// stores it as pending.
func (s *BookingService) Create(ctx context.Context, requesterID string, in CreateBookingInput) (*model.BookingDetail, error) {
	in.PanditID = strings.TrimSpace(in.PanditID)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validate.Validate(&in); err != nil {
		return nil, err
	}
	if in.PreferredDate.IsZero() {
		return nil, apperr.Field("preferred_date", "preferred_date is required")
	}
	if in.PreferredDate.Before(s.Today()) {
		return nil, apperr.Field("preferred_date", "preferred_date cannot be in the past")
	}
	if in.PanditID == requesterID {
		return nil, apperr.Field("pandit_id", "you cannot book yourself")
	}

	pandit, err := s.profiles.GetByID(ctx, in.PanditID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.UnknownProvider(in.PanditID)
		}
		return nil, apperr.Transient("could not load pandit", err)
	}
	if !pandit.IsPandit {
		return nil, apperr.UnknownProvider(in.PanditID)
	}

	b := model.Booking{
		ID:                  uuid.NewString(),
		UserID:              requesterID,
		PanditID:            pandit.ID,
		PujaType:            in.PujaType,
		PreferredDate:       in.PreferredDate,
		PreferredTime:       in.PreferredTime,
		Address:             in.Address,
		SpecialRequirements: in.SpecialRequirements,
		Status:              model.BookingPending,
		TotalAmount:         model.BookingTotal(pandit.RatePerHour),
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		switch {
		case errors.Is(err, repository.ErrMissingReference):
			return nil, apperr.UnknownProvider(in.PanditID)
		case errors.Is(err, repository.ErrConflict):
			return nil, apperr.Field("pandit_id", "you cannot book yourself")
		}
		return nil, apperr.Transient("could not save booking", err)
	}
	s.log.Info("booking created", "booking_id", b.ID, "user_id", requesterID, "pandit_id", pandit.ID)

	d := &model.BookingDetail{Booking: b, Pandit: pandit.Summary()}
	s.publish(ctx, queue.EventBookingCreated, d)
	return d, nil
}

// Cancel moves one of the requester's pending bookings to cancelled.
// Bookings owned by someone else look exactly like missing ones.
func (s *BookingService) Cancel(ctx context.Context, requesterID, bookingID string) (*model.BookingDetail, error) {
	ok, err := s.bookings.TransitionStatus(ctx, bookingID, requesterID, model.BookingPending, model.BookingCancelled)
	if err != nil {
		return nil, apperr.Transient("could not cancel booking", err)
	}
	if !ok {
		status, err := s.bookings.StatusForUser(ctx, bookingID, requesterID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperr.NotFound("booking")
			}
			return nil, apperr.Transient("could not load booking", err)
		}
		return nil, apperr.InvalidTransition(string(status), string(model.BookingCancelled))
	}

	d, err := s.bookings.GetForUser(ctx, bookingID, requesterID)
	if err != nil {
		return nil, apperr.Transient("could not load booking", err)
	}
	s.log.Info("booking cancelled", "booking_id", bookingID, "user_id", requesterID)
	s.publish(ctx, queue.EventBookingCancelled, d)
	return d, nil
}

// Get returns one of the requester's bookings.
func (s *BookingService) Get(ctx context.Context, requesterID, bookingID string) (*model.BookingDetail, error) {
	d, err := s.bookings.GetForUser(ctx, bookingID, requesterID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("booking")
		}
		return nil, apperr.Transient("could not load booking", err)
	}
	return d, nil
}

// List returns the requester's bookings, newest first.
func (s *BookingService) List(ctx context.Context, requesterID string) ([]model.BookingDetail, error) {
	out, err := s.bookings.ListByUser(ctx, requesterID)
	if err != nil {
		return nil, apperr.Transient("could not list bookings", err)
	}
	return out, nil
}

// ListForProvider returns the bookings addressed to a provider, newest first.
func (s *BookingService) ListForProvider(ctx context.Context, panditID string) ([]model.BookingDetail, error) {
	out, err := s.bookings.ListByProvider(ctx, panditID)
	if err != nil {
		return nil, apperr.Transient("could not list bookings", err)
	}
	return out, nil
}

// publish is best effort: the booking is already committed.
func (s *BookingService) publish(ctx context.Context, typ string, d *model.BookingDetail) {
	if s.publisher == nil {
		return
	}
	ev := queue.BookingEvent{
		Type:          typ,
		BookingID:     d.ID,
		UserID:        d.UserID,
		PanditID:      d.PanditID,
		PujaType:      d.PujaType,
		PreferredDate: d.PreferredDate.String(),
		PreferredTime: d.PreferredTime,
		Status:        string(d.Status),
		TotalAmount:   d.TotalAmount,
		OccurredAt:    s.now().UTC(),
	}
	if d.Pandit != nil {
		ev.PanditName = d.Pandit.FullName
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.log.Warn("booking event not published", "type", typ, "booking_id", d.ID, "error", err)
	}
}
