package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/queue"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

const (
	requesterID = "11111111-1111-1111-1111-111111111111"
	panditID    = "22222222-2222-2222-2222-222222222222"
	unpricedID  = "33333333-3333-3333-3333-333333333333"
)

type bookingFixture struct {
	svc       *BookingService
	profiles  *fakeProfiles
	bookings  *fakeBookings
	publisher *fakePublisher
}

func newBookingFixture(t *testing.T) bookingFixture {
	t.Helper()
	profiles := newFakeProfiles()
	profiles.add(model.Profile{ID: requesterID, Email: "r@example.com", FullName: "Requester"})
	profiles.add(model.Profile{
		ID: panditID, Email: "p@example.com", FullName: "Pandit Demo User", IsPandit: true,
		Address: strPtr("Varanasi, Uttar Pradesh"), RatePerHour: i64Ptr(1500),
	})
	profiles.add(model.Profile{ID: unpricedID, Email: "n@example.com", FullName: "New Pandit", IsPandit: true})

	bookings := newFakeBookings(profiles)
	pub := &fakePublisher{}
	ist := time.FixedZone("IST", 5*3600+1800)
	svc := NewBookingService(bookings, profiles, pub, validator.MustNew(), ist, testLog)
	// 20:00 UTC on Jan 9 is already Jan 10 in IST.
	svc.now = func() time.Time { return time.Date(2030, 1, 9, 20, 0, 0, 0, time.UTC) }
	return bookingFixture{svc: svc, profiles: profiles, bookings: bookings, publisher: pub}
}

func validInput() CreateBookingInput {
	return CreateBookingInput{
		PanditID:      panditID,
		PujaType:      "Griha Pravesh",
		PreferredDate: model.NewDate(2030, time.January, 15),
		PreferredTime: "10:00 AM",
		Address:       "  42 Ghat Road  ",
	}
}

func TestCreateBookingPricesFromRate(t *testing.T) {
	f := newBookingFixture(t)

	d, err := f.svc.Create(context.Background(), requesterID, validInput())
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, d.Status)
	require.NotNil(t, d.TotalAmount)
	assert.Equal(t, int64(3000), *d.TotalAmount)
	assert.Equal(t, "42 Ghat Road", d.Address)
	require.NotNil(t, d.Pandit)
	assert.Equal(t, "Pandit Demo User", d.Pandit.FullName)
	assert.Equal(t, []string{queue.EventBookingCreated}, f.publisher.types())
}

func TestCreateBookingWithoutRateLeavesTotalUnset(t *testing.T) {
	f := newBookingFixture(t)
	in := validInput()
	in.PanditID = unpricedID

	d, err := f.svc.Create(context.Background(), requesterID, in)
	require.NoError(t, err)
	assert.Nil(t, d.TotalAmount)
}

func TestCreateBookingDateRules(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	in := validInput()
	in.PreferredDate = model.NewDate(2030, time.January, 9)
	_, err := f.svc.Create(ctx, requesterID, in)
	require.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, apperr.As(err).Details, "preferred_date")

	// Today in the service's zone is Jan 10 and is allowed.
	in.PreferredDate = model.NewDate(2030, time.January, 10)
	_, err = f.svc.Create(ctx, requesterID, in)
	assert.NoError(t, err)

	in.PreferredDate = model.Date{}
	_, err = f.svc.Create(ctx, requesterID, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateBookingFieldValidation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	cases := map[string]func(*CreateBookingInput){
		"puja_type":      func(in *CreateBookingInput) { in.PujaType = "Tea Ceremony" },
		"preferred_time": func(in *CreateBookingInput) { in.PreferredTime = "10:30 AM" },
		"address":        func(in *CreateBookingInput) { in.Address = "   " },
		"pandit_id":      func(in *CreateBookingInput) { in.PanditID = "" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := f.svc.Create(ctx, requesterID, in)
			require.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, apperr.As(err).Details, field)
		})
	}
	assert.Empty(t, f.publisher.types())
}

func TestCreateBookingProviderChecks(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	in := validInput()
	in.PanditID = "44444444-4444-4444-4444-444444444444"
	_, err := f.svc.Create(ctx, requesterID, in)
	assert.ErrorIs(t, err, apperr.ErrUnknownProvider)

	in.PanditID = requesterID
	_, err = f.svc.Create(ctx, unpricedID, in)
	assert.ErrorIs(t, err, apperr.ErrUnknownProvider, "a requester profile is not a provider")

	in.PanditID = panditID
	_, err = f.svc.Create(ctx, panditID, in)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCancelIsSingleShot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	d, err := f.svc.Create(ctx, requesterID, validInput())
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, requesterID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, cancelled.Status)

	_, err = f.svc.Cancel(ctx, requesterID, d.ID)
	require.ErrorIs(t, err, apperr.ErrInvalidTransition)

	got, err := f.svc.Get(ctx, requesterID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, []string{queue.EventBookingCreated, queue.EventBookingCancelled}, f.publisher.types())
}

func TestCancelOnlyFromPending(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	for _, status := range []model.BookingStatus{model.BookingConfirmed, model.BookingCompleted} {
		d, err := f.svc.Create(ctx, requesterID, validInput())
		require.NoError(t, err)
		f.bookings.setStatus(d.ID, status)

		_, err = f.svc.Cancel(ctx, requesterID, d.ID)
		require.ErrorIs(t, err, apperr.ErrInvalidTransition)

		got, err := f.svc.Get(ctx, requesterID, d.ID)
		require.NoError(t, err)
		assert.Equal(t, status, got.Status)
	}
}

func TestCancelSomeoneElsesBookingLooksMissing(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	d, err := f.svc.Create(ctx, requesterID, validInput())
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, unpricedID, d.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.svc.Get(ctx, unpricedID, d.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListings(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	first, err := f.svc.Create(ctx, requesterID, validInput())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, requesterID, validInput())
	require.NoError(t, err)

	mine, err := f.svc.List(ctx, requesterID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
	assert.Equal(t, "Varanasi, Uttar Pradesh", *mine[0].Pandit.Address)

	incoming, err := f.svc.ListForProvider(ctx, panditID)
	require.NoError(t, err)
	require.Len(t, incoming, 2)
	assert.Equal(t, "Requester", incoming[0].Requester.FullName)
}

func TestPublishFailureDoesNotFailCreate(t *testing.T) {
	f := newBookingFixture(t)
	f.publisher.err = errors.New("broker down")

	_, err := f.svc.Create(context.Background(), requesterID, validInput())
	assert.NoError(t, err)
}
