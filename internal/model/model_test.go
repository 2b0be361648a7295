package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleDashboards(t *testing.T) {
	assert.Equal(t, "/dashboard", RoleFromFlag(false).Dashboard())
	assert.Equal(t, "/pandit-dashboard", RoleFromFlag(true).Dashboard())
}

func TestParseRoleRoundTrip(t *testing.T) {
	for _, r := range []Role{RoleRequester, RoleProvider} {
		got, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, got)
	}
	_, err := ParseRole("owner")
	assert.Error(t, err)
}

func TestBookingTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{BookingPending, BookingConfirmed, true},
		{BookingPending, BookingCancelled, true},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, false},
		{BookingPending, BookingCompleted, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCancelled, BookingPending, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, BookingCompleted.IsTerminal())
	assert.True(t, BookingCancelled.IsTerminal())
	assert.False(t, BookingPending.IsTerminal())
}

func TestBookingTotal(t *testing.T) {
	rate := int64(1500)
	total := BookingTotal(&rate)
	require.NotNil(t, total)
	assert.Equal(t, int64(3000), *total)
	assert.Nil(t, BookingTotal(nil))
}

func TestCatalogs(t *testing.T) {
	assert.Len(t, PujaTypes, 13)
	assert.Len(t, TimeSlots, 15)
	assert.True(t, IsPujaType("Havan"))
	assert.False(t, IsPujaType("havan"))
	assert.True(t, IsTimeSlot("08:00 PM"))
	assert.False(t, IsTimeSlot("09:00 PM"))
}

func TestDateJSONAndOrdering(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2030-01-15"`), &d))
	assert.Equal(t, "2030-01-15", d.String())
	assert.True(t, d.Before(d.AddDays(1)))

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `"2030-01-15"`, string(b))

	assert.Error(t, json.Unmarshal([]byte(`"15/01/2030"`), &d))
}

func TestDateOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next day in IST.
	instant := time.Date(2030, 1, 1, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2030-01-02", DateOf(instant.In(loc)).String())
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2031, 3, 4, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2031-03-04", d.String())
	require.NoError(t, d.Scan([]byte("2031-03-05")))
	assert.Equal(t, "2031-03-05", d.String())
	assert.Error(t, d.Scan(42))
}

func TestCartSnapshotTotals(t *testing.T) {
	lines := []CartLine{
		{CartItem: CartItem{Quantity: 2}, Item: ShopItem{Price: 100}},
		{CartItem: CartItem{Quantity: 1}, Item: ShopItem{Price: 250}},
	}
	snap := NewCartSnapshot("u1", lines, 3, time.Time{})
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, int64(450), snap.Value)
	assert.Equal(t, uint64(3), snap.Version)

	empty := NewCartSnapshot("u1", nil, 1, time.Time{})
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.Count)
}

func TestProfilePatch(t *testing.T) {
	rate := int64(900)
	phone := "+91 1"
	p := ProfilePatch{Phone: &phone}
	assert.False(t, p.TouchesProviderFields())

	p.RatePerHour = &rate
	assert.True(t, p.TouchesProviderFields())

	prof := &Profile{FullName: "A", IsPandit: true}
	p.Apply(prof)
	assert.Equal(t, "+91 1", *prof.Phone)
	assert.Equal(t, int64(900), *prof.RatePerHour)
	assert.Equal(t, RoleProvider, prof.Role())
}
