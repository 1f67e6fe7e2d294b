package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectSeatNotifiesOthersOnly(t *testing.T) {
	rec := &recorder{}
	tr := NewPresenceTracker(rec)

	tr.SelectSeat(1, "conn-a", "3A")

	evs := rec.named(EventSeatSelected)
	require.Len(t, evs, 1)
	assert.Equal(t, uint64(1), evs[0].flightID)
	assert.Equal(t, "conn-a", evs[0].except, "originator must be excluded")
	assert.Equal(t, "3A", evs[0].payload)
}

func TestSelectSeatSupersedesPrevious(t *testing.T) {
	rec := &recorder{}
	tr := NewPresenceTracker(rec)

	tr.SelectSeat(1, "conn-a", "3A")
	tr.SelectSeat(1, "conn-a", "5C")

	desel := rec.named(EventSeatDeselected)
	require.Len(t, desel, 1)
	assert.Equal(t, "3A", desel[0].payload)

	sel := rec.named(EventSeatSelected)
	require.Len(t, sel, 2)
	assert.Equal(t, "5C", sel[1].payload)

	assert.Equal(t, []string{"5C"}, tr.Selections(1))
}

func TestReselectSameSeatDoesNotDeselect(t *testing.T) {
	rec := &recorder{}
	tr := NewPresenceTracker(rec)

	tr.SelectSeat(1, "conn-a", "3A")
	tr.SelectSeat(1, "conn-a", "3A")

	assert.Empty(t, rec.named(EventSeatDeselected))
	assert.Equal(t, []string{"3A"}, tr.Selections(1))
}

func TestDeselectSeat(t *testing.T) {
	rec := &recorder{}
	tr := NewPresenceTracker(rec)

	tr.SelectSeat(1, "conn-a", "3A")
	tr.DeselectSeat(1, "conn-a", "3A")

	evs := rec.named(EventSeatDeselected)
	require.Len(t, evs, 1)
	assert.Equal(t, "3A", evs[0].payload)
	assert.Empty(t, tr.Selections(1))
}

func TestStaleDeselectIsIgnored(t *testing.T) {
	rec := &recorder{}
	tr := NewPresenceTracker(rec)

	tr.SelectSeat(1, "conn-a", "3A")
	tr.SelectSeat(1, "conn-b", "4B")

	// conn-a deselects a seat it is not previewing; conn-b's soft lock
	// and conn-a's own selection must both survive.
	tr.DeselectSeat(1, "conn-a", "4B")

	assert.Empty(t, rec.named(EventSeatDeselected))
	assert.Equal(t, []string{"3A", "4B"}, tr.Selections(1))
}

func TestDisconnectCleanupDropsAllFlights(t *testing.T) {
	rec := &recorder{}
	tr := NewPresenceTracker(rec)

	tr.SelectSeat(1, "conn-a", "3A")
	tr.SelectSeat(2, "conn-a", "1C")
	tr.SelectSeat(1, "conn-b", "4B")

	tr.DisconnectCleanup("conn-a")

	evs := rec.named(EventSeatDeselected)
	require.Len(t, evs, 2)
	seats := map[uint64]interface{}{}
	for _, ev := range evs {
		assert.Equal(t, "conn-a", ev.except)
		seats[ev.flightID] = ev.payload
	}
	assert.Equal(t, "3A", seats[1])
	assert.Equal(t, "1C", seats[2])

	assert.Equal(t, []string{"4B"}, tr.Selections(1))
	assert.Empty(t, tr.Selections(2))
}

func TestSelectionsSnapshotIsSorted(t *testing.T) {
	tr := NewPresenceTracker(&recorder{})

	tr.SelectSeat(1, "conn-c", "9F")
	tr.SelectSeat(1, "conn-a", "3A")
	tr.SelectSeat(1, "conn-b", "12D")

	assert.Equal(t, []string{"12D", "3A", "9F"}, tr.Selections(1))
}
