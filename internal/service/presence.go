package service

import (
	"sort"
	"sync"
)

// PresenceTracker records which seat each connected terminal is currently
// previewing, per flight.  The record is purely in-memory and advisory: the
// allocation engine remains the sole authority on occupancy, and a client
// that ignores a soft lock simply loses the check-in race and receives
// SeatOccupied.  Entries never survive a restart and are cleared on
// deselect, on selecting a different seat, and on disconnect.
type PresenceTracker struct {
	mu sync.Mutex
	// selections maps flight id -> connection id -> previewed seat number.
	selections map[uint64]map[string]string
	bc         Broadcaster
}

// NewPresenceTracker constructs a tracker publishing through bc.
func NewPresenceTracker(bc Broadcaster) *PresenceTracker {
	if bc == nil {
		panic("nil broadcaster passed to NewPresenceTracker")
	}
	return &PresenceTracker{
		selections: make(map[uint64]map[string]string),
		bc:         bc,
	}
}

// SelectSeat records the connection's preview of a seat and notifies the
// other members of the flight group.  Selecting a new seat supersedes the
// previous one: the old seat is deselected first so other terminals do not
// show two soft locks for one agent.  The originating connection receives
// no echo.
func (t *PresenceTracker) SelectSeat(flightID uint64, connID, seatNumber string) {
	t.mu.Lock()
	conns, ok := t.selections[flightID]
	if !ok {
		conns = make(map[string]string)
		t.selections[flightID] = conns
	}
	prev, had := conns[connID]
	conns[connID] = seatNumber
	t.mu.Unlock()

	if had && prev != seatNumber {
		t.bc.PublishToOthers(flightID, connID, EventSeatDeselected, prev)
	}
	t.bc.PublishToOthers(flightID, connID, EventSeatSelected, seatNumber)
}

// DeselectSeat drops the connection's preview of a seat and notifies the
// other members of the flight group.  A deselect for a seat the connection
// is not previewing is ignored; a stale deselect must not clear another
// terminal's soft lock.
func (t *PresenceTracker) DeselectSeat(flightID uint64, connID, seatNumber string) {
	t.mu.Lock()
	conns := t.selections[flightID]
	cur, ok := conns[connID]
	if ok && cur == seatNumber {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(t.selections, flightID)
		}
	} else {
		ok = false
	}
	t.mu.Unlock()

	if ok {
		t.bc.PublishToOthers(flightID, connID, EventSeatDeselected, seatNumber)
	}
}

// DisconnectCleanup removes every preview held by the connection across all
// flights and emits the corresponding SeatDeselected events, so seats never
// appear permanently soft-locked after a terminal drops.
func (t *PresenceTracker) DisconnectCleanup(connID string) {
	type released struct {
		flightID   uint64
		seatNumber string
	}
	var dropped []released

	t.mu.Lock()
	for flightID, conns := range t.selections {
		if seat, ok := conns[connID]; ok {
			delete(conns, connID)
			if len(conns) == 0 {
				delete(t.selections, flightID)
			}
			dropped = append(dropped, released{flightID: flightID, seatNumber: seat})
		}
	}
	t.mu.Unlock()

	for _, d := range dropped {
		t.bc.PublishToOthers(d.flightID, connID, EventSeatDeselected, d.seatNumber)
	}
}

// Selections returns the seat numbers currently previewed on a flight,
// sorted for deterministic output.  The realtime handler sends this
// snapshot to a terminal joining the flight group so active soft locks are
// visible immediately.
func (t *PresenceTracker) Selections(flightID uint64) []string {
	t.mu.Lock()
	conns := t.selections[flightID]
	out := make([]string, 0, len(conns))
	for _, seat := range conns {
		out = append(out, seat)
	}
	t.mu.Unlock()

	sort.Strings(out)
	return out
}
