// Package hub implements the notification fan-out for agent terminals.  A
// single Hub instance is created at process start and injected into the
// allocation engine, the presence tracker and the realtime handler; there is
// no package-level state.  Sessions subscribe to per-flight groups and
// receive events in the order they were published to that group.  Delivery
// is best-effort: a session whose buffer is full has the event dropped, and
// the terminal reconciles by reloading the seat map.
package hub

import (
	"log"
	"sync"
)

// Event is one notification delivered to a session.  Name is the client
// dispatch key ("SeatOccupied", "SeatSelected", ...); Payload is
// JSON-encodable and owned by the receiver.
type Event struct {
	Name    string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// sendBuffer is the per-session channel depth.  Deep enough to absorb a
// burst of seat updates on a full cabin without blocking publishers.
const sendBuffer = 64

// Session is one live terminal connection registered with the hub.  The
// transport layer drains Events and writes them to the wire.
type Session struct {
	ID string

	events chan Event
	once   sync.Once
}

// Events exposes the session's delivery channel.  The channel is closed
// when the session is disconnected from the hub.
func (s *Session) Events() <-chan Event { return s.events }

// close shuts the delivery channel exactly once.
func (s *Session) close() {
	s.once.Do(func() { close(s.events) })
}

// Push delivers an event to this session alone, outside any group.  The
// realtime handler uses it to send the soft-lock snapshot to a terminal
// that just joined a flight group.
func (s *Session) Push(ev Event) { s.deliver(ev) }

// deliver pushes an event without blocking.  Dropping on a full buffer is
// acceptable: the client reconciles full state on its next reload.
func (s *Session) deliver(ev Event) {
	select {
	case s.events <- ev:
	default:
		log.Printf("hub: dropping event %s for slow session %s", ev.Name, s.ID)
	}
}

// Hub maintains session registrations and flight group memberships.  All
// maps are guarded by mu; publishes iterate members under the lock so the
// per-group publish order matches the channel push order for every member.
type Hub struct {
	mu       sync.Mutex
	sessions map[string]*Session            // connection id -> session
	groups   map[uint64]map[string]*Session // flight id -> members
	byConn   map[string]map[uint64]struct{} // connection id -> joined flights
}

// New returns an empty Hub.
func New() *Hub {
	return &Hub{
		sessions: make(map[string]*Session),
		groups:   make(map[uint64]map[string]*Session),
		byConn:   make(map[string]map[uint64]struct{}),
	}
}

// Register creates and tracks a session for the given connection identity.
// Registering an identity twice replaces the previous session, closing it
// so a stale transport loop terminates.
func (h *Hub) Register(connID string) *Session {
	s := &Session{ID: connID, events: make(chan Event, sendBuffer)}
	h.mu.Lock()
	if old, ok := h.sessions[connID]; ok {
		h.removeLocked(old)
	}
	h.sessions[connID] = s
	h.mu.Unlock()
	return s
}

// Subscribe adds the connection to a flight's update group.  Subscribing
// an unregistered connection is a no-op.
func (h *Hub) Subscribe(connID string, flightID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[connID]
	if !ok {
		return
	}
	g, ok := h.groups[flightID]
	if !ok {
		g = make(map[string]*Session)
		h.groups[flightID] = g
	}
	g[connID] = s
	f, ok := h.byConn[connID]
	if !ok {
		f = make(map[uint64]struct{})
		h.byConn[connID] = f
	}
	f[flightID] = struct{}{}
}

// Unsubscribe removes the connection from a flight's update group.
func (h *Hub) Unsubscribe(connID string, flightID uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if g, ok := h.groups[flightID]; ok {
		delete(g, connID)
		if len(g) == 0 {
			delete(h.groups, flightID)
		}
	}
	if f, ok := h.byConn[connID]; ok {
		delete(f, flightID)
		if len(f) == 0 {
			delete(h.byConn, connID)
		}
	}
}

// Disconnect removes the connection's session and all of its group
// memberships and closes its delivery channel.
func (h *Hub) Disconnect(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[connID]; ok {
		h.removeLocked(s)
	}
}

// DisconnectSession removes the given session only if it is still the one
// registered for its connection identity.  A session that was superseded by
// a later Register is left untouched, so a stale transport tearing down
// late cannot destroy the live session's registrations.  Reports whether
// the session was removed.
func (h *Hub) DisconnectSession(s *Session) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.sessions[s.ID]; !ok || cur != s {
		return false
	}
	h.removeLocked(s)
	return true
}

// Flights returns the flight groups the connection is currently joined to.
// Callers use it to run per-flight cleanup before disconnecting.
func (h *Hub) Flights(connID string) []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	f, ok := h.byConn[connID]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, len(f))
	for id := range f {
		out = append(out, id)
	}
	return out
}

// removeLocked drops every trace of a session. Caller holds mu.
func (h *Hub) removeLocked(s *Session) {
	delete(h.sessions, s.ID)
	if f, ok := h.byConn[s.ID]; ok {
		for flightID := range f {
			if g, ok := h.groups[flightID]; ok {
				delete(g, s.ID)
				if len(g) == 0 {
					delete(h.groups, flightID)
				}
			}
		}
		delete(h.byConn, s.ID)
	}
	s.close()
}

// PublishToFlight delivers an event to every member of the flight's group.
func (h *Hub) PublishToFlight(flightID uint64, name string, payload interface{}) {
	ev := Event{Name: name, Payload: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.groups[flightID] {
		s.deliver(ev)
	}
}

// PublishToOthers delivers an event to every member of the flight's group
// except the originating connection.  Used for preview selections so a
// terminal never receives an echo of its own click.
func (h *Hub) PublishToOthers(flightID uint64, exceptConnID, name string, payload interface{}) {
	ev := Event{Name: name, Payload: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.groups[flightID] {
		if id == exceptConnID {
			continue
		}
		s.deliver(ev)
	}
}

// PublishAll delivers an event to every registered session regardless of
// group membership.  Flight status changes use this path so departure
// boards on any screen stay current.
func (h *Hub) PublishAll(name string, payload interface{}) {
	ev := Event{Name: name, Payload: payload}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.sessions {
		s.deliver(ev)
	}
}
