package handler

import (
	"crypto/rand"
	"encoding/hex"
	"io"
	"log"

	"github.com/labstack/echo/v4"
	"golang.org/x/net/websocket"

	"github.com/iliyamo/airport-checkin/internal/hub"
	"github.com/iliyamo/airport-checkin/internal/service"
)

// RealtimeHandler carries the persistent WebSocket sessions of agent
// terminals.  A session joins flight update groups, relays seat preview
// commands to the presence tracker and streams hub events back to the
// terminal.  Connection loss triggers preview cleanup and group removal.
type RealtimeHandler struct {
	Hub     *hub.Hub
	Tracker *service.PresenceTracker
}

// NewRealtimeHandler constructs a RealtimeHandler.
func NewRealtimeHandler(h *hub.Hub, t *service.PresenceTracker) *RealtimeHandler {
	if h == nil || t == nil {
		panic("nil dependency passed to NewRealtimeHandler")
	}
	return &RealtimeHandler{Hub: h, Tracker: t}
}

// realtimeCommand is one client frame.  Actions: join, leave, select,
// deselect.  flightId is required for all actions; seatNumber for
// select/deselect.
type realtimeCommand struct {
	Action     string `json:"action"`
	FlightID   uint64 `json:"flightId"`
	SeatNumber string `json:"seatNumber"`
}

// Serve handles GET /v1/realtime.  The terminal may pin its identity with
// ?agent=<id>; otherwise a random connection id is assigned.  Reconnecting
// under the same identity replaces the previous session.
func (h *RealtimeHandler) Serve(c echo.Context) error {
	connID := c.QueryParam("agent")
	if connID == "" {
		connID = newConnID()
	}
	websocket.Handler(func(ws *websocket.Conn) {
		h.session(ws, connID)
	}).ServeHTTP(c.Response(), c.Request())
	return nil
}

// session runs one connection: a writer goroutine drains hub events while
// the main loop decodes client commands.  The deferred cleanup clears the
// connection's preview selections (emitting SeatDeselected to the groups)
// and removes all memberships, so a dropped terminal never leaves a seat
// permanently soft-locked.
func (h *RealtimeHandler) session(ws *websocket.Conn, connID string) {
	sess := h.Hub.Register(connID)
	defer func() {
		// Teardown is scoped to this session: a reconnect under the same
		// identity registers a fresh session, and this connection's late
		// death must not wipe the replacement's previews or memberships.
		if h.Hub.DisconnectSession(sess) {
			h.Tracker.DisconnectCleanup(connID)
		}
	}()

	go func() {
		for ev := range sess.Events() {
			if err := websocket.JSON.Send(ws, ev); err != nil {
				break
			}
		}
		// Channel closed (superseded or disconnected) or the wire failed:
		// kick the reader loop out of Receive so cleanup runs promptly.
		_ = ws.Close()
	}()

	for {
		var cmd realtimeCommand
		if err := websocket.JSON.Receive(ws, &cmd); err != nil {
			if err != io.EOF {
				log.Printf("realtime: session %s closed: %v", connID, err)
			}
			return
		}
		if cmd.FlightID == 0 {
			continue
		}
		switch cmd.Action {
		case "join":
			h.Hub.Subscribe(connID, cmd.FlightID)
			// Replay active soft locks so the new terminal's grid matches
			// what everyone else already sees.
			for _, seat := range h.Tracker.Selections(cmd.FlightID) {
				sess.Push(hub.Event{Name: service.EventSeatSelected, Payload: seat})
			}
		case "leave":
			h.Hub.Unsubscribe(connID, cmd.FlightID)
		case "select":
			if cmd.SeatNumber != "" {
				h.Tracker.SelectSeat(cmd.FlightID, connID, cmd.SeatNumber)
			}
		case "deselect":
			if cmd.SeatNumber != "" {
				h.Tracker.DeselectSeat(cmd.FlightID, connID, cmd.SeatNumber)
			}
		}
	}
}

// newConnID generates a random hexadecimal connection identity.
func newConnID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "conn-unknown"
	}
	return hex.EncodeToString(b)
}
