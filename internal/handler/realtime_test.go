package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"

	"github.com/iliyamo/airport-checkin/internal/hub"
	"github.com/iliyamo/airport-checkin/internal/service"
)

func dialRealtime(t *testing.T, srv *httptest.Server, agent string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/realtime?agent=" + agent
	ws, err := websocket.Dial(url, "", srv.URL)
	require.NoError(t, err)
	return ws
}

// waitFor polls cond until it holds or the deadline passes.  The realtime
// session runs server-side, so state changes land asynchronously after a
// command frame is sent.
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal(msg)
}

func TestReconnectSurvivesStaleConnectionTeardown(t *testing.T) {
	h := hub.New()
	tracker := service.NewPresenceTracker(h)
	rt := NewRealtimeHandler(h, tracker)

	e := echo.New()
	e.GET("/v1/realtime", rt.Serve)
	srv := httptest.NewServer(e)
	defer srv.Close()

	first := dialRealtime(t, srv, "agent-a")
	require.NoError(t, websocket.JSON.Send(first, realtimeCommand{Action: "join", FlightID: 9}))
	waitFor(t, func() bool { return len(h.Flights("agent-a")) == 1 }, "first session never joined")

	// Terminal reconnects under the same identity; the hub replaces the
	// first session with this one.
	second := dialRealtime(t, srv, "agent-a")
	defer second.Close()
	require.NoError(t, websocket.JSON.Send(second, realtimeCommand{Action: "join", FlightID: 1}))
	require.NoError(t, websocket.JSON.Send(second, realtimeCommand{Action: "select", FlightID: 1, SeatNumber: "3A"}))
	waitFor(t, func() bool {
		sel := tracker.Selections(1)
		return len(sel) == 1 && sel[0] == "3A"
	}, "second session's selection never registered")

	// The stale socket finally dies.  Its teardown must not wipe the live
	// session's preview or group membership.
	first.Close()
	time.Sleep(200 * time.Millisecond)

	assert.Equal(t, []string{"3A"}, tracker.Selections(1))
	assert.Equal(t, []uint64{1}, h.Flights("agent-a"))

	// And events must still reach the live session.
	h.PublishToFlight(1, service.EventSeatOccupied, "5C")
	_ = second.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev hub.Event
	require.NoError(t, websocket.JSON.Receive(second, &ev))
	assert.Equal(t, service.EventSeatOccupied, ev.Name)
	assert.Equal(t, "5C", ev.Payload)
}
