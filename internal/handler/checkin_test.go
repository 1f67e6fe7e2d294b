package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airport-checkin/internal/hub"
	"github.com/iliyamo/airport-checkin/internal/repository"
	"github.com/iliyamo/airport-checkin/internal/service"
)

// checkinFixture wires a real store over sqlmock, a real hub and a real
// engine behind the handler, so the test exercises the full request path.
func checkinFixture(t *testing.T) (*CheckInHandler, sqlmock.Sqlmock, *hub.Hub) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	h := hub.New()
	engine := service.NewAllocationEngine(repository.NewStore(db), h)
	return NewCheckInHandler(engine), mock, h
}

func doCheckIn(t *testing.T, h *CheckInHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/checkin", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, h.CheckIn(e.NewContext(req, rec)))
	return rec
}

func expectPassengerLookup(mock sqlmock.Sqlmock, passport string, checkedIn bool) {
	rows := sqlmock.NewRows([]string{"id", "flight_id", "full_name", "passport_number", "is_checked_in", "assigned_seat_id"}).
		AddRow(7, 1, "Dana Cole", passport, checkedIn, nil)
	mock.ExpectQuery("SELECT (.+) FROM passengers WHERE passport_number =").
		WithArgs(passport).
		WillReturnRows(rows)
}

func expectFlightLookup(mock sqlmock.Sqlmock) {
	rows := sqlmock.NewRows([]string{"id", "flight_number", "arrival_airport", "destination_airport", "time", "gate", "status"}).
		AddRow(1, "EK201", "JFK", "DXB", time.Now().UTC(), "A12", "CheckingIn")
	mock.ExpectQuery("SELECT (.+) FROM flights WHERE id =").
		WithArgs(uint64(1)).
		WillReturnRows(rows)
}

func TestCheckInEndpointSuccess(t *testing.T) {
	h, mock, hb := checkinFixture(t)

	// A subscribed terminal should see the SeatOccupied broadcast.
	sess := hb.Register("agent-x")
	hb.Subscribe("agent-x", 1)

	expectPassengerLookup(mock, "P1234567", false)
	expectFlightLookup(mock)
	seatRows := sqlmock.NewRows([]string{"id", "flight_id", "seat_number", "is_occupied", "passenger_id"}).
		AddRow(42, 1, "2B", false, nil)
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE flight_id = (.+) AND seat_number =").
		WithArgs(uint64(1), "2B").
		WillReturnRows(seatRows)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").
		WithArgs(uint64(7), uint64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET is_checked_in = 1").
		WithArgs(uint64(42), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := doCheckIn(t, h, `{"passportNumber":"P1234567","selectedSeatNumber":"2B"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, "Check-in successful", got["message"])
	assert.Equal(t, "Dana Cole", got["passengerName"])
	assert.Equal(t, "EK201", got["flightNumber"])
	assert.Equal(t, "2B", got["seatNumber"])
	assert.Equal(t, "A12", got["gate"])

	select {
	case ev := <-sess.Events():
		assert.Equal(t, service.EventSeatOccupied, ev.Name)
		assert.Equal(t, "2B", ev.Payload)
	case <-time.After(time.Second):
		t.Fatal("no SeatOccupied broadcast")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInEndpointUnknownPassport(t *testing.T) {
	h, mock, _ := checkinFixture(t)

	mock.ExpectQuery("SELECT (.+) FROM passengers WHERE passport_number =").
		WithArgs("MISSING").
		WillReturnRows(sqlmock.NewRows([]string{"id", "flight_id", "full_name", "passport_number", "is_checked_in", "assigned_seat_id"}))

	rec := doCheckIn(t, h, `{"passportNumber":"MISSING"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInEndpointAlreadyCheckedIn(t *testing.T) {
	h, mock, _ := checkinFixture(t)

	expectPassengerLookup(mock, "P1234567", true)

	rec := doCheckIn(t, h, `{"passportNumber":"P1234567"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got["message"], "already checked in")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInEndpointOccupiedSeat(t *testing.T) {
	h, mock, _ := checkinFixture(t)

	expectPassengerLookup(mock, "P1234567", false)
	expectFlightLookup(mock)
	seatRows := sqlmock.NewRows([]string{"id", "flight_id", "seat_number", "is_occupied", "passenger_id"}).
		AddRow(42, 1, "2B", true, 9)
	mock.ExpectQuery("SELECT (.+) FROM seats WHERE flight_id = (.+) AND seat_number =").
		WithArgs(uint64(1), "2B").
		WillReturnRows(seatRows)

	rec := doCheckIn(t, h, `{"passportNumber":"P1234567","selectedSeatNumber":"2B"}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInEndpointMissingPassport(t *testing.T) {
	h, _, _ := checkinFixture(t)

	rec := doCheckIn(t, h, `{"selectedSeatNumber":"2B"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
