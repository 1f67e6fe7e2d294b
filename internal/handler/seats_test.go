package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
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

func seatsFixture(t *testing.T) (*SeatHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := repository.NewStore(db)
	engine := service.NewAllocationEngine(store, hub.New())
	return NewSeatHandler(engine, store), mock
}

func TestGetSeatsByFlight(t *testing.T) {
	h, mock := seatsFixture(t)

	flightRows := sqlmock.NewRows([]string{"id", "flight_number", "arrival_airport", "destination_airport", "time", "gate", "status"}).
		AddRow(1, "EK201", "JFK", "DXB", time.Now().UTC(), "A12", "CheckingIn")
	mock.ExpectQuery("SELECT (.+) FROM flights WHERE id =").
		WithArgs(uint64(1)).
		WillReturnRows(flightRows)
	seatRows := sqlmock.NewRows([]string{"id", "flight_id", "seat_number", "is_occupied", "passenger_id"}).
		AddRow(1, 1, "1A", false, nil).
		AddRow(2, 1, "1B", true, 7)
	mock.ExpectQuery("SELECT (.+) FROM seats\\s+WHERE flight_id =").
		WithArgs(uint64(1)).
		WillReturnRows(seatRows)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/flights/1/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.GetSeatsByFlight(c))

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Items []struct {
			SeatNumber string `json:"seatNumber"`
			IsOccupied bool   `json:"isOccupied"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Items, 2)
	assert.Equal(t, "1A", got.Items[0].SeatNumber)
	assert.False(t, got.Items[0].IsOccupied)
	assert.True(t, got.Items[1].IsOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSeatsByFlightUnknownFlight(t *testing.T) {
	h, mock := seatsFixture(t)

	mock.ExpectQuery("SELECT (.+) FROM flights WHERE id =").
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "flight_number", "arrival_airport", "destination_airport", "time", "gate", "status"}))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/flights/5/seats", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("5")
	require.NoError(t, h.GetSeatsByFlight(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
