package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db), mock
}

func TestCommitSeatAssignmentCommitsBothWrites(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET is_checked_in = 1").
		WithArgs(uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.CommitSeatAssignment(context.Background(), 3, 7)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSeatAssignmentSeatRaceRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	// Another transaction occupied the seat between read and write: the
	// conditional update matches no row and nothing is committed.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.CommitSeatAssignment(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrSeatOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSeatAssignmentPassengerRaceRollsBack(t *testing.T) {
	store, mock := newMockStore(t)

	// The seat write lands but the passenger is already checked in; the
	// whole transaction must roll back so the seat is not left half-linked.
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET is_checked_in = 1").
		WithArgs(uint64(3), uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.CommitSeatAssignment(context.Background(), 3, 7)
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSeatReleaseClearsBothSides(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 0").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE passengers SET is_checked_in = 0").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.CommitSeatRelease(context.Background(), 3)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSeatReleaseOnFreeSeat(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 0").
		WithArgs(uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.CommitSeatRelease(context.Background(), 3)
	assert.ErrorIs(t, err, ErrSeatNotOccupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSeatsForFlight(t *testing.T) {
	store, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "flight_id", "seat_number", "is_occupied", "passenger_id"}).
		AddRow(1, 3, "1A", true, 9).
		AddRow(2, 3, "1B", false, nil)
	mock.ExpectQuery("SELECT (.+) FROM seats\\s+WHERE flight_id = (.+)\\s+ORDER BY seat_number, id").
		WithArgs(uint64(3)).
		WillReturnRows(rows)

	seats, err := store.GetSeatsForFlight(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, seats, 2)
	assert.Equal(t, "1A", seats[0].SeatNumber)
	assert.True(t, seats[0].IsOccupied)
	require.NotNil(t, seats[0].PassengerID)
	assert.Equal(t, uint64(9), *seats[0].PassengerID)
	assert.False(t, seats[1].IsOccupied)
	assert.Nil(t, seats[1].PassengerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitSeatOccupyWithoutPassenger(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE seats SET is_occupied = 1").
		WithArgs(nil, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.CommitSeatOccupy(context.Background(), 3, nil)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
