package repository // repository defines data access for flights

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel comparisons

	"github.com/iliyamo/airport-checkin/internal/model"
)

// FlightRepo provides methods to work with flights in the database.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo constructs a FlightRepo with the given DB handle.
func NewFlightRepo(db *sql.DB) *FlightRepo {
	return &FlightRepo{db: db}
}

// Create inserts a new flight. On success the flight's ID is populated.
func (r *FlightRepo) Create(ctx context.Context, f *model.Flight) error {
	const q = `INSERT INTO flights (flight_number, arrival_airport, destination_airport, time, gate, status)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		f.FlightNumber, f.ArrivalAirport, f.DestinationAirport, f.Time.UTC(), f.Gate, string(f.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID loads a single flight. Returns ErrFlightNotFound when absent.
func (r *FlightRepo) GetByID(ctx context.Context, id uint64) (*model.Flight, error) {
	const q = `SELECT id, flight_number, arrival_airport, destination_airport, time, gate, status
               FROM flights WHERE id = ?`
	var f model.Flight
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.FlightNumber, &f.ArrivalAirport, &f.DestinationAirport, &f.Time, &f.Gate, &status,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFlightNotFound
		}
		return nil, err
	}
	f.Status = model.FlightStatus(status)
	return &f, nil
}

// List returns all flights ordered by scheduled time.
func (r *FlightRepo) List(ctx context.Context) ([]model.Flight, error) {
	const q = `SELECT id, flight_number, arrival_airport, destination_airport, time, gate, status
               FROM flights ORDER BY time, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Flight
	for rows.Next() {
		var f model.Flight
		var status string
		if err := rows.Scan(
			&f.ID, &f.FlightNumber, &f.ArrivalAirport, &f.DestinationAirport, &f.Time, &f.Gate, &status,
		); err != nil {
			return nil, err
		}
		f.Status = model.FlightStatus(status)
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStatus sets a flight's status and returns the updated row.  Any
// status can follow any other; the caller is responsible for broadcasting
// the change to connected terminals.
func (r *FlightRepo) UpdateStatus(ctx context.Context, id uint64, status model.FlightStatus) (*model.Flight, error) {
	const q = `UPDATE flights SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	// Zero rows affected means either the flight is absent or the status is
	// unchanged; distinguish by re-reading the row.
	if n == 0 {
		f, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return r.GetByID(ctx, id)
}
