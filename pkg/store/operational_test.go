package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFlight(t *testing.T, c *Client) {
	t.Helper()
	ctx := context.Background()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO flights (flight_id, flight_number, date, departure_airport, arrival_airport,
			scheduled_departure, scheduled_arrival, aircraft_id, status)
		VALUES ('fl-1', 'EY123', '2026-01-20', 'AUH', 'LHR', $1, $2, 'A6-XYZ', 'scheduled')`,
		time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 20, 18, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
}

func TestGetFlightFound(t *testing.T) {
	c := newTestClient(t)
	seedFlight(t, c)

	f, err := c.GetFlight(context.Background(), "EY123", "2026-01-20")
	require.NoError(t, err)
	assert.Equal(t, "fl-1", f.FlightID)
	assert.Equal(t, "A6-XYZ", f.AircraftID)
}

func TestGetFlightNotFound(t *testing.T) {
	c := newTestClient(t)

	_, err := c.GetFlight(context.Background(), "EY999", "2026-01-20")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetAircraftAvailability(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO aircraft_availability (aircraft_id, available, available_from, location)
		VALUES ('A6-XYZ', true, $1, 'AUH')`, time.Now().UTC())
	require.NoError(t, err)

	w, err := c.GetAircraftAvailability(ctx, "A6-XYZ")
	require.NoError(t, err)
	assert.True(t, w.Available)
}
