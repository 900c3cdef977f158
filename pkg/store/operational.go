package store

import (
	"context"
	stdsql "database/sql"
	"errors"
)

// GetFlight looks up a flight by the flight-number+date index.
// Authorized for every agent.
func (c *Client) GetFlight(ctx context.Context, flightNumber, date string) (*Flight, error) {
	const q = `
		SELECT flight_id, flight_number, date, departure_airport, arrival_airport,
		       scheduled_departure, scheduled_arrival, aircraft_id, status
		FROM flights WHERE flight_number = $1 AND date = $2`
	params := map[string]any{"flight_number": flightNumber, "date": date}

	var f Flight
	err := c.db.QueryRowContext(ctx, q, flightNumber, date).Scan(
		&f.FlightID, &f.FlightNumber, &f.Date, &f.DepartureAirport, &f.ArrivalAirport,
		&f.ScheduledDeparture, &f.ScheduledArrival, &f.AircraftID, &f.Status,
	)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, notFound("flights", params)
	}
	if err != nil {
		return nil, queryFailed("flights", params, err)
	}
	return &f, nil
}

// GetCrewRoster looks up crew assigned to a flight, keyed by flight-id.
// Authorized for crew_compliance, regulatory.
func (c *Client) GetCrewRoster(ctx context.Context, flightID string) ([]CrewRosterEntry, error) {
	const q = `
		SELECT flight_id, crew_member_id, role, duty_start, duty_end, rest_hours_min
		FROM crew_roster WHERE flight_id = $1`
	params := map[string]any{"flight_id": flightID}

	rows, err := c.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, queryFailed("crew_roster", params, err)
	}
	defer rows.Close()

	var out []CrewRosterEntry
	for rows.Next() {
		var e CrewRosterEntry
		if err := rows.Scan(&e.FlightID, &e.CrewMemberID, &e.Role, &e.DutyStart, &e.DutyEnd, &e.RestHoursMin); err != nil {
			return nil, queryFailed("crew_roster", params, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("crew_roster", params, err)
	}
	return out, nil
}

// GetCrewMembers looks up crew member details by crew-member id.
// Authorized for crew_compliance.
func (c *Client) GetCrewMembers(ctx context.Context, crewMemberIDs []string) ([]CrewMember, error) {
	const q = `
		SELECT crew_member_id, name, role, base, current_duty_hours
		FROM crew_members WHERE crew_member_id = ANY($1)`
	params := map[string]any{"crew_member_ids": crewMemberIDs}

	rows, err := c.db.QueryContext(ctx, q, crewMemberIDs)
	if err != nil {
		return nil, queryFailed("crew_members", params, err)
	}
	defer rows.Close()

	var out []CrewMember
	for rows.Next() {
		var m CrewMember
		if err := rows.Scan(&m.CrewMemberID, &m.Name, &m.Role, &m.Base, &m.CurrentDutyHours); err != nil {
			return nil, queryFailed("crew_members", params, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("crew_members", params, err)
	}
	return out, nil
}

// GetMaintenanceWorkOrders looks up all work orders for an aircraft by
// aircraft registration, whatever their status or shift. Authorized for
// maintenance, regulatory, finance.
func (c *Client) GetMaintenanceWorkOrders(ctx context.Context, aircraftID string) ([]MaintenanceWorkOrder, error) {
	const q = `
		SELECT work_order_id, aircraft_id, shift, status, description, estimated_completion
		FROM maintenance_work_orders WHERE aircraft_id = $1`
	params := map[string]any{"aircraft_id": aircraftID}

	rows, err := c.db.QueryContext(ctx, q, aircraftID)
	if err != nil {
		return nil, queryFailed("maintenance_work_orders", params, err)
	}
	defer rows.Close()

	var out []MaintenanceWorkOrder
	for rows.Next() {
		var w MaintenanceWorkOrder
		if err := rows.Scan(&w.WorkOrderID, &w.AircraftID, &w.Shift, &w.Status, &w.Description, &w.EstimatedCompletion); err != nil {
			return nil, queryFailed("maintenance_work_orders", params, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("maintenance_work_orders", params, err)
	}
	return out, nil
}

// GetAircraftAvailability looks up availability by aircraft-registration.
// Authorized for maintenance, network.
func (c *Client) GetAircraftAvailability(ctx context.Context, aircraftID string) (*AircraftAvailabilityWindow, error) {
	const q = `
		SELECT aircraft_id, available, available_from, location
		FROM aircraft_availability WHERE aircraft_id = $1`
	params := map[string]any{"aircraft_id": aircraftID}

	var w AircraftAvailabilityWindow
	err := c.db.QueryRowContext(ctx, q, aircraftID).Scan(&w.AircraftID, &w.Available, &w.AvailableFrom, &w.Location)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, notFound("aircraft_availability", params)
	}
	if err != nil {
		return nil, queryFailed("aircraft_availability", params, err)
	}
	return &w, nil
}

// GetWeather looks up all forecasts for an airport, ordered by forecast
// time. Authorized for regulatory.
func (c *Client) GetWeather(ctx context.Context, airport string) ([]WeatherObservation, error) {
	const q = `
		SELECT airport, forecast_time, conditions, visibility_meters, wind_knots
		FROM weather WHERE airport = $1 ORDER BY forecast_time`
	params := map[string]any{"airport": airport}

	rows, err := c.db.QueryContext(ctx, q, airport)
	if err != nil {
		return nil, queryFailed("weather", params, err)
	}
	defer rows.Close()

	var out []WeatherObservation
	for rows.Next() {
		var w WeatherObservation
		if err := rows.Scan(&w.Airport, &w.ForecastTime, &w.Conditions, &w.VisibilityMeters, &w.WindKnots); err != nil {
			return nil, queryFailed("weather", params, err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("weather", params, err)
	}
	return out, nil
}

// GetBookings looks up all bookings on a flight by flight-id.
// Authorized for network, guest_experience, finance.
func (c *Client) GetBookings(ctx context.Context, flightID string) ([]Booking, error) {
	const q = `
		SELECT booking_id, flight_id, passenger_id, elite_tier, reprotection_options
		FROM bookings WHERE flight_id = $1`
	params := map[string]any{"flight_id": flightID}

	rows, err := c.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, queryFailed("bookings", params, err)
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.BookingID, &b.FlightID, &b.PassengerID, &b.EliteTier, &b.ReprotectionOptions); err != nil {
			return nil, queryFailed("bookings", params, err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("bookings", params, err)
	}
	return out, nil
}

// GetBaggage looks up the baggage summary for a flight, keyed by flight-id.
// Authorized for guest_experience.
func (c *Client) GetBaggage(ctx context.Context, flightID string) (*BaggageRecord, error) {
	const q = `
		SELECT flight_id, bag_count, mishandled_count
		FROM baggage WHERE flight_id = $1`
	params := map[string]any{"flight_id": flightID}

	var b BaggageRecord
	err := c.db.QueryRowContext(ctx, q, flightID).Scan(&b.FlightID, &b.BagCount, &b.MishandledCount)
	if errors.Is(err, stdsql.ErrNoRows) {
		return nil, notFound("baggage", params)
	}
	if err != nil {
		return nil, queryFailed("baggage", params, err)
	}
	return &b, nil
}

// GetPassengers looks up passengers on a flight, keyed by flight-id and
// narrowable by passenger-elite-tier. Authorized for guest_experience.
func (c *Client) GetPassengers(ctx context.Context, flightID string, eliteTierOnly bool) ([]Passenger, error) {
	q := `SELECT passenger_id, flight_id, elite_tier, name FROM passengers WHERE flight_id = $1`
	params := map[string]any{"flight_id": flightID, "elite_tier_only": eliteTierOnly}
	if eliteTierOnly {
		q += ` AND elite_tier <> ''`
	}

	rows, err := c.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, queryFailed("passengers", params, err)
	}
	defer rows.Close()

	var out []Passenger
	for rows.Next() {
		var p Passenger
		if err := rows.Scan(&p.PassengerID, &p.FlightID, &p.EliteTier, &p.Name); err != nil {
			return nil, queryFailed("passengers", params, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("passengers", params, err)
	}
	return out, nil
}

// GetCargoShipments looks up shipments by shipment-id. Authorized for cargo.
func (c *Client) GetCargoShipments(ctx context.Context, shipmentIDs []string) ([]CargoShipment, error) {
	const q = `
		SELECT shipment_id, weight, priority, status
		FROM cargo_shipments WHERE shipment_id = ANY($1)`
	params := map[string]any{"shipment_ids": shipmentIDs}

	rows, err := c.db.QueryContext(ctx, q, shipmentIDs)
	if err != nil {
		return nil, queryFailed("cargo_shipments", params, err)
	}
	defer rows.Close()

	var out []CargoShipment
	for rows.Next() {
		var s CargoShipment
		if err := rows.Scan(&s.ShipmentID, &s.Weight, &s.Priority, &s.Status); err != nil {
			return nil, queryFailed("cargo_shipments", params, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("cargo_shipments", params, err)
	}
	return out, nil
}

// GetCargoFlightAssignments looks up shipment-to-flight assignments, keyed
// by flight-id. Authorized for cargo, finance.
func (c *Client) GetCargoFlightAssignments(ctx context.Context, flightID string) ([]CargoFlightAssignment, error) {
	const q = `
		SELECT shipment_id, flight_id
		FROM cargo_flight_assignments WHERE flight_id = $1`
	params := map[string]any{"flight_id": flightID}

	rows, err := c.db.QueryContext(ctx, q, flightID)
	if err != nil {
		return nil, queryFailed("cargo_flight_assignments", params, err)
	}
	defer rows.Close()

	var out []CargoFlightAssignment
	for rows.Next() {
		var a CargoFlightAssignment
		if err := rows.Scan(&a.ShipmentID, &a.FlightID); err != nil {
			return nil, queryFailed("cargo_flight_assignments", params, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, queryFailed("cargo_flight_assignments", params, err)
	}
	return out, nil
}
