package store

import "time"

// Flight is the canonical flight record, keyed by the flight-number+date
// index.
type Flight struct {
	FlightID          string
	FlightNumber      string
	Date              string
	DepartureAirport  string
	ArrivalAirport    string
	ScheduledDeparture time.Time
	ScheduledArrival   time.Time
	AircraftID        string
	Status            string
}

// CrewRosterEntry is one crew-to-flight assignment, keyed by flight-id.
type CrewRosterEntry struct {
	FlightID     string
	CrewMemberID string
	Role         string
	DutyStart    time.Time
	DutyEnd      time.Time
	RestHoursMin float64
}

// CrewMember is a crew roster member record.
type CrewMember struct {
	CrewMemberID string
	Name         string
	Role         string
	Base         string
	CurrentDutyHours float64
}

// MaintenanceWorkOrder is keyed by aircraft-registration and workorder-shift.
type MaintenanceWorkOrder struct {
	WorkOrderID string
	AircraftID  string
	Shift       string
	Status      string
	Description string
	EstimatedCompletion time.Time
}

// AircraftAvailabilityWindow is keyed by aircraft-registration.
type AircraftAvailabilityWindow struct {
	AircraftID string
	Available  bool
	AvailableFrom time.Time
	Location   string
}

// WeatherObservation is keyed by airport+forecast-time.
type WeatherObservation struct {
	Airport      string
	ForecastTime time.Time
	Conditions   string
	VisibilityMeters float64
	WindKnots    float64
}

// Booking is keyed by flight-id and booking-id.
type Booking struct {
	BookingID        string
	FlightID         string
	PassengerID      string
	EliteTier        string
	ReprotectionOptions []string
}

// BaggageRecord is keyed by flight-id.
type BaggageRecord struct {
	FlightID   string
	BagCount   int
	MishandledCount int
}

// Passenger is keyed by flight-id and passenger-elite-tier.
type Passenger struct {
	PassengerID string
	FlightID    string
	EliteTier   string
	Name        string
}

// CargoShipment is keyed by shipment-id.
type CargoShipment struct {
	ShipmentID string
	Weight     float64
	Priority   string
	Status     string
}

// CargoFlightAssignment is keyed by flight-id.
type CargoFlightAssignment struct {
	ShipmentID string
	FlightID   string
}
