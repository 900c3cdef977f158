package model

// DisruptionContext is the resolved disruption the orchestrator builds
// from the extractor's FlightInfo plus the flight record looked up via
// the data access layer. It is the shape every agent invocation and
// ValidateAgentInputs is checked against.
type DisruptionContext struct {
	FlightID           string  `json:"flight_id"`
	FlightNumber       string  `json:"flight_number"`
	Date               string  `json:"date"`
	DepartureAirport   string  `json:"departure_airport"`
	ArrivalAirport     string  `json:"arrival_airport"`
	ScheduledDeparture string  `json:"scheduled_departure"`
	AircraftID         string  `json:"aircraft_id"`
	DelayHours         float64 `json:"delay_hours"`
	DisruptionType     string  `json:"disruption_type"`
	DisruptionEvent    string  `json:"disruption_event"`
}

// Field returns the named field's value for ValidateAgentInputs' required-
// field check. Unknown names return ("", false) so the caller can treat an
// unrecognized field name as "cannot be satisfied" rather than panicking.
func (d DisruptionContext) Field(name string) (string, bool) {
	switch name {
	case "flight_id":
		return d.FlightID, true
	case "flight_number":
		return d.FlightNumber, true
	case "date":
		return d.Date, true
	case "departure_airport":
		return d.DepartureAirport, true
	case "arrival_airport":
		return d.ArrivalAirport, true
	case "scheduled_departure":
		return d.ScheduledDeparture, true
	case "aircraft_id":
		return d.AircraftID, true
	case "delay_hours":
		if d.DelayHours != 0 {
			return "set", true
		}
		return "", true
	case "disruption_type":
		return d.DisruptionType, true
	case "disruption_event":
		return d.DisruptionEvent, true
	default:
		return "", false
	}
}
