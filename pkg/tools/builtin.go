package tools

import (
	"context"
	"encoding/json"

	"github.com/flightops/skymarshal/pkg/store"
)

// Tool names, matching config.BuiltinAgents' AuthorizedTools entries.
const (
	ToolGetFlight                   = "get_flight"
	ToolGetCrewRoster               = "get_crew_roster"
	ToolGetCrewMembers              = "get_crew_members"
	ToolGetMaintenanceWorkOrders    = "get_maintenance_work_orders"
	ToolGetAircraftAvailability     = "get_aircraft_availability"
	ToolGetWeather                  = "get_weather"
	ToolGetBookings                 = "get_bookings"
	ToolGetBaggage                  = "get_baggage"
	ToolGetPassengers               = "get_passengers"
	ToolGetCargoShipments           = "get_cargo_shipments"
	ToolGetCargoFlightAssignments   = "get_cargo_flight_assignments"
)

// NewBuiltinRegistry registers every operational-store tool against the
// given store client. Authorization is enforced downstream by
// Registry.DefinitionsFor, not here — every tool exists in the registry,
// but each agent is only ever handed the subset its AgentConfig names.
func NewBuiltinRegistry(s *store.Client) *Registry {
	r := NewRegistry()

	r.Register(Definition{
		Name:        ToolGetFlight,
		Description: "Look up a flight by flight number and ISO date.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"flight_number": {"type": "string"},
				"date": {"type": "string", "description": "ISO 8601 YYYY-MM-DD"}
			},
			"required": ["flight_number", "date"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			FlightNumber string `json:"flight_number" validate:"required"`
			Date         string `json:"date" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		f, err := s.GetFlight(ctx, args.FlightNumber, args.Date)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return f, nil
	})

	r.Register(Definition{
		Name:        ToolGetCrewRoster,
		Description: "List crew assigned to a flight.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"flight_id": {"type": "string"}},
			"required": ["flight_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			FlightID string `json:"flight_id" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		entries, err := s.GetCrewRoster(ctx, args.FlightID)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return entries, nil
	})

	r.Register(Definition{
		Name:        ToolGetCrewMembers,
		Description: "Look up crew member details by crew member id.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"crew_member_ids": {"type": "array", "items": {"type": "string"}}},
			"required": ["crew_member_ids"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			CrewMemberIDs []string `json:"crew_member_ids" validate:"required,min=1"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		members, err := s.GetCrewMembers(ctx, args.CrewMemberIDs)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return members, nil
	})

	r.Register(Definition{
		Name:        ToolGetMaintenanceWorkOrders,
		Description: "List maintenance work orders for an aircraft.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"aircraft_id": {"type": "string"}},
			"required": ["aircraft_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			AircraftID string `json:"aircraft_id" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		orders, err := s.GetMaintenanceWorkOrders(ctx, args.AircraftID)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return orders, nil
	})

	r.Register(Definition{
		Name:        ToolGetAircraftAvailability,
		Description: "Look up availability for an aircraft by registration.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"aircraft_id": {"type": "string"}},
			"required": ["aircraft_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			AircraftID string `json:"aircraft_id" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		w, err := s.GetAircraftAvailability(ctx, args.AircraftID)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return w, nil
	})

	r.Register(Definition{
		Name:        ToolGetWeather,
		Description: "Get the weather forecast for an airport.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"airport": {"type": "string"}},
			"required": ["airport"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			Airport string `json:"airport" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		obs, err := s.GetWeather(ctx, args.Airport)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return obs, nil
	})

	r.Register(Definition{
		Name:        ToolGetBookings,
		Description: "List bookings on a flight.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"flight_id": {"type": "string"}},
			"required": ["flight_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			FlightID string `json:"flight_id" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		bookings, err := s.GetBookings(ctx, args.FlightID)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return bookings, nil
	})

	r.Register(Definition{
		Name:        ToolGetBaggage,
		Description: "Get the baggage handling summary for a flight.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"flight_id": {"type": "string"}},
			"required": ["flight_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			FlightID string `json:"flight_id" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		b, err := s.GetBaggage(ctx, args.FlightID)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return b, nil
	})

	r.Register(Definition{
		Name:        ToolGetPassengers,
		Description: "List passengers on a flight, optionally limited to elite-tier passengers.",
		ParametersSchema: `{
			"type": "object",
			"properties": {
				"flight_id": {"type": "string"},
				"elite_tier_only": {"type": "boolean"}
			},
			"required": ["flight_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			FlightID      string `json:"flight_id" validate:"required"`
			EliteTierOnly bool   `json:"elite_tier_only"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		passengers, err := s.GetPassengers(ctx, args.FlightID, args.EliteTierOnly)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return passengers, nil
	})

	r.Register(Definition{
		Name:        ToolGetCargoShipments,
		Description: "Look up cargo shipments by shipment id.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"shipment_ids": {"type": "array", "items": {"type": "string"}}},
			"required": ["shipment_ids"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			ShipmentIDs []string `json:"shipment_ids" validate:"required,min=1"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		shipments, err := s.GetCargoShipments(ctx, args.ShipmentIDs)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return shipments, nil
	})

	r.Register(Definition{
		Name:        ToolGetCargoFlightAssignments,
		Description: "List cargo shipment assignments for a flight.",
		ParametersSchema: `{
			"type": "object",
			"properties": {"flight_id": {"type": "string"}},
			"required": ["flight_id"]
		}`,
	}, func(ctx context.Context, raw json.RawMessage) (any, *ToolError) {
		args, terr := decodeArgs[struct {
			FlightID string `json:"flight_id" validate:"required"`
		}](raw)
		if terr != nil {
			return nil, terr
		}
		assignments, err := s.GetCargoFlightAssignments(ctx, args.FlightID)
		if err != nil {
			return nil, storeErrorToToolError(err)
		}
		return assignments, nil
	})

	return r
}
