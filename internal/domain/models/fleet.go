package models

import "time"

// PlaneStatus is the operational state of an aircraft.
type PlaneStatus string

const (
	PlaneAvailable   PlaneStatus = "available"
	PlaneInFlight    PlaneStatus = "in_flight"
	PlaneMaintenance PlaneStatus = "maintenance"
)

// Plane is one aircraft of the club fleet. The model reference is joined
// client-side against the model catalog.
type Plane struct {
	ID           string      `json:"id"`
	Registration string      `json:"registration"`
	ModelID      string      `json:"model_id"`
	Status       PlaneStatus `json:"status"`
}

// PlaneModel is an entry of the aircraft model catalog.
type PlaneModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FlightLog is the detail record of a logged flight, referenced by ledger
// entries that bill flight time.
type FlightLog struct {
	ID               string    `json:"id"`
	PlaneID          string    `json:"plane_id"`
	PilotID          string    `json:"pilot_id"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	DurationHours    float64   `json:"duration_hours"`
	Notes            string    `json:"notes,omitempty"`
}
