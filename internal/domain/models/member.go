package models

import "strings"

// PersonKind enumerates the member roles known to the backend. Each kind is
// backed by its own lookup procedure on the gateway.
type PersonKind string

const (
	PersonStudent               PersonKind = "student"
	PersonInstructor            PersonKind = "instructor"
	PersonRegularPilot          PersonKind = "regular_pilot"
	PersonMaintenanceTechnician PersonKind = "maintenance_technician"
	PersonOther                 PersonKind = "other_person"
)

// PersonKinds lists every supported role in display order.
var PersonKinds = []PersonKind{
	PersonStudent,
	PersonInstructor,
	PersonRegularPilot,
	PersonMaintenanceTechnician,
	PersonOther,
}

// Valid reports whether the kind is one of the supported roles.
func (k PersonKind) Valid() bool {
	switch k {
	case PersonStudent, PersonInstructor, PersonRegularPilot, PersonMaintenanceTechnician, PersonOther:
		return true
	}
	return false
}

// Member is a person known to the club: student, instructor, regular pilot,
// maintenance technician or other. Members are read-only projections of
// backend records; they are never mutated locally.
type Member struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Kind      PersonKind `json:"kind"`
}

// DisplayName returns the member name used in tables and autocomplete lists.
func (m Member) DisplayName() string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return m.Email
	}
	return name
}

// Person is the full per-role record returned by the by-id lookup procedures.
type Person struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Kind      PersonKind `json:"kind"`
}

// DisplayName returns the person name used in detail panels.
func (p Person) DisplayName() string {
	name := strings.TrimSpace(p.FirstName + " " + p.LastName)
	if name == "" {
		return p.Email
	}
	return name
}
