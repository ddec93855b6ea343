package models

import "github.com/shopspring/decimal"

// RateType enumerates the billing-rate categories. The three hourly types are
// well known and carry fixed display labels; RateOther covers free-form rates
// named by the user.
type RateType string

const (
	RateStudentHourly    RateType = "student_hourly"
	RateInstructorHourly RateType = "instructor_hourly"
	RateStandardHourly   RateType = "standard_hourly"
	RateOther            RateType = "other"
)

// WellKnownRateTypes lists the three rate slots shown for every aircraft model
// on the rates view, in display order.
var WellKnownRateTypes = []RateType{RateStudentHourly, RateInstructorHourly, RateStandardHourly}

var rateTypeLabels = map[RateType]string{
	RateStudentHourly:    "Student Hourly Rate",
	RateInstructorHourly: "Instructor Hourly Rate",
	RateStandardHourly:   "Standard Hourly Rate",
}

// Label returns the fixed display label for an enumerated rate type. The
// second return is false for RateOther and unknown types, whose names come
// from user input instead.
func (t RateType) Label() (string, bool) {
	label, ok := rateTypeLabels[t]
	return label, ok
}

// Valid reports whether the rate type is one of the supported values.
func (t RateType) Valid() bool {
	if _, ok := rateTypeLabels[t]; ok {
		return true
	}
	return t == RateOther
}

// BillingRate is a per-aircraft-model hourly price.
type BillingRate struct {
	ID           string          `json:"id"`
	PlaneModelID string          `json:"plane_model_id"`
	RateType     RateType        `json:"rate_type"`
	RateName     string          `json:"rate_name"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description,omitempty"`
	Active       bool            `json:"active"`
}
