package models

import "github.com/shopspring/decimal"

// View models rendered by the page handlers. Keeping them as plain typed
// records lets rendering logic be asserted on directly in tests.

// FinancialSummary bundles the dashboard's money figures.
type FinancialSummary struct {
	PendingReceivables decimal.Decimal `json:"pending_receivables"`
	PendingPayables    decimal.Decimal `json:"pending_payables"`
	MonthlyIncome      decimal.Decimal `json:"monthly_income"`
	MonthlyExpenses    decimal.Decimal `json:"monthly_expenses"`
	NetCashFlow        decimal.Decimal `json:"net_cash_flow"`
	RecentTransactions []LedgerEntry   `json:"recent_transactions"`
}

// DashboardOverview carries the five dashboard cards plus the recent
// activity list. Placeholder values stand in for cards whose fetch failed.
type DashboardOverview struct {
	StudentCount      int              `json:"student_count"`
	AvailableAircraft int              `json:"available_aircraft"`
	UpcomingBookings  int              `json:"upcoming_bookings"`
	MonthFlightHours  float64          `json:"month_flight_hours"`
	Finance           FinancialSummary `json:"finance"`
	Degraded          []string         `json:"degraded,omitempty"`
}

// Toast is a transient user-facing notification.
type Toast struct {
	Level   ToastLevel `json:"level"`
	Message string     `json:"message"`
}

// ToastLevel classifies toast notifications.
type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)
