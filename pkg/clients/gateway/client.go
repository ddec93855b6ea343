package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/aeroclubhq/aeroclub/internal/config"
	"github.com/aeroclubhq/aeroclub/internal/domain/models"
)

// Client exposes the remote procedures of the hosted backend used by the
// application. Every call returns either a decoded payload or an error;
// callers treat any error as a hard failure for that operation.
type Client interface {
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)

	GetMembers(ctx context.Context) ([]models.Member, error)
	GetPlaneModels(ctx context.Context) ([]models.PlaneModel, error)
	GetPlanes(ctx context.Context) ([]models.Plane, error)

	GetBillingRates(ctx context.Context) ([]models.BillingRate, error)
	InsertBillingRate(ctx context.Context, rate NewBillingRate) error
	UpdateBillingRate(ctx context.Context, rate models.BillingRate) error
	DeleteBillingRate(ctx context.Context, id string) error

	GetFinancialLedger(ctx context.Context) ([]models.LedgerEntry, error)
	GetFinancialTransaction(ctx context.Context, id string) (*models.LedgerEntry, error)
	InsertFinancialTransaction(ctx context.Context, tx NewTransaction) (string, error)
	UpdateFinancialTransaction(ctx context.Context, id string, update TransactionUpdate) error

	GetPersonByID(ctx context.Context, kind models.PersonKind, id string) (*models.Person, error)
	GetFlightLogByID(ctx context.Context, id string) (*models.FlightLog, error)

	CountUpcomingBookings(ctx context.Context) (int, error)
	GetMonthFlightHours(ctx context.Context, month time.Time) (float64, error)
}

// personProcs maps each person kind to its dedicated lookup procedure.
var personProcs = map[models.PersonKind]string{
	models.PersonStudent:               "get_student_by_id",
	models.PersonInstructor:            "get_instructor_by_id",
	models.PersonRegularPilot:          "get_regular_pilot_by_id",
	models.PersonMaintenanceTechnician: "get_maintenance_technician_by_id",
	models.PersonOther:                 "get_other_person_by_id",
}

// APIClient is a resty-backed implementation of Client speaking the backend's
// named-procedure dialect: POST /rest/v1/rpc/{name} with an apikey header and
// a bearer service key.
type APIClient struct {
	httpClient *resty.Client
	authClient *resty.Client
	apiKey     string
}

// NewClient builds a gateway client from the provided configuration values.
func NewClient(cfg config.GatewayConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	rpcClient := resty.New()
	rpcClient.
		SetBaseURL(base+"/rest/v1/rpc").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	authClient := resty.New()
	authClient.
		SetBaseURL(base+"/auth/v1").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &APIClient{
		httpClient: rpcClient,
		authClient: authClient,
		apiKey:     cfg.APIKey,
	}
}

// apiError mirrors the backend's error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// StatusError is an HTTP error status answered by the backend, as opposed to
// a transport failure that never produced a response. Callers branch on the
// code to tell a rejected request from an unavailable backend.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status=%d, message=%s", e.StatusCode, e.Message)
}

// rpc performs one named-procedure call. A nil params sends an empty object;
// a nil out discards the response body.
func (c *APIClient) rpc(ctx context.Context, proc string, params, out any) error {
	if params == nil {
		params = struct{}{}
	}

	apiErr := new(apiError)
	req := c.httpClient.R().
		SetContext(ctx).
		SetBody(params).
		SetError(apiErr)
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Post("/" + proc)
	if err != nil {
		return fmt.Errorf("call %s: %w", proc, err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.Message
		if message == "" {
			message = resp.Status()
		}
		return fmt.Errorf("gateway error on %s: %w", proc, &StatusError{StatusCode: resp.StatusCode(), Message: message})
	}

	return nil
}

// SignIn exchanges email/password credentials for a backend session.
func (c *APIClient) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	session := new(AuthSession)
	apiErr := new(struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"msg"`
	})

	resp, err := c.authClient.R().
		SetContext(ctx).
		SetQueryParam("grant_type", "password").
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(session).
		SetError(apiErr).
		Post("/token")
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := apiErr.ErrorDescription
		if message == "" {
			message = apiErr.Message
		}
		if message == "" {
			message = resp.Status()
		}
		return nil, fmt.Errorf("sign in rejected: %w", &StatusError{StatusCode: resp.StatusCode(), Message: message})
	}

	return session, nil
}

func (c *APIClient) GetMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := c.rpc(ctx, "get_members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *APIClient) GetPlaneModels(ctx context.Context) ([]models.PlaneModel, error) {
	var planeModels []models.PlaneModel
	if err := c.rpc(ctx, "get_plane_models", nil, &planeModels); err != nil {
		return nil, err
	}
	return planeModels, nil
}

func (c *APIClient) GetPlanes(ctx context.Context) ([]models.Plane, error) {
	var planes []models.Plane
	if err := c.rpc(ctx, "get_planes", nil, &planes); err != nil {
		return nil, err
	}
	return planes, nil
}

func (c *APIClient) GetBillingRates(ctx context.Context) ([]models.BillingRate, error) {
	var rates []models.BillingRate
	if err := c.rpc(ctx, "get_billing_rates", nil, &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (c *APIClient) InsertBillingRate(ctx context.Context, rate NewBillingRate) error {
	return c.rpc(ctx, "insert_billing_rate", rate, nil)
}

func (c *APIClient) UpdateBillingRate(ctx context.Context, rate models.BillingRate) error {
	return c.rpc(ctx, "update_billing_rate", rate, nil)
}

func (c *APIClient) DeleteBillingRate(ctx context.Context, id string) error {
	return c.rpc(ctx, "delete_billing_rate", map[string]string{"rate_id": id}, nil)
}

func (c *APIClient) GetFinancialLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := c.rpc(ctx, "get_financial_ledger", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// GetFinancialTransaction fetches the full single-row form of a ledger entry;
// the list form only carries a projection.
func (c *APIClient) GetFinancialTransaction(ctx context.Context, id string) (*models.LedgerEntry, error) {
	entry := new(models.LedgerEntry)
	if err := c.rpc(ctx, "get_financial_ledger", map[string]string{"transaction_id": id}, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// InsertFinancialTransaction creates a ledger entry and returns its id.
func (c *APIClient) InsertFinancialTransaction(ctx context.Context, tx NewTransaction) (string, error) {
	var result struct {
		ID string `json:"id"`
	}
	if err := c.rpc(ctx, "insert_financial_transaction", tx, &result); err != nil {
		return "", err
	}
	return result.ID, nil
}

func (c *APIClient) UpdateFinancialTransaction(ctx context.Context, id string, update TransactionUpdate) error {
	payload := struct {
		TransactionID string `json:"transaction_id"`
		TransactionUpdate
	}{TransactionID: id, TransactionUpdate: update}
	return c.rpc(ctx, "update_financial_transaction", payload, nil)
}

// GetPersonByID resolves the per-role lookup procedure from the kind and
// fetches the full person record.
func (c *APIClient) GetPersonByID(ctx context.Context, kind models.PersonKind, id string) (*models.Person, error) {
	proc, ok := personProcs[kind]
	if !ok {
		return nil, fmt.Errorf("unknown person kind %q", kind)
	}

	person := new(models.Person)
	if err := c.rpc(ctx, proc, map[string]string{"person_id": id}, person); err != nil {
		return nil, err
	}
	person.Kind = kind
	return person, nil
}

func (c *APIClient) GetFlightLogByID(ctx context.Context, id string) (*models.FlightLog, error) {
	flight := new(models.FlightLog)
	if err := c.rpc(ctx, "get_flight_log_by_id", map[string]string{"flight_log_id": id}, flight); err != nil {
		return nil, err
	}
	return flight, nil
}

func (c *APIClient) CountUpcomingBookings(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.rpc(ctx, "get_upcoming_bookings_count", nil, &result); err != nil {
		return 0, err
	}
	return result.Count, nil
}

// GetMonthFlightHours returns the flight hours logged in the month containing
// the given time.
func (c *APIClient) GetMonthFlightHours(ctx context.Context, month time.Time) (float64, error) {
	var result struct {
		Hours float64 `json:"hours"`
	}
	params := map[string]string{"month": month.Format("2006-01")}
	if err := c.rpc(ctx, "get_month_flight_hours", params, &result); err != nil {
		return 0, err
	}
	return result.Hours, nil
}
