package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/internal/service/finance"
)

// FinanceHandler serves the finance page: tab switches, filters, the five
// modals and the rate delete flow. Each session owns one page instance.
type FinanceHandler struct {
	pages  *PageRegistry
	logger *zap.Logger
}

// NewFinanceHandler constructs the HTTP handler adapter.
func NewFinanceHandler(pages *PageRegistry, logger *zap.Logger) *FinanceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FinanceHandler{pages: pages, logger: logger}
}

// page resolves the session's finance controller, loading it on first use.
func (h *FinanceHandler) page(c *gin.Context) *finance.Controller {
	session, ok := sessionFrom(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return nil
	}

	ctrl := h.pages.Page(session.Token)
	if !ctrl.Loaded() {
		ctrl.Load(c.Request.Context())
	}
	return ctrl
}

// pagePayload is the render model returned after every page action.
type pagePayload struct {
	State       finance.PageState        `json:"state"`
	Counts      finance.StatusCounts     `json:"counts"`
	Rows        []finance.TableRow       `json:"rows,omitempty"`
	Overview    *finance.OverviewStats   `json:"overview,omitempty"`
	RateGroups  []finance.ModelRateGroup `json:"rate_groups,omitempty"`
	ActiveModal string                   `json:"active_modal,omitempty"`
	Toasts      []models.Toast           `json:"toasts"`
}

func (h *FinanceHandler) respond(c *gin.Context, ctrl *finance.Controller) {
	ctrl.RefreshIfNeeded(c.Request.Context())

	state := ctrl.State()
	payload := pagePayload{
		State:       state,
		Counts:      ctrl.Counts(state.ActiveView),
		ActiveModal: ctrl.ActiveModalName(),
	}

	switch state.ActiveView {
	case finance.ViewOverview:
		overview := ctrl.Overview()
		payload.Overview = &overview
	case finance.ViewRates:
		payload.RateGroups = ctrl.RatesView()
	default:
		payload.Rows = ctrl.Rows(state.ActiveView)
	}

	payload.Toasts = ctrl.DrainToasts()

	c.JSON(http.StatusOK, payload)
}

// Show renders the finance page in its current view.
func (h *FinanceHandler) Show(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}
	h.respond(c, ctrl)
}

// SwitchView activates one of the finance tabs.
func (h *FinanceHandler) SwitchView(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var req struct {
		View finance.View `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "view is required"})
		return
	}

	ctrl.SwitchView(req.View)
	h.respond(c, ctrl)
}

// SetStatusFilter narrows the receivable or payable table by status.
func (h *FinanceHandler) SetStatusFilter(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var req struct {
		Table  finance.View         `json:"table" binding:"required"`
		Filter finance.StatusFilter `json:"filter" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table and filter are required"})
		return
	}

	ctrl.SetStatusFilter(req.Table, req.Filter)
	h.respond(c, ctrl)
}

// SetMemberFilter resolves the member typeahead input into the row filter.
func (h *FinanceHandler) SetMemberFilter(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var req struct {
		Input      string `json:"input"`
		SelectedID string `json:"selected_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter payload"})
		return
	}

	ctrl.SetMemberFilter(req.Input, req.SelectedID)
	h.respond(c, ctrl)
}

// MemberCandidates serves the member typeahead list.
func (h *FinanceHandler) MemberCandidates(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": ctrl.MemberCandidates(c.Query("query"))})
}

// OpenRateModal shows the add/edit rate modal.
func (h *FinanceHandler) OpenRateModal(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var req struct {
		RateID string `json:"rate_id"`
	}
	_ = c.ShouldBindJSON(&req)

	ctrl.OpenRateModal(c.Request.Context(), req.RateID)
	h.respond(c, ctrl)
}

// SubmitRate validates and saves a billing rate.
func (h *FinanceHandler) SubmitRate(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var form finance.RateForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rate payload"})
		return
	}

	modal := ctrl.RateModalHandle()
	if modal == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "rate modal is not open"})
		return
	}
	if err := modal.Submit(c.Request.Context(), form); err != nil {
		h.logger.Debug("rate submission rejected", zap.Error(err))
	}
	h.respond(c, ctrl)
}

// OpenInvoiceModal shows the create-invoice modal.
func (h *FinanceHandler) OpenInvoiceModal(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	ctrl.OpenInvoiceModal(c.Request.Context())
	h.respond(c, ctrl)
}

// SubmitInvoice validates and creates an invoice.
func (h *FinanceHandler) SubmitInvoice(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var form finance.TransactionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invoice payload"})
		return
	}

	modal := ctrl.InvoiceModalHandle()
	if modal == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "invoice modal is not open"})
		return
	}
	if err := modal.Submit(c.Request.Context(), form); err != nil {
		h.logger.Debug("invoice submission rejected", zap.Error(err))
	}
	h.respond(c, ctrl)
}

// OpenPayableModal shows the create-payable modal.
func (h *FinanceHandler) OpenPayableModal(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	ctrl.OpenPayableModal(c.Request.Context())
	h.respond(c, ctrl)
}

// SubmitPayable validates and creates a payable.
func (h *FinanceHandler) SubmitPayable(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var form finance.TransactionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payable payload"})
		return
	}

	modal := ctrl.PayableModalHandle()
	if modal == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "payable modal is not open"})
		return
	}
	if err := modal.Submit(c.Request.Context(), form); err != nil {
		h.logger.Debug("payable submission rejected", zap.Error(err))
	}
	h.respond(c, ctrl)
}

// MarkPaid opens the payment modal pre-filled from the given ledger row.
func (h *FinanceHandler) MarkPaid(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var req struct {
		TransactionID string `json:"transaction_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction_id is required"})
		return
	}

	ctrl.MarkPaid(req.TransactionID)
	h.respond(c, ctrl)
}

// SubmitPayment records the settlement of the row the payment modal opened
// with.
func (h *FinanceHandler) SubmitPayment(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	var form finance.PaymentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment payload"})
		return
	}

	modal := ctrl.PaymentModalHandle()
	if modal == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "payment modal is not open"})
		return
	}
	if err := modal.Submit(c.Request.Context(), form); err != nil {
		h.logger.Debug("payment submission rejected", zap.Error(err))
	}
	h.respond(c, ctrl)
}

// OpenDetails shows the transaction details modal and fetches the full row.
func (h *FinanceHandler) OpenDetails(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	modal := ctrl.OpenDetails(c.Request.Context(), c.Param("id"))
	if modal == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "page is torn down"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"details": modal.View()})
}

// RetryDetails re-runs the details fetch after an error panel.
func (h *FinanceHandler) RetryDetails(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	modal := ctrl.DetailsModalHandle()
	if modal == nil || !modal.Visible() {
		c.JSON(http.StatusConflict, gin.H{"error": "details modal is not open"})
		return
	}

	modal.Retry(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"details": modal.View()})
}

// CloseModal hides the open modal, if any.
func (h *FinanceHandler) CloseModal(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	ctrl.CloseActiveModal()
	h.respond(c, ctrl)
}

// RequestRateDelete starts the delete confirmation flow for a rate.
func (h *FinanceHandler) RequestRateDelete(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	prompt := ctrl.RequestRateDelete(c.Param("id"))
	if prompt == "" {
		h.respond(c, ctrl)
		return
	}

	c.JSON(http.StatusOK, gin.H{"confirm": prompt})
}

// ConfirmRateDelete issues the delete mutation after user confirmation.
func (h *FinanceHandler) ConfirmRateDelete(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	if err := ctrl.ConfirmRateDelete(c.Request.Context()); err != nil {
		h.logger.Debug("rate delete rejected", zap.Error(err))
	}
	h.respond(c, ctrl)
}

// CancelRateDelete drops a pending delete confirmation.
func (h *FinanceHandler) CancelRateDelete(c *gin.Context) {
	ctrl := h.page(c)
	if ctrl == nil {
		return
	}

	ctrl.CancelRateDelete()
	h.respond(c, ctrl)
}

// Teardown discards the session's page on navigation away.
func (h *FinanceHandler) Teardown(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	h.pages.Drop(session.Token)
	c.JSON(http.StatusOK, gin.H{"torn_down": true})
}
