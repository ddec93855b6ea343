package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/server/handlers"
)

// Handlers bundles the page handlers wired into the engine.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Dashboard *handlers.DashboardHandler
	Finance   *handlers.FinanceHandler
	Settings  *handlers.SettingsHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/api/auth/login", h.Auth.Login)
	r.GET("/api/auth/status", h.Auth.Status)
	r.POST("/api/auth/logout", h.Auth.Logout)

	api := r.Group("/api", h.Auth.Middleware())
	{
		api.GET("/dashboard", h.Dashboard.Overview)
		api.GET("/dashboard/roster", h.Dashboard.Roster)

		api.GET("/settings", h.Settings.Get)
		api.PUT("/settings", h.Settings.Save)
		api.POST("/settings/reset", h.Settings.Reset)

		finances := api.Group("/finances")
		{
			finances.GET("", h.Finance.Show)
			finances.POST("/view", h.Finance.SwitchView)
			finances.POST("/filters/status", h.Finance.SetStatusFilter)
			finances.POST("/filters/member", h.Finance.SetMemberFilter)
			finances.GET("/members", h.Finance.MemberCandidates)

			finances.POST("/modals/rate/open", h.Finance.OpenRateModal)
			finances.POST("/modals/rate/submit", h.Finance.SubmitRate)
			finances.POST("/modals/invoice/open", h.Finance.OpenInvoiceModal)
			finances.POST("/modals/invoice/submit", h.Finance.SubmitInvoice)
			finances.POST("/modals/payable/open", h.Finance.OpenPayableModal)
			finances.POST("/modals/payable/submit", h.Finance.SubmitPayable)
			finances.POST("/modals/payment/open", h.Finance.MarkPaid)
			finances.POST("/modals/payment/submit", h.Finance.SubmitPayment)
			finances.POST("/modals/close", h.Finance.CloseModal)

			finances.GET("/transactions/:id", h.Finance.OpenDetails)
			finances.POST("/transactions/retry", h.Finance.RetryDetails)

			finances.POST("/rates/:id/delete", h.Finance.RequestRateDelete)
			finances.POST("/rates/delete/confirm", h.Finance.ConfirmRateDelete)
			finances.POST("/rates/delete/cancel", h.Finance.CancelRateDelete)

			finances.POST("/teardown", h.Finance.Teardown)
		}
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
