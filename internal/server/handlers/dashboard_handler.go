package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/domain/models"
	"github.com/aeroclubhq/aeroclub/internal/service/dashboard"
	"github.com/aeroclubhq/aeroclub/internal/service/datasources"
)

// DashboardHandler serves the landing page figures.
type DashboardHandler struct {
	svc     *dashboard.Service
	sources *datasources.Service
	logger  *zap.Logger
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc *dashboard.Service, sources *datasources.Service, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{svc: svc, sources: sources, logger: logger}
}

// Overview returns the dashboard cards. The service degrades per card, so
// this always answers 200 with a renderable payload.
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview := h.svc.Overview(c.Request.Context())
	c.JSON(http.StatusOK, overview)
}

// Roster lists the members behind a dashboard card, narrowed to one role.
func (h *DashboardHandler) Roster(c *gin.Context) {
	kind := models.PersonKind(c.Query("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown member kind"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": h.sources.MembersByKind(c.Request.Context(), kind)})
}
