package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/service/appsettings"
)

// SettingsHandler serves the store-backed settings page.
type SettingsHandler struct {
	svc    *appsettings.Service
	logger *zap.Logger
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(svc *appsettings.Service, logger *zap.Logger) *SettingsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsHandler{svc: svc, logger: logger}
}

// Get returns both preference blobs with defaults back-filled.
func (h *SettingsHandler) Get(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Load(c.Request.Context(), session.UserID))
}

// Save replaces both blobs wholesale.
func (h *SettingsHandler) Save(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	var bundle appsettings.Bundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		h.logger.Warn("invalid settings payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid settings payload"})
		return
	}

	if err := h.svc.Save(c.Request.Context(), session.UserID, bundle); err != nil {
		h.logger.Error("settings save failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// Reset restores the compiled-in defaults and clears both storage keys.
func (h *SettingsHandler) Reset(c *gin.Context) {
	session, ok := sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
		return
	}

	bundle, err := h.svc.Reset(c.Request.Context(), session.UserID)
	if err != nil {
		h.logger.Error("settings reset failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset settings"})
		return
	}

	c.JSON(http.StatusOK, bundle)
}
