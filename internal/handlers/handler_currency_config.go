package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/dto"
	"github.com/talentforge/payroll-fx/internal/middleware"
)

// currencyConfigHandler handles HTTP requests for organization currency configuration.
type currencyConfigHandler struct {
	configService portssvc.CurrencyConfigSvc
}

func newCurrencyConfigHandler(cs portssvc.CurrencyConfigSvc) *currencyConfigHandler {
	return &currencyConfigHandler{configService: cs}
}

// registerCurrencyConfigRoutes registers configuration routes.
func registerCurrencyConfigRoutes(rg *gin.RouterGroup, cs portssvc.CurrencyConfigSvc) {
	h := newCurrencyConfigHandler(cs)

	rg.GET("/config", h.getConfig)
	rg.PUT("/config", h.updateConfig)
}

// getConfig godoc
// @Summary Get organization currency configuration
// @Description Returns the caller organization's base currency and supported set, creating the default on first access
// @Tags currency
// @Produce json
// @Success 200 {object} dto.CurrencyConfigResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currency/config [get]
func (h *currencyConfigHandler) getConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID, ok := middleware.GetOrganizationIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	config, err := h.configService.GetConfig(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to get currency config", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get currency configuration"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyConfigResponse(config))
}

// updateConfig godoc
// @Summary Update organization currency configuration
// @Description Replaces the base currency and supported currency set
// @Tags currency
// @Accept json
// @Produce json
// @Param config body dto.UpdateCurrencyConfigRequest true "New configuration"
// @Success 200 {object} dto.CurrencyConfigResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /currency/config [put]
func (h *currencyConfigHandler) updateConfig(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCurrencyConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.configService.UpdateConfig(c.Request.Context(), orgID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update currency config", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update currency configuration"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCurrencyConfigResponse(updated))
}
