package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/talentforge/payroll-fx/internal/apperrors"
	portssvc "github.com/talentforge/payroll-fx/internal/core/ports/services"
	"github.com/talentforge/payroll-fx/internal/dto"
	"github.com/talentforge/payroll-fx/internal/middleware"
)

// exchangeRateHandler handles HTTP requests related to exchange rate administration and resolution.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
	resolver    portssvc.RateResolverSvc
}

func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade, resolver portssvc.RateResolverSvc) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService: rs,
		resolver:    resolver,
	}
}

// registerExchangeRateRoutes registers rate administration and resolution routes.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rs portssvc.ExchangeRateSvcFacade, resolver portssvc.RateResolverSvc) {
	h := newExchangeRateHandler(rs, resolver)

	rg.GET("/", h.listActiveRates)
	rg.GET("/current/:from/:to", h.getCurrentRate)
	rg.GET("/historical/:from/:to", h.listHistoricalRates)
	rg.POST("/", h.createExchangeRate)
	rg.PUT("/:id", h.updateExchangeRate)
	rg.DELETE("/:id", h.deleteExchangeRate)
	rg.POST("/bulk-import", h.bulkImportExchangeRates)
}

// listActiveRates godoc
// @Summary List active exchange rates
// @Description Lists the rate rows currently in effect for the caller's organization
// @Tags currency
// @Produce json
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currency [get]
func (h *exchangeRateHandler) listActiveRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID, ok := middleware.GetOrganizationIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	rates, err := h.rateService.ListActiveRates(c.Request.Context(), orgID)
	if err != nil {
		logger.Error("Failed to list active rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list exchange rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// getCurrentRate godoc
// @Summary Resolve an exchange rate
// @Description Resolves a rate for a pair directly, by inversion, or by triangulation through the base currency
// @Tags currency
// @Produce json
// @Param from path string true "From Currency Code (3 letters)"
// @Param to path string true "To Currency Code (3 letters)"
// @Param date query string false "As-of date (RFC 3339 or YYYY-MM-DD); defaults to now"
// @Success 200 {object} dto.ResolvedRateResponse
// @Failure 400 {object} map[string]string "Invalid currency code or date"
// @Failure 404 {object} map[string]string "No rate found for the pair"
// @Security BearerAuth
// @Router /currency/current/{from}/{to} [get]
func (h *exchangeRateHandler) getCurrentRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID, ok := middleware.GetOrganizationIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	asOf, err := parseDateParam(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: " + err.Error()})
		return
	}

	resolved, err := h.resolver.ResolveRate(c.Request.Context(), orgID, c.Param("from"), c.Param("to"), asOf)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve exchange rate"})
		}
		return
	}

	effectiveAsOf := asOf
	if effectiveAsOf.IsZero() {
		effectiveAsOf = time.Now()
	}
	c.JSON(http.StatusOK, dto.ToResolvedRateResponse(resolved, effectiveAsOf))
}

// listHistoricalRates godoc
// @Summary List historical exchange rates
// @Description Returns a page of historical rate rows for a pair, newest first
// @Tags currency
// @Produce json
// @Param from path string true "From Currency Code (3 letters)"
// @Param to path string true "To Currency Code (3 letters)"
// @Param startDate query string false "Lower bound on effectiveFrom"
// @Param endDate query string false "Upper bound on effectiveFrom"
// @Param limit query int false "Page size (default 50)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.HistoricalRatesResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /currency/historical/{from}/{to} [get]
func (h *exchangeRateHandler) listHistoricalRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID, ok := middleware.GetOrganizationIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var start, end *time.Time
	if t, err := parseDateParam(c.Query("startDate")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startDate: " + err.Error()})
		return
	} else if !t.IsZero() {
		start = &t
	}
	if t, err := parseDateParam(c.Query("endDate")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endDate: " + err.Error()})
		return
	} else if !t.IsZero() {
		end = &t
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rates, total, err := h.rateService.ListHistoricalRates(c.Request.Context(), orgID, c.Param("from"), c.Param("to"), start, end, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list historical rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list historical rates"})
		return
	}

	c.JSON(http.StatusOK, dto.HistoricalRatesResponse{
		Rates:  dto.ToListExchangeRateResponse(rates),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// createExchangeRate godoc
// @Summary Create a new exchange rate
// @Description Adds a new exchange rate for the caller's organization; any prior current row for the pair is closed
// @Tags currency
// @Accept json
// @Produce json
// @Param rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /currency [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateExchangeRate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	createdRate, err := h.rateService.CreateExchangeRate(c.Request.Context(), orgID, req, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create exchange rate in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create exchange rate"})
		}
		return
	}

	logger.Info("Exchange rate created", slog.String("rate_id", createdRate.ExchangeRateID))
	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(createdRate))
}

// updateExchangeRate godoc
// @Summary Update an exchange rate
// @Description Edits a rate row in place, e.g. correcting a typo
// @Tags currency
// @Accept json
// @Produce json
// @Param id path string true "Exchange rate ID"
// @Param rate body dto.UpdateExchangeRateRequest true "Fields to update"
// @Success 200 {object} dto.ExchangeRateResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Security BearerAuth
// @Router /currency/{id} [put]
func (h *exchangeRateHandler) updateExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	updated, err := h.rateService.UpdateExchangeRate(c.Request.Context(), orgID, c.Param("id"), req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
		default:
			logger.Error("Failed to update exchange rate", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update exchange rate"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeRateResponse(updated))
}

// deleteExchangeRate godoc
// @Summary Delete an exchange rate
// @Description Soft-deletes a rate by closing its validity window; the row is kept for history
// @Tags currency
// @Produce json
// @Param id path string true "Exchange rate ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Exchange rate not found"
// @Security BearerAuth
// @Router /currency/{id} [delete]
func (h *exchangeRateHandler) deleteExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.rateService.DeleteExchangeRate(c.Request.Context(), orgID, c.Param("id"), userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Exchange rate not found"})
			return
		}
		logger.Error("Failed to delete exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete exchange rate"})
		return
	}

	c.Status(http.StatusNoContent)
}

// bulkImportExchangeRates godoc
// @Summary Bulk import exchange rates
// @Description Creates rates best-effort; each row is reported independently in input order
// @Tags currency
// @Accept json
// @Produce json
// @Param rates body dto.BulkImportExchangeRatesRequest true "Rates to import"
// @Success 207 {array} dto.BulkImportRowResult
// @Failure 400 {object} map[string]string "Invalid request format"
// @Security BearerAuth
// @Router /currency/bulk-import [post]
func (h *exchangeRateHandler) bulkImportExchangeRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BulkImportExchangeRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	results, err := h.rateService.BulkImportExchangeRates(c.Request.Context(), orgID, req, userID)
	if err != nil {
		logger.Error("Failed to bulk import exchange rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import exchange rates"})
		return
	}

	c.JSON(http.StatusMultiStatus, results)
}

// callerIdentity reads the organization and user IDs injected by the auth middleware.
func callerIdentity(c *gin.Context) (orgID, userID string, ok bool) {
	orgID, orgOK := middleware.GetOrganizationIDFromContext(c)
	userID, userOK := middleware.GetUserIDFromContext(c)
	return orgID, userID, orgOK && userOK
}

// parseDateParam accepts RFC 3339 timestamps or plain dates; empty input
// yields the zero time, meaning "now".
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
