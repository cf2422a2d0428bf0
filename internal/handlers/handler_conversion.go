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

// conversionHandler handles HTTP requests that perform conversions and read the conversion ledger.
type conversionHandler struct {
	conversionService portssvc.ConversionSvc
}

func newConversionHandler(cs portssvc.ConversionSvc) *conversionHandler {
	return &conversionHandler{conversionService: cs}
}

// registerConversionRoutes registers conversion and ledger routes.
func registerConversionRoutes(rg *gin.RouterGroup, cs portssvc.ConversionSvc) {
	h := newConversionHandler(cs)

	rg.POST("/convert", h.convert)
	rg.POST("/convert/batch", h.convertBatch)
	rg.GET("/conversions/:referenceType/:referenceID", h.listConversionsByReference)
}

// convert godoc
// @Summary Convert an amount between currencies
// @Description Resolves a rate, applies it under the requested rounding discipline, and appends a ledger entry when a reference is supplied
// @Tags currency
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertRequest true "Conversion details"
// @Success 200 {object} dto.ConversionResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "No rate found for the pair"
// @Security BearerAuth
// @Router /currency/convert [post]
func (h *conversionHandler) convert(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Convert", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.conversionService.Convert(c.Request.Context(), orgID, req, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrRateNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to convert amount", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to convert amount"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// convertBatch godoc
// @Summary Convert a batch of amounts
// @Description Processes entries independently; a failed entry is reported in place and never aborts its siblings
// @Tags currency
// @Accept json
// @Produce json
// @Param batch body dto.BatchConvertRequest true "Conversions to perform"
// @Success 200 {array} dto.BatchConversionResult
// @Failure 400 {object} map[string]string "Invalid request format"
// @Security BearerAuth
// @Router /currency/convert/batch [post]
func (h *conversionHandler) convertBatch(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BatchConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConvertBatch", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	orgID, userID, ok := callerIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	results := h.conversionService.ConvertBatch(c.Request.Context(), orgID, req.Conversions, userID)
	c.JSON(http.StatusOK, results)
}

// listConversionsByReference godoc
// @Summary List conversions for a business entity
// @Description Returns the ledger entries recorded for a reference, e.g. every conversion performed for a paycheck
// @Tags currency
// @Produce json
// @Param referenceType path string true "Reference type, e.g. paycheck"
// @Param referenceID path string true "Reference ID"
// @Success 200 {array} dto.ConversionRecordResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /currency/conversions/{referenceType}/{referenceID} [get]
func (h *conversionHandler) listConversionsByReference(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	orgID, ok := middleware.GetOrganizationIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	records, err := h.conversionService.ListConversionsByReference(c.Request.Context(), orgID, c.Param("referenceType"), c.Param("referenceID"))
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list conversions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list conversions"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListConversionRecordResponse(records))
}
