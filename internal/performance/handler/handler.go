package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"trackflow/internal/apierrors"
	"trackflow/internal/observability"
	"trackflow/internal/performance/processor"
	"trackflow/internal/sources"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// defaultRangeDays is the lookback window used when the caller sends no
// explicit date range.
const defaultRangeDays = 30

type Handler struct {
	processor processor.PerformanceProcessor
	logger    *observability.Logger
}

func New(processor processor.PerformanceProcessor, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		logger:    logger,
	}
}

// HandleGetAvailableSources lists the data-source selections the tenant can
// legally request.
func (h *Handler) HandleGetAvailableSources(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		h.logger.Error(ctx, "failed to parse tenant ID", err)
		apierrors.BadRequest(c, "INVALID_TENANT_ID", "invalid tenant id")
		return
	}

	available, err := h.processor.GetAvailableSources(ctx, tenantID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": available})
}

// HandleGetCampaignPerformance returns the unified campaign tree for a
// tenant, source selection and date range.
func (h *Handler) HandleGetCampaignPerformance(c *gin.Context) {
	ctx := c.Request.Context()

	tenantID, err := uuid.Parse(c.Param("tenant_id"))
	if err != nil {
		h.logger.Error(ctx, "failed to parse tenant ID", err)
		apierrors.BadRequest(c, "INVALID_TENANT_ID", "invalid tenant id")
		return
	}

	source := sources.SourceType(c.DefaultQuery("source", string(sources.SourceHybrid)))

	now := time.Now().UTC()
	since, err := parseTimeParam(c.Query("from"), now.AddDate(0, 0, -defaultRangeDays))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_DATE", "invalid from date")
		return
	}
	until, err := parseTimeParam(c.Query("to"), now)
	if err != nil {
		apierrors.BadRequest(c, "INVALID_DATE", "invalid to date")
		return
	}

	result, err := h.processor.FetchCampaignPerformance(ctx, tenantID, source, since, until)
	if err != nil {
		switch {
		case errors.Is(err, processor.ErrUnknownSource):
			apierrors.BadRequest(c, "UNKNOWN_SOURCE", "unknown data source")
		case errors.Is(err, processor.ErrInvalidDateRange):
			apierrors.BadRequest(c, "INVALID_DATE_RANGE", "from must not be after to")
		case errors.Is(err, processor.ErrNoSourceData):
			apierrors.ServiceUnavailable(c, "PROVIDERS_UNAVAILABLE", "no data provider is currently reachable", err)
		default:
			apierrors.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"campaigns": result.Campaigns,
		"labels":    result.StageLabels,
	})
}

// parseTimeParam accepts unix seconds, RFC 3339 or a plain date, falling back
// to the given default when the parameter is absent.
func parseTimeParam(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	if seconds, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.Unix(seconds, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("unsupported time format")
}
