package hr

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/rs/zerolog/log"
)

type AnalyticsController struct {
	analyticsService service.AnalyticsService
}

func NewAnalyticsController(analyticsService service.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{analyticsService: analyticsService}
}

// GetSystemMetrics godoc
// @Summary Evaluation system metrics
// @Description Consistency averages and per-category/difficulty breakdowns of the scoring pipeline.
// @Tags Analytics
// @Produce json
// @Success 200 {object} dto.SystemMetricsDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/metrics [get]
func (c *AnalyticsController) GetSystemMetrics(ctx *gin.Context) {
	metrics, err := c.analyticsService.GetSystemMetrics()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute system metrics")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute system metrics"})
		return
	}
	ctx.JSON(http.StatusOK, metrics)
}

// ListEvaluationHistory godoc
// @Summary Browse evaluation history
// @Tags Analytics
// @Produce json
// @Param category query string false "Filter by question category"
// @Param difficulty query string false "Filter by difficulty"
// @Param limit query int false "Page size (default 50, max 200)"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.EvaluationHistoryPageDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /analytics/evaluation-history [get]
func (c *AnalyticsController) ListEvaluationHistory(ctx *gin.Context) {
	filter := repository.HistoryFilter{
		Category:   ctx.Query("category"),
		Difficulty: ctx.Query("difficulty"),
	}
	if limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(ctx.DefaultQuery("offset", "0")); err == nil {
		filter.Offset = offset
	}

	page, err := c.analyticsService.ListEvaluationHistory(filter)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list evaluation history"})
		return
	}
	ctx.JSON(http.StatusOK, page)
}
