package hr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/rs/zerolog/log"
)

type HRController struct {
	hrService service.HRService
}

func NewHRController(hrService service.HRService) *HRController {
	return &HRController{hrService: hrService}
}

// GetMetrics godoc
// @Summary Dashboard metrics
// @Description Aggregate interview counts, scores, and per-department/position hire rates.
// @Tags HR
// @Produce json
// @Success 200 {object} dto.HRMetricsDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /hr/metrics [get]
func (c *HRController) GetMetrics(ctx *gin.Context) {
	metrics, err := c.hrService.GetMetrics()
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute HR metrics")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to compute metrics"})
		return
	}
	ctx.JSON(http.StatusOK, metrics)
}

// ListCandidates godoc
// @Summary List all candidates
// @Tags HR
// @Produce json
// @Success 200 {array} dto.CandidateSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /hr/candidates [get]
func (c *HRController) ListCandidates(ctx *gin.Context) {
	candidates, err := c.hrService.ListCandidates()
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to list candidates"})
		return
	}
	ctx.JSON(http.StatusOK, candidates)
}

// GetInterviewDetail godoc
// @Summary Full interview detail for review
// @Description The complete interview transcript plus its per-answer evaluation records.
// @Tags HR
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} dto.HRInterviewDetailDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /hr/interview/{id} [get]
func (c *HRController) GetInterviewDetail(ctx *gin.Context) {
	detail, err := c.hrService.GetInterviewDetail(ctx.Param("id"))
	if errors.Is(err, service.ErrInterviewNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("interviewID", ctx.Param("id")).Msg("Failed to load interview detail")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to load interview"})
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// SetRecommendation godoc
// @Summary Record a hire/reject/review recommendation
// @Tags HR
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param request body dto.RecommendationRequest true "Recommendation"
// @Success 200 {object} dto.RecommendationAckDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /hr/interview/{id}/recommendation [post]
func (c *HRController) SetRecommendation(ctx *gin.Context) {
	var req dto.RecommendationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Recommendation must be one of: hire, reject, review", Details: []string{err.Error()}})
		return
	}

	err := c.hrService.SetRecommendation(ctx.Param("id"), req)
	if errors.Is(err, service.ErrInterviewNotFound) {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
		return
	}
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to save recommendation"})
		return
	}
	ctx.JSON(http.StatusOK, dto.RecommendationAckDTO{Message: "Recommendation saved"})
}
