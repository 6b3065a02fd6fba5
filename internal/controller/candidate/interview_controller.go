package candidate

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/rs/zerolog/log"
)

// MaxAudioUploadBytes caps transcription uploads at 10MB.
const MaxAudioUploadBytes = 10 << 20

type InterviewController struct {
	interviewService service.InterviewService
	llmService       service.LLMService
}

func NewInterviewController(interviewService service.InterviewService, llmService service.LLMService) *InterviewController {
	return &InterviewController{
		interviewService: interviewService,
		llmService:       llmService,
	}
}

// StartInterview godoc
// @Summary Start a new interview
// @Description Creates an interview record and returns the interviewer's opening message.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param request body dto.StartInterviewRequest false "Optional candidate details"
// @Success 200 {object} dto.StartInterviewResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /interviews/start [post]
func (c *InterviewController) StartInterview(ctx *gin.Context) {
	var req dto.StartInterviewRequest
	// Body is optional; anonymous interviews are allowed.
	_ = ctx.ShouldBindJSON(&req)

	resp, err := c.interviewService.Start(ctx.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("StartInterview: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start interview"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// SubmitIntroduction godoc
// @Summary Submit the candidate's self-introduction
// @Description Uses the introduction as context to generate the first question.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param request body dto.SubmitIntroductionRequest true "Introduction text"
// @Success 200 {object} dto.SubmitIntroductionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /interviews/{id}/introduction [post]
func (c *InterviewController) SubmitIntroduction(ctx *gin.Context) {
	var req dto.SubmitIntroductionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Introduction text is required", Details: []string{err.Error()}})
		return
	}

	resp, err := c.interviewService.SubmitIntroduction(ctx.Request.Context(), ctx.Param("id"), req.Introduction)
	if err != nil {
		c.writeError(ctx, err, "Failed to process introduction")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetInterview godoc
// @Summary Get an interview
// @Tags Interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} model.Interview
// @Failure 404 {object} dto.ErrorResponse
// @Router /interviews/{id} [get]
func (c *InterviewController) GetInterview(ctx *gin.Context) {
	interview, err := c.interviewService.Get(ctx.Param("id"))
	if err != nil {
		c.writeError(ctx, err, "Failed to get interview")
		return
	}
	ctx.JSON(http.StatusOK, interview)
}

// SubmitAnswer godoc
// @Summary Submit an answer to the current question
// @Description Scores the answer, appends it to the interview, and returns the next question or completion signal.
// @Tags Interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param request body dto.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /interviews/{id}/answer [post]
func (c *InterviewController) SubmitAnswer(ctx *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Answer and question ID are required", Details: []string{err.Error()}})
		return
	}

	resp, err := c.interviewService.SubmitAnswer(ctx.Request.Context(), ctx.Param("id"), req)
	if err != nil {
		c.writeError(ctx, err, "Failed to submit answer")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CompleteInterview godoc
// @Summary Finalize an interview
// @Description Computes the final evaluation and marks the interview completed.
// @Tags Interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} dto.CompleteInterviewResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /interviews/{id}/complete [post]
func (c *InterviewController) CompleteInterview(ctx *gin.Context) {
	resp, err := c.interviewService.Complete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		c.writeError(ctx, err, "Failed to complete interview")
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// Transcribe godoc
// @Summary Transcribe a voice answer
// @Description Converts an uploaded audio file to text. Provider failures yield an empty transcription, not an error.
// @Tags Interviews
// @Accept multipart/form-data
// @Produce json
// @Param audio formData file true "Audio file (max 10MB)"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /transcribe [post]
func (c *InterviewController) Transcribe(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("audio")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "No audio file provided"})
		return
	}
	if fileHeader.Size > MaxAudioUploadBytes {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Audio file exceeds the 10MB limit"})
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "audio/") && contentType != "application/octet-stream" {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Only audio files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Transcribe: failed to open upload")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read audio file"})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(io.LimitReader(file, MaxAudioUploadBytes))
	if err != nil {
		log.Error().Err(err).Msg("Transcribe: failed to read upload")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to read audio file"})
		return
	}

	text := c.llmService.Transcribe(ctx.Request.Context(), audio, fileHeader.Filename)
	ctx.JSON(http.StatusOK, dto.TranscriptionResponse{Text: text})
}

func (c *InterviewController) writeError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInterviewNotFound):
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Interview not found"})
	case errors.Is(err, service.ErrInterviewNotActive),
		errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrEmptyAnswer),
		errors.Is(err, service.ErrEmptyIntroduction):
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", ctx.FullPath()).Msg("Interview request failed")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: fallback})
	}
}
