package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// SeedQuestions godoc
// @Summary Seed the question bank
// @Description Inserts the default sample questions for development environments.
// @Tags Questions
// @Produce json
// @Success 200 {object} dto.SeedQuestionsResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /questions/seed [post]
func (c *QuestionController) SeedQuestions(ctx *gin.Context) {
	questions, err := c.questionService.SeedDefaultQuestions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to seed question bank")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to seed questions"})
		return
	}
	ctx.JSON(http.StatusOK, dto.SeedQuestionsResponse{Message: "Questions seeded", Count: len(questions), Questions: questions})
}
