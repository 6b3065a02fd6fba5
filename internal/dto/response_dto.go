package dto

import (
	"github.com/lshigami/Meerkats/internal/model"
)

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// IntroductionDTO is the interviewer's opening message returned at start.
type IntroductionDTO struct {
	Greeting            string `json:"greeting"`
	IntroductionRequest string `json:"introductionRequest"`
}

type StartInterviewResponse struct {
	Interview    *model.Interview `json:"interview"`
	Introduction IntroductionDTO  `json:"introduction"`
}

type SubmitIntroductionResponse struct {
	FirstQuestion model.InterviewQuestion `json:"firstQuestion"`
}

// AnswerEvaluationDTO mirrors the LLM evaluation of a single answer.
type AnswerEvaluationDTO struct {
	Score    float64                  `json:"score"`
	Feedback string                   `json:"feedback"`
	Details  model.ResponseEvaluation `json:"details"`
	Metrics  model.ResponseMetrics    `json:"metrics"`
}

type ProgressDTO struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

type SubmitAnswerResponse struct {
	Interview    *model.Interview          `json:"interview"`
	Response     model.InterviewResponse   `json:"response"`
	Evaluation   AnswerEvaluationDTO       `json:"evaluation"`
	Metrics      *model.ConsistencyMetrics `json:"metrics,omitempty"`
	NextQuestion *model.InterviewQuestion  `json:"nextQuestion,omitempty"`
	IsCompleted  bool                      `json:"isCompleted"`
	Progress     ProgressDTO               `json:"progress"`
}

type CompleteInterviewResponse struct {
	Interview  *model.Interview           `json:"interview"`
	Evaluation *model.InterviewEvaluation `json:"evaluation"`
}

type TranscriptionResponse struct {
	Text string `json:"text"`
}

type SeedQuestionsResponse struct {
	Message   string           `json:"message"`
	Count     int              `json:"count"`
	Questions []model.Question `json:"questions"`
}
