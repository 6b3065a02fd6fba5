package dto

import (
	"time"

	"github.com/lshigami/Meerkats/internal/model"
)

// CandidateSummaryDTO is one row of the HR candidate table.
type CandidateSummaryDTO struct {
	ID               string     `json:"id"`
	CandidateName    string     `json:"candidateName,omitempty"`
	CandidateEmail   string     `json:"candidateEmail,omitempty"`
	Position         string     `json:"position,omitempty"`
	Department       string     `json:"department,omitempty"`
	Status           string     `json:"status"`
	TotalScore       float64    `json:"totalScore"`
	OverallScore     float64    `json:"overallScore"`
	QuestionsAnswered int       `json:"questionsAnswered"`
	StartedAt        time.Time  `json:"startedAt"`
	CompletedAt      *time.Time `json:"completedAt,omitempty"`
	Duration         *int       `json:"duration,omitempty"`
	HRRecommendation string     `json:"hrRecommendation,omitempty"`
	ReviewedAt       *time.Time `json:"reviewedAt,omitempty"`
}

// BucketRateDTO is a per-department or per-position breakdown entry.
type BucketRateDTO struct {
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Hired     int     `json:"hired"`
	HireRate  float64 `json:"hireRate"`
}

type HRMetricsDTO struct {
	TotalInterviews      int                      `json:"totalInterviews"`
	CompletedInterviews  int                      `json:"completedInterviews"`
	InProgressInterviews int                      `json:"inProgressInterviews"`
	AverageScore         float64                  `json:"averageScore"`
	AverageDuration      float64                  `json:"averageDuration"` // seconds
	ReviewedCount        int                      `json:"reviewedCount"`
	ByDepartment         map[string]BucketRateDTO `json:"byDepartment"`
	ByPosition           map[string]BucketRateDTO `json:"byPosition"`
}

type HRInterviewDetailDTO struct {
	Interview   *model.Interview          `json:"interview"`
	Evaluations []model.EvaluationHistory `json:"evaluations"`
}

type RecommendationAckDTO struct {
	Message string `json:"message"`
}
