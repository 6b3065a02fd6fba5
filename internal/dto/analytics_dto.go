package dto

import (
	"github.com/lshigami/Meerkats/internal/model"
)

// BucketStatsDTO summarizes evaluation history for one category or
// difficulty bucket.
type BucketStatsDTO struct {
	AverageScore float64 `json:"averageScore"`
	Consistency  float64 `json:"consistency"`
	SampleSize   int     `json:"sampleSize"`
}

type SystemMetricsDTO struct {
	TotalEvaluations        int                       `json:"totalEvaluations"`
	AverageConsistencyScore float64                   `json:"averageConsistencyScore"`
	CategoryBreakdown       map[string]BucketStatsDTO `json:"categoryBreakdown"`
	DifficultyBreakdown     map[string]BucketStatsDTO `json:"difficultyBreakdown"`
	CalibrationVersion      string                    `json:"calibrationVersion"`
}

type EvaluationHistoryPageDTO struct {
	History []model.EvaluationHistory `json:"history"`
	Total   int64                     `json:"total"`
	Offset  int                       `json:"offset"`
	Limit   int                       `json:"limit"`
}
