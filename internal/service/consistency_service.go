package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

// Historical window per (category, difficulty) bucket for metric computation.
const calibrationWindow = 50

// Expected score bands per difficulty for the calibration metric.
var difficultyBands = map[string][2]float64{
	model.DifficultyBeginner:     {7, 9},
	model.DifficultyIntermediate: {5, 8},
	model.DifficultyAdvanced:     {3, 7},
}

// ConsistencyService produces the four heuristic 0-10 metrics attached to
// every scored answer, and maintains the calibration baseline cache. Purely
// derived values for dashboard display; never used for gating.
type ConsistencyService interface {
	ComputeMetrics(category, difficulty string, score float64, feedback, answer string, details model.ResponseEvaluation) model.ConsistencyMetrics
	RecordEvaluation(interviewID, questionID *string, answer string, score float64, category, difficulty string, metrics model.ConsistencyMetrics) error
	GetCalibrationBaseline(category, difficulty string) (*model.CalibrationBaseline, error)
}

type consistencyService struct {
	historyRepo     repository.EvaluationHistoryRepository
	calibrationRepo repository.CalibrationRepository
}

func NewConsistencyService(historyRepo repository.EvaluationHistoryRepository, calibrationRepo repository.CalibrationRepository) ConsistencyService {
	return &consistencyService{historyRepo: historyRepo, calibrationRepo: calibrationRepo}
}

func (s *consistencyService) ComputeMetrics(category, difficulty string, score float64, feedback, answer string, details model.ResponseEvaluation) model.ConsistencyMetrics {
	history, err := s.historyRepo.FindRecentByBucket(category, difficulty, calibrationWindow)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Str("difficulty", difficulty).Msg("Could not load evaluation history for consistency metrics")
		history = nil
	}

	scores := make([]float64, 0, len(history))
	for _, h := range history {
		scores = append(scores, h.AIScore)
	}

	return model.ConsistencyMetrics{
		EvaluationConsistency: evaluationConsistency(scores),
		DifficultyCalibration: difficultyCalibration(difficulty, score, len(scores)),
		CategoryAlignment:     categoryAlignment(score, scores),
		ConfidenceLevel:       confidenceLevel(feedback, answer, details),
		CalibrationVersion:    model.CalibrationVersion,
	}
}

// RecordEvaluation appends one immutable history row and refreshes the
// baseline cache for its bucket. The caller treats a failure here as
// non-fatal: history is analytics data, not interview state.
func (s *consistencyService) RecordEvaluation(interviewID, questionID *string, answer string, score float64, category, difficulty string, metrics model.ConsistencyMetrics) error {
	record := model.EvaluationHistory{
		EvaluationID:       fmt.Sprintf("eval_%s", uuid.NewString()),
		InterviewID:        interviewID,
		QuestionID:         questionID,
		CandidateAnswer:    answer,
		AIScore:            score,
		Category:           category,
		Difficulty:         difficulty,
		ConsistencyMetrics: datatypes.NewJSONType(metrics),
		CalibrationVersion: model.CalibrationVersion,
	}
	if err := s.historyRepo.Create(&record); err != nil {
		return fmt.Errorf("failed to record evaluation history: %w", err)
	}

	if err := s.recomputeBaseline(category, difficulty); err != nil {
		// Baseline is a cache over history; a stale cache is acceptable.
		log.Warn().Err(err).Str("category", category).Str("difficulty", difficulty).Msg("Failed to refresh calibration baseline")
	}
	return nil
}

// GetCalibrationBaseline returns nil when the bucket has no recorded
// evaluations.
func (s *consistencyService) GetCalibrationBaseline(category, difficulty string) (*model.CalibrationBaseline, error) {
	return s.calibrationRepo.FindByBucket(category, difficulty)
}

func (s *consistencyService) recomputeBaseline(category, difficulty string) error {
	history, err := s.historyRepo.FindRecentByBucket(category, difficulty, calibrationWindow)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return nil
	}

	scores := make([]float64, 0, len(history))
	var humanScores []float64
	for _, h := range history {
		scores = append(scores, h.AIScore)
		if h.HumanScore != nil {
			humanScores = append(humanScores, *h.HumanScore)
		}
	}

	baseline := model.CalibrationBaseline{
		Category:           category,
		Difficulty:         difficulty,
		AverageAIScore:     mean(scores),
		ScoreVariance:      variance(scores),
		SampleSize:         len(scores),
		ConfidenceLevel:    baselineConfidence(len(scores)),
		CalibrationVersion: model.CalibrationVersion,
	}
	if len(humanScores) > 0 {
		avg := mean(humanScores)
		baseline.AverageHumanScore = &avg
	}
	return s.calibrationRepo.Upsert(&baseline)
}

// evaluationConsistency rewards low score variance within a bucket:
// 10 - 2*variance, floored at 0. No history means nothing to contradict.
func evaluationConsistency(scores []float64) float64 {
	if len(scores) == 0 {
		return 10
	}
	v := 10 - 2*variance(scores)
	if v < 0 {
		return 0
	}
	return v
}

// difficultyCalibration checks the score against the expected band for its
// difficulty tier. In-band scores get a small sample-size boost (capped at
// 10); out-of-band scores are penalized by distance to the nearer bound,
// floored at 1.
func difficultyCalibration(difficulty string, score float64, sampleSize int) float64 {
	band, ok := difficultyBands[difficulty]
	if !ok {
		band = difficultyBands[model.DifficultyIntermediate]
	}
	low, high := band[0], band[1]

	if score >= low && score <= high {
		v := 8 + float64(sampleSize)*0.1
		if v > 10 {
			return 10
		}
		return v
	}

	var distance float64
	if score < low {
		distance = low - score
	} else {
		distance = score - high
	}
	v := 7 - distance
	if v < 1 {
		return 1
	}
	return v
}

// categoryAlignment compares the score against the category's historical
// average: 9 - |score - avg|, clamped to [1, 10]. With no history the
// current score is its own baseline.
func categoryAlignment(score float64, scores []float64) float64 {
	avg := score
	if len(scores) > 0 {
		avg = mean(scores)
	}
	v := 9 - abs(score-avg)
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// confidenceLevel starts at 7.0 and accumulates small boosts for richer
// feedback, longer answers, and populated evaluation details. Capped at 10.
func confidenceLevel(feedback, answer string, details model.ResponseEvaluation) float64 {
	v := 7.0
	if len(feedback) > 50 {
		v += 0.5
	}
	if len(answer) > 100 {
		v += 0.5
	}
	for _, d := range []float64{details.Correctness, details.Clarity, details.Completeness} {
		if d > 0 {
			v += 0.3
		}
	}
	if v > 10 {
		return 10
	}
	return v
}

func baselineConfidence(sampleSize int) float64 {
	v := 5 + float64(sampleSize)*0.1
	if v > 10 {
		return 10
	}
	return v
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	total := 0.0
	for _, v := range values {
		total += (v - m) * (v - m)
	}
	return total / float64(len(values))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
