package service

import (
	"fmt"

	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// AnalyticsService aggregates evaluation history for the dashboard.
type AnalyticsService interface {
	GetSystemMetrics() (*dto.SystemMetricsDTO, error)
	ListEvaluationHistory(filter repository.HistoryFilter) (*dto.EvaluationHistoryPageDTO, error)
}

type analyticsService struct {
	historyRepo repository.EvaluationHistoryRepository
}

func NewAnalyticsService(historyRepo repository.EvaluationHistoryRepository) AnalyticsService {
	return &analyticsService{historyRepo: historyRepo}
}

func (s *analyticsService) GetSystemMetrics() (*dto.SystemMetricsDTO, error) {
	records, err := s.historyRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load evaluation history for system metrics")
		return nil, fmt.Errorf("error fetching evaluation history: %w", err)
	}

	metrics := dto.SystemMetricsDTO{
		TotalEvaluations:    len(records),
		CategoryBreakdown:   map[string]dto.BucketStatsDTO{},
		DifficultyBreakdown: map[string]dto.BucketStatsDTO{},
		CalibrationVersion:  model.CalibrationVersion,
	}
	if len(records) == 0 {
		return &metrics, nil
	}

	type bucket struct {
		scoreTotal       float64
		consistencyTotal float64
		count            int
	}
	categories := make(map[string]*bucket)
	difficulties := make(map[string]*bucket)
	consistencyTotal := 0.0

	add := func(buckets map[string]*bucket, key string, score, consistency float64) {
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.scoreTotal += score
		b.consistencyTotal += consistency
		b.count++
	}

	for _, r := range records {
		cm := r.ConsistencyMetrics.Data()
		consistencyTotal += cm.EvaluationConsistency
		add(categories, r.Category, r.AIScore, cm.EvaluationConsistency)
		add(difficulties, r.Difficulty, r.AIScore, cm.EvaluationConsistency)
	}

	metrics.AverageConsistencyScore = consistencyTotal / float64(len(records))
	for key, b := range categories {
		metrics.CategoryBreakdown[key] = dto.BucketStatsDTO{
			AverageScore: b.scoreTotal / float64(b.count),
			Consistency:  b.consistencyTotal / float64(b.count),
			SampleSize:   b.count,
		}
	}
	for key, b := range difficulties {
		metrics.DifficultyBreakdown[key] = dto.BucketStatsDTO{
			AverageScore: b.scoreTotal / float64(b.count),
			Consistency:  b.consistencyTotal / float64(b.count),
			SampleSize:   b.count,
		}
	}

	return &metrics, nil
}

func (s *analyticsService) ListEvaluationHistory(filter repository.HistoryFilter) (*dto.EvaluationHistoryPageDTO, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Limit > maxHistoryLimit {
		filter.Limit = maxHistoryLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	records, total, err := s.historyRepo.List(filter)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list evaluation history")
		return nil, fmt.Errorf("error fetching evaluation history: %w", err)
	}
	if records == nil {
		records = []model.EvaluationHistory{}
	}

	return &dto.EvaluationHistoryPageDTO{
		History: records,
		Total:   total,
		Offset:  filter.Offset,
		Limit:   filter.Limit,
	}, nil
}
