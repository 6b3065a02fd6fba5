package service

import (
	"fmt"
	"testing"

	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestAnalyticsService(t *testing.T) (AnalyticsService, repository.EvaluationHistoryRepository) {
	t.Helper()
	db := newTestDB(t)
	historyRepo := repository.NewEvaluationHistoryRepository(db)
	return NewAnalyticsService(historyRepo), historyRepo
}

func seedHistory(t *testing.T, repo repository.EvaluationHistoryRepository, category, difficulty string, score, consistency float64) {
	t.Helper()
	record := model.EvaluationHistory{
		EvaluationID:    fmt.Sprintf("eval_%s-%s-%.1f-%.1f", category, difficulty, score, consistency),
		CandidateAnswer: "seed",
		AIScore:         score,
		Category:        category,
		Difficulty:      difficulty,
		ConsistencyMetrics: datatypes.NewJSONType(model.ConsistencyMetrics{
			EvaluationConsistency: consistency,
			CalibrationVersion:    model.CalibrationVersion,
		}),
	}
	require.NoError(t, repo.Create(&record))
	waitForTimestamp()
}

func TestGetSystemMetricsEmpty(t *testing.T) {
	svc, _ := newTestAnalyticsService(t)

	metrics, err := svc.GetSystemMetrics()
	require.NoError(t, err)
	assert.Equal(t, 0, metrics.TotalEvaluations)
	assert.Equal(t, 0.0, metrics.AverageConsistencyScore)
	assert.Empty(t, metrics.CategoryBreakdown)
	assert.Equal(t, model.CalibrationVersion, metrics.CalibrationVersion)
}

func TestGetSystemMetricsBreakdowns(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	seedHistory(t, repo, "formulas", model.DifficultyBeginner, 8, 10)
	seedHistory(t, repo, "formulas", model.DifficultyAdvanced, 6, 8)
	seedHistory(t, repo, "macros", model.DifficultyBeginner, 4, 6)

	metrics, err := svc.GetSystemMetrics()
	require.NoError(t, err)

	assert.Equal(t, 3, metrics.TotalEvaluations)
	assert.InDelta(t, 8.0, metrics.AverageConsistencyScore, 1e-9)

	formulas := metrics.CategoryBreakdown["formulas"]
	assert.Equal(t, 2, formulas.SampleSize)
	assert.InDelta(t, 7.0, formulas.AverageScore, 1e-9)
	assert.InDelta(t, 9.0, formulas.Consistency, 1e-9)

	beginner := metrics.DifficultyBreakdown[model.DifficultyBeginner]
	assert.Equal(t, 2, beginner.SampleSize)
	assert.InDelta(t, 6.0, beginner.AverageScore, 1e-9)
}

func TestListEvaluationHistoryFiltersAndPaginates(t *testing.T) {
	svc, repo := newTestAnalyticsService(t)
	for i := 0; i < 5; i++ {
		seedHistory(t, repo, "formulas", model.DifficultyBeginner, float64(i), 10)
	}
	seedHistory(t, repo, "macros", model.DifficultyAdvanced, 9, 10)

	page, err := svc.ListEvaluationHistory(repository.HistoryFilter{Category: "formulas", Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.Total)
	assert.Len(t, page.History, 2)
	assert.Equal(t, 2, page.Limit)
	assert.Equal(t, 1, page.Offset)
	for _, record := range page.History {
		assert.Equal(t, "formulas", record.Category)
	}
}

func TestListEvaluationHistoryClampsLimits(t *testing.T) {
	svc, _ := newTestAnalyticsService(t)

	page, err := svc.ListEvaluationHistory(repository.HistoryFilter{Limit: 0, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, defaultHistoryLimit, page.Limit)
	assert.Equal(t, 0, page.Offset)
	assert.NotNil(t, page.History)

	page, err = svc.ListEvaluationHistory(repository.HistoryFilter{Limit: 10000})
	require.NoError(t, err)
	assert.Equal(t, maxHistoryLimit, page.Limit)
}
