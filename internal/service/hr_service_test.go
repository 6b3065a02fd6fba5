package service

import (
	"testing"
	"time"

	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestHRService(t *testing.T) (HRService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := NewHRService(repository.NewInterviewRepository(db), repository.NewEvaluationHistoryRepository(db))
	return svc, db
}

func seedInterview(t *testing.T, db *gorm.DB, mutate func(*model.Interview)) *model.Interview {
	t.Helper()
	interview := model.Interview{
		CandidateName: "Alice",
		Position:      "Data Analyst",
		Department:    "Finance",
		Status:        model.InterviewStatusInProgress,
		StartedAt:     time.Now(),
		Questions:     datatypes.NewJSONType([]model.InterviewQuestion{}),
		Responses:     datatypes.NewJSONType([]model.InterviewResponse{}),
	}
	if mutate != nil {
		mutate(&interview)
	}
	require.NoError(t, db.Create(&interview).Error)
	return &interview
}

func completedInterview(overallScore float64, recommendation string, durationSec int) func(*model.Interview) {
	return func(i *model.Interview) {
		now := time.Now()
		i.Status = model.InterviewStatusCompleted
		i.CompletedAt = &now
		i.Duration = &durationSec
		i.HRRecommendation = recommendation
		i.Evaluation = datatypes.NewJSONType(&model.InterviewEvaluation{OverallScore: overallScore})
		if recommendation != "" {
			i.ReviewedAt = &now
		}
	}
}

func TestListCandidates(t *testing.T) {
	svc, db := newTestHRService(t)
	seedInterview(t, db, nil)
	seedInterview(t, db, completedInterview(8.2, "hire", 900))

	candidates, err := svc.ListCandidates()
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	var completed *dto.CandidateSummaryDTO
	for i := range candidates {
		if candidates[i].Status == model.InterviewStatusCompleted {
			completed = &candidates[i]
		}
	}
	require.NotNil(t, completed)
	assert.Equal(t, 8.2, completed.OverallScore)
	assert.Equal(t, "hire", completed.HRRecommendation)
	assert.NotNil(t, completed.ReviewedAt)
}

func TestGetInterviewDetail(t *testing.T) {
	svc, db := newTestHRService(t)
	interview := seedInterview(t, db, nil)

	history := model.EvaluationHistory{
		EvaluationID:    "eval_test-1",
		InterviewID:     &interview.ID,
		CandidateAnswer: "an answer",
		AIScore:         7,
		Category:        "formulas",
		Difficulty:      model.DifficultyBeginner,
	}
	require.NoError(t, db.Create(&history).Error)

	detail, err := svc.GetInterviewDetail(interview.ID)
	require.NoError(t, err)
	assert.Equal(t, interview.ID, detail.Interview.ID)
	require.Len(t, detail.Evaluations, 1)
	assert.Equal(t, "eval_test-1", detail.Evaluations[0].EvaluationID)

	_, err = svc.GetInterviewDetail("00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestGetMetrics(t *testing.T) {
	svc, db := newTestHRService(t)
	seedInterview(t, db, nil)
	seedInterview(t, db, completedInterview(8.0, "hire", 600))
	seedInterview(t, db, completedInterview(4.0, "reject", 1200))

	metrics, err := svc.GetMetrics()
	require.NoError(t, err)

	assert.Equal(t, 3, metrics.TotalInterviews)
	assert.Equal(t, 2, metrics.CompletedInterviews)
	assert.Equal(t, 1, metrics.InProgressInterviews)
	assert.Equal(t, 2, metrics.ReviewedCount)
	assert.InDelta(t, 6.0, metrics.AverageScore, 1e-9)
	assert.InDelta(t, 900.0, metrics.AverageDuration, 1e-9)

	finance := metrics.ByDepartment["Finance"]
	assert.Equal(t, 3, finance.Total)
	assert.Equal(t, 2, finance.Completed)
	assert.Equal(t, 1, finance.Hired)
	assert.InDelta(t, 0.5, finance.HireRate, 1e-9)

	analyst := metrics.ByPosition["Data Analyst"]
	assert.Equal(t, 3, analyst.Total)
}

func TestSetRecommendation(t *testing.T) {
	svc, db := newTestHRService(t)
	// Recommendations are allowed on in-progress interviews too.
	interview := seedInterview(t, db, nil)

	err := svc.SetRecommendation(interview.ID, dto.RecommendationRequest{
		Recommendation: "review",
		Notes:          "Needs a second round.",
		HRUserID:       "hr-1",
	})
	require.NoError(t, err)

	var stored model.Interview
	require.NoError(t, db.First(&stored, "id = ?", interview.ID).Error)
	assert.Equal(t, "review", stored.HRRecommendation)
	assert.Equal(t, "Needs a second round.", stored.HRNotes)
	assert.Equal(t, "hr-1", stored.ReviewedBy)
	require.NotNil(t, stored.ReviewedAt)

	err = svc.SetRecommendation("00000000-0000-0000-0000-000000000000", dto.RecommendationRequest{Recommendation: "hire"})
	assert.ErrorIs(t, err, ErrInterviewNotFound)
}
