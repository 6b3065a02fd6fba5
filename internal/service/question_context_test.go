package service

import (
	"testing"

	"github.com/lshigami/Meerkats/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildQuestionContextEmpty(t *testing.T) {
	qc := BuildQuestionContext(nil, nil, "I have used Excel for five years.")

	assert.Equal(t, 1, qc.QuestionNumber)
	assert.Equal(t, 0.0, qc.AverageScore)
	assert.Empty(t, qc.CoveredCategories)
	assert.Empty(t, qc.WeakCategories)
	assert.Empty(t, qc.StrongCategories)
	assert.Equal(t, "I have used Excel for five years.", qc.Introduction)
}

func TestBuildQuestionContextCategorizesPerformance(t *testing.T) {
	questions := []model.InterviewQuestion{
		{ID: "q1", Category: "formulas"},
		{ID: "q2", Category: "macros"},
		{ID: "q3", Category: "macros"},
		{ID: "q4", Category: "pivot_tables"},
	}
	responses := []model.InterviewResponse{
		{QuestionID: "q1", Category: "formulas", Score: 4},
		{QuestionID: "q2", Category: "macros", Score: 8},
		{QuestionID: "q3", Category: "macros", Score: 9},
		{QuestionID: "q4", Category: "pivot_tables", Score: 7},
	}

	qc := BuildQuestionContext(questions, responses, "")

	assert.Equal(t, 5, qc.QuestionNumber)
	assert.InDelta(t, 7.0, qc.AverageScore, 1e-9)
	// Covered categories are deduplicated, first-seen order.
	assert.Equal(t, []string{"formulas", "macros", "pivot_tables"}, qc.CoveredCategories)
	// formulas avg 4 < 6.0; macros avg 8.5 > 7.5; pivot_tables avg 7 is neither.
	assert.Equal(t, []string{"formulas"}, qc.WeakCategories)
	assert.Equal(t, []string{"macros"}, qc.StrongCategories)
}

func TestBuildQuestionContextBoundaryScoresAreNeutral(t *testing.T) {
	responses := []model.InterviewResponse{
		{Category: "charts", Score: 6.0},
		{Category: "data_analysis", Score: 7.5},
	}

	qc := BuildQuestionContext(nil, responses, "")

	// Thresholds are strict: exactly 6.0 is not weak, exactly 7.5 is not strong.
	assert.Empty(t, qc.WeakCategories)
	assert.Empty(t, qc.StrongCategories)
}

func TestAverageScore(t *testing.T) {
	assert.Equal(t, 0.0, averageScore(nil))

	responses := []model.InterviewResponse{{Score: 6}, {Score: 8}, {Score: 10}}
	assert.InDelta(t, 8.0, averageScore(responses), 1e-9)
}
