package service

import (
	"github.com/lshigami/Meerkats/internal/model"
)

// Performance thresholds for adaptive question selection. Categories below
// the weak threshold are prioritized for reinforcement; categories above the
// strong threshold are candidates for depth.
const (
	weakCategoryThreshold   = 6.0
	strongCategoryThreshold = 7.5
)

// QuestionContext is everything the generation prompt needs to know about
// the interview so far. It is recomputed from scratch on every call; all
// adaptive "strategy" lives in this data, not in control flow.
type QuestionContext struct {
	QuestionNumber    int
	AverageScore      float64
	CoveredCategories []string
	WeakCategories    []string
	StrongCategories  []string
	Introduction      string
}

// BuildQuestionContext derives the prompt context from interview history.
// Pure function of its inputs.
func BuildQuestionContext(questions []model.InterviewQuestion, responses []model.InterviewResponse, introduction string) QuestionContext {
	qc := QuestionContext{
		QuestionNumber: len(questions) + 1,
		AverageScore:   averageScore(responses),
		Introduction:   introduction,
	}

	covered := make(map[string]bool)
	for _, q := range questions {
		if q.Category != "" && !covered[q.Category] {
			covered[q.Category] = true
			qc.CoveredCategories = append(qc.CoveredCategories, q.Category)
		}
	}

	type bucket struct {
		total float64
		count int
	}
	perCategory := make(map[string]*bucket)
	var categoryOrder []string
	for _, r := range responses {
		if r.Category == "" {
			continue
		}
		b, ok := perCategory[r.Category]
		if !ok {
			b = &bucket{}
			perCategory[r.Category] = b
			categoryOrder = append(categoryOrder, r.Category)
		}
		b.total += r.Score
		b.count++
	}
	for _, category := range categoryOrder {
		b := perCategory[category]
		avg := b.total / float64(b.count)
		switch {
		case avg < weakCategoryThreshold:
			qc.WeakCategories = append(qc.WeakCategories, category)
		case avg > strongCategoryThreshold:
			qc.StrongCategories = append(qc.StrongCategories, category)
		}
	}

	return qc
}

func averageScore(responses []model.InterviewResponse) float64 {
	if len(responses) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range responses {
		total += r.Score
	}
	return total / float64(len(responses))
}
