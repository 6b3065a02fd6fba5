package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// HRService is the review layer over finished interviews. Read access to
// everything, write access only to the recommendation fields.
type HRService interface {
	ListCandidates() ([]dto.CandidateSummaryDTO, error)
	GetInterviewDetail(interviewID string) (*dto.HRInterviewDetailDTO, error)
	GetMetrics() (*dto.HRMetricsDTO, error)
	SetRecommendation(interviewID string, req dto.RecommendationRequest) error
}

type hrService struct {
	interviewRepo repository.InterviewRepository
	historyRepo   repository.EvaluationHistoryRepository
}

func NewHRService(interviewRepo repository.InterviewRepository, historyRepo repository.EvaluationHistoryRepository) HRService {
	return &hrService{interviewRepo: interviewRepo, historyRepo: historyRepo}
}

func (s *hrService) ListCandidates() ([]dto.CandidateSummaryDTO, error) {
	interviews, err := s.interviewRepo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list interviews for HR")
		return nil, fmt.Errorf("error fetching interviews: %w", err)
	}

	summaries := make([]dto.CandidateSummaryDTO, 0, len(interviews))
	for _, interview := range interviews {
		summary := dto.CandidateSummaryDTO{
			ID:                interview.ID,
			CandidateName:     interview.CandidateName,
			CandidateEmail:    interview.CandidateEmail,
			Position:          interview.Position,
			Department:        interview.Department,
			Status:            interview.Status,
			TotalScore:        interview.TotalScore,
			QuestionsAnswered: interview.CurrentQuestionIndex,
			StartedAt:         interview.StartedAt,
			CompletedAt:       interview.CompletedAt,
			Duration:          interview.Duration,
			HRRecommendation:  interview.HRRecommendation,
			ReviewedAt:        interview.ReviewedAt,
		}
		if evaluation := interview.Evaluation.Data(); evaluation != nil {
			summary.OverallScore = evaluation.OverallScore
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *hrService) GetInterviewDetail(interviewID string) (*dto.HRInterviewDetailDTO, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}

	evaluations, err := s.historyRepo.FindByInterviewID(interviewID)
	if err != nil {
		log.Warn().Err(err).Str("interviewID", interviewID).Msg("Failed to load evaluation history for HR detail view")
		evaluations = []model.EvaluationHistory{}
	}

	return &dto.HRInterviewDetailDTO{Interview: interview, Evaluations: evaluations}, nil
}

func (s *hrService) GetMetrics() (*dto.HRMetricsDTO, error) {
	interviews, err := s.interviewRepo.FindAll()
	if err != nil {
		return nil, fmt.Errorf("error fetching interviews: %w", err)
	}

	metrics := dto.HRMetricsDTO{
		ByDepartment: map[string]dto.BucketRateDTO{},
		ByPosition:   map[string]dto.BucketRateDTO{},
	}

	var scoreTotal, durationTotal float64
	var scoredCount, durationCount int
	for _, interview := range interviews {
		metrics.TotalInterviews++
		switch interview.Status {
		case model.InterviewStatusCompleted:
			metrics.CompletedInterviews++
		case model.InterviewStatusInProgress:
			metrics.InProgressInterviews++
		}
		if interview.ReviewedAt != nil {
			metrics.ReviewedCount++
		}
		if evaluation := interview.Evaluation.Data(); evaluation != nil {
			scoreTotal += evaluation.OverallScore
			scoredCount++
		}
		if interview.Duration != nil {
			durationTotal += float64(*interview.Duration)
			durationCount++
		}

		accumulateBucket(metrics.ByDepartment, interview.Department, interview)
		accumulateBucket(metrics.ByPosition, interview.Position, interview)
	}

	if scoredCount > 0 {
		metrics.AverageScore = scoreTotal / float64(scoredCount)
	}
	if durationCount > 0 {
		metrics.AverageDuration = durationTotal / float64(durationCount)
	}

	finalizeHireRates(metrics.ByDepartment)
	finalizeHireRates(metrics.ByPosition)

	return &metrics, nil
}

// SetRecommendation records the reviewer's decision. There is deliberately
// no check that the interview is completed first.
func (s *hrService) SetRecommendation(interviewID string, req dto.RecommendationRequest) error {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInterviewNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load interview: %w", err)
	}

	now := time.Now()
	interview.HRRecommendation = req.Recommendation
	interview.HRNotes = req.Notes
	interview.ReviewedBy = req.HRUserID
	interview.ReviewedAt = &now

	if err := s.interviewRepo.Update(interview); err != nil {
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Failed to save HR recommendation")
		return fmt.Errorf("failed to save recommendation: %w", err)
	}
	log.Info().Str("interviewID", interviewID).Str("recommendation", req.Recommendation).Msg("HR recommendation recorded")
	return nil
}

func accumulateBucket(buckets map[string]dto.BucketRateDTO, key string, interview model.Interview) {
	if key == "" {
		return
	}
	b := buckets[key]
	b.Total++
	if interview.Status == model.InterviewStatusCompleted {
		b.Completed++
	}
	if interview.HRRecommendation == "hire" {
		b.Hired++
	}
	buckets[key] = b
}

func finalizeHireRates(buckets map[string]dto.BucketRateDTO) {
	for key, b := range buckets {
		if b.Completed > 0 {
			b.HireRate = float64(b.Hired) / float64(b.Completed)
		}
		buckets[key] = b
	}
}
