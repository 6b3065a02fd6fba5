package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/lshigami/Meerkats/internal/dto"
	"github.com/lshigami/Meerkats/internal/model"
	"github.com/lshigami/Meerkats/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxQuestionsPerInterview is the fixed question cap.
const MaxQuestionsPerInterview = 10

// Responses scoring at or above this threshold count as correct answers in
// the final evaluation.
const correctAnswerThreshold = 7.0

var (
	ErrInterviewNotFound    = errors.New("interview not found")
	ErrInterviewNotActive   = errors.New("interview is not in progress")
	ErrQuestionNotFound     = errors.New("question not found in this interview")
	ErrEmptyAnswer          = errors.New("answer must not be empty")
	ErrEmptyIntroduction    = errors.New("introduction must not be empty")
)

// InterviewService owns the lifecycle of a single candidate interview:
// start, introduction, per-answer progression, and completion.
type InterviewService interface {
	Start(ctx context.Context, req dto.StartInterviewRequest) (*dto.StartInterviewResponse, error)
	SubmitIntroduction(ctx context.Context, interviewID, introduction string) (*dto.SubmitIntroductionResponse, error)
	SubmitAnswer(ctx context.Context, interviewID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	Complete(ctx context.Context, interviewID string) (*dto.CompleteInterviewResponse, error)
	Get(interviewID string) (*model.Interview, error)
}

type interviewService struct {
	interviewRepo repository.InterviewRepository
	llm           LLMService
	consistency   ConsistencyService

	// Serializes read-modify-write cycles per interview id so concurrent
	// answer submissions cannot clobber each other's appended response.
	locks sync.Map
}

func NewInterviewService(interviewRepo repository.InterviewRepository, llm LLMService, consistency ConsistencyService) InterviewService {
	return &interviewService{
		interviewRepo: interviewRepo,
		llm:           llm,
		consistency:   consistency,
	}
}

func (s *interviewService) lock(interviewID string) func() {
	mu, _ := s.locks.LoadOrStore(interviewID, &sync.Mutex{})
	m := mu.(*sync.Mutex)
	m.Lock()
	return m.Unlock
}

func (s *interviewService) Start(ctx context.Context, req dto.StartInterviewRequest) (*dto.StartInterviewResponse, error) {
	interview := model.Interview{
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		Position:       req.Position,
		Department:     req.Department,
		Status:         model.InterviewStatusInProgress,
		StartedAt:      time.Now(),
		Questions:      datatypes.NewJSONType([]model.InterviewQuestion{}),
		Responses:      datatypes.NewJSONType([]model.InterviewResponse{}),
	}
	if req.UserID != "" {
		interview.UserID = &req.UserID
	}

	if err := s.interviewRepo.Create(&interview); err != nil {
		log.Error().Err(err).Msg("Failed to create interview")
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	greeting, introRequest := s.llm.GenerateIntroduction(ctx)
	log.Info().Str("interviewID", interview.ID).Msg("Interview started")

	return &dto.StartInterviewResponse{
		Interview: &interview,
		Introduction: dto.IntroductionDTO{
			Greeting:            greeting,
			IntroductionRequest: introRequest,
		},
	}, nil
}

// SubmitIntroduction uses the candidate's self-introduction as generation
// context for the first question. The text itself is not persisted.
func (s *interviewService) SubmitIntroduction(ctx context.Context, interviewID, introduction string) (*dto.SubmitIntroductionResponse, error) {
	if strings.TrimSpace(introduction) == "" {
		return nil, ErrEmptyIntroduction
	}

	unlock := s.lock(interviewID)
	defer unlock()

	interview, err := s.findActive(interviewID)
	if err != nil {
		return nil, err
	}

	questions := interview.Questions.Data()
	responses := interview.Responses.Data()

	// A pending unanswered question means the introduction was already
	// processed; return it instead of generating a duplicate.
	if len(questions) > len(responses) {
		return &dto.SubmitIntroductionResponse{FirstQuestion: questions[len(questions)-1]}, nil
	}

	question := s.llm.GenerateNextQuestion(ctx, BuildQuestionContext(questions, responses, introduction))
	questions = append(questions, question)
	interview.Questions = datatypes.NewJSONType(questions)

	if err := s.interviewRepo.Update(interview); err != nil {
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Failed to save first question")
		return nil, fmt.Errorf("failed to save first question: %w", err)
	}

	return &dto.SubmitIntroductionResponse{FirstQuestion: question}, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, interviewID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error) {
	if strings.TrimSpace(req.Answer) == "" {
		return nil, ErrEmptyAnswer
	}

	unlock := s.lock(interviewID)
	defer unlock()

	interview, err := s.findActive(interviewID)
	if err != nil {
		return nil, err
	}

	questions := interview.Questions.Data()
	responses := interview.Responses.Data()

	question, found := findQuestion(questions, req.QuestionID)
	if !found {
		// Adaptive questions are not in the bank; accept the client's
		// snapshot of the question it was shown.
		if req.CurrentQuestion == nil {
			return nil, ErrQuestionNotFound
		}
		question = model.InterviewQuestion{
			ID:         req.QuestionID,
			Question:   req.CurrentQuestion.Question,
			Category:   req.CurrentQuestion.Category,
			Difficulty: req.CurrentQuestion.Difficulty,
			MaxScore:   req.CurrentQuestion.MaxScore,
		}
	}

	evaluation := s.llm.Evaluate(ctx, question, req.Answer, responses)
	metrics := s.consistency.ComputeMetrics(question.Category, question.Difficulty, evaluation.Score, evaluation.Feedback, req.Answer, evaluation.Details)

	response := model.InterviewResponse{
		QuestionID:    req.QuestionID,
		Answer:        req.Answer,
		IsVoiceAnswer: req.IsVoiceAnswer,
		Timestamp:     time.Now(),
		Score:         evaluation.Score,
		Feedback:      evaluation.Feedback,
		Category:      question.Category,
		Difficulty:    question.Difficulty,
		Evaluation:    evaluation.Details,
		Metrics:       &evaluation.Metrics,
	}
	responses = append(responses, response)

	// Running total is a sum of raw scores; the final evaluation's overall
	// score is an average. Two different quantities.
	interview.TotalScore += evaluation.Score
	interview.CurrentQuestionIndex = len(responses)
	interview.Responses = datatypes.NewJSONType(responses)

	isCompleted := interview.CurrentQuestionIndex >= MaxQuestionsPerInterview

	var nextQuestion *model.InterviewQuestion
	if !isCompleted {
		next := s.llm.GenerateNextQuestion(ctx, BuildQuestionContext(questions, responses, ""))
		questions = append(questions, next)
		interview.Questions = datatypes.NewJSONType(questions)
		nextQuestion = &next
	}

	if err := s.interviewRepo.Update(interview); err != nil {
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Failed to save answer")
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	// History is an independent analytics write; its failure never blocks
	// the interview flow.
	questionID := question.ID
	if err := s.consistency.RecordEvaluation(&interview.ID, &questionID, req.Answer, evaluation.Score, question.Category, question.Difficulty, metrics); err != nil {
		log.Warn().Err(err).Str("interviewID", interviewID).Msg("Failed to record evaluation history")
	}

	return &dto.SubmitAnswerResponse{
		Interview: interview,
		Response:  response,
		Evaluation: dto.AnswerEvaluationDTO{
			Score:    evaluation.Score,
			Feedback: evaluation.Feedback,
			Details:  evaluation.Details,
			Metrics:  evaluation.Metrics,
		},
		Metrics:      &metrics,
		NextQuestion: nextQuestion,
		IsCompleted:  isCompleted,
		Progress: dto.ProgressDTO{
			Current: interview.CurrentQuestionIndex,
			Total:   MaxQuestionsPerInterview,
		},
	}, nil
}

// Complete computes the final evaluation and flips the interview to
// completed. Not idempotent: a second call recomputes and overwrites the
// evaluation and completion timestamp.
func (s *interviewService) Complete(ctx context.Context, interviewID string) (*dto.CompleteInterviewResponse, error) {
	unlock := s.lock(interviewID)
	defer unlock()

	interview, err := s.find(interviewID)
	if err != nil {
		return nil, err
	}

	responses := interview.Responses.Data()
	questions := interview.Questions.Data()

	evaluation := model.InterviewEvaluation{
		OverallScore:    averageScore(responses),
		TotalQuestions:  len(questions),
		CorrectAnswers:  0,
		Strengths:       []string{},
		Improvements:    []string{},
		CategoryScores:  map[string]float64{},
		Recommendations: []string{},
	}

	type bucket struct {
		total float64
		count int
	}
	categoryTotals := make(map[string]*bucket)
	for _, r := range responses {
		if r.Score >= correctAnswerThreshold {
			evaluation.CorrectAnswers++
		}
		b, ok := categoryTotals[r.Category]
		if !ok {
			b = &bucket{}
			categoryTotals[r.Category] = b
		}
		b.total += r.Score
		b.count++
	}
	for category, b := range categoryTotals {
		evaluation.CategoryScores[category] = math.Round(b.total / float64(b.count))
	}

	closing := s.llm.GenerateClosingFeedback(ctx, responses)
	evaluation.Strengths = closing.Strengths
	evaluation.Improvements = closing.Improvements
	evaluation.OverallFeedback = closing.OverallFeedback

	for category, score := range evaluation.CategoryScores {
		if score < 6 {
			evaluation.Recommendations = append(evaluation.Recommendations, fmt.Sprintf("Review %s concepts", category))
		}
	}

	now := time.Now()
	duration := int(now.Sub(interview.StartedAt).Seconds())
	interview.Status = model.InterviewStatusCompleted
	interview.CompletedAt = &now
	interview.Duration = &duration
	interview.Evaluation = datatypes.NewJSONType(&evaluation)

	if err := s.interviewRepo.Update(interview); err != nil {
		log.Error().Err(err).Str("interviewID", interviewID).Msg("Failed to save interview completion")
		return nil, fmt.Errorf("failed to complete interview: %w", err)
	}

	log.Info().Str("interviewID", interviewID).Float64("overallScore", evaluation.OverallScore).Msg("Interview completed")
	return &dto.CompleteInterviewResponse{Interview: interview, Evaluation: &evaluation}, nil
}

func (s *interviewService) Get(interviewID string) (*model.Interview, error) {
	return s.find(interviewID)
}

func (s *interviewService) find(interviewID string) (*model.Interview, error) {
	interview, err := s.interviewRepo.FindByID(interviewID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load interview: %w", err)
	}
	return interview, nil
}

func (s *interviewService) findActive(interviewID string) (*model.Interview, error) {
	interview, err := s.find(interviewID)
	if err != nil {
		return nil, err
	}
	if interview.Status != model.InterviewStatusInProgress {
		return nil, ErrInterviewNotActive
	}
	return interview, nil
}

func findQuestion(questions []model.InterviewQuestion, id string) (model.InterviewQuestion, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return model.InterviewQuestion{}, false
}
