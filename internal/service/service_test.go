package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lshigami/Meerkats/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Interview{},
		&model.Question{},
		&model.EvaluationHistory{},
		&model.CalibrationBaseline{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// stubLLM returns deterministic values so interview flow tests do not depend
// on a live provider.
type stubLLM struct {
	score        float64
	questionSeq  int
	category     string
	transcript   string
	evaluateFunc func(question model.InterviewQuestion, answer string) AnswerEvaluation
}

func (s *stubLLM) GenerateIntroduction(ctx context.Context) (string, string) {
	return "Welcome to the interview.", "Please introduce yourself."
}

func (s *stubLLM) Evaluate(ctx context.Context, question model.InterviewQuestion, answer string, prior []model.InterviewResponse) AnswerEvaluation {
	if s.evaluateFunc != nil {
		return s.evaluateFunc(question, answer)
	}
	return AnswerEvaluation{
		Score:    s.score,
		Feedback: "Stub feedback.",
		Details:  model.ResponseEvaluation{Correctness: s.score, Clarity: s.score, Completeness: s.score},
		Metrics:  model.ResponseMetrics{TechnicalAccuracy: s.score},
	}
}

func (s *stubLLM) GenerateNextQuestion(ctx context.Context, qc QuestionContext) model.InterviewQuestion {
	s.questionSeq++
	category := s.category
	if category == "" {
		category = "formulas"
	}
	return model.InterviewQuestion{
		ID:         fmt.Sprintf("q-%d", s.questionSeq),
		Question:   fmt.Sprintf("Stub question %d", s.questionSeq),
		Category:   category,
		Difficulty: model.DifficultyIntermediate,
		MaxScore:   10,
	}
}

func (s *stubLLM) GenerateClosingFeedback(ctx context.Context, responses []model.InterviewResponse) ClosingFeedback {
	return ClosingFeedback{
		Strengths:       []string{"stub strength"},
		Improvements:    []string{"stub improvement"},
		OverallFeedback: "Stub closing feedback.",
	}
}

func (s *stubLLM) Transcribe(ctx context.Context, audio []byte, filename string) string {
	return s.transcript
}

func waitForTimestamp() {
	// sqlite timestamp resolution; keeps ordering assertions deterministic.
	time.Sleep(2 * time.Millisecond)
}
