package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	InterviewStatusInProgress = "in_progress"
	InterviewStatusCompleted  = "completed"
	InterviewStatusAbandoned  = "abandoned"
)

// InterviewQuestion is a question as asked during an interview. Adaptive
// questions generated at runtime live only here, never in the question bank.
type InterviewQuestion struct {
	ID             string   `json:"id"`
	Question       string   `json:"question"`
	Category       string   `json:"category"`
	Difficulty     string   `json:"difficulty"`
	ExpectedAnswer string   `json:"expectedAnswer,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	MaxScore       float64  `json:"maxScore"`
}

// ResponseEvaluation holds the per-dimension breakdown of one scored answer.
type ResponseEvaluation struct {
	Correctness  float64 `json:"correctness"`
	Clarity      float64 `json:"clarity"`
	Completeness float64 `json:"completeness"`
}

// ResponseMetrics are the auxiliary evaluation dimensions returned by the
// LLM alongside the main score. Informational only.
type ResponseMetrics struct {
	TechnicalAccuracy      float64 `json:"technicalAccuracy"`
	PracticalApplication   float64 `json:"practicalApplication"`
	CommunicationClarity   float64 `json:"communicationClarity"`
	ProblemSolvingApproach float64 `json:"problemSolvingApproach"`
}

// InterviewResponse is one answered question. Score and evaluation are set
// together when the response is appended, never partially.
type InterviewResponse struct {
	QuestionID    string             `json:"questionId"`
	Answer        string             `json:"answer"`
	IsVoiceAnswer bool               `json:"isVoiceAnswer"`
	Timestamp     time.Time          `json:"timestamp"`
	Score         float64            `json:"score"`
	Feedback      string             `json:"feedback"`
	Category      string             `json:"category"`
	Difficulty    string             `json:"difficulty"`
	Evaluation    ResponseEvaluation `json:"evaluation"`
	Metrics       *ResponseMetrics   `json:"metrics,omitempty"`
}

// InterviewEvaluation is the final summary computed at completion.
// OverallScore is the average response score on the 0-10 scale; the running
// Interview.TotalScore is a sum of raw scores. The two are intentionally
// different quantities.
type InterviewEvaluation struct {
	OverallScore    float64            `json:"overallScore"`
	TotalQuestions  int                `json:"totalQuestions"`
	CorrectAnswers  int                `json:"correctAnswers"`
	Strengths       []string           `json:"strengths"`
	Improvements    []string           `json:"improvements"`
	CategoryScores  map[string]float64 `json:"categoryScores"`
	Recommendations []string           `json:"recommendations"`
	OverallFeedback string             `json:"overallFeedback,omitempty"`
}

type Interview struct {
	ID                   string                                      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID               *string                                     `json:"user_id,omitempty" gorm:"type:uuid;index"`
	CandidateName        string                                      `json:"candidate_name,omitempty"`
	CandidateEmail       string                                      `json:"candidate_email,omitempty"`
	Position             string                                      `json:"position,omitempty"`
	Department           string                                      `json:"department,omitempty"`
	Status               string                                      `json:"status" gorm:"not null;default:'in_progress';index"`
	CurrentQuestionIndex int                                         `json:"current_question_index" gorm:"not null;default:0"`
	TotalScore           float64                                     `json:"total_score" gorm:"default:0"`
	StartedAt            time.Time                                   `json:"started_at" gorm:"autoCreateTime"`
	CompletedAt          *time.Time                                  `json:"completed_at,omitempty"`
	Duration             *int                                        `json:"duration,omitempty"` // seconds
	Questions            datatypes.JSONType[[]InterviewQuestion]     `json:"questions"`
	Responses            datatypes.JSONType[[]InterviewResponse]     `json:"responses"`
	Evaluation           datatypes.JSONType[*InterviewEvaluation]    `json:"evaluation"`
	HRRecommendation     string                                      `json:"hr_recommendation,omitempty"`
	HRNotes              string                                      `json:"hr_notes,omitempty"`
	ReviewedBy           string                                      `json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time                                  `json:"reviewed_at,omitempty"`
	CreatedAt            time.Time                                   `json:"created_at"`
	UpdatedAt            time.Time                                   `json:"updated_at"`
	DeletedAt            gorm.DeletedAt                              `gorm:"index" json:"-"`
}

func (i *Interview) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
