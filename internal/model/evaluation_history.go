package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CalibrationVersion tags every history row and baseline with the calibration
// data revision that produced its consistency metrics.
const CalibrationVersion = "v1.2.3"

// ConsistencyMetrics are the four heuristic 0-10 scores attached to every
// scored answer for dashboard display. Informational only; they never alter
// scoring or question selection.
type ConsistencyMetrics struct {
	EvaluationConsistency float64 `json:"evaluationConsistency"`
	DifficultyCalibration float64 `json:"difficultyCalibration"`
	CategoryAlignment     float64 `json:"categoryAlignment"`
	ConfidenceLevel       float64 `json:"confidenceLevel"`
	CalibrationVersion    string  `json:"calibrationVersion"`
}

// EvaluationHistory is one row per scored answer. Immutable once written;
// a human score may be added later, but the AI score never changes.
type EvaluationHistory struct {
	ID                 string                                 `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationID       string                                 `json:"evaluation_id" gorm:"not null;uniqueIndex"`
	InterviewID        *string                                `json:"interview_id,omitempty" gorm:"type:uuid;index"`
	QuestionID         *string                                `json:"question_id,omitempty" gorm:"index"`
	CandidateAnswer    string                                 `json:"candidate_answer" gorm:"type:text;not null"`
	AIScore            float64                                `json:"ai_score" gorm:"not null"`
	HumanScore         *float64                               `json:"human_score,omitempty"`
	Category           string                                 `json:"category" gorm:"not null;index"`
	Difficulty         string                                 `json:"difficulty" gorm:"not null;index"`
	ConsistencyMetrics datatypes.JSONType[ConsistencyMetrics] `json:"consistency_metrics"`
	Timestamp          time.Time                              `json:"timestamp" gorm:"autoCreateTime;index"`
	CalibrationVersion string                                 `json:"calibration_version" gorm:"not null;default:'v1.2.3'"`
}

func (EvaluationHistory) TableName() string { return "evaluation_history" }

func (e *EvaluationHistory) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
