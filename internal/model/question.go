package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Question is a static question bank entry. Seeded once, read-only during
// interviews; used as a fallback source when adaptive generation fails.
type Question struct {
	ID             string                       `gorm:"type:uuid;primaryKey" json:"id"`
	Question       string                       `json:"question" gorm:"type:text;not null"`
	Category       string                       `json:"category" gorm:"not null;index"`
	Difficulty     string                       `json:"difficulty" gorm:"not null;index"`
	ExpectedAnswer string                       `json:"expected_answer,omitempty" gorm:"type:text"`
	Keywords       datatypes.JSONType[[]string] `json:"keywords"`
	MaxScore       float64                      `json:"max_score" gorm:"not null;default:10"`
	IsActive       bool                         `json:"is_active" gorm:"not null;default:true"`
	CreatedAt      time.Time                    `json:"created_at"`
	UpdatedAt      time.Time                    `json:"updated_at"`
	DeletedAt      gorm.DeletedAt               `gorm:"index" json:"-"`
}

func (Question) TableName() string { return "question_bank" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}
