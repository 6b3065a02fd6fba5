package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalibrationBaseline is an aggregate cache per (category, difficulty)
// bucket, recomputed from evaluation history. Not a source of truth.
type CalibrationBaseline struct {
	ID                 string    `gorm:"type:uuid;primaryKey" json:"id"`
	Category           string    `json:"category" gorm:"not null;index:idx_baseline_bucket,unique"`
	Difficulty         string    `json:"difficulty" gorm:"not null;index:idx_baseline_bucket,unique"`
	AverageAIScore     float64   `json:"average_ai_score" gorm:"not null"`
	AverageHumanScore  *float64  `json:"average_human_score,omitempty"`
	ScoreVariance      float64   `json:"score_variance" gorm:"not null"`
	SampleSize         int       `json:"sample_size" gorm:"not null;default:0"`
	ConfidenceLevel    float64   `json:"confidence_level" gorm:"not null"`
	LastUpdated        time.Time `json:"last_updated" gorm:"autoUpdateTime"`
	CalibrationVersion string    `json:"calibration_version" gorm:"not null;default:'v1.2.3'"`
}

func (c *CalibrationBaseline) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
