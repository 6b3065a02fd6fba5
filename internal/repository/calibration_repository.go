package repository

import (
	"errors"

	"github.com/lshigami/Meerkats/internal/model"
	"gorm.io/gorm"
)

type CalibrationRepository interface {
	FindByBucket(category, difficulty string) (*model.CalibrationBaseline, error)
	Upsert(baseline *model.CalibrationBaseline) error
}

type calibrationRepository struct {
	db *gorm.DB
}

func NewCalibrationRepository(db *gorm.DB) CalibrationRepository {
	return &calibrationRepository{db: db}
}

// FindByBucket returns (nil, nil) when the bucket has no baseline yet.
func (r *calibrationRepository) FindByBucket(category, difficulty string) (*model.CalibrationBaseline, error) {
	var baseline model.CalibrationBaseline
	err := r.db.Where("category = ? AND difficulty = ?", category, difficulty).First(&baseline).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &baseline, nil
}

func (r *calibrationRepository) Upsert(baseline *model.CalibrationBaseline) error {
	existing, err := r.FindByBucket(baseline.Category, baseline.Difficulty)
	if err != nil {
		return err
	}
	if existing != nil {
		baseline.ID = existing.ID
	}
	return r.db.Save(baseline).Error
}
