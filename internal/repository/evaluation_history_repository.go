package repository

import (
	"github.com/lshigami/Meerkats/internal/model"
	"gorm.io/gorm"
)

// HistoryFilter narrows evaluation history listings. Zero values mean no filter.
type HistoryFilter struct {
	Category   string
	Difficulty string
	Limit      int
	Offset     int
}

type EvaluationHistoryRepository interface {
	Create(record *model.EvaluationHistory) error
	FindRecentByBucket(category, difficulty string, limit int) ([]model.EvaluationHistory, error)
	FindByInterviewID(interviewID string) ([]model.EvaluationHistory, error)
	List(filter HistoryFilter) ([]model.EvaluationHistory, int64, error)
	FindAll() ([]model.EvaluationHistory, error)
}

type evaluationHistoryRepository struct {
	db *gorm.DB
}

func NewEvaluationHistoryRepository(db *gorm.DB) EvaluationHistoryRepository {
	return &evaluationHistoryRepository{db: db}
}

func (r *evaluationHistoryRepository) Create(record *model.EvaluationHistory) error {
	return r.db.Create(record).Error
}

// FindRecentByBucket returns the newest rows for one (category, difficulty)
// bucket, newest first. Consistency metrics are computed over this window.
func (r *evaluationHistoryRepository) FindRecentByBucket(category, difficulty string, limit int) ([]model.EvaluationHistory, error) {
	var records []model.EvaluationHistory
	err := r.db.Where("category = ? AND difficulty = ?", category, difficulty).
		Order("timestamp desc").Limit(limit).Find(&records).Error
	return records, err
}

func (r *evaluationHistoryRepository) FindByInterviewID(interviewID string) ([]model.EvaluationHistory, error) {
	var records []model.EvaluationHistory
	err := r.db.Where("interview_id = ?", interviewID).Order("timestamp asc").Find(&records).Error
	return records, err
}

func (r *evaluationHistoryRepository) List(filter HistoryFilter) ([]model.EvaluationHistory, int64, error) {
	query := r.db.Model(&model.EvaluationHistory{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.EvaluationHistory
	err := query.Order("timestamp desc").Limit(filter.Limit).Offset(filter.Offset).Find(&records).Error
	return records, total, err
}

func (r *evaluationHistoryRepository) FindAll() ([]model.EvaluationHistory, error) {
	var records []model.EvaluationHistory
	err := r.db.Order("timestamp desc").Find(&records).Error
	return records, err
}
