package repository

import (
	"github.com/lshigami/Meerkats/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id string) (*model.Question, error)
	FindRandomActive(limit int) ([]model.Question, error)
	FindRandomByCategory(category string, limit int) ([]model.Question, error)
	FindRandomExcludingCategories(categories []string, limit int) ([]model.Question, error)
	CountActive() (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindRandomActive(limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("is_active = ?", true).Order("RANDOM()").Limit(limit).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) FindRandomByCategory(category string, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.db.Where("is_active = ? AND category = ?", true, category).
		Order("RANDOM()").Limit(limit).Find(&questions).Error
	return questions, err
}

// FindRandomExcludingCategories is the fallback path for adaptive generation:
// pick a bank question from a category the interview has not covered yet.
func (r *questionRepository) FindRandomExcludingCategories(categories []string, limit int) ([]model.Question, error) {
	var questions []model.Question
	query := r.db.Where("is_active = ?", true)
	if len(categories) > 0 {
		query = query.Where("category NOT IN ?", categories)
	}
	err := query.Order("RANDOM()").Limit(limit).Find(&questions).Error
	return questions, err
}

func (r *questionRepository) CountActive() (int64, error) {
	var count int64
	err := r.db.Model(&model.Question{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}
