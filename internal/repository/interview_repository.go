package repository

import (
	"github.com/lshigami/Meerkats/internal/model"
	"gorm.io/gorm"
)

type InterviewRepository interface {
	Create(interview *model.Interview) error
	FindByID(id string) (*model.Interview, error)
	Update(interview *model.Interview) error
	FindAll() ([]model.Interview, error)
	FindByStatus(status string) ([]model.Interview, error)
}

type interviewRepository struct {
	db *gorm.DB
}

func NewInterviewRepository(db *gorm.DB) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) Create(interview *model.Interview) error {
	return r.db.Create(interview).Error
}

func (r *interviewRepository) FindByID(id string) (*model.Interview, error) {
	var interview model.Interview
	if err := r.db.First(&interview, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &interview, nil
}

// Update persists all fields, including the JSON question/response columns.
func (r *interviewRepository) Update(interview *model.Interview) error {
	return r.db.Save(interview).Error
}

func (r *interviewRepository) FindAll() ([]model.Interview, error) {
	var interviews []model.Interview
	if err := r.db.Order("started_at desc").Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}

func (r *interviewRepository) FindByStatus(status string) ([]model.Interview, error) {
	var interviews []model.Interview
	if err := r.db.Where("status = ?", status).Order("started_at desc").Find(&interviews).Error; err != nil {
		return nil, err
	}
	return interviews, nil
}
