package repository

import (
	"quiz_event_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Create 题目连同选项一并落库（gorm 关联写入）
func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	if err := r.DB.Preload("Choices", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_num ASC")
	}).First(&q, id).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *QuestionRepository) ListByEvent(eventID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Preload("Choices").Where("event_id = ?", eventID).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindChoiceByID(id uint) (*model.Choice, error) {
	var c model.Choice
	if err := r.DB.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
