package repository

import (
	"errors"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"

	"gorm.io/gorm"
)

type PeriodQuestionRepository struct {
	DB *gorm.DB
}

func NewPeriodQuestionRepository(db *gorm.DB) *PeriodQuestionRepository {
	return &PeriodQuestionRepository{DB: db}
}

func (r *PeriodQuestionRepository) Create(link *model.PeriodQuestion) error {
	return r.DB.Create(link).Error
}

func (r *PeriodQuestionRepository) ListByPeriod(periodID uint) ([]model.PeriodQuestion, error) {
	var links []model.PeriodQuestion
	err := r.DB.Where("period_id = ?", periodID).Order("order_num ASC").Find(&links).Error
	return links, err
}

// FirstByPeriod 回合内 order_num 最小的题目链接，空回合返回 (nil, nil)
func (r *PeriodQuestionRepository) FirstByPeriod(periodID uint) (*model.PeriodQuestion, error) {
	var link model.PeriodQuestion
	err := r.DB.Where("period_id = ?", periodID).Order("order_num ASC").First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// NextByPeriod 回合内 order_num 严格大于 afterOrder 的最小题目链接，没有时返回 (nil, nil)
func (r *PeriodQuestionRepository) NextByPeriod(periodID uint, afterOrder int) (*model.PeriodQuestion, error) {
	var links []model.PeriodQuestion
	err := r.DB.Where("period_id = ? AND order_num > ?", periodID, afterOrder).
		Order("order_num ASC").Limit(2).Find(&links).Error
	if err != nil {
		return nil, err
	}
	if len(links) == 0 {
		return nil, nil
	}
	if len(links) == 2 && links[0].OrderNum == links[1].OrderNum {
		return nil, util.ErrOrderCorrupted
	}
	return &links[0], nil
}

func (r *PeriodQuestionRepository) FindByPeriodAndQuestion(periodID, questionID uint) (*model.PeriodQuestion, error) {
	var link model.PeriodQuestion
	if err := r.DB.Where("period_id = ? AND question_id = ?", periodID, questionID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *PeriodQuestionRepository) MaxOrderByPeriod(periodID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.PeriodQuestion{}).Where("period_id = ?", periodID).
		Select("COALESCE(MAX(order_num), 0)").Scan(&max).Error
	return max, err
}

func (r *PeriodQuestionRepository) UpdateOrderNum(id uint, orderNum int) error {
	return r.DB.Model(&model.PeriodQuestion{}).Where("id = ?", id).
		Update("order_num", orderNum).Error
}
