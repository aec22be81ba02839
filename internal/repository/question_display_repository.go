package repository

import (
	"errors"
	"quiz_event_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type QuestionDisplayRepository struct {
	DB *gorm.DB
}

func NewQuestionDisplayRepository(db *gorm.DB) *QuestionDisplayRepository {
	return &QuestionDisplayRepository{DB: db}
}

func (r *QuestionDisplayRepository) Create(display *model.QuestionDisplay) error {
	return r.DB.Create(display).Error
}

// FindOpenByPeriod 返回回合内 closed_at 为空的展示窗口，没有时返回 (nil, nil)
func (r *QuestionDisplayRepository) FindOpenByPeriod(periodID uint) (*model.QuestionDisplay, error) {
	var d model.QuestionDisplay
	err := r.DB.Where("period_id = ? AND closed_at IS NULL", periodID).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CloseOpenByPeriod 关闭回合内打开的窗口，返回实际关闭的行数
func (r *QuestionDisplayRepository) CloseOpenByPeriod(periodID uint, closedAt time.Time) (int64, error) {
	result := r.DB.Model(&model.QuestionDisplay{}).
		Where("period_id = ? AND closed_at IS NULL", periodID).
		Update("closed_at", closedAt)
	return result.RowsAffected, result.Error
}

// DeleteByEvent 重置活动时清空其全部展示记录
func (r *QuestionDisplayRepository) DeleteByEvent(eventID uint) error {
	return r.DB.Where("period_id IN (?)",
		r.DB.Model(&model.Period{}).Select("id").Where("event_id = ?", eventID),
	).Delete(&model.QuestionDisplay{}).Error
}
