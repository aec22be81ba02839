package repository

import (
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"

	"gorm.io/gorm"
)

type QuizControlRepository struct {
	DB *gorm.DB
}

func NewQuizControlRepository(db *gorm.DB) *QuizControlRepository {
	return &QuizControlRepository{DB: db}
}

func (r *QuizControlRepository) Create(ctrl *model.QuizControl) error {
	return r.DB.Create(ctrl).Error
}

func (r *QuizControlRepository) FindByEventID(eventID uint) (*model.QuizControl, error) {
	var ctrl model.QuizControl
	if err := r.DB.Where("event_id = ?", eventID).First(&ctrl).Error; err != nil {
		return nil, err
	}
	return &ctrl, nil
}

// UpdateCAS 以版本号为条件的整行更新，版本不符时影响行数为0，返回迁移冲突
// 这是进行状态行唯一的写入口，并发迁移由它裁决胜负
func (r *QuizControlRepository) UpdateCAS(ctrl *model.QuizControl, expectedVersion int) error {
	result := r.DB.Model(&model.QuizControl{}).
		Where("id = ? AND version = ?", ctrl.ID, expectedVersion).
		Updates(map[string]interface{}{
			"screen":       ctrl.Screen,
			"period_id":    ctrl.PeriodID,
			"question_id":  ctrl.QuestionID,
			"displayed_at": ctrl.DisplayedAt,
			"closed_at":    ctrl.ClosedAt,
			"version":      expectedVersion + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrTransitionConflict
	}
	ctrl.Version = expectedVersion + 1
	return nil
}
