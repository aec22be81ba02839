package repository

import (
	"errors"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"

	"gorm.io/gorm"
)

type PeriodRepository struct {
	DB *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) *PeriodRepository {
	return &PeriodRepository{DB: db}
}

func (r *PeriodRepository) Create(period *model.Period) error {
	return r.DB.Create(period).Error
}

func (r *PeriodRepository) FindByID(id uint) (*model.Period, error) {
	var p model.Period
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PeriodRepository) ListByEvent(eventID uint) ([]model.Period, error) {
	var periods []model.Period
	err := r.DB.Where("event_id = ?", eventID).Order("order_num ASC").Find(&periods).Error
	return periods, err
}

// FirstByEvent 返回活动内 order_num 最小的回合，没有回合时返回 (nil, nil)
func (r *PeriodRepository) FirstByEvent(eventID uint) (*model.Period, error) {
	var p model.Period
	err := r.DB.Where("event_id = ?", eventID).Order("order_num ASC").First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// NextByEvent 返回 order_num 严格大于 afterOrder 的最小回合，没有时返回 (nil, nil)
// 取两行用于探测同序号的脏数据，发现即视为致命的完整性错误
func (r *PeriodRepository) NextByEvent(eventID uint, afterOrder int) (*model.Period, error) {
	var periods []model.Period
	err := r.DB.Where("event_id = ? AND order_num > ?", eventID, afterOrder).
		Order("order_num ASC").Limit(2).Find(&periods).Error
	if err != nil {
		return nil, err
	}
	if len(periods) == 0 {
		return nil, nil
	}
	if len(periods) == 2 && periods[0].OrderNum == periods[1].OrderNum {
		return nil, util.ErrOrderCorrupted
	}
	return &periods[0], nil
}

func (r *PeriodRepository) MaxOrderByEvent(eventID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.Period{}).Where("event_id = ?", eventID).
		Select("COALESCE(MAX(order_num), 0)").Scan(&max).Error
	return max, err
}

func (r *PeriodRepository) UpdateOrderNum(id uint, orderNum int) error {
	return r.DB.Model(&model.Period{}).Where("id = ?", id).
		Update("order_num", orderNum).Error
}
