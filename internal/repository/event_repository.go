package repository

import (
	"quiz_event_backend/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) Create(event *model.Event) error {
	return r.DB.Create(event).Error
}

func (r *EventRepository) Update(event *model.Event) error {
	return r.DB.Save(event).Error
}

func (r *EventRepository) FindByID(id uint) (*model.Event, error) {
	var e model.Event
	if err := r.DB.First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) List(page, limit int) ([]model.Event, int64, error) {
	var events []model.Event
	var total int64

	if err := r.DB.Model(&model.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.DB.Order("created_at DESC").Offset(offset).Limit(limit).Find(&events).Error
	return events, total, err
}
