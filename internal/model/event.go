package model

import "time"

type EventStatus string

const (
	EventDraft    EventStatus = "draft"
	EventOpen     EventStatus = "open"
	EventFinished EventStatus = "finished"
)

// swagger:model Event
type Event struct {
	BaseModel
	Title       string      `gorm:"size:200;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Status      EventStatus `gorm:"type:enum('draft','open','finished');default:'draft'" json:"status"`
	HeldAt      *time.Time  `json:"heldAt,omitempty"`
	CreatedBy   uint        `gorm:"index;type:bigint unsigned" json:"createdBy"`
}

func (Event) TableName() string {
	return "events"
}
