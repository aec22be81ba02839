package model

import "time"

// QuestionDisplay 一次出题的展示窗口 [displayed_at, closed_at)
// 作答耗时一律以该窗口为准；任一回合同一时刻最多一条 closed_at 为空的记录
type QuestionDisplay struct {
	BaseModel
	QuestionID  uint       `gorm:"index;type:bigint unsigned" json:"questionId"`
	PeriodID    uint       `gorm:"index;type:bigint unsigned" json:"periodId"`
	DisplayedAt time.Time  `gorm:"not null" json:"displayedAt"`
	ClosedAt    *time.Time `json:"closedAt"`
}

func (QuestionDisplay) TableName() string {
	return "question_displays"
}
