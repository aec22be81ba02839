package model

import "time"

// QuizControl 每个活动唯一的进行状态行，所有画面迁移都读改写它
// period_id / question_id 在 break、period_result 画面仍保留，供"下一题/下一回合"解析使用；
// 是否对外视为"正在出题"由 ActiveQuestion 按画面判定
type QuizControl struct {
	BaseModel
	EventID     uint       `gorm:"uniqueIndex;type:bigint unsigned" json:"eventId"`
	Screen      Screen     `gorm:"size:20;default:'waiting'" json:"screen"`
	PeriodID    *uint      `gorm:"type:bigint unsigned" json:"periodId"`
	QuestionID  *uint      `gorm:"type:bigint unsigned" json:"questionId"`
	DisplayedAt *time.Time `json:"displayedAt"`
	ClosedAt    *time.Time `json:"closedAt"`
	Version     int        `gorm:"default:0;not null" json:"version"` // 乐观并发控制，条件更新的比较字段
}

func (QuizControl) TableName() string {
	return "quiz_controls"
}

// ActiveQuestion 当前正在展示的题目指针（复合可选值，杜绝半空状态）
type ActiveQuestion struct {
	PeriodID   uint `json:"periodId"`
	QuestionID uint `json:"questionId"`
}

// ActiveQuestion 仅当画面处于展示题目的阶段且两个引用齐全时返回非 nil
func (c *QuizControl) ActiveQuestion() *ActiveQuestion {
	if !c.Screen.ShowsQuestion() {
		return nil
	}
	if c.PeriodID == nil || c.QuestionID == nil {
		return nil
	}
	return &ActiveQuestion{PeriodID: *c.PeriodID, QuestionID: *c.QuestionID}
}
