package model

// PeriodQuestion 回合与题目的关联，决定回合内出题顺序
// (period_id, order_num) 唯一；"下一题"的解析只依赖该顺序
type PeriodQuestion struct {
	BaseModel
	PeriodID   uint `gorm:"uniqueIndex:idx_pq_period_order;type:bigint unsigned" json:"periodId"`
	QuestionID uint `gorm:"index;type:bigint unsigned" json:"questionId"`
	OrderNum   int  `gorm:"uniqueIndex:idx_pq_period_order;not null" json:"orderNum"`
}

func (PeriodQuestion) TableName() string {
	return "period_questions"
}
