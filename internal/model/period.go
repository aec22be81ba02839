package model

// Period 一个活动内按 order_num 排序的出题回合
// (event_id, order_num) 唯一，重排时依赖该约束防止兄弟节点临时重号
type Period struct {
	BaseModel
	EventID  uint   `gorm:"uniqueIndex:idx_period_event_order;type:bigint unsigned" json:"eventId"`
	Name     string `gorm:"size:100;not null" json:"name"`
	OrderNum int    `gorm:"uniqueIndex:idx_period_event_order;not null" json:"orderNum"`
	Status   string `gorm:"size:20;default:'pending'" json:"status"`
}

func (Period) TableName() string {
	return "periods"
}
