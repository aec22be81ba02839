package model

import "time"

// Answer 参加者对一道题的作答，一人一题只记一次
// (user_id, question_id) 的唯一索引是防止并发重复提交的最终防线，应用层校验只是提前失败
type Answer struct {
	BaseModel
	UserID         uint      `gorm:"uniqueIndex:idx_answer_user_question;type:bigint unsigned" json:"userId"`
	QuestionID     uint      `gorm:"uniqueIndex:idx_answer_user_question;type:bigint unsigned" json:"questionId"`
	ChoiceID       uint      `gorm:"type:bigint unsigned;not null" json:"choiceId"`
	IsCorrect      bool      `gorm:"not null" json:"isCorrect"`
	ResponseTimeMs int64     `gorm:"not null" json:"responseTimeMs"`
	AnsweredAt     time.Time `gorm:"not null" json:"answeredAt"`
}

func (Answer) TableName() string {
	return "answers"
}
