package model

// swagger:model Question
type Question struct {
	BaseModel
	EventID  uint     `gorm:"index;type:bigint unsigned" json:"eventId"`
	Content  string   `gorm:"type:text;not null" json:"content"`
	ImageURL string   `gorm:"size:255" json:"imageUrl"`
	Choices  []Choice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// CorrectChoice 返回正解选项，目录校验保证每题恰好一个
func (q *Question) CorrectChoice() *Choice {
	for i := range q.Choices {
		if q.Choices[i].IsCorrect {
			return &q.Choices[i]
		}
	}
	return nil
}

// swagger:model Choice
type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Content    string `gorm:"size:255;not null" json:"content"`
	OrderNum   int    `gorm:"default:0" json:"orderNum"`
	IsCorrect  bool   `gorm:"default:false" json:"-"` // 不下发给参加者
}

func (Choice) TableName() string {
	return "choices"
}
