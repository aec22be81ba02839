package repository

import (
	"quiz_event_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// Create 依赖 (user_id, question_id) 唯一索引挡住并发重复提交，
// 重复时驱动层错误被翻译为 gorm.ErrDuplicatedKey
func (r *AnswerRepository) Create(answer *model.Answer) error {
	return r.DB.Create(answer).Error
}

func (r *AnswerRepository) FindByUserAndQuestion(userID, questionID uint) (*model.Answer, error) {
	var a model.Answer
	if err := r.DB.Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// AggregateByEvent 按用户聚合整场活动的作答，未排序
func (r *AnswerRepository) AggregateByEvent(eventID uint) ([]model.RankingEntry, error) {
	var entries []model.RankingEntry
	err := r.DB.Model(&model.Answer{}).
		Select(`answers.user_id,
			users.nickname,
			SUM(answers.is_correct) AS correct_count,
			SUM(answers.response_time_ms) AS total_response_time_ms,
			COUNT(*) AS answered_count`).
		Joins("JOIN users ON users.id = answers.user_id").
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.event_id = ?", eventID).
		Group("answers.user_id, users.nickname").
		Scan(&entries).Error
	return entries, err
}

// AggregateByPeriod 按用户聚合单个回合的作答，未排序
func (r *AnswerRepository) AggregateByPeriod(periodID uint) ([]model.RankingEntry, error) {
	var entries []model.RankingEntry
	err := r.DB.Model(&model.Answer{}).
		Select(`answers.user_id,
			users.nickname,
			SUM(answers.is_correct) AS correct_count,
			SUM(answers.response_time_ms) AS total_response_time_ms,
			COUNT(*) AS answered_count`).
		Joins("JOIN users ON users.id = answers.user_id").
		Joins("JOIN period_questions ON period_questions.question_id = answers.question_id").
		Where("period_questions.period_id = ?", periodID).
		Group("answers.user_id, users.nickname").
		Scan(&entries).Error
	return entries, err
}

// DeleteByEvent 重置活动时物理删除作答记录；软删除会继续占用唯一索引，必须 Unscoped
func (r *AnswerRepository) DeleteByEvent(eventID uint) error {
	return r.DB.Unscoped().Where("question_id IN (?)",
		r.DB.Model(&model.Question{}).Select("id").Where("event_id = ?", eventID),
	).Delete(&model.Answer{}).Error
}
