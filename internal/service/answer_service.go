package service

import (
	"errors"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type ChoiceStore interface {
	FindChoiceByID(id uint) (*model.Choice, error)
}

type AnswerStore interface {
	Create(answer *model.Answer) error
}

// AnswerService 记录参加者作答：题目一律由服务端从进行状态推导，客户端只送选项
type AnswerService struct {
	Controls QuizControlStore
	Choices  ChoiceStore
	Displays DisplayStore
	Answers  AnswerStore
	Now      func() time.Time
}

func NewAnswerService(controls QuizControlStore, choices ChoiceStore,
	displays DisplayStore, answers AnswerStore) *AnswerService {
	return &AnswerService{
		Controls: controls,
		Choices:  choices,
		Displays: displays,
		Answers:  answers,
		Now:      time.Now,
	}
}

// Submit 提交一次作答
// 去重不靠先查后插，唯一索引才是并发双击/重发下的最终防线
func (s *AnswerService) Submit(userID, eventID, choiceID uint) (*model.Answer, error) {
	ctrl, err := s.Controls.FindByEventID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	active := ctrl.ActiveQuestion()
	if active == nil {
		return nil, util.ErrNoActiveQuestion
	}

	choice, err := s.Choices.FindChoiceByID(choiceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrChoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if choice.QuestionID != active.QuestionID {
		// 客户端展示的题目和场上的题目对不上
		return nil, util.ErrChoiceMismatch
	}

	display, err := s.Displays.FindOpenByPeriod(active.PeriodID)
	if err != nil {
		return nil, err
	}
	if display == nil || display.QuestionID != active.QuestionID {
		// 窗口已关闭或已换题，按过期题处理
		return nil, util.ErrStaleQuestion
	}

	now := s.Now()
	answer := &model.Answer{
		UserID:         userID,
		QuestionID:     active.QuestionID,
		ChoiceID:       choice.ID,
		IsCorrect:      choice.IsCorrect,
		ResponseTimeMs: now.Sub(display.DisplayedAt).Milliseconds(),
		AnsweredAt:     now,
	}

	if err := s.Answers.Create(answer); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrAlreadyAnswered
		}
		return nil, err
	}

	return answer, nil
}
