package service

import (
	"errors"
	"fmt"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/repository"
	"quiz_event_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// CatalogService 活动/回合/题目/选项的目录管理
// 进行引擎只读目录的 id 与顺序，内容的归属和初始序号都在这里
type CatalogService struct {
	Events          *repository.EventRepository
	Periods         *repository.PeriodRepository
	Questions       *repository.QuestionRepository
	PeriodQuestions *repository.PeriodQuestionRepository
	Controls        *repository.QuizControlRepository
}

func NewCatalogService(events *repository.EventRepository, periods *repository.PeriodRepository,
	questions *repository.QuestionRepository, periodQuestions *repository.PeriodQuestionRepository,
	controls *repository.QuizControlRepository) *CatalogService {
	return &CatalogService{
		Events:          events,
		Periods:         periods,
		Questions:       questions,
		PeriodQuestions: periodQuestions,
		Controls:        controls,
	}
}

type EventReq struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	HeldAt      *time.Time `json:"heldAt"`
}

// CreateEvent 创建活动并同时建立其唯一的进行状态行（waiting）
func (s *CatalogService) CreateEvent(creatorID uint, req EventReq) (*model.Event, error) {
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		HeldAt:      req.HeldAt,
		CreatedBy:   creatorID,
	}
	if err := s.Events.Create(event); err != nil {
		return nil, err
	}

	ctrl := &model.QuizControl{
		EventID: event.ID,
		Screen:  model.ScreenWaiting,
	}
	if err := s.Controls.Create(ctrl); err != nil {
		return nil, err
	}

	return event, nil
}

func (s *CatalogService) ListEvents(page, limit int) ([]model.Event, int64, error) {
	return s.Events.List(page, limit)
}

func (s *CatalogService) GetEvent(eventID uint) (*model.Event, []model.Period, error) {
	event, err := s.Events.FindByID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrEventNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	periods, err := s.Periods.ListByEvent(eventID)
	return event, periods, err
}

type PeriodReq struct {
	Name string `json:"name" binding:"required"`
}

// CreatePeriod 新回合排在现有回合之后
func (s *CatalogService) CreatePeriod(eventID uint, req PeriodReq) (*model.Period, error) {
	if _, err := s.Events.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}

	max, err := s.Periods.MaxOrderByEvent(eventID)
	if err != nil {
		return nil, err
	}

	period := &model.Period{
		EventID:  eventID,
		Name:     req.Name,
		OrderNum: max + 1,
	}
	if err := s.Periods.Create(period); err != nil {
		return nil, err
	}
	return period, nil
}

type ChoiceReq struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionReq struct {
	Content  string      `json:"content" binding:"required"`
	ImageURL string      `json:"imageUrl"`
	Choices  []ChoiceReq `json:"choices" binding:"required"`
}

// CreateQuestion 创建题目及选项，恰好一个正解在此兜底校验
func (s *CatalogService) CreateQuestion(eventID uint, req QuestionReq) (*model.Question, error) {
	if _, err := s.Events.FindByID(eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEventNotFound
		}
		return nil, err
	}

	if len(req.Choices) < 2 {
		return nil, errors.New("a question needs at least two choices")
	}
	correct := 0
	for _, c := range req.Choices {
		if c.IsCorrect {
			correct++
		}
	}
	if correct != 1 {
		return nil, fmt.Errorf("a question needs exactly one correct choice, got %d", correct)
	}

	question := &model.Question{
		EventID:  eventID,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	}
	for i, c := range req.Choices {
		question.Choices = append(question.Choices, model.Choice{
			Content:   c.Content,
			OrderNum:  i + 1,
			IsCorrect: c.IsCorrect,
		})
	}

	if err := s.Questions.Create(question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *CatalogService) ListQuestions(eventID uint) ([]model.Question, error) {
	return s.Questions.ListByEvent(eventID)
}

// AttachQuestion 把题目挂到回合的出题序列末尾
func (s *CatalogService) AttachQuestion(periodID, questionID uint) (*model.PeriodQuestion, error) {
	period, err := s.Periods.FindByID(periodID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPeriodNotFound
	}
	if err != nil {
		return nil, err
	}

	question, err := s.Questions.FindByID(questionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	if question.EventID != period.EventID {
		return nil, errors.New("question belongs to a different event")
	}

	max, err := s.PeriodQuestions.MaxOrderByPeriod(periodID)
	if err != nil {
		return nil, err
	}

	link := &model.PeriodQuestion{
		PeriodID:   periodID,
		QuestionID: questionID,
		OrderNum:   max + 1,
	}
	if err := s.PeriodQuestions.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *CatalogService) ListPeriodQuestions(periodID uint) ([]model.PeriodQuestion, error) {
	return s.PeriodQuestions.ListByPeriod(periodID)
}

// ControlView 参加者轮询用的进行状态读模型，正解标记不随选项下发
type ControlView struct {
	Screen      model.Screen    `json:"screen"`
	PeriodID    *uint           `json:"periodId"`
	QuestionID  *uint           `json:"questionId"`
	DisplayedAt *time.Time      `json:"displayedAt"`
	ClosedAt    *time.Time      `json:"closedAt"`
	Question    *model.Question `json:"question,omitempty"`
}

func (s *CatalogService) GetControl(eventID uint) (*ControlView, error) {
	ctrl, err := s.Controls.FindByEventID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	view := &ControlView{
		Screen:      ctrl.Screen,
		PeriodID:    ctrl.PeriodID,
		QuestionID:  ctrl.QuestionID,
		DisplayedAt: ctrl.DisplayedAt,
		ClosedAt:    ctrl.ClosedAt,
	}

	if active := ctrl.ActiveQuestion(); active != nil {
		question, err := s.Questions.FindByID(active.QuestionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d does not exist", util.ErrControlCorrupted, active.QuestionID)
		}
		if err != nil {
			return nil, err
		}
		view.Question = question
	}

	return view, nil
}
