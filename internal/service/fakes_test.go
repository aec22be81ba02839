package service

import (
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// 内存桩，只实现服务依赖的窄接口，按仓库的约定返回 nil/ErrRecordNotFound

type stubControlStore struct {
	ctrl     *model.QuizControl
	casCalls int
	failCAS  bool
}

func (s *stubControlStore) FindByEventID(eventID uint) (*model.QuizControl, error) {
	if s.ctrl == nil || s.ctrl.EventID != eventID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *s.ctrl
	return &found, nil
}

func (s *stubControlStore) UpdateCAS(ctrl *model.QuizControl, expectedVersion int) error {
	s.casCalls++
	if s.failCAS || expectedVersion != s.ctrl.Version {
		return util.ErrTransitionConflict
	}
	ctrl.Version = expectedVersion + 1
	saved := *ctrl
	s.ctrl = &saved
	return nil
}

type stubPeriodStore struct {
	periods []model.Period
	nextErr error // NextByEvent/FirstByEvent 返回该错误，模拟仓库检出重号等致命问题
}

func (s *stubPeriodStore) FindByID(id uint) (*model.Period, error) {
	for i := range s.periods {
		if s.periods[i].ID == id {
			p := s.periods[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubPeriodStore) FirstByEvent(eventID uint) (*model.Period, error) {
	return s.NextByEvent(eventID, 0)
}

func (s *stubPeriodStore) NextByEvent(eventID uint, afterOrder int) (*model.Period, error) {
	if s.nextErr != nil {
		return nil, s.nextErr
	}
	var best *model.Period
	for i := range s.periods {
		p := s.periods[i]
		if p.EventID != eventID || p.OrderNum <= afterOrder {
			continue
		}
		if best == nil || p.OrderNum < best.OrderNum {
			best = &p
		}
	}
	return best, nil
}

type stubPeriodQuestionStore struct {
	links   []model.PeriodQuestion
	nextErr error // 同 stubPeriodStore.nextErr
}

func (s *stubPeriodQuestionStore) FirstByPeriod(periodID uint) (*model.PeriodQuestion, error) {
	return s.NextByPeriod(periodID, 0)
}

func (s *stubPeriodQuestionStore) NextByPeriod(periodID uint, afterOrder int) (*model.PeriodQuestion, error) {
	if s.nextErr != nil {
		return nil, s.nextErr
	}
	var best *model.PeriodQuestion
	for i := range s.links {
		link := s.links[i]
		if link.PeriodID != periodID || link.OrderNum <= afterOrder {
			continue
		}
		if best == nil || link.OrderNum < best.OrderNum {
			best = &link
		}
	}
	return best, nil
}

func (s *stubPeriodQuestionStore) FindByPeriodAndQuestion(periodID, questionID uint) (*model.PeriodQuestion, error) {
	for i := range s.links {
		if s.links[i].PeriodID == periodID && s.links[i].QuestionID == questionID {
			link := s.links[i]
			return &link, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubDisplayStore struct {
	open          *model.QuestionDisplay
	created       []model.QuestionDisplay
	deletedEvents []uint
	closeOverride *int64 // 设置后 CloseOpenByPeriod 直接返回该值
}

func (s *stubDisplayStore) Create(display *model.QuestionDisplay) error {
	s.created = append(s.created, *display)
	opened := *display
	s.open = &opened
	return nil
}

func (s *stubDisplayStore) FindOpenByPeriod(periodID uint) (*model.QuestionDisplay, error) {
	if s.open == nil || s.open.PeriodID != periodID || s.open.ClosedAt != nil {
		return nil, nil
	}
	found := *s.open
	return &found, nil
}

func (s *stubDisplayStore) CloseOpenByPeriod(periodID uint, closedAt time.Time) (int64, error) {
	if s.closeOverride != nil {
		return *s.closeOverride, nil
	}
	if s.open == nil || s.open.PeriodID != periodID || s.open.ClosedAt != nil {
		return 0, nil
	}
	s.open.ClosedAt = &closedAt
	return 1, nil
}

func (s *stubDisplayStore) DeleteByEvent(eventID uint) error {
	s.deletedEvents = append(s.deletedEvents, eventID)
	s.open = nil
	return nil
}

type stubAnswerStore struct {
	created       []model.Answer
	createErr     error
	deletedEvents []uint
}

func (s *stubAnswerStore) Create(answer *model.Answer) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, *answer)
	return nil
}

func (s *stubAnswerStore) DeleteByEvent(eventID uint) error {
	s.deletedEvents = append(s.deletedEvents, eventID)
	return nil
}

type stubChoiceStore struct {
	choices []model.Choice
}

func (s *stubChoiceStore) FindChoiceByID(id uint) (*model.Choice, error) {
	for i := range s.choices {
		if s.choices[i].ID == id {
			choice := s.choices[i]
			return &choice, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func uintPtr(v uint) *uint { return &v }
