package service

import (
	"errors"
	"fmt"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

// 状态机只依赖这几个窄接口，gorm 仓库和单元测试的内存桩都能满足
type QuizControlStore interface {
	FindByEventID(eventID uint) (*model.QuizControl, error)
	UpdateCAS(ctrl *model.QuizControl, expectedVersion int) error
}

type PeriodStore interface {
	FindByID(id uint) (*model.Period, error)
	FirstByEvent(eventID uint) (*model.Period, error)
	NextByEvent(eventID uint, afterOrder int) (*model.Period, error)
}

type PeriodQuestionStore interface {
	FirstByPeriod(periodID uint) (*model.PeriodQuestion, error)
	NextByPeriod(periodID uint, afterOrder int) (*model.PeriodQuestion, error)
	FindByPeriodAndQuestion(periodID, questionID uint) (*model.PeriodQuestion, error)
}

type DisplayStore interface {
	Create(display *model.QuestionDisplay) error
	FindOpenByPeriod(periodID uint) (*model.QuestionDisplay, error)
	CloseOpenByPeriod(periodID uint, closedAt time.Time) (int64, error)
	DeleteByEvent(eventID uint) error
}

type AnswerResetStore interface {
	DeleteByEvent(eventID uint) error
}

// TransitionService 活动进行状态机：校验画面迁移、解析下一题、记录展示窗口
type TransitionService struct {
	Controls        QuizControlStore
	Periods         PeriodStore
	PeriodQuestions PeriodQuestionStore
	Displays        DisplayStore
	Answers         AnswerResetStore
	Now             func() time.Time
}

func NewTransitionService(controls QuizControlStore, periods PeriodStore,
	periodQuestions PeriodQuestionStore, displays DisplayStore, answers AnswerResetStore) *TransitionService {
	return &TransitionService{
		Controls:        controls,
		Periods:         periods,
		PeriodQuestions: periodQuestions,
		Displays:        displays,
		Answers:         answers,
		Now:             time.Now,
	}
}

// Transition 执行一次画面迁移，返回更新后的进行状态
// 状态行的写入带版本条件，输掉并发竞争时返回 ErrTransitionConflict，调用方重取状态后重试
func (s *TransitionService) Transition(eventID uint, requested model.Screen) (*model.QuizControl, error) {
	if !requested.Valid() {
		return nil, fmt.Errorf("%w: %q", util.ErrInvalidScreen, requested)
	}

	ctrl, err := s.Controls.FindByEventID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	if !ctrl.Screen.CanTransitionTo(requested) {
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, ctrl.Screen, requested)
	}

	version := ctrl.Version
	now := s.Now()

	switch requested {
	case model.ScreenQuestion:
		target, err := s.resolveNextQuestion(ctrl)
		if err != nil {
			return nil, err
		}
		// 回合内同一时刻最多一个打开的窗口，发现未关闭的窗口即停，不能自行收拾
		open, err := s.Displays.FindOpenByPeriod(target.PeriodID)
		if err != nil {
			return nil, err
		}
		if open != nil {
			return nil, util.ErrDisplayStillOpen
		}

		ctrl.Screen = requested
		ctrl.PeriodID = &target.PeriodID
		ctrl.QuestionID = &target.QuestionID
		ctrl.DisplayedAt = &now
		ctrl.ClosedAt = nil
		if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
			return nil, err
		}
		// 先赢下 CAS 再开窗，输家不会留下多余的窗口
		if err := s.Displays.Create(&model.QuestionDisplay{
			QuestionID:  target.QuestionID,
			PeriodID:    target.PeriodID,
			DisplayedAt: now,
		}); err != nil {
			return nil, err
		}

	case model.ScreenAnswerCheck:
		// 窗口保持打开，截止前已发出的迟到提交仍按原窗口计时
		ctrl.Screen = requested
		if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
			return nil, err
		}

	case model.ScreenAnswer:
		if ctrl.PeriodID == nil || ctrl.QuestionID == nil {
			return nil, util.ErrControlCorrupted
		}
		ctrl.Screen = requested
		ctrl.ClosedAt = &now
		if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
			return nil, err
		}
		closed, err := s.Displays.CloseOpenByPeriod(*ctrl.PeriodID, now)
		if err != nil {
			return nil, err
		}
		if closed == 0 {
			return nil, util.ErrDisplayNotOpen
		}
		if closed > 1 {
			return nil, util.ErrDisplayStillOpen
		}

	case model.ScreenBreak:
		// break 之后要回到"当前题的下一题"，两个引用都保留
		ctrl.Screen = requested
		if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
			return nil, err
		}

	case model.ScreenPeriodResult:
		// 保留回合引用供"下一回合"解析，题目指针清空
		ctrl.Screen = requested
		ctrl.QuestionID = nil
		ctrl.DisplayedAt = nil
		ctrl.ClosedAt = nil
		if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
			return nil, err
		}

	case model.ScreenFinalResult:
		ctrl.Screen = requested
		ctrl.PeriodID = nil
		ctrl.QuestionID = nil
		ctrl.DisplayedAt = nil
		ctrl.ClosedAt = nil
		if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
			return nil, err
		}

	default:
		// waiting / question_reading 没有入边，邻接表已经挡住
		return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, ctrl.Screen, requested)
	}

	return ctrl, nil
}

// resolveNextQuestion 按当前画面解析下一个 (回合, 题目)
// 没有下一题时返回 ErrNoNextQuestion，由操作员走 period_result / final_result，不自动跨回合
func (s *TransitionService) resolveNextQuestion(ctrl *model.QuizControl) (*model.ActiveQuestion, error) {
	switch ctrl.Screen {
	case model.ScreenWaiting:
		period, err := s.Periods.FirstByEvent(ctrl.EventID)
		if err != nil {
			return nil, err
		}
		if period == nil {
			return nil, util.ErrNoNextQuestion
		}
		link, err := s.PeriodQuestions.FirstByPeriod(period.ID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			return nil, util.ErrNoNextQuestion
		}
		return &model.ActiveQuestion{PeriodID: period.ID, QuestionID: link.QuestionID}, nil

	case model.ScreenQuestionReading, model.ScreenAnswer, model.ScreenBreak:
		if ctrl.PeriodID == nil || ctrl.QuestionID == nil {
			return nil, util.ErrControlCorrupted
		}
		current, err := s.PeriodQuestions.FindByPeriodAndQuestion(*ctrl.PeriodID, *ctrl.QuestionID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question %d is not linked to period %d",
				util.ErrControlCorrupted, *ctrl.QuestionID, *ctrl.PeriodID)
		}
		if err != nil {
			return nil, err
		}
		next, err := s.PeriodQuestions.NextByPeriod(*ctrl.PeriodID, current.OrderNum)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, util.ErrNoNextQuestion
		}
		return &model.ActiveQuestion{PeriodID: *ctrl.PeriodID, QuestionID: next.QuestionID}, nil

	case model.ScreenPeriodResult:
		if ctrl.PeriodID == nil {
			return nil, util.ErrControlCorrupted
		}
		current, err := s.Periods.FindByID(*ctrl.PeriodID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: period %d does not exist", util.ErrControlCorrupted, *ctrl.PeriodID)
		}
		if err != nil {
			return nil, err
		}
		next, err := s.Periods.NextByEvent(ctrl.EventID, current.OrderNum)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, util.ErrNoNextQuestion
		}
		link, err := s.PeriodQuestions.FirstByPeriod(next.ID)
		if err != nil {
			return nil, err
		}
		if link == nil {
			// 空回合同样是合法的终点，由操作员决定收尾
			return nil, util.ErrNoNextQuestion
		}
		return &model.ActiveQuestion{PeriodID: next.ID, QuestionID: link.QuestionID}, nil
	}

	return nil, fmt.Errorf("%w: %s -> %s", util.ErrInvalidTransition, ctrl.Screen, model.ScreenQuestion)
}

// Reset 把活动拉回开场等待：清空进行状态、删除展示窗口与作答记录
// 先以 CAS 清状态，竞争失败时不碰任何数据
func (s *TransitionService) Reset(eventID uint) (*model.QuizControl, error) {
	ctrl, err := s.Controls.FindByEventID(eventID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	version := ctrl.Version
	ctrl.Screen = model.ScreenWaiting
	ctrl.PeriodID = nil
	ctrl.QuestionID = nil
	ctrl.DisplayedAt = nil
	ctrl.ClosedAt = nil
	if err := s.Controls.UpdateCAS(ctrl, version); err != nil {
		return nil, err
	}

	if err := s.Displays.DeleteByEvent(eventID); err != nil {
		return nil, err
	}
	if err := s.Answers.DeleteByEvent(eventID); err != nil {
		return nil, err
	}

	return ctrl, nil
}
