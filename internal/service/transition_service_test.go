package service

import (
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func period(id, eventID uint, orderNum int) model.Period {
	return model.Period{BaseModel: model.BaseModel{ID: id}, EventID: eventID, OrderNum: orderNum}
}

func link(id, periodID, questionID uint, orderNum int) model.PeriodQuestion {
	return model.PeriodQuestion{BaseModel: model.BaseModel{ID: id}, PeriodID: periodID, QuestionID: questionID, OrderNum: orderNum}
}

func newTransitionFixture(ctrl *model.QuizControl) (*TransitionService, *stubControlStore, *stubDisplayStore, *stubAnswerStore) {
	controls := &stubControlStore{ctrl: ctrl}
	displays := &stubDisplayStore{}
	answers := &stubAnswerStore{}
	// 回合与题目故意乱序插入，解析必须只看 order_num
	periods := &stubPeriodStore{periods: []model.Period{
		period(5, 1, 2),
		period(3, 1, 1),
	}}
	links := &stubPeriodQuestionStore{links: []model.PeriodQuestion{
		link(102, 3, 20, 2),
		link(101, 3, 10, 1),
		link(201, 5, 30, 1),
	}}

	svc := NewTransitionService(controls, periods, links, displays, answers)
	svc.Now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	return svc, controls, displays, answers
}

func TestTransitionWaitingToFirstQuestion(t *testing.T) {
	svc, controls, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID: 1,
		Screen:  model.ScreenWaiting,
	})

	ctrl, err := svc.Transition(1, model.ScreenQuestion)
	require.NoError(t, err)

	// id 大小与插入顺序都不可靠，第一题由 order_num 决定
	assert.Equal(t, model.ScreenQuestion, ctrl.Screen)
	require.NotNil(t, ctrl.PeriodID)
	require.NotNil(t, ctrl.QuestionID)
	assert.Equal(t, uint(3), *ctrl.PeriodID)
	assert.Equal(t, uint(10), *ctrl.QuestionID)
	assert.Equal(t, 1, ctrl.Version)
	assert.Equal(t, 1, controls.casCalls)

	require.Len(t, displays.created, 1)
	assert.Equal(t, uint(10), displays.created[0].QuestionID)
	assert.Equal(t, uint(3), displays.created[0].PeriodID)
	assert.Equal(t, svc.Now(), displays.created[0].DisplayedAt)
}

func TestTransitionAnswerToNextQuestion(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenAnswer,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})

	ctrl, err := svc.Transition(1, model.ScreenQuestion)
	require.NoError(t, err)
	assert.Equal(t, uint(3), *ctrl.PeriodID)
	assert.Equal(t, uint(20), *ctrl.QuestionID)
}

func TestTransitionNoNextQuestionAtEndOfPeriod(t *testing.T) {
	svc, controls, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenAnswer,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(20), // 回合3的最后一题
	})

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrNoNextQuestion)

	// 解析失败时状态行与展示窗口都不能被碰
	assert.Equal(t, 0, controls.casCalls)
	assert.Empty(t, displays.created)
}

func TestTransitionDuplicateQuestionOrderIsFatal(t *testing.T) {
	svc, controls, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenAnswer,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})
	// 回合内出现重号是数据完整性被破坏，按原样上抛，绝不挑一条继续
	svc.PeriodQuestions.(*stubPeriodQuestionStore).nextErr = util.ErrOrderCorrupted

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrOrderCorrupted)
	assert.Equal(t, 0, controls.casCalls, "corrupted order must abort before any state write")
	assert.Empty(t, displays.created)
}

func TestTransitionDuplicatePeriodOrderIsFatal(t *testing.T) {
	svc, controls, _, _ := newTransitionFixture(&model.QuizControl{
		EventID:  1,
		Screen:   model.ScreenPeriodResult,
		PeriodID: uintPtr(3),
	})
	svc.Periods.(*stubPeriodStore).nextErr = util.ErrOrderCorrupted

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrOrderCorrupted)
	assert.Equal(t, 0, controls.casCalls)
}

func TestTransitionWaitingWithEmptyFirstPeriod(t *testing.T) {
	controls := &stubControlStore{ctrl: &model.QuizControl{EventID: 1, Screen: model.ScreenWaiting}}
	periods := &stubPeriodStore{periods: []model.Period{period(3, 1, 1)}}
	displays := &stubDisplayStore{}
	svc := NewTransitionService(controls, periods, &stubPeriodQuestionStore{}, displays, &stubAnswerStore{})

	// 第一个回合一道题都没有，和没有回合一样按无下一题处理
	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrNoNextQuestion)
	assert.Equal(t, 0, controls.casCalls)
	assert.Empty(t, displays.created)
}

func TestTransitionWaitingWithoutPeriods(t *testing.T) {
	controls := &stubControlStore{ctrl: &model.QuizControl{EventID: 1, Screen: model.ScreenWaiting}}
	svc := NewTransitionService(controls, &stubPeriodStore{}, &stubPeriodQuestionStore{},
		&stubDisplayStore{}, &stubAnswerStore{})

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrNoNextQuestion)
}

func TestTransitionPeriodResultToNextPeriod(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{
		EventID:  1,
		Screen:   model.ScreenPeriodResult,
		PeriodID: uintPtr(3),
	})

	ctrl, err := svc.Transition(1, model.ScreenQuestion)
	require.NoError(t, err)
	assert.Equal(t, uint(5), *ctrl.PeriodID)
	assert.Equal(t, uint(30), *ctrl.QuestionID)
}

func TestTransitionLastPeriodResultHasNoNext(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{
		EventID:  1,
		Screen:   model.ScreenPeriodResult,
		PeriodID: uintPtr(5),
	})

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrNoNextQuestion)

	ctrl, err := svc.Transition(1, model.ScreenFinalResult)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenFinalResult, ctrl.Screen)
	assert.Nil(t, ctrl.PeriodID)
	assert.Nil(t, ctrl.QuestionID)
}

func TestTransitionToAnswerClosesDisplay(t *testing.T) {
	svc, _, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenQuestion,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})
	displayedAt := svc.Now().Add(-30 * time.Second)
	displays.open = &model.QuestionDisplay{QuestionID: 10, PeriodID: 3, DisplayedAt: displayedAt}

	ctrl, err := svc.Transition(1, model.ScreenAnswer)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenAnswer, ctrl.Screen)
	require.NotNil(t, ctrl.ClosedAt)
	require.NotNil(t, displays.open.ClosedAt)
	assert.Equal(t, svc.Now(), *displays.open.ClosedAt)
}

func TestTransitionToAnswerWithoutOpenDisplay(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenQuestion,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})

	_, err := svc.Transition(1, model.ScreenAnswer)
	require.ErrorIs(t, err, util.ErrDisplayNotOpen)
}

func TestTransitionToAnswerWithMultipleOpenDisplays(t *testing.T) {
	svc, _, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenQuestion,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})
	// 同一回合冒出第二条打开的窗口只能是数据被破坏，必须原样暴露
	two := int64(2)
	displays.closeOverride = &two

	_, err := svc.Transition(1, model.ScreenAnswer)
	require.ErrorIs(t, err, util.ErrDisplayStillOpen)
}

func TestTransitionToQuestionBlockedByOpenDisplay(t *testing.T) {
	svc, _, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenAnswer,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})
	displays.open = &model.QuestionDisplay{QuestionID: 10, PeriodID: 3, DisplayedAt: svc.Now()}

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrDisplayStillOpen)
}

func TestTransitionAnswerCheckKeepsWindowOpen(t *testing.T) {
	svc, _, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenQuestion,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	})
	displays.open = &model.QuestionDisplay{QuestionID: 10, PeriodID: 3, DisplayedAt: svc.Now()}

	ctrl, err := svc.Transition(1, model.ScreenAnswerCheck)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenAnswerCheck, ctrl.Screen)
	assert.Nil(t, displays.open.ClosedAt, "answer_check must not close the display window")
}

func TestTransitionPeriodResultKeepsPeriodReference(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenAnswer,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(20),
	})

	ctrl, err := svc.Transition(1, model.ScreenPeriodResult)
	require.NoError(t, err)
	require.NotNil(t, ctrl.PeriodID)
	assert.Equal(t, uint(3), *ctrl.PeriodID)
	assert.Nil(t, ctrl.QuestionID)
	assert.Nil(t, ctrl.ActiveQuestion())
}

func TestTransitionRejectsInvalidScreen(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{EventID: 1, Screen: model.ScreenWaiting})

	_, err := svc.Transition(1, model.Screen("intermission"))
	require.ErrorIs(t, err, util.ErrInvalidScreen)
}

func TestTransitionRejectsIllegalEdge(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{EventID: 1, Screen: model.ScreenWaiting})

	_, err := svc.Transition(1, model.ScreenFinalResult)
	require.ErrorIs(t, err, util.ErrInvalidTransition)
}

func TestTransitionUnknownEvent(t *testing.T) {
	svc, _, _, _ := newTransitionFixture(&model.QuizControl{EventID: 1, Screen: model.ScreenWaiting})

	_, err := svc.Transition(99, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrEventNotFound)
}

func TestTransitionConflictOnLostRace(t *testing.T) {
	svc, controls, displays, _ := newTransitionFixture(&model.QuizControl{
		EventID: 1,
		Screen:  model.ScreenWaiting,
	})
	controls.failCAS = true

	_, err := svc.Transition(1, model.ScreenQuestion)
	require.ErrorIs(t, err, util.ErrTransitionConflict)
	// 输掉竞争的一方不能留下窗口
	assert.Empty(t, displays.created)
}

func TestReset(t *testing.T) {
	svc, controls, displays, answers := newTransitionFixture(&model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenPeriodResult,
		PeriodID:   uintPtr(3),
		Version:    7,
	})

	ctrl, err := svc.Reset(1)
	require.NoError(t, err)
	assert.Equal(t, model.ScreenWaiting, ctrl.Screen)
	assert.Nil(t, ctrl.PeriodID)
	assert.Nil(t, ctrl.QuestionID)
	assert.Equal(t, 8, ctrl.Version)
	assert.Equal(t, []uint{1}, displays.deletedEvents)
	assert.Equal(t, []uint{1}, answers.deletedEvents)
	assert.Equal(t, 1, controls.casCalls)
}

func TestResetConflictLeavesDataUntouched(t *testing.T) {
	svc, controls, displays, answers := newTransitionFixture(&model.QuizControl{
		EventID: 1,
		Screen:  model.ScreenPeriodResult,
	})
	controls.failCAS = true

	_, err := svc.Reset(1)
	require.ErrorIs(t, err, util.ErrTransitionConflict)
	assert.Empty(t, displays.deletedEvents)
	assert.Empty(t, answers.deletedEvents)
}
