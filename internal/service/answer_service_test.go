package service

import (
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAnswerFixture() (*AnswerService, *stubControlStore, *stubDisplayStore, *stubAnswerStore) {
	controls := &stubControlStore{ctrl: &model.QuizControl{
		EventID:    1,
		Screen:     model.ScreenQuestion,
		PeriodID:   uintPtr(3),
		QuestionID: uintPtr(10),
	}}
	choices := &stubChoiceStore{choices: []model.Choice{
		{BaseModel: model.BaseModel{ID: 100}, QuestionID: 10, IsCorrect: true},
		{BaseModel: model.BaseModel{ID: 101}, QuestionID: 10, IsCorrect: false},
		{BaseModel: model.BaseModel{ID: 200}, QuestionID: 20, IsCorrect: true},
	}}
	displayedAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	displays := &stubDisplayStore{open: &model.QuestionDisplay{
		QuestionID:  10,
		PeriodID:    3,
		DisplayedAt: displayedAt,
	}}
	answers := &stubAnswerStore{}

	svc := NewAnswerService(controls, choices, displays, answers)
	svc.Now = func() time.Time { return displayedAt.Add(1234 * time.Millisecond) }
	return svc, controls, displays, answers
}

func TestSubmitAnswer(t *testing.T) {
	svc, _, _, answers := newAnswerFixture()

	answer, err := svc.Submit(7, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, uint(7), answer.UserID)
	assert.Equal(t, uint(10), answer.QuestionID)
	assert.Equal(t, uint(100), answer.ChoiceID)
	assert.True(t, answer.IsCorrect)
	// 耗时从展示窗口打开算起，与客户端时钟无关
	assert.Equal(t, int64(1234), answer.ResponseTimeMs)
	require.Len(t, answers.created, 1)
}

func TestSubmitWrongChoice(t *testing.T) {
	svc, _, _, _ := newAnswerFixture()

	answer, err := svc.Submit(7, 1, 101)
	require.NoError(t, err)
	assert.False(t, answer.IsCorrect)
}

func TestSubmitDuplicateAnswer(t *testing.T) {
	svc, _, _, answers := newAnswerFixture()
	answers.createErr = gorm.ErrDuplicatedKey

	_, err := svc.Submit(7, 1, 100)
	require.ErrorIs(t, err, util.ErrAlreadyAnswered)
}

func TestSubmitOutsideQuestionScreens(t *testing.T) {
	svc, controls, _, _ := newAnswerFixture()

	for _, screen := range []model.Screen{
		model.ScreenWaiting, model.ScreenBreak, model.ScreenPeriodResult, model.ScreenFinalResult,
	} {
		controls.ctrl.Screen = screen
		_, err := svc.Submit(7, 1, 100)
		require.ErrorIs(t, err, util.ErrNoActiveQuestion, "screen %s", screen)
	}
}

func TestSubmitDuringAnswerCheck(t *testing.T) {
	// answer_check 阶段窗口尚未关闭，迟到的提交仍被接受
	svc, controls, _, _ := newAnswerFixture()
	controls.ctrl.Screen = model.ScreenAnswerCheck

	answer, err := svc.Submit(7, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1234), answer.ResponseTimeMs)
}

func TestSubmitAfterWindowClosed(t *testing.T) {
	svc, _, displays, _ := newAnswerFixture()
	closedAt := displays.open.DisplayedAt.Add(time.Second)
	displays.open.ClosedAt = &closedAt

	_, err := svc.Submit(7, 1, 100)
	require.ErrorIs(t, err, util.ErrStaleQuestion)
}

func TestSubmitAgainstSwappedQuestion(t *testing.T) {
	// 窗口里已经换到别的题，按过期题拒绝
	svc, _, displays, _ := newAnswerFixture()
	displays.open.QuestionID = 20

	_, err := svc.Submit(7, 1, 100)
	require.ErrorIs(t, err, util.ErrStaleQuestion)
}

func TestSubmitChoiceFromAnotherQuestion(t *testing.T) {
	svc, _, _, _ := newAnswerFixture()

	_, err := svc.Submit(7, 1, 200)
	require.ErrorIs(t, err, util.ErrChoiceMismatch)
}

func TestSubmitUnknownChoice(t *testing.T) {
	svc, _, _, _ := newAnswerFixture()

	_, err := svc.Submit(7, 1, 999)
	require.ErrorIs(t, err, util.ErrChoiceNotFound)
}

func TestSubmitUnknownEvent(t *testing.T) {
	svc, _, _, _ := newAnswerFixture()

	_, err := svc.Submit(7, 99, 100)
	require.ErrorIs(t, err, util.ErrEventNotFound)
}
