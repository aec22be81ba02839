package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allScreens = []Screen{
	ScreenWaiting, ScreenQuestionReading, ScreenQuestion, ScreenAnswerCheck,
	ScreenAnswer, ScreenBreak, ScreenPeriodResult, ScreenFinalResult,
}

func TestScreenValid(t *testing.T) {
	for _, s := range allScreens {
		assert.True(t, s.Valid(), "screen %s should be valid", s)
	}
	assert.False(t, Screen("").Valid())
	assert.False(t, Screen("intermission").Valid())
	assert.False(t, Screen("Question").Valid(), "screen names are case sensitive")
}

// 邻接表的全量校验：列出每个画面的合法后继，其余组合一律拒绝
func TestScreenTransitionMatrix(t *testing.T) {
	allowed := map[Screen][]Screen{
		ScreenWaiting:         {ScreenQuestion},
		ScreenQuestionReading: {ScreenQuestion},
		ScreenQuestion:        {ScreenAnswerCheck, ScreenAnswer},
		ScreenAnswerCheck:     {ScreenAnswer},
		ScreenAnswer:          {ScreenQuestion, ScreenBreak, ScreenPeriodResult},
		ScreenBreak:           {ScreenQuestion},
		ScreenPeriodResult:    {ScreenQuestion, ScreenFinalResult},
		ScreenFinalResult:     {},
	}

	for _, from := range allScreens {
		expected := map[Screen]bool{}
		for _, to := range allowed[from] {
			expected[to] = true
		}
		for _, to := range allScreens {
			got := from.CanTransitionTo(to)
			assert.Equal(t, expected[to], got, "%s -> %s", from, to)
		}
	}
}

func TestScreenFinalResultIsTerminal(t *testing.T) {
	require.Empty(t, ScreenFinalResult.Successors())
}

func TestScreenNoSelfLoops(t *testing.T) {
	for _, s := range allScreens {
		assert.False(t, s.CanTransitionTo(s), "%s should not transition to itself", s)
	}
}

func TestScreenUnknownHasNoSuccessors(t *testing.T) {
	assert.False(t, Screen("bogus").CanTransitionTo(ScreenQuestion))
	assert.Empty(t, Screen("bogus").Successors())
}

func TestScreenSuccessorsIsCopy(t *testing.T) {
	succ := ScreenAnswer.Successors()
	require.Len(t, succ, 3)

	// 改写返回值不能污染邻接表
	succ[0] = ScreenFinalResult
	assert.True(t, ScreenAnswer.CanTransitionTo(ScreenQuestion))
	assert.Equal(t, []Screen{ScreenQuestion, ScreenBreak, ScreenPeriodResult}, ScreenAnswer.Successors())
}

func TestScreenShowsQuestion(t *testing.T) {
	showing := map[Screen]bool{
		ScreenQuestion:        true,
		ScreenQuestionReading: true,
		ScreenAnswerCheck:     true,
		ScreenAnswer:          true,
	}
	for _, s := range allScreens {
		assert.Equal(t, showing[s], s.ShowsQuestion(), "screen %s", s)
	}
}

func TestActiveQuestionGating(t *testing.T) {
	pid, qid := uint(3), uint(10)

	ctrl := &QuizControl{Screen: ScreenQuestion, PeriodID: &pid, QuestionID: &qid}
	active := ctrl.ActiveQuestion()
	require.NotNil(t, active)
	assert.Equal(t, pid, active.PeriodID)
	assert.Equal(t, qid, active.QuestionID)

	// break 期间引用仍保留，但对外不算在出题
	ctrl.Screen = ScreenBreak
	assert.Nil(t, ctrl.ActiveQuestion())

	// 引用不齐全时同样返回 nil
	ctrl.Screen = ScreenQuestion
	ctrl.QuestionID = nil
	assert.Nil(t, ctrl.ActiveQuestion())
}
