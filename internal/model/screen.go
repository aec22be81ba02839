package model

// Screen 表示活动进行中的画面阶段（共8个）
type Screen string

const (
	ScreenWaiting         Screen = "waiting"          // 开场等待
	ScreenQuestionReading Screen = "question_reading" // 读题（不计时）
	ScreenQuestion        Screen = "question"         // 出题，接受作答
	ScreenAnswerCheck     Screen = "answer_check"     // 答题截止确认
	ScreenAnswer          Screen = "answer"           // 公布正解
	ScreenBreak           Screen = "break"            // 中场休息
	ScreenPeriodResult    Screen = "period_result"    // 回合榜单
	ScreenFinalResult     Screen = "final_result"     // 最终榜单（终态）
)

func (s Screen) String() string {
	return string(s)
}

func (s Screen) Valid() bool {
	switch s {
	case ScreenWaiting, ScreenQuestionReading, ScreenQuestion, ScreenAnswerCheck,
		ScreenAnswer, ScreenBreak, ScreenPeriodResult, ScreenFinalResult:
		return true
	}
	return false
}

// screenTransitions 固定的画面迁移邻接表，新增画面时此表与 Successors 必须同步修改
var screenTransitions = map[Screen][]Screen{
	ScreenWaiting:         {ScreenQuestion},
	ScreenQuestionReading: {ScreenQuestion},
	ScreenQuestion:        {ScreenAnswerCheck, ScreenAnswer},
	ScreenAnswerCheck:     {ScreenAnswer},
	ScreenAnswer:          {ScreenQuestion, ScreenBreak, ScreenPeriodResult},
	ScreenBreak:           {ScreenQuestion},
	ScreenPeriodResult:    {ScreenQuestion, ScreenFinalResult},
	ScreenFinalResult:     {},
}

// CanTransitionTo 判断能否从当前画面迁移到目标画面
func (s Screen) CanTransitionTo(target Screen) bool {
	allowed, ok := screenTransitions[s]
	if !ok {
		return false
	}
	for _, next := range allowed {
		if next == target {
			return true
		}
	}
	return false
}

// Successors 返回当前画面的合法后继集合，返回的是副本，邻接表本身不可被外部改动
func (s Screen) Successors() []Screen {
	return append([]Screen(nil), screenTransitions[s]...)
}

// ShowsQuestion 判断该画面是否正在展示某道题目（activeQuestion 仅在这些画面有效）
func (s Screen) ShowsQuestion() bool {
	switch s {
	case ScreenQuestion, ScreenQuestionReading, ScreenAnswerCheck, ScreenAnswer:
		return true
	}
	return false
}
