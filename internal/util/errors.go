package util

import "errors"

// 校验类错误：直接返回给调用方，不重试
var (
	ErrInvalidScreen      = errors.New("unknown screen")
	ErrInvalidTransition  = errors.New("illegal screen transition")
	ErrChoiceMismatch     = errors.New("choice does not belong to the active question")
	ErrInvalidPermutation = errors.New("permutation does not match existing siblings")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
)

// 冲突类错误：调用方应重新拉取状态后重试，不必告警
var (
	ErrTransitionConflict = errors.New("quiz control changed concurrently")
	ErrAlreadyAnswered    = errors.New("already answered")
	ErrNoActiveQuestion   = errors.New("no question is currently open for answers")
	ErrStaleQuestion      = errors.New("question is no longer accepting answers")
	ErrNoNextQuestion     = errors.New("no further question in this scope")
)

// 数据完整性错误：目录数据被破坏，记录日志并向操作员暴露，绝不自动修补
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrPeriodNotFound   = errors.New("period not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrChoiceNotFound   = errors.New("choice not found")
	ErrControlCorrupted = errors.New("quiz control references are corrupted")
	ErrDisplayNotOpen   = errors.New("no open question display for this period")
	ErrDisplayStillOpen = errors.New("a question display is already open for this period")
	ErrOrderCorrupted   = errors.New("duplicate order_num within scope")
)
