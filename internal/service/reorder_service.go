package service

import (
	"fmt"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/util"
)

type PeriodOrderStore interface {
	ListByEvent(eventID uint) ([]model.Period, error)
	UpdateOrderNum(id uint, orderNum int) error
}

type PeriodQuestionOrderStore interface {
	ListByPeriod(periodID uint) ([]model.PeriodQuestion, error)
	UpdateOrderNum(id uint, orderNum int) error
}

// ReorderService 在 (scope, order_num) 唯一约束下安全地重排兄弟节点
//
// 两阶段写入：先把所有成员迁到互不冲突的负数占位 -(目标序号+1)，
// 把正数区间整体腾空，再写入最终序号。多一轮写换来任意时刻都不违反唯一约束。
// 两阶段之间失败会留下负数序号——这是可检测、可由操作员恢复的状态，
// 重试必须携带完整目标排列从第一阶段重来，不能从中间续跑。
type ReorderService struct {
	Periods         PeriodOrderStore
	PeriodQuestions PeriodQuestionOrderStore
}

func NewReorderService(periods PeriodOrderStore, periodQuestions PeriodQuestionOrderStore) *ReorderService {
	return &ReorderService{Periods: periods, PeriodQuestions: periodQuestions}
}

// ReorderPeriods 按给定顺序重排活动内的回合，orderedIDs 必须恰好是现有回合的一个排列
func (s *ReorderService) ReorderPeriods(eventID uint, orderedIDs []uint) error {
	existing, err := s.Periods.ListByEvent(eventID)
	if err != nil {
		return err
	}

	existingIDs := make([]uint, len(existing))
	for i, p := range existing {
		existingIDs[i] = p.ID
	}
	if err := checkPermutation(existingIDs, orderedIDs); err != nil {
		return err
	}

	// 第一阶段：负数占位
	for i, id := range orderedIDs {
		if err := s.Periods.UpdateOrderNum(id, -(i + 2)); err != nil {
			return fmt.Errorf("reorder phase 1 failed at period %d: %w", id, err)
		}
	}
	// 第二阶段：最终序号
	for i, id := range orderedIDs {
		if err := s.Periods.UpdateOrderNum(id, i+1); err != nil {
			return fmt.Errorf("reorder phase 2 failed at period %d, negative placeholders remain: %w", id, err)
		}
	}
	return nil
}

// ReorderQuestions 按给定题目顺序重排回合内的出题序列
func (s *ReorderService) ReorderQuestions(periodID uint, orderedQuestionIDs []uint) error {
	links, err := s.PeriodQuestions.ListByPeriod(periodID)
	if err != nil {
		return err
	}

	linkByQuestion := make(map[uint]uint, len(links))
	existingIDs := make([]uint, len(links))
	for i, link := range links {
		linkByQuestion[link.QuestionID] = link.ID
		existingIDs[i] = link.QuestionID
	}
	if err := checkPermutation(existingIDs, orderedQuestionIDs); err != nil {
		return err
	}

	for i, questionID := range orderedQuestionIDs {
		if err := s.PeriodQuestions.UpdateOrderNum(linkByQuestion[questionID], -(i + 2)); err != nil {
			return fmt.Errorf("reorder phase 1 failed at question %d: %w", questionID, err)
		}
	}
	for i, questionID := range orderedQuestionIDs {
		if err := s.PeriodQuestions.UpdateOrderNum(linkByQuestion[questionID], i+1); err != nil {
			return fmt.Errorf("reorder phase 2 failed at question %d, negative placeholders remain: %w", questionID, err)
		}
	}
	return nil
}

// checkPermutation 校验提交的顺序与现存成员是同一个集合，无缺失、无多余、无重复
func checkPermutation(existing, submitted []uint) error {
	if len(existing) != len(submitted) {
		return fmt.Errorf("%w: got %d ids, expected %d", util.ErrInvalidPermutation, len(submitted), len(existing))
	}
	set := make(map[uint]bool, len(existing))
	for _, id := range existing {
		set[id] = true
	}
	seen := make(map[uint]bool, len(submitted))
	for _, id := range submitted {
		if !set[id] {
			return fmt.Errorf("%w: id %d is not a member", util.ErrInvalidPermutation, id)
		}
		if seen[id] {
			return fmt.Errorf("%w: id %d appears twice", util.ErrInvalidPermutation, id)
		}
		seen[id] = true
	}
	return nil
}
