package service

import (
	"context"
	"encoding/json"
	"fmt"
	"quiz_event_backend/internal/model"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	liveRankingLimit  = 10 // 进行中榜单条数
	finalRankingLimit = 20 // 最终榜单条数
)

type RankingStore interface {
	AggregateByEvent(eventID uint) ([]model.RankingEntry, error)
	AggregateByPeriod(periodID uint) ([]model.RankingEntry, error)
}

type RankingPeriodStore interface {
	ListByEvent(eventID uint) ([]model.Period, error)
}

// RankingService 把作答记录聚合成回合/全场榜单
// 榜单查询与作答写入并发执行，轻微滞后可接受，因此套一层短 TTL 的 redis 缓存
type RankingService struct {
	Answers  RankingStore
	Periods  RankingPeriodStore
	Redis    *redis.Client
	CacheTTL time.Duration
}

func NewRankingService(answers RankingStore, periods RankingPeriodStore,
	rdb *redis.Client, cacheTTL time.Duration) *RankingService {
	return &RankingService{
		Answers:  answers,
		Periods:  periods,
		Redis:    rdb,
		CacheTTL: cacheTTL,
	}
}

type RankingSummary struct {
	EventRanking  []model.RankingEntry `json:"eventRanking"`
	PeriodRanking []model.RankingEntry `json:"periodRanking,omitempty"`
	MyEventEntry  *model.RankingEntry  `json:"myEventEntry,omitempty"`
	MyPeriodEntry *model.RankingEntry  `json:"myPeriodEntry,omitempty"`
}

type FinalSummary struct {
	EventRanking []model.RankingEntry   `json:"eventRanking"`
	Champions    []model.PeriodChampion `json:"champions"`
	MyEntry      *model.RankingEntry    `json:"myEntry,omitempty"`
}

// GetRankings 返回进行中的榜单（各取前10），请求者本人的名次从完整序列解析，
// 榜外的参加者也能看到自己的真实排名
func (s *RankingService) GetRankings(eventID uint, periodID *uint, userID uint) (*RankingSummary, error) {
	eventEntries, err := s.eventStandings(eventID)
	if err != nil {
		return nil, err
	}

	summary := &RankingSummary{
		EventRanking: capEntries(eventEntries, liveRankingLimit),
		MyEventEntry: findEntry(eventEntries, userID),
	}

	if periodID != nil {
		periodEntries, err := s.periodStandings(*periodID)
		if err != nil {
			return nil, err
		}
		summary.PeriodRanking = capEntries(periodEntries, liveRankingLimit)
		summary.MyPeriodEntry = findEntry(periodEntries, userID)
	}

	return summary, nil
}

// GetFinalResults 最终榜单：全场前20，外加各回合的第一名
func (s *RankingService) GetFinalResults(eventID uint, userID uint) (*FinalSummary, error) {
	eventEntries, err := s.eventStandings(eventID)
	if err != nil {
		return nil, err
	}

	summary := &FinalSummary{
		EventRanking: capEntries(eventEntries, finalRankingLimit),
		MyEntry:      findEntry(eventEntries, userID),
		Champions:    []model.PeriodChampion{},
	}

	periods, err := s.Periods.ListByEvent(eventID)
	if err != nil {
		return nil, err
	}
	for _, period := range periods {
		entries, err := s.periodStandings(period.ID)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			continue
		}
		summary.Champions = append(summary.Champions, model.PeriodChampion{
			PeriodID:   period.ID,
			PeriodName: period.Name,
			Entry:      entries[0],
		})
	}

	return summary, nil
}

func (s *RankingService) eventStandings(eventID uint) ([]model.RankingEntry, error) {
	key := fmt.Sprintf("quiz:ranking:event:%d", eventID)
	if cached := s.fromCache(key); cached != nil {
		return cached, nil
	}

	entries, err := s.Answers.AggregateByEvent(eventID)
	if err != nil {
		return nil, err
	}
	sortAndRank(entries)
	s.toCache(key, entries)
	return entries, nil
}

func (s *RankingService) periodStandings(periodID uint) ([]model.RankingEntry, error) {
	key := fmt.Sprintf("quiz:ranking:period:%d", periodID)
	if cached := s.fromCache(key); cached != nil {
		return cached, nil
	}

	entries, err := s.Answers.AggregateByPeriod(periodID)
	if err != nil {
		return nil, err
	}
	sortAndRank(entries)
	s.toCache(key, entries)
	return entries, nil
}

// sortAndRank 排序并写入名次：正解数降序、总耗时升序、用户ID升序
// 第三键保证完全同分同速时名次在多次查询间稳定
func sortAndRank(entries []model.RankingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CorrectCount != entries[j].CorrectCount {
			return entries[i].CorrectCount > entries[j].CorrectCount
		}
		if entries[i].TotalResponseTimeMs != entries[j].TotalResponseTimeMs {
			return entries[i].TotalResponseTimeMs < entries[j].TotalResponseTimeMs
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}

func capEntries(entries []model.RankingEntry, limit int) []model.RankingEntry {
	if len(entries) > limit {
		return entries[:limit]
	}
	return entries
}

func findEntry(entries []model.RankingEntry, userID uint) *model.RankingEntry {
	for i := range entries {
		if entries[i].UserID == userID {
			entry := entries[i]
			return &entry
		}
	}
	return nil
}

func (s *RankingService) fromCache(key string) []model.RankingEntry {
	if s.Redis == nil {
		return nil
	}
	raw, err := s.Redis.Get(context.Background(), key).Result()
	if err != nil {
		return nil
	}
	var entries []model.RankingEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil
	}
	return entries
}

func (s *RankingService) toCache(key string, entries []model.RankingEntry) {
	if s.Redis == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	// 缓存失败不影响查询结果
	s.Redis.Set(context.Background(), key, raw, s.CacheTTL)
}
