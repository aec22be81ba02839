package model

// RankingEntry 榜单中的一行，由作答记录聚合得出，不落库
// 排序：正解数降序 → 总耗时升序 → 用户ID升序（保证同分同速时名次稳定）
type RankingEntry struct {
	Rank                int    `json:"rank"`
	UserID              uint   `json:"userId"`
	Nickname            string `json:"nickname"`
	CorrectCount        int    `json:"correctCount"`
	TotalResponseTimeMs int64  `json:"totalResponseTimeMs"`
	AnsweredCount       int    `json:"answeredCount"`
}

// PeriodChampion 最终榜单中各回合的第一名
type PeriodChampion struct {
	PeriodID   uint         `json:"periodId"`
	PeriodName string       `json:"periodName"`
	Entry      RankingEntry `json:"entry"`
}
