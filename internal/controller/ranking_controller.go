package controller

import (
	"quiz_event_backend/internal/service"
	"quiz_event_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type RankingController struct {
	Service *service.RankingService
}

func NewRankingController(svc *service.RankingService) *RankingController {
	return &RankingController{Service: svc}
}

// @Summary 查询榜单
// @Description 全场榜单（前10），带 periodId 时附回合榜单；请求者本人的名次始终按完整序列解析
// @Tags 榜单模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param periodId query int false "回合ID"
// @Success 200 {object} util.Response
// @Router /api/events/{id}/rankings [get]
func (c *RankingController) GetRankings(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var periodID *uint
	if raw := ctx.Query("periodId"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			util.BadRequest(ctx, "invalid period id")
			return
		}
		id := uint(value)
		periodID = &id
	}

	summary, err := c.Service.GetRankings(eventID, periodID, user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}

// @Summary 最终榜单
// @Description 全场前20与各回合的第一名
// @Tags 榜单模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/events/{id}/rankings/final [get]
func (c *RankingController) GetFinalResults(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	summary, err := c.Service.GetFinalResults(eventID, user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, summary)
}
