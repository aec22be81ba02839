package controller

import (
	"errors"
	"net/http"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/service"
	"quiz_event_backend/internal/util"
	"quiz_event_backend/pkg/monitoring"
	"strconv"

	"github.com/gin-gonic/gin"
)

// QuizController 活动进行的操作面：画面迁移、重置、进行状态轮询
type QuizController struct {
	Transitions *service.TransitionService
	Catalog     *service.CatalogService
}

func NewQuizController(transitions *service.TransitionService, catalog *service.CatalogService) *QuizController {
	return &QuizController{Transitions: transitions, Catalog: catalog}
}

type TransitionReq struct {
	Screen model.Screen `json:"screen" binding:"required"`
}

// @Summary 画面迁移
// @Description 按邻接表推进活动画面，目标为 question 时自动解析下一题
// @Tags 进行控制
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body TransitionReq true "目标画面"
// @Success 200 {object} util.Response
// @Router /api/admin/events/{id}/transition [post]
func (c *QuizController) Transition(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var req TransitionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ctrl, err := c.Transitions.Transition(eventID, req.Screen)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidScreen), errors.Is(err, util.ErrInvalidTransition):
			monitoring.TransitionCounter.WithLabelValues(string(req.Screen), "invalid").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrTransitionConflict), errors.Is(err, util.ErrNoNextQuestion):
			monitoring.TransitionCounter.WithLabelValues(string(req.Screen), "conflict").Inc()
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrEventNotFound):
			monitoring.TransitionCounter.WithLabelValues(string(req.Screen), "not_found").Inc()
			util.NotFound(ctx)
		case errors.Is(err, util.ErrControlCorrupted), errors.Is(err, util.ErrOrderCorrupted),
			errors.Is(err, util.ErrDisplayNotOpen), errors.Is(err, util.ErrDisplayStillOpen):
			// 数据完整性被破坏，原样暴露给操作员
			monitoring.TransitionCounter.WithLabelValues(string(req.Screen), "corrupted").Inc()
			util.Error(ctx, http.StatusInternalServerError, err.Error())
		default:
			monitoring.TransitionCounter.WithLabelValues(string(req.Screen), "error").Inc()
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.TransitionCounter.WithLabelValues(string(req.Screen), "ok").Inc()
	util.Success(ctx, gin.H{
		"screen":     ctrl.Screen,
		"periodId":   ctrl.PeriodID,
		"questionId": ctrl.QuestionID,
		"version":    ctrl.Version,
	})
}

// @Summary 重置活动
// @Description 回到开场等待并清空作答与展示记录
// @Tags 进行控制
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/admin/events/{id}/reset [post]
func (c *QuizController) Reset(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	ctrl, err := c.Transitions.Reset(eventID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEventNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTransitionConflict):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"screen": ctrl.Screen})
}

// @Summary 进行状态轮询
// @Description 参加者端轮询当前画面与展示中的题目
// @Tags 进行控制
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/events/{id}/control [get]
func (c *QuizController) GetControl(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	view, err := c.Catalog.GetControl(eventID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrEventNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrControlCorrupted):
			util.Error(ctx, http.StatusInternalServerError, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, view)
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}
