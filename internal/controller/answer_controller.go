package controller

import (
	"errors"
	"quiz_event_backend/internal/service"
	"quiz_event_backend/internal/util"
	"quiz_event_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type AnswerController struct {
	Service *service.AnswerService
}

func NewAnswerController(svc *service.AnswerService) *AnswerController {
	return &AnswerController{Service: svc}
}

type SubmitAnswerReq struct {
	ChoiceID uint `json:"choiceId" binding:"required"`
}

// @Summary 提交作答
// @Description 题目由服务端按当前进行状态确定，客户端只提交选项
// @Tags 作答模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body SubmitAnswerReq true "所选选项"
// @Success 201 {object} util.Response
// @Router /api/events/{id}/answers [post]
func (c *AnswerController) Submit(ctx *gin.Context) {
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

	var req SubmitAnswerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.Service.Submit(user.UserID, eventID, req.ChoiceID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyAnswered):
			// 双击/重发属于预期行为，不算异常
			monitoring.AnswerCounter.WithLabelValues("duplicate").Inc()
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrNoActiveQuestion), errors.Is(err, util.ErrStaleQuestion):
			monitoring.AnswerCounter.WithLabelValues("stale").Inc()
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrChoiceMismatch):
			monitoring.AnswerCounter.WithLabelValues("mismatch").Inc()
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrChoiceNotFound), errors.Is(err, util.ErrEventNotFound):
			monitoring.AnswerCounter.WithLabelValues("not_found").Inc()
			util.NotFound(ctx)
		default:
			monitoring.AnswerCounter.WithLabelValues("error").Inc()
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.AnswerCounter.WithLabelValues("ok").Inc()
	util.Created(ctx, gin.H{
		"answerId":       answer.ID,
		"isCorrect":      answer.IsCorrect,
		"responseTimeMs": answer.ResponseTimeMs,
	})
}
