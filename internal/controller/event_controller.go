package controller

import (
	"errors"
	"path/filepath"
	"quiz_event_backend/internal/model"
	"quiz_event_backend/internal/service"
	"quiz_event_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// EventController 目录管理：活动、回合、题目、选项与顺序
type EventController struct {
	Catalog *service.CatalogService
	Reorder *service.ReorderService
	Storage *service.StorageService
}

func NewEventController(catalog *service.CatalogService, reorder *service.ReorderService,
	storage *service.StorageService) *EventController {
	return &EventController{Catalog: catalog, Reorder: reorder, Storage: storage}
}

// @Summary 创建活动
// @Tags 目录模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EventReq true "活动信息"
// @Success 201 {object} util.Response
// @Router /api/admin/events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.EventReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	event, err := c.Catalog.CreateEvent(user.UserID, req)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, event)
}

// @Summary 活动列表
// @Tags 目录模块
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/admin/events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	events, total, err := c.Catalog.ListEvents(page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": events, "total": total})
}

// @Summary 活动详情
// @Tags 目录模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/admin/events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	event, periods, err := c.Catalog.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"event": event, "periods": periods})
}

// @Summary 创建回合
// @Tags 目录模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body service.PeriodReq true "回合信息"
// @Success 201 {object} util.Response
// @Router /api/admin/events/{id}/periods [post]
func (c *EventController) CreatePeriod(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var req service.PeriodReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	period, err := c.Catalog.CreatePeriod(eventID, req)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, period)
}

// @Summary 创建题目
// @Tags 目录模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body service.QuestionReq true "题目与选项"
// @Success 201 {object} util.Response
// @Router /api/admin/events/{id}/questions [post]
func (c *EventController) CreateQuestion(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.Catalog.CreateQuestion(eventID, req)
	if err != nil {
		if errors.Is(err, util.ErrEventNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, question)
}

// @Summary 题目列表
// @Tags 目录模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Success 200 {object} util.Response
// @Router /api/admin/events/{id}/questions [get]
func (c *EventController) ListQuestions(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	questions, err := c.Catalog.ListQuestions(eventID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, questions)
}

type AttachQuestionReq struct {
	QuestionID uint `json:"questionId" binding:"required"`
}

// @Summary 挂接题目到回合
// @Tags 目录模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "回合ID"
// @Param body body AttachQuestionReq true "题目"
// @Success 201 {object} util.Response
// @Router /api/admin/periods/{id}/questions [post]
func (c *EventController) AttachQuestion(ctx *gin.Context) {
	periodID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid period id")
		return
	}

	var req AttachQuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	link, err := c.Catalog.AttachQuestion(periodID, req.QuestionID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPeriodNotFound), errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Created(ctx, link)
}

// @Summary 回合内题目顺序
// @Tags 目录模块
// @Produce json
// @Security BearerAuth
// @Param id path int true "回合ID"
// @Success 200 {object} util.Response
// @Router /api/admin/periods/{id}/questions [get]
func (c *EventController) ListPeriodQuestions(ctx *gin.Context) {
	periodID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid period id")
		return
	}

	links, err := c.Catalog.ListPeriodQuestions(periodID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, links)
}

type ReorderPeriodsReq struct {
	PeriodIDs []uint `json:"periodIds" binding:"required"`
}

// @Summary 重排回合顺序
// @Description 两阶段重号；中途失败会留下负数序号，重试需携带完整顺序重新提交
// @Tags 目录模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "活动ID"
// @Param body body ReorderPeriodsReq true "完整的回合顺序"
// @Success 200 {object} util.Response
// @Router /api/admin/events/{id}/periods/order [put]
func (c *EventController) ReorderPeriods(ctx *gin.Context) {
	eventID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid event id")
		return
	}

	var req ReorderPeriodsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Reorder.ReorderPeriods(eventID, req.PeriodIDs); err != nil {
		if errors.Is(err, util.ErrInvalidPermutation) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

type ReorderQuestionsReq struct {
	QuestionIDs []uint `json:"questionIds" binding:"required"`
}

// @Summary 重排回合内题目顺序
// @Tags 目录模块
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "回合ID"
// @Param body body ReorderQuestionsReq true "完整的题目顺序"
// @Success 200 {object} util.Response
// @Router /api/admin/periods/{id}/questions/order [put]
func (c *EventController) ReorderQuestions(ctx *gin.Context) {
	periodID, err := parseUintParam(ctx, "id")
	if err != nil {
		util.BadRequest(ctx, "invalid period id")
		return
	}

	var req ReorderQuestionsReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Reorder.ReorderQuestions(periodID, req.QuestionIDs); err != nil {
		if errors.Is(err, util.ErrInvalidPermutation) {
			util.BadRequest(ctx, err.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 上传题目配图
// @Tags 目录模块
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "图片文件"
// @Success 201 {object} util.Response
// @Router /api/admin/questions/image [post]
func (c *EventController) UploadQuestionImage(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := "questions/" + model.GenerateUUID() + filepath.Ext(file.Filename)
	contentType := file.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, src, file.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{"url": url})
}
