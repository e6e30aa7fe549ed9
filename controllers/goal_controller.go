package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"SoulbloomGo/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type GoalController struct {
	goalService     *services.GoalService
	progressService *services.ProgressService
}

func NewGoalController(goalService *services.GoalService, progressService *services.ProgressService) *GoalController {
	return &GoalController{
		goalService:     goalService,
		progressService: progressService,
	}
}

func progressResponse(p services.Progress) *models.ProgressResponse {
	return &models.ProgressResponse{
		Current:         p.Current,
		Target:          p.Target,
		PercentComplete: p.PercentComplete,
		WindowStart:     p.Window.Start,
		WindowEnd:       p.Window.End,
	}
}

// goalError 把服务层错误翻译成HTTP响应
func goalError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notYetErr *services.NotYetAchievedError
	var dataErr *services.DataUnavailableError

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "目标不存在"})
	case errors.Is(err, services.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, gin.H{"error": "激活中的目标已达10个上限"})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notYetErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":    "目标尚未达成",
			"progress": progressResponse(notYetErr.Progress),
		})
	case errors.As(err, &dataErr):
		config.Logger.Errorw("目标存储读取失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据暂时不可用"})
	default:
		config.Logger.Errorw("目标操作失败", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "操作失败"})
	}
}

// CreateGoal 创建目标
func (gc *GoalController) CreateGoal(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := gc.goalService.Create(c.Request.Context(), uid, req)
	if err != nil {
		goalError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"goal": goal})
}

// ListGoals 返回用户目标及实时进度，?all=true时包含历史目标
func (gc *GoalController) ListGoals(c *gin.Context) {
	uid := c.GetString("uid")
	activeOnly := c.Query("all") != "true"

	results, err := gc.goalService.ListWithProgress(c.Request.Context(), uid, activeOnly)
	if err != nil {
		goalError(c, err)
		return
	}

	// 单个目标的进度失败不拖垮整个列表，失败原因随结果返回
	responses := make([]models.GoalWithProgressResponse, len(results))
	for i, r := range results {
		resp := models.GoalWithProgressResponse{Goal: r.Goal}
		if r.Err != nil {
			config.Logger.Errorw("目标进度计算失败", "error", r.Err, "goalID", r.Goal.ID)
			resp.Error = "进度暂时不可用"
		} else {
			resp.Progress = progressResponse(r.Progress)
			resp.IsCompleted = r.Progress.Current >= r.Progress.Target
		}
		responses[i] = resp
	}

	c.JSON(http.StatusOK, gin.H{"goals": responses})
}

// GetGoal 返回单个目标、实时进度和剩余时间
func (gc *GoalController) GetGoal(c *gin.Context) {
	uid := c.GetString("uid")

	goal, err := gc.goalService.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		goalError(c, err)
		return
	}

	progress, err := gc.progressService.CalculateProgress(c.Request.Context(), goal)
	if err != nil {
		goalError(c, err)
		return
	}

	remaining := gc.progressService.GetTimeRemaining(goal.TimeFrame)
	c.JSON(http.StatusOK, gin.H{
		"goal":        goal,
		"progress":    progressResponse(progress),
		"isCompleted": progress.Current >= progress.Target,
		"timeRemaining": models.TimeRemainingResponse{
			EndDate:        remaining.EndDate,
			HoursRemaining: remaining.HoursRemaining,
			DaysRemaining:  remaining.DaysRemaining,
		},
	})
}

// UpdateGoal 更新目标，仅active状态允许
func (gc *GoalController) UpdateGoal(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := gc.goalService.Update(c.Request.Context(), uid, c.Param("id"), req)
	if err != nil {
		goalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"goal": goal})
}

// CompleteGoal 完成目标
func (gc *GoalController) CompleteGoal(c *gin.Context) {
	uid := c.GetString("uid")

	goal, err := gc.goalService.Complete(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		goalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "目标已完成",
		"goal":    goal,
	})
}

// AbandonGoal 放弃目标（软删除）
func (gc *GoalController) AbandonGoal(c *gin.Context) {
	uid := c.GetString("uid")

	if _, err := gc.goalService.Abandon(c.Request.Context(), uid, c.Param("id")); err != nil {
		goalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "目标已放弃"})
}
