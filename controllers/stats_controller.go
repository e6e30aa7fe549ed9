package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"SoulbloomGo/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	streakService *services.StreakService
	badgeService  *services.BadgeService
}

func NewStatsController(streakService *services.StreakService, badgeService *services.BadgeService) *StatsController {
	return &StatsController{
		streakService: streakService,
		badgeService:  badgeService,
	}
}

// GetStreaks 返回三条活动链的连续天数和整体连续天数
func (sc *StatsController) GetStreaks(c *gin.Context) {
	uid := c.GetString("uid")
	ctx := c.Request.Context()

	checkin, err := sc.streakService.StreakFor(ctx, uid, models.ActivityCheckin)
	if err != nil {
		config.Logger.Errorw("签到连续天数计算失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取连续天数失败"})
		return
	}
	mindfulness, err := sc.streakService.StreakFor(ctx, uid, models.ActivityMindfulness)
	if err != nil {
		config.Logger.Errorw("正念连续天数计算失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取连续天数失败"})
		return
	}
	mood, err := sc.streakService.StreakFor(ctx, uid, models.ActivityQuickMood)
	if err != nil {
		config.Logger.Errorw("心情连续天数计算失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取连续天数失败"})
		return
	}

	overall := checkin
	if mindfulness < overall {
		overall = mindfulness
	}
	if mood < overall {
		overall = mood
	}

	c.JSON(http.StatusOK, models.StreaksResponse{
		Checkin:     checkin,
		Mindfulness: mindfulness,
		Mood:        mood,
		Overall:     overall,
	})
}

// GetBadges 先评估一轮徽章（幂等），再返回全部徽章及解锁状态
func (sc *StatsController) GetBadges(c *gin.Context) {
	uid := c.GetString("uid")
	ctx := c.Request.Context()

	if _, err := sc.badgeService.Evaluate(ctx, uid); err != nil {
		// 评估失败不阻塞展示，已解锁的徽章仍可返回
		config.Logger.Errorw("徽章评估失败", "error", err, "uid", uid)
	}

	badges, err := sc.badgeService.ListBadges(ctx, uid)
	if err != nil {
		config.Logger.Errorw("徽章查询失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取徽章失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": badges})
}
