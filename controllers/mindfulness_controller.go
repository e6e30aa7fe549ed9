package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"SoulbloomGo/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type MindfulnessController struct{}

// CreateSession 记录一次正念/呼吸练习完成
func (mc *MindfulnessController) CreateSession(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session := models.MindfulnessSession{
		ID:          utils.GenerateID(),
		UserID:      uid,
		Kind:        req.Kind,
		DurationSec: req.DurationSec,
		CompletedAt: time.Now().UTC(),
	}
	if err := config.DB.Create(&session).Error; err != nil {
		config.Logger.Errorw("练习记录写入失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "练习记录保存失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ListSessions 返回最近的练习记录
func (mc *MindfulnessController) ListSessions(c *gin.Context) {
	uid := c.GetString("uid")

	var sessions []models.MindfulnessSession
	err := config.DB.
		Where("user_id = ?", uid).
		Order("completed_at desc").
		Limit(100).
		Find(&sessions).Error
	if err != nil {
		config.Logger.Errorw("练习记录查询失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取练习记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}
