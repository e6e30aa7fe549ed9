package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"SoulbloomGo/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type MoodController struct{}

// CreateMood 记录一条快速心情
func (mc *MoodController) CreateMood(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateMoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := models.MoodEntry{
		ID:          utils.GenerateID(),
		UserID:      uid,
		Rating:      req.Rating,
		StressLevel: req.StressLevel,
		Emotions:    req.EmotionsString(),
		Note:        req.Note,
		RecordedAt:  time.Now().UTC(),
	}
	if err := config.DB.Create(&entry).Error; err != nil {
		config.Logger.Errorw("心情记录写入失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "心情记录保存失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"mood": entry})
}

// ListMoods 返回时间范围内的心情记录，默认最近30天
func (mc *MoodController) ListMoods(c *gin.Context) {
	uid := c.GetString("uid")

	since := time.Now().UTC().AddDate(0, 0, -30)
	if sinceStr := c.Query("since"); sinceStr != "" {
		parsed, err := time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "无效的时间格式"})
			return
		}
		since = parsed.UTC()
	}

	var entries []models.MoodEntry
	err := config.DB.
		Where("user_id = ? AND recorded_at >= ?", uid, since).
		Order("recorded_at desc").
		Find(&entries).Error
	if err != nil {
		config.Logger.Errorw("心情记录查询失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取心情记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"moods": entries})
}
