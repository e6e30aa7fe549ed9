package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"SoulbloomGo/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CareCircleController struct{}

// AddMember 添加信任联系人
func (cc *CareCircleController) AddMember(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.AddCareMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member := models.CareCircleMember{
		ID:             utils.GenerateID(),
		UserID:         uid,
		Name:           req.Name,
		Relationship:   req.Relationship,
		ContactUserID:  req.ContactUserID,
		NotifyOnCrisis: true,
		CreatedAt:      time.Now().UTC(),
	}
	if req.NotifyOnCrisis != nil {
		member.NotifyOnCrisis = *req.NotifyOnCrisis
	}

	if err := config.DB.Create(&member).Error; err != nil {
		config.Logger.Errorw("添加信任联系人失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "添加信任联系人失败"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"member": member})
}

// ListMembers 返回用户的Care Circle
func (cc *CareCircleController) ListMembers(c *gin.Context) {
	uid := c.GetString("uid")

	var members []models.CareCircleMember
	err := config.DB.
		Where("user_id = ?", uid).
		Order("created_at asc").
		Find(&members).Error
	if err != nil {
		config.Logger.Errorw("信任联系人查询失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取信任联系人失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": members})
}

// RemoveMember 移除信任联系人
func (cc *CareCircleController) RemoveMember(c *gin.Context) {
	uid := c.GetString("uid")

	result := config.DB.
		Where("id = ? AND user_id = ?", c.Param("id"), uid).
		Delete(&models.CareCircleMember{})
	if result.Error != nil {
		config.Logger.Errorw("移除信任联系人失败", "error", result.Error, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "移除信任联系人失败"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "信任联系人不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已移除"})
}
