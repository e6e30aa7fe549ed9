package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type NotificationController struct{}

// ListNotifications 返回应用内通知收件箱
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	uid := c.GetString("uid")

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(50)
	cursor, err := config.NotificationCollection().Find(c.Request.Context(), bson.M{"user_id": uid}, opts)
	if err != nil {
		config.Logger.Errorw("通知查询失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取通知失败"})
		return
	}
	defer cursor.Close(c.Request.Context())

	notifications := make([]models.Notification, 0)
	if err := cursor.All(c.Request.Context(), &notifications); err != nil {
		config.Logger.Errorw("通知解析失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取通知失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

// MarkRead 标记通知为已读
func (nc *NotificationController) MarkRead(c *gin.Context) {
	uid := c.GetString("uid")

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的通知ID"})
		return
	}

	result, err := config.NotificationCollection().UpdateOne(c.Request.Context(),
		bson.M{"_id": id, "user_id": uid},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		config.Logger.Errorw("通知更新失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "更新通知失败"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "通知不存在"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已读"})
}
