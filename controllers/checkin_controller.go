package controllers

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"SoulbloomGo/services"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CheckinController struct {
	analysisService *services.AnalysisService
	crisisAlerts    *services.CrisisAlertService
	badgeService    *services.BadgeService
	wg              sync.WaitGroup
}

func NewCheckinController(analysisService *services.AnalysisService, crisisAlerts *services.CrisisAlertService, badgeService *services.BadgeService) *CheckinController {
	return &CheckinController{
		analysisService: analysisService,
		crisisAlerts:    crisisAlerts,
		badgeService:    badgeService,
	}
}

// CreateCheckin 创建签到并附加分析结果。分析走LLM优先、规则兜底，
// 永远不会因为分析失败而拒绝签到。
func (cc *CheckinController) CreateCheckin(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.CreateCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checkin := models.Checkin{
		UserID:      uid,
		Text:        req.Text,
		MoodRating:  req.MoodRating,
		StressLevel: req.StressLevel,
		Emotions:    req.Emotions,
		CreatedAt:   time.Now().UTC(),
	}

	result, err := config.CheckinCollection().InsertOne(c.Request.Context(), checkin)
	if err != nil {
		config.Logger.Errorw("签到写入失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "签到保存失败"})
		return
	}

	analysis := cc.analysisService.AnalyzeCheckin(c.Request.Context(), services.AnalysisInput{
		Text:        req.Text,
		MoodRating:  req.MoodRating,
		StressLevel: req.StressLevel,
		Emotions:    req.Emotions,
	})

	// 签到一旦分析完成即不可变，之后只允许附加分析结果
	if _, err := config.CheckinCollection().UpdateByID(c.Request.Context(), result.InsertedID,
		bson.M{"$set": bson.M{"analysis": analysis}}); err != nil {
		config.Logger.Errorw("分析结果写入失败", "error", err, "uid", uid)
	}

	// 危机提醒与徽章评估都是fire-and-forget，不阻塞响应
	cc.crisisAlerts.MaybeAlert(uid, analysis)
	cc.evaluateBadgesAsync(uid)

	checkin.Analysis = &analysis
	c.JSON(http.StatusCreated, gin.H{"checkin": checkin})
}

// ListCheckins 返回用户最近的签到记录
func (cc *CheckinController) ListCheckins(c *gin.Context) {
	uid := c.GetString("uid")

	opts := options.Find().
		SetSort(bson.M{"created_at": -1}).
		SetLimit(100)
	cursor, err := config.CheckinCollection().Find(c.Request.Context(), bson.M{"user_id": uid}, opts)
	if err != nil {
		config.Logger.Errorw("签到查询失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取签到记录失败"})
		return
	}
	defer cursor.Close(c.Request.Context())

	checkins := make([]models.Checkin, 0)
	if err := cursor.All(c.Request.Context(), &checkins); err != nil {
		config.Logger.Errorw("签到解析失败", "error", err, "uid", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "获取签到记录失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkins": checkins})
}

func (cc *CheckinController) evaluateBadgesAsync(uid string) {
	cc.wg.Add(1)
	go func() {
		defer cc.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if _, err := cc.badgeService.Evaluate(ctx, uid); err != nil {
			config.Logger.Errorw("徽章评估失败", "error", err, "uid", uid)
		}
	}()
}

// Wait 等待后台任务完成，用于优雅关闭
func (cc *CheckinController) Wait() {
	cc.wg.Wait()
}
