package services

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// crisisAlertTTL 同一用户的危机提醒去重窗口
const crisisAlertTTL = time.Hour

// CrisisAlertService 在分析结果为critical时提醒用户的Care Circle。
// 通过Redis SETNX去重，避免同一用户短时间内反复触发提醒。
type CrisisAlertService struct {
	DB         *gorm.DB
	Redis      *redis.Client
	Dispatcher NotificationDispatcher
	wg         sync.WaitGroup
}

func NewCrisisAlertService(db *gorm.DB, redisClient *redis.Client, dispatcher NotificationDispatcher) *CrisisAlertService {
	return &CrisisAlertService{
		DB:         db,
		Redis:      redisClient,
		Dispatcher: dispatcher,
	}
}

// MaybeAlert 分析结果需要立即关注时异步通知Care Circle。
// fire-and-forget：失败只记日志，不影响签到主流程。
func (s *CrisisAlertService) MaybeAlert(userID string, analysis models.RiskAnalysis) {
	if !analysis.RequiresImmediateAttention {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// 去重：一小时内只提醒一次
		if s.Redis != nil {
			key := fmt.Sprintf("crisis_alert:%s", userID)
			ok, err := s.Redis.SetNX(ctx, key, 1, crisisAlertTTL).Result()
			if err != nil {
				config.Logger.Errorw("危机提醒去重检查失败", "error", err, "userID", userID)
				// Redis不可用时宁可多发也不漏发
			} else if !ok {
				config.Logger.Debugw("危机提醒在去重窗口内，跳过", "userID", userID)
				return
			}
		}

		var members []models.CareCircleMember
		err := s.DB.WithContext(ctx).
			Where("user_id = ? AND notify_on_crisis = ?", userID, true).
			Find(&members).Error
		if err != nil {
			config.Logger.Errorw("读取Care Circle失败", "error", err, "userID", userID)
			return
		}

		var user models.User
		displayName := "Someone in your Care Circle"
		if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err == nil {
			displayName = user.GetDisplayName()
		}

		for _, member := range members {
			if member.ContactUserID == "" {
				continue
			}
			err := s.Dispatcher.Dispatch(ctx, member.ContactUserID, "crisis_alert",
				"Care Circle alert",
				fmt.Sprintf("%s may be going through a difficult moment and could use your support.", displayName),
				map[string]string{"from_user_id": userID},
			)
			if err != nil {
				config.Logger.Errorw("危机提醒发送失败", "error", err, "memberID", member.ID)
			}
		}

		config.Logger.Infow("危机提醒已处理", "userID", userID, "members", len(members))
	}()
}

// Wait 等待在途提醒完成，用于优雅关闭
func (s *CrisisAlertService) Wait() {
	s.wg.Wait()
}
