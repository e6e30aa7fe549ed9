package main

import (
	"SoulbloomGo/config"
	"SoulbloomGo/jobs"
	"SoulbloomGo/middleware"
	"SoulbloomGo/routes"
	"SoulbloomGo/services"
	"SoulbloomGo/utils"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tmc/langchaingo/llms"
)

func main() {
	// 初始化日志
	if err := config.InitLogger(); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	defer config.Logger.Sync()

	// 加载配置
	conf, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("无法加载配置: %v", err)
	}
	utils.InitJWT(conf.JWTSecret)

	// 初始化PostgreSQL
	if err := config.InitDB(conf); err != nil {
		log.Fatalf("无法初始化数据库: %v", err)
	}

	// 初始化MongoDB
	if err := config.InitMongo(conf); err != nil {
		log.Fatalf("无法初始化MongoDB: %v", err)
	}

	// 初始化Redis
	if err := config.InitRedis(conf); err != nil {
		log.Fatalf("无法初始化Redis: %v", err)
	}

	// 初始化LLM客户端，未配置时全部走规则分类器
	var llmModel llms.Model
	if conf.LLMAPIKey != "" {
		client, err := services.NewLLMClient(conf.LLMAPIKey, conf.LLMAPIEndpoint, conf.LLMModel)
		if err != nil {
			log.Fatalf("无法初始化LLM客户端: %v", err)
		}
		llmModel = client.Chat
	} else {
		config.Logger.Warnw("LLM未配置，签到分析将全部使用规则分类器")
	}

	// 组装服务
	counters := services.NewCounterRegistry(config.DB, config.CheckinCollection())
	progressService := services.NewProgressService(counters)
	streakService := services.NewStreakService(counters)
	events := services.NewGoalEventBus()
	goalStore := &services.GormGoalStore{DB: config.DB}
	goalService := services.NewGoalService(goalStore, progressService, events)
	dispatcher := services.NewInboxDispatcher(config.NotificationCollection())
	badgeService := services.NewBadgeService(&services.DefaultStatsSource{
		DB:       config.DB,
		Checkins: config.CheckinCollection(),
		Streaks:  streakService,
		Goals:    goalStore,
	}, &services.GormBadgeStore{DB: config.DB}, dispatcher)
	riskService := services.NewRiskService()
	analysisService := services.NewAnalysisService(llmModel, riskService)
	crisisAlerts := services.NewCrisisAlertService(config.DB, config.RedisClient, dispatcher)

	// 目标完成/过期事件的监听器：通知与徽章评估
	events.Subscribe(func(ctx context.Context, event services.GoalEvent) {
		switch event.Type {
		case services.EventGoalCompleted:
			if err := dispatcher.Dispatch(ctx, event.Goal.UserID, "goal_completed",
				"Goal completed: "+event.Goal.Title,
				"You reached your goal. Keep the momentum going!",
				map[string]string{"goal_id": event.Goal.ID}); err != nil {
				config.Logger.Errorw("目标完成通知失败", "error", err, "goalID", event.Goal.ID)
			}
		case services.EventGoalExpired:
			if err := dispatcher.Dispatch(ctx, event.Goal.UserID, "goal_expired",
				"Goal ended: "+event.Goal.Title,
				"This goal's time window closed. You can set a fresh one anytime.",
				map[string]string{"goal_id": event.Goal.ID}); err != nil {
				config.Logger.Errorw("目标过期通知失败", "error", err, "goalID", event.Goal.ID)
			}
		}
	})
	events.Subscribe(func(ctx context.Context, event services.GoalEvent) {
		if event.Type != services.EventGoalCompleted {
			return
		}
		if _, err := badgeService.Evaluate(ctx, event.Goal.UserID); err != nil {
			config.Logger.Errorw("目标完成后的徽章评估失败", "error", err, "uid", event.Goal.UserID)
		}
	})

	// 启动过期目标清扫
	sweeper := jobs.NewSweeper(goalService)
	if err := sweeper.Start(conf.SweepSchedule); err != nil {
		log.Fatalf("无法启动清扫任务: %v", err)
	}

	// 设置Gin模式
	if conf.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建Gin引擎
	r := gin.New()

	// 设置中间件
	middleware.SetupMiddleware(r)

	// 注册路由
	checkinController := routes.RegisterRoutes(r, routes.Services{
		Goals:        goalService,
		Progress:     progressService,
		Analysis:     analysisService,
		CrisisAlerts: crisisAlerts,
		Badges:       badgeService,
		Streaks:      streakService,
	})

	// 创建HTTP服务器
	srv := &http.Server{
		Addr:    ":" + conf.ServerPort,
		Handler: r,
	}

	// 在goroutine中启动服务器
	go func() {
		config.Logger.Infow("启动服务器", "port", conf.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待中断信号以实现优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	config.Logger.Infow("正在关闭服务器...")

	// 停止清扫任务
	sweeper.Stop()

	// 创建超时上下文
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务器关闭失败: %v", err)
	}

	// 等待所有后台任务完成
	config.Logger.Infow("正在等待所有后台任务完成...")
	checkinController.Wait()
	crisisAlerts.Wait()
	events.Wait()

	// 断开MongoDB
	if err := config.MongoClient.Disconnect(ctx); err != nil {
		config.Logger.Errorw("MongoDB断开失败", "error", err)
	}

	config.Logger.Infow("服务器已关闭")
}
