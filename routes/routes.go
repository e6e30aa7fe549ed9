package routes

import (
	"SoulbloomGo/controllers"
	"SoulbloomGo/middleware"
	"SoulbloomGo/services"

	"github.com/gin-gonic/gin"
)

// Services 路由层需要的服务集合，由main组装
type Services struct {
	Goals        *services.GoalService
	Progress     *services.ProgressService
	Analysis     *services.AnalysisService
	CrisisAlerts *services.CrisisAlertService
	Badges       *services.BadgeService
	Streaks      *services.StreakService
}

// RegisterRoutes 注册全部路由，返回需要等待后台任务的签到控制器
func RegisterRoutes(r *gin.Engine, svc Services) *controllers.CheckinController {
	authController := controllers.AuthController{}
	userController := controllers.UserController{}
	goalController := controllers.NewGoalController(svc.Goals, svc.Progress)
	checkinController := controllers.NewCheckinController(svc.Analysis, svc.CrisisAlerts, svc.Badges)
	moodController := controllers.MoodController{}
	mindfulnessController := controllers.MindfulnessController{}
	statsController := controllers.NewStatsController(svc.Streaks, svc.Badges)
	careCircleController := controllers.CareCircleController{}
	notificationController := controllers.NotificationController{}

	// 公开路由（无需认证）
	public := r.Group("/api/v1")
	{
		public.POST("/auth/register", authController.Register)
		public.POST("/auth/login", authController.Login)
		public.POST("/auth/test-user", authController.CreateTestUser)
	}

	// 需要认证的路由
	private := r.Group("/api/v1")
	private.Use(middleware.AuthMiddleware()) // 应用认证中间件
	{
		private.GET("/user", userController.GetUser)

		private.POST("/checkins", checkinController.CreateCheckin)
		private.GET("/checkins", checkinController.ListCheckins)

		private.POST("/moods", moodController.CreateMood)
		private.GET("/moods", moodController.ListMoods)

		private.POST("/mindfulness", mindfulnessController.CreateSession)
		private.GET("/mindfulness", mindfulnessController.ListSessions)

		private.POST("/goals", goalController.CreateGoal)
		private.GET("/goals", goalController.ListGoals)
		private.GET("/goals/:id", goalController.GetGoal)
		private.PATCH("/goals/:id", goalController.UpdateGoal)
		private.POST("/goals/:id/complete", goalController.CompleteGoal)
		private.DELETE("/goals/:id", goalController.AbandonGoal)

		private.GET("/stats/streaks", statsController.GetStreaks)
		private.GET("/stats/badges", statsController.GetBadges)

		private.POST("/care-circle", careCircleController.AddMember)
		private.GET("/care-circle", careCircleController.ListMembers)
		private.DELETE("/care-circle/:id", careCircleController.RemoveMember)

		private.GET("/notifications", notificationController.ListNotifications)
		private.POST("/notifications/:id/read", notificationController.MarkRead)
	}

	// 测试路由
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	return checkinController
}
