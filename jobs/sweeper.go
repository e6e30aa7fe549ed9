package jobs

import (
	"SoulbloomGo/config"
	"SoulbloomGo/services"
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

// Sweeper 周期性的过期目标清扫。假定单实例部署：
// 没有分布式锁，多实例同时运行只会带来重复通知，不会破坏数据。
type Sweeper struct {
	goals *services.GoalService
	cron  *cron.Cron
}

func NewSweeper(goals *services.GoalService) *Sweeper {
	return &Sweeper{
		goals: goals,
		cron:  cron.New(),
	}
}

// Start 按配置的cron表达式启动清扫
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, s.runOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	config.Logger.Infow("过期目标清扫已启动", "schedule", schedule)
	return nil
}

func (s *Sweeper) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result := s.goals.SweepExpired(ctx)
	config.Logger.Infow("过期目标清扫完成",
		"scanned", result.Scanned,
		"completed", result.Completed,
		"expired", result.Expired,
		"failed", result.Failed,
	)
}

// Stop 停止调度并等待在途清扫完成
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
