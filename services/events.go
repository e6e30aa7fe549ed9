package services

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"context"
	"sync"
	"time"
)

// GoalEvent 目标状态机发出的事件
type GoalEvent struct {
	Type       string // goal_completed / goal_expired
	Goal       models.Goal
	OccurredAt time.Time
}

const (
	EventGoalCompleted = "goal_completed"
	EventGoalExpired   = "goal_expired"
)

// GoalEventBus 把状态迁移和通知/徽章等副作用解耦。
// 监听器在各自的goroutine中运行，失败只记日志，不回滚主流程。
type GoalEventBus struct {
	mu        sync.RWMutex
	listeners []func(context.Context, GoalEvent)
	wg        sync.WaitGroup
}

func NewGoalEventBus() *GoalEventBus {
	return &GoalEventBus{}
}

// Subscribe 注册事件监听器
func (b *GoalEventBus) Subscribe(fn func(context.Context, GoalEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, fn)
}

// Publish 异步分发事件，fire-and-forget
func (b *GoalEventBus) Publish(event GoalEvent) {
	b.mu.RLock()
	listeners := make([]func(context.Context, GoalEvent), len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, fn := range listeners {
		b.wg.Add(1)
		go func(fn func(context.Context, GoalEvent)) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					config.Logger.Errorw("事件监听器panic", "event", event.Type, "recover", r)
				}
			}()

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			fn(ctx, event)
		}(fn)
	}
}

// Wait 等待所有在途监听器完成，用于优雅关闭
func (b *GoalEventBus) Wait() {
	b.wg.Wait()
}
