package services

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// NotificationDispatcher 通知分发接口。调用方按fire-and-forget使用：
// 失败只记日志，从不重试，也不阻塞主状态变更。
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID, notifType, title, body string, data map[string]string) error
}

// InboxDispatcher 把通知写入MongoDB的应用内收件箱
type InboxDispatcher struct {
	Notifications *mongo.Collection
}

func NewInboxDispatcher(notifications *mongo.Collection) *InboxDispatcher {
	return &InboxDispatcher{Notifications: notifications}
}

func (d *InboxDispatcher) Dispatch(ctx context.Context, userID, notifType, title, body string, data map[string]string) error {
	notification := models.Notification{
		UserID:    userID,
		Type:      notifType,
		Title:     title,
		Body:      body,
		Data:      data,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := d.Notifications.InsertOne(ctx, notification); err != nil {
		return &DataUnavailableError{Store: "mongodb/notifications", Err: err}
	}

	config.Logger.Infow("通知已入箱",
		"userID", userID,
		"type", notifType,
		"title", title,
	)
	return nil
}
