package config

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var MongoClient *mongo.Client
var MongoDB *mongo.Database

// InitMongo 初始化MongoDB连接
func InitMongo(config Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.MongoURI))
	if err != nil {
		return fmt.Errorf("MongoDB连接失败: %v", err)
	}

	// 测试连接
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("MongoDB连接测试失败: %v", err)
	}

	MongoClient = client
	MongoDB = client.Database(config.MongoDBName)
	return nil
}

// CheckinCollection 返回签到记录集合
func CheckinCollection() *mongo.Collection {
	return MongoDB.Collection("checkins")
}

// NotificationCollection 返回应用内通知集合
func NotificationCollection() *mongo.Collection {
	return MongoDB.Collection("notifications")
}
