package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification 应用内通知文档，存储于MongoDB
type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Type      string             `bson:"type" json:"type"` // e.g. "goal_completed", "goal_expired", "crisis_alert", "badge_unlocked"
	Title     string             `bson:"title" json:"title"`
	Body      string             `bson:"body" json:"body"`
	Data      map[string]string  `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool               `bson:"read" json:"read"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
