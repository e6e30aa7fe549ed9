package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentiment 情绪倾向标签
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// RiskLevel 风险等级
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// ValidSentiment 校验情绪倾向枚举
func ValidSentiment(s Sentiment) bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// ValidRiskLevel 校验风险等级枚举
func ValidRiskLevel(r RiskLevel) bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// RiskAnalysis 附加在签到记录上的分析结果
type RiskAnalysis struct {
	Sentiment                 Sentiment `bson:"sentiment" json:"sentiment"`
	SentimentScore            float64   `bson:"sentiment_score" json:"sentimentScore"` // [-1, 1]
	Emotions                  []string  `bson:"emotions" json:"emotions"`
	Keywords                  []string  `bson:"keywords" json:"keywords"`
	Themes                    []string  `bson:"themes" json:"themes"`
	Suggestions               []string  `bson:"suggestions" json:"suggestions"`
	RiskLevel                 RiskLevel `bson:"risk_level" json:"riskLevel"`
	RiskIndicators            []string  `bson:"risk_indicators" json:"riskIndicators"`
	SupportiveMessage         string    `bson:"supportive_message" json:"supportiveMessage"`
	RequiresImmediateAttention bool     `bson:"requires_immediate_attention" json:"requiresImmediateAttention"`
	Source                    string    `bson:"source" json:"source"` // llm / fallback
	AnalyzedAt                time.Time `bson:"analyzed_at" json:"analyzedAt"`
}

// Checkin 自由文本签到文档，存储于MongoDB
type Checkin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	Text        string             `bson:"text" json:"text"`
	MoodRating  string             `bson:"mood_rating" json:"moodRating"`
	StressLevel int                `bson:"stress_level" json:"stressLevel"`
	Emotions    []string           `bson:"emotions" json:"emotions"`
	Analysis    *RiskAnalysis      `bson:"analysis,omitempty" json:"analysis,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
}
