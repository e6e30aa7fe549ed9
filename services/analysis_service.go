package services

import (
	"SoulbloomGo/config"
	"SoulbloomGo/models"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
)

// 外部LLM返回数组的截断上限
const (
	maxEmotions    = 10
	maxKeywords    = 10
	maxThemes      = 5
	maxSuggestions = 6
)

// AnalysisService 签到分析服务。优先走LLM，LLM不可用或输出不合法时
// 降级到规则分类器，对用户永远不是错误。
type AnalysisService struct {
	LLM      llms.Model // 可为nil，表示未配置LLM
	Fallback *RiskService
	Now      func() time.Time
}

func NewAnalysisService(llm llms.Model, fallback *RiskService) *AnalysisService {
	return &AnalysisService{
		LLM:      llm,
		Fallback: fallback,
		Now:      time.Now,
	}
}

const analysisSystemPrompt = `You are a mental-wellness analysis assistant. Given a user's check-in
(free text, mood rating, stress level 0-10, emotion tags), respond with ONLY a JSON object:
{
  "sentiment": "positive" | "negative" | "neutral" | "mixed",
  "sentiment_score": number in [-1, 1],
  "emotions": [string],
  "keywords": [string],
  "themes": [string],
  "suggestions": [string],
  "risk_level": "low" | "moderate" | "high" | "critical",
  "risk_indicators": [string],
  "supportive_message": string,
  "requires_immediate_attention": boolean
}
Use "critical" only for self-harm or suicide risk. Be supportive, concrete and brief.`

// rawLLMAnalysis LLM原始输出，所有字段都不可信，逐字段清洗后才能用
type rawLLMAnalysis struct {
	Sentiment                  string   `json:"sentiment"`
	SentimentScore             *float64 `json:"sentiment_score"`
	Emotions                   []string `json:"emotions"`
	Keywords                   []string `json:"keywords"`
	Themes                     []string `json:"themes"`
	Suggestions                []string `json:"suggestions"`
	RiskLevel                  string   `json:"risk_level"`
	RiskIndicators             []string `json:"risk_indicators"`
	SupportiveMessage          string   `json:"supportive_message"`
	RequiresImmediateAttention bool     `json:"requires_immediate_attention"`
}

// AnalyzeCheckin 分析一次签到。返回值永远可用：LLM路径失败时
// 内部记为ClassifierUnavailable并降级，不向调用方透出错误。
func (s *AnalysisService) AnalyzeCheckin(ctx context.Context, in AnalysisInput) models.RiskAnalysis {
	if s.LLM == nil {
		return s.Fallback.Analyze(in)
	}

	analysis, err := s.analyzeWithLLM(ctx, in)
	if err != nil {
		config.Logger.Errorw("LLM分析不可用，降级到规则分类器",
			"error", fmt.Errorf("%w: %v", ErrClassifierUnavailable, err),
		)
		return s.Fallback.Analyze(in)
	}
	return analysis
}

func (s *AnalysisService) analyzeWithLLM(ctx context.Context, in AnalysisInput) (models.RiskAnalysis, error) {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(analysisSystemPrompt)},
		},
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(fmt.Sprintf(
				"Check-in text: %q\nMood rating: %s\nStress level: %d\nEmotion tags: %s",
				in.Text, in.MoodRating, in.StressLevel, strings.Join(in.Emotions, ", "),
			))},
		},
	}

	response, err := s.LLM.GenerateContent(ctx, messages, llms.WithTemperature(0.2))
	if err != nil {
		return models.RiskAnalysis{}, err
	}
	if len(response.Choices) == 0 {
		return models.RiskAnalysis{}, fmt.Errorf("empty response")
	}

	var raw rawLLMAnalysis
	if err := json.Unmarshal([]byte(response.Choices[0].Content), &raw); err != nil {
		return models.RiskAnalysis{}, fmt.Errorf("malformed response: %v", err)
	}

	return s.sanitize(raw), nil
}

// sanitize 逐字段校验LLM输出：枚举校验、分数夹逼、数组截断，
// 非法或缺失字段落到安全默认值。外部输出永远不被信任。
func (s *AnalysisService) sanitize(raw rawLLMAnalysis) models.RiskAnalysis {
	analysis := models.RiskAnalysis{
		Sentiment:                  models.SentimentNeutral,
		SentimentScore:             0,
		RiskLevel:                  models.RiskLow,
		Emotions:                   truncate(raw.Emotions, maxEmotions),
		Keywords:                   truncate(raw.Keywords, maxKeywords),
		Themes:                     truncate(raw.Themes, maxThemes),
		Suggestions:                truncate(raw.Suggestions, maxSuggestions),
		RiskIndicators:             truncate(raw.RiskIndicators, maxKeywords),
		SupportiveMessage:          raw.SupportiveMessage,
		RequiresImmediateAttention: raw.RequiresImmediateAttention,
		Source:                     "llm",
		AnalyzedAt:                 s.Now().UTC(),
	}

	if sentiment := models.Sentiment(raw.Sentiment); models.ValidSentiment(sentiment) {
		analysis.Sentiment = sentiment
	}
	if raw.SentimentScore != nil {
		score := *raw.SentimentScore
		if score > 1 {
			score = 1
		}
		if score < -1 {
			score = -1
		}
		analysis.SentimentScore = score
	}
	if risk := models.RiskLevel(raw.RiskLevel); models.ValidRiskLevel(risk) {
		analysis.RiskLevel = risk
	}
	if analysis.SupportiveMessage == "" {
		analysis.SupportiveMessage = genericMessage
	}

	// 不变式：critical必须立即关注，且建议以危机热线开头
	if analysis.RiskLevel == models.RiskCritical {
		analysis.RequiresImmediateAttention = true
		analysis.Suggestions = truncate(append(append([]string{}, crisisSuggestions...), analysis.Suggestions...), maxSuggestions)
	}

	return analysis
}

func truncate(items []string, max int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > max {
		return items[:max]
	}
	return items
}
