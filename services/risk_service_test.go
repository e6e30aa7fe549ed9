package services

import (
	"SoulbloomGo/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRisk() *RiskService {
	s := NewRiskService()
	s.Now = fixedNow(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	return s
}

func TestAnalyzeCrisisPhraseShortCircuits(t *testing.T) {
	svc := newTestRisk()

	// 心情再好、压力再低，危机短语都必须短路为critical
	result := svc.Analyze(AnalysisInput{
		Text:        "Honestly I just want to kill myself",
		MoodRating:  models.MoodGreat,
		StressLevel: 1,
	})

	assert.Equal(t, models.RiskCritical, result.RiskLevel)
	assert.True(t, result.RequiresImmediateAttention)
	assert.Equal(t, models.SentimentNegative, result.Sentiment)
	assert.Equal(t, -0.9, result.SentimentScore)
	require.NotEmpty(t, result.Suggestions)
	assert.Contains(t, result.Suggestions[0], "988")
	assert.Equal(t, "fallback", result.Source)
}

func TestAnalyzeCrisisPhraseCaseInsensitive(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		Text:       "NO REASON TO LIVE anymore",
		MoodRating: models.MoodOkay,
	})

	assert.Equal(t, models.RiskCritical, result.RiskLevel)
	assert.True(t, result.RequiresImmediateAttention)
}

func TestAnalyzeTerribleMoodWithVeryHighStress(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodTerrible,
		StressLevel: 10,
	})

	assert.Equal(t, models.RiskHigh, result.RiskLevel)
	assert.Equal(t, models.SentimentNegative, result.Sentiment)
	assert.LessOrEqual(t, result.SentimentScore, -0.3)
	assert.False(t, result.RequiresImmediateAttention)
	assert.Contains(t, result.RiskIndicators, "very high stress level")
}

func TestAnalyzeGreatMoodLowStressIsPositive(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodGreat,
		StressLevel: 1,
		Emotions:    []string{"happy", "calm"},
	})

	assert.Equal(t, models.SentimentPositive, result.Sentiment)
	assert.Greater(t, result.SentimentScore, 0.2)
	assert.Equal(t, models.RiskLow, result.RiskLevel)
}

func TestAnalyzeElevatedStressClampsScore(t *testing.T) {
	svc := newTestRisk()

	// good的基线0.5被压力6-7压到不高于0，风险升到moderate
	result := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodGood,
		StressLevel: 6,
	})

	assert.LessOrEqual(t, result.SentimentScore, 0.0)
	assert.Equal(t, models.RiskModerate, result.RiskLevel)
}

func TestAnalyzeElevatedStressWithTerribleMoodIsHigh(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodTerrible,
		StressLevel: 6,
	})

	assert.Equal(t, models.RiskHigh, result.RiskLevel)
}

func TestAnalyzeNegativeEmotionImbalance(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodOkay,
		StressLevel: 3,
		Emotions:    []string{"anxious", "sad", "tired"},
	})

	assert.LessOrEqual(t, result.SentimentScore, -0.2)
	assert.Contains(t, result.RiskIndicators, "predominantly negative emotions")
}

func TestAnalyzeMixedEmotions(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodOkay,
		StressLevel: 3,
		Emotions:    []string{"happy", "sad"},
	})

	assert.Equal(t, models.SentimentMixed, result.Sentiment)
}

func TestAnalyzeTextNudgesScoreDown(t *testing.T) {
	svc := newTestRisk()

	result := svc.Analyze(AnalysisInput{
		Text:        "feeling hopeless and so alone lately",
		MoodRating:  models.MoodBad,
		StressLevel: 2,
	})

	assert.InDelta(t, -0.6, result.SentimentScore, 1e-9)
	assert.Equal(t, models.SentimentNegative, result.Sentiment)
	assert.Contains(t, result.Keywords, "hopeless")
	assert.Contains(t, result.Keywords, "alone")
}

func TestAnalyzeTextNudgeIsBounded(t *testing.T) {
	svc := newTestRisk()

	// terrible基线-0.8再减0.2会越界，封顶在-0.9
	down := svc.Analyze(AnalysisInput{
		Text:        "so lonely and worthless and exhausted",
		MoodRating:  models.MoodTerrible,
		StressLevel: 2,
	})
	assert.InDelta(t, -0.9, down.SentimentScore, 1e-9)

	// great基线0.9加0.2同样封顶在0.9
	up := svc.Analyze(AnalysisInput{
		Text:        "so happy and grateful and hopeful today",
		MoodRating:  models.MoodGreat,
		StressLevel: 1,
	})
	assert.InDelta(t, 0.9, up.SentimentScore, 1e-9)
}

func TestAnalyzeSuggestionCountBounds(t *testing.T) {
	svc := newTestRisk()

	// 规则全命中时封顶4条
	many := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodBad,
		StressLevel: 9,
		Emotions:    []string{"anxious", "sad", "tired", "angry", "stressed"},
	})
	assert.Len(t, many.Suggestions, 4)

	// 无规则命中时用通用建议补足2条
	few := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodOkay,
		StressLevel: 2,
	})
	assert.Len(t, few.Suggestions, 2)
}

func TestAnalyzeSupportiveMessagePriority(t *testing.T) {
	svc := newTestRisk()

	highStress := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodGood,
		StressLevel: 9,
	})
	assert.Equal(t, highStressMessage, highStress.SupportiveMessage)

	mood := svc.Analyze(AnalysisInput{
		MoodRating:  models.MoodBad,
		StressLevel: 3,
	})
	assert.Equal(t, moodMessages[models.MoodBad], mood.SupportiveMessage)

	emotion := svc.Analyze(AnalysisInput{
		StressLevel: 3,
		Emotions:    []string{"anxious"},
	})
	assert.Equal(t, "Anxiety is uncomfortable, but it will pass. You're safe right now.", emotion.SupportiveMessage)

	generic := svc.Analyze(AnalysisInput{StressLevel: 3})
	assert.Equal(t, genericMessage, generic.SupportiveMessage)
}

func TestAnalyzeIsDeterministic(t *testing.T) {
	svc := newTestRisk()
	in := AnalysisInput{
		Text:        "tired and overwhelmed but still here",
		MoodRating:  models.MoodBad,
		StressLevel: 7,
		Emotions:    []string{"tired", "stressed"},
	}

	first := svc.Analyze(in)
	second := svc.Analyze(in)
	assert.Equal(t, first, second)
}
