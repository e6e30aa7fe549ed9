package services

import (
	"SoulbloomGo/models"
	"math"
	"strings"
	"time"
)

// AnalysisInput 一次签到分析的输入
type AnalysisInput struct {
	Text        string
	MoodRating  string
	StressLevel int
	Emotions    []string
}

// RiskService 规则表驱动的兜底分类器。LLM不可用时使用，
// 完全确定性，无需网络即可测试。规则只收紧风险评估，从不放宽。
type RiskService struct {
	Now func() time.Time
}

func NewRiskService() *RiskService {
	return &RiskService{Now: time.Now}
}

// crisisPhrases 危机短语表，命中任意一条立即短路为critical
var crisisPhrases = []string{
	"suicide",
	"kill myself",
	"want to die",
	"end my life",
	"self-harm",
	"hurt myself",
	"better off dead",
	"no reason to live",
}

// crisisSuggestions 危机资源列表，热线条目固定在最前
var crisisSuggestions = []string{
	"Call or text 988 (Suicide & Crisis Lifeline) right now - you don't have to go through this alone",
	"Text HOME to 741741 to reach the Crisis Text Line",
	"Reach out to someone in your Care Circle or a trusted person near you",
	"If you are in immediate danger, call 911 or go to the nearest emergency room",
}

// moodBaseline 心情评级到基线(情绪倾向, 分数)的固定映射
var moodBaseline = map[string]struct {
	Sentiment models.Sentiment
	Score     float64
}{
	models.MoodGreat:    {models.SentimentPositive, 0.9},
	models.MoodGood:     {models.SentimentPositive, 0.5},
	models.MoodOkay:     {models.SentimentNeutral, 0.0},
	models.MoodBad:      {models.SentimentNegative, -0.4},
	models.MoodTerrible: {models.SentimentNegative, -0.8},
}

// 情绪标签的倾向分组
var negativeEmotionTags = map[string]bool{
	"anxious": true, "sad": true, "angry": true, "tired": true, "stressed": true,
}
var positiveEmotionTags = map[string]bool{
	"calm": true, "happy": true, "energetic": true,
}

// 自由文本的正负词表
var positiveWords = []string{
	"happy", "grateful", "excited", "peaceful", "hopeful", "proud", "loved", "better", "progress", "calm",
}
var negativeWords = []string{
	"sad", "lonely", "hopeless", "worthless", "exhausted", "overwhelmed", "scared", "angry", "worse", "alone",
}

// suggestionRule 建议规则：条件命中时贡献一条建议
type suggestionRule struct {
	Matches    func(AnalysisInput) bool
	Suggestion string
}

var suggestionRules = []suggestionRule{
	{
		Matches:    func(in AnalysisInput) bool { return in.StressLevel >= 8 },
		Suggestion: "Try a 5-minute breathing exercise to bring your stress level down",
	},
	{
		Matches:    func(in AnalysisInput) bool { return hasTag(in.Emotions, "anxious") },
		Suggestion: "Ground yourself with the 5-4-3-2-1 technique: name 5 things you can see, 4 you can touch, 3 you can hear, 2 you can smell, 1 you can taste",
	},
	{
		Matches:    func(in AnalysisInput) bool { return hasTag(in.Emotions, "sad") },
		Suggestion: "Consider reaching out to a friend or someone in your Care Circle - connection helps",
	},
	{
		Matches:    func(in AnalysisInput) bool { return hasTag(in.Emotions, "tired") },
		Suggestion: "Your body may be asking for rest - try an earlier night or a short break today",
	},
	{
		Matches:    func(in AnalysisInput) bool { return hasTag(in.Emotions, "angry") },
		Suggestion: "A brisk walk or some physical movement can help release tension",
	},
	{
		Matches:    func(in AnalysisInput) bool { return hasTag(in.Emotions, "stressed") },
		Suggestion: "Write down the one thing weighing on you most - naming it makes it smaller",
	},
}

// 按情绪倾向兜底的通用建议
var genericSuggestions = map[models.Sentiment][]string{
	models.SentimentPositive: {
		"Keep doing what's working - consider noting it in your journal",
		"Share the good moment with someone you care about",
	},
	models.SentimentNegative: {
		"Be gentle with yourself today - difficult days pass",
		"A short mindfulness session might help you reset",
	},
	models.SentimentNeutral: {
		"A quick check-in later today can help you track how things shift",
		"Try a short mindfulness session to stay centered",
	},
	models.SentimentMixed: {
		"Mixed feelings are normal - try journaling to untangle them",
		"A short breathing exercise can help you find steadier ground",
	},
}

// 心情评级对应的支持性话术
var moodMessages = map[string]string{
	models.MoodGreat:    "It's wonderful that you're feeling great - take a moment to savor it.",
	models.MoodGood:     "Glad today is a good day. Small wins add up.",
	models.MoodOkay:     "An okay day still counts. Thanks for checking in.",
	models.MoodBad:      "Sorry today feels rough. Bad days don't define you.",
	models.MoodTerrible: "Today sounds really hard. You showed strength just by checking in.",
}

// 情绪标签对应的支持性话术，按优先顺序检查
var emotionMessages = []struct {
	Tag     string
	Message string
}{
	{"anxious", "Anxiety is uncomfortable, but it will pass. You're safe right now."},
	{"sad", "It's okay to feel sad. Your feelings are valid."},
	{"angry", "Anger is telling you something matters. Give yourself space to cool down."},
	{"stressed", "You're carrying a lot right now. One thing at a time."},
	{"tired", "Rest isn't a luxury - it's how you recover."},
}

const highStressMessage = "That's a lot of stress to carry. Remember to breathe - you've gotten through hard days before."
const genericMessage = "Thank you for checking in with yourself today. That's a healthy habit."

// riskRank 风险等级排序，用于只升不降的收紧逻辑
var riskRank = map[models.RiskLevel]int{
	models.RiskLow:      0,
	models.RiskModerate: 1,
	models.RiskHigh:     2,
	models.RiskCritical: 3,
}

func riskAtLeast(current, floor models.RiskLevel) models.RiskLevel {
	if riskRank[floor] > riskRank[current] {
		return floor
	}
	return current
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

func countOccurrences(text string, words []string) int {
	total := 0
	for _, w := range words {
		total += strings.Count(text, w)
	}
	return total
}

// Analyze 运行规则管线，产出结构化分析结果
func (s *RiskService) Analyze(in AnalysisInput) models.RiskAnalysis {
	lowerText := strings.ToLower(in.Text)

	// 第一步：危机短语扫描，命中即短路
	for _, phrase := range crisisPhrases {
		if strings.Contains(lowerText, phrase) {
			return models.RiskAnalysis{
				Sentiment:                  models.SentimentNegative,
				SentimentScore:             -0.9,
				Emotions:                   in.Emotions,
				Keywords:                   []string{phrase},
				Suggestions:                append([]string{}, crisisSuggestions...),
				RiskLevel:                  models.RiskCritical,
				RiskIndicators:             []string{"crisis language: " + phrase},
				SupportiveMessage:          "You matter, and you deserve support. Please reach out right now - help is available.",
				RequiresImmediateAttention: true,
				Source:                     "fallback",
				AnalyzedAt:                 s.Now().UTC(),
			}
		}
	}

	// 第二步：心情评级基线
	sentiment := models.SentimentNeutral
	score := 0.0
	if baseline, ok := moodBaseline[in.MoodRating]; ok {
		sentiment = baseline.Sentiment
		score = baseline.Score
	}

	risk := models.RiskLow
	var indicators []string

	// 第三步：压力等级调整
	if in.StressLevel >= 8 {
		score = math.Min(score, -0.3)
		risk = riskAtLeast(risk, models.RiskHigh)
		indicators = append(indicators, "very high stress level")
	} else if in.StressLevel >= 6 {
		score = math.Min(score, 0)
		if in.MoodRating == models.MoodTerrible {
			risk = riskAtLeast(risk, models.RiskHigh)
		} else {
			risk = riskAtLeast(risk, models.RiskModerate)
		}
		indicators = append(indicators, "elevated stress level")
	}

	// 第四步：情绪标签调整
	negTags, posTags := 0, 0
	for _, tag := range in.Emotions {
		t := strings.ToLower(tag)
		if negativeEmotionTags[t] {
			negTags++
		}
		if positiveEmotionTags[t] {
			posTags++
		}
	}
	if negTags-posTags >= 2 {
		score = math.Min(score, -0.2)
		if sentiment == models.SentimentNeutral {
			sentiment = models.SentimentNegative
		}
		indicators = append(indicators, "predominantly negative emotions")
	}

	// 第五步：自由文本词表微调，双向封顶[-0.9, 0.9]
	var keywords []string
	if lowerText != "" {
		posHits := countOccurrences(lowerText, positiveWords)
		negHits := countOccurrences(lowerText, negativeWords)
		if posHits-negHits >= 2 {
			score = math.Min(score+0.2, 0.9)
		} else if negHits-posHits >= 2 {
			score = math.Max(score-0.2, -0.9)
		}
		for _, w := range append(append([]string{}, positiveWords...), negativeWords...) {
			if strings.Contains(lowerText, w) {
				keywords = append(keywords, w)
			}
		}
	}

	// 第六步：最终标签推导
	switch {
	case score > 0.2:
		sentiment = models.SentimentPositive
	case score < -0.2:
		sentiment = models.SentimentNegative
	case negTags > 0 && posTags > 0:
		sentiment = models.SentimentMixed
	default:
		sentiment = models.SentimentNeutral
	}

	// 第七步：建议生成，2到4条
	var suggestions []string
	for _, rule := range suggestionRules {
		if len(suggestions) >= 4 {
			break
		}
		if rule.Matches(in) {
			suggestions = append(suggestions, rule.Suggestion)
		}
	}
	if len(suggestions) < 2 {
		for _, generic := range genericSuggestions[sentiment] {
			if len(suggestions) >= 2 {
				break
			}
			suggestions = append(suggestions, generic)
		}
	}

	// 第八步：支持性话术，按优先级选取
	message := genericMessage
	if in.StressLevel >= 8 {
		message = highStressMessage
	} else if m, ok := moodMessages[in.MoodRating]; ok {
		message = m
	} else {
		for _, em := range emotionMessages {
			if hasTag(in.Emotions, em.Tag) {
				message = em.Message
				break
			}
		}
	}

	return models.RiskAnalysis{
		Sentiment:                  sentiment,
		SentimentScore:             score,
		Emotions:                   in.Emotions,
		Keywords:                   keywords,
		Suggestions:                suggestions,
		RiskLevel:                  risk,
		RiskIndicators:             indicators,
		SupportiveMessage:          message,
		RequiresImmediateAttention: false,
		Source:                     "fallback",
		AnalyzedAt:                 s.Now().UTC(),
	}
}
