// Package scoring grades a single interview answer with a fixed-weight
// keyword and length heuristic.
package scoring

import (
	"regexp"
	"strings"
)

type Band string

const (
	BandEmpty  Band = "empty"
	BandWeak   Band = "weak"
	BandGood   Band = "good"
	BandStrong Band = "strong"
)

const (
	MaxScore = 100

	longAnswerWords   = 30
	mediumAnswerWords = 15

	longAnswerPoints   = 40
	mediumAnswerPoints = 25
	shortAnswerPoints  = 10
	examplePoints      = 15
	metricPoints       = 15
	resultPoints       = 10

	strongThreshold = 80
	goodThreshold   = 60
)

var bandFeedback = map[Band]string{
	BandEmpty:  "Cevap boş.",
	BandStrong: "Güçlü cevap: detay + örnek + etki var.",
	BandGood:   "İyi: biraz daha ölçülebilir sonuç ve net örnek ekle.",
	BandWeak:   "Zayıf: daha yapılandırılmış anlat (durum-aksiyon-sonuç) ve örnek/metrik ekle.",
}

var (
	exampleMarkers = []string{"örnek", "mesela", "for example", "for instance", "e.g."}
	resultMarkers  = []string{"sonuç", "etki", "result", "impact"}
	metricPattern  = regexp.MustCompile(`(?i)\d+%|\d+\s*(yıl|ay|hafta|year|month|week)`)
)

// Result is the grade for one answer.
type Result struct {
	Score    int    `json:"score"`
	Band     Band   `json:"band"`
	Feedback string `json:"feedback"`
}

// Scorer grades answer text. HeuristicScorer is the default implementation.
type Scorer interface {
	Score(answer string) Result
}

type HeuristicScorer struct{}

func (HeuristicScorer) Score(answer string) Result { return Score(answer) }

// Score grades answer by length tier plus example, metric and result bonuses,
// clamped to MaxScore.
func Score(answer string) Result {
	text := strings.TrimSpace(answer)
	if text == "" {
		return Result{Score: 0, Band: BandEmpty, Feedback: bandFeedback[BandEmpty]}
	}
	lower := strings.ToLower(text)

	words := len(strings.Fields(text))
	score := shortAnswerPoints
	switch {
	case words >= longAnswerWords:
		score = longAnswerPoints
	case words >= mediumAnswerWords:
		score = mediumAnswerPoints
	}

	if containsAny(lower, exampleMarkers) {
		score += examplePoints
	}
	if metricPattern.MatchString(text) {
		score += metricPoints
	}
	if containsAny(lower, resultMarkers) {
		score += resultPoints
	}
	if score > MaxScore {
		score = MaxScore
	}

	band := BandFor(score)
	return Result{Score: score, Band: band, Feedback: bandFeedback[band]}
}

// BandFor maps a score to its feedback band.
func BandFor(score int) Band {
	switch {
	case score >= strongThreshold:
		return BandStrong
	case score >= goodThreshold:
		return BandGood
	default:
		return BandWeak
	}
}

// FeedbackFor returns the fixed message for a band.
func FeedbackFor(band Band) string {
	return bandFeedback[band]
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
