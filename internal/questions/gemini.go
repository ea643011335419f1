package questions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const geminiPrompt = `You are an interviewer running a practice job interview.
Reply with JSON only, shaped as {"question": "<text>"}.
Ask question number %s in language "%s". Ask exactly one question and keep it under 40 words.
Start the question with "%s %s: ".
Position: %s
Company: %s
Seniority: %s
Interview title: %s
%s
The candidate's previous answer was:
"""
%s
"""`

var ErrEmptyQuestion = errors.New("model returned no question")

// GeminiGenerator asks a Gemini model for the next question and falls back to
// another generator when the model fails or returns nothing usable.
type GeminiGenerator struct {
	model    string
	fallback Generator
	logger   *zap.Logger
	generate func(ctx context.Context, model, prompt string) (string, error)
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string, fallback Generator, logger *zap.Logger) (*GeminiGenerator, error) {
	if fallback == nil {
		return nil, errors.New("gemini generator requires a fallback generator")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiGenerator(model, fallback, logger, func(ctx context.Context, model, prompt string) (string, error) {
		result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.4)),
			ResponseMIMEType: "application/json",
		})
		if err != nil {
			return "", err
		}
		if result == nil {
			return "", ErrEmptyQuestion
		}
		return result.Text(), nil
	}), nil
}

func newGeminiGenerator(model string, fallback Generator, logger *zap.Logger, generate func(context.Context, string, string) (string, error)) *GeminiGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGenerator{model: model, fallback: fallback, logger: logger, generate: generate}
}

func (g *GeminiGenerator) NextQuestion(ctx context.Context, qc Context) (string, error) {
	raw, err := g.generate(ctx, g.model, buildPrompt(qc))
	if err == nil {
		var question string
		question, err = extractQuestion(raw)
		if err == nil {
			return question, nil
		}
	}
	g.logger.Warn("gemini question generation failed, using templates",
		zap.Int("index", qc.Index), zap.String("model", g.model), zap.Error(err))
	return g.fallback.NextQuestion(ctx, qc)
}

func extractQuestion(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(raw, "```"), "```"))
	if !gjson.Valid(raw) {
		return "", fmt.Errorf("model reply is not JSON")
	}
	question := strings.TrimSpace(gjson.Get(raw, "question").String())
	if question == "" {
		return "", ErrEmptyQuestion
	}
	return question, nil
}

func buildPrompt(qc Context) string {
	lang := strings.TrimSpace(qc.Language)
	if lang == "" {
		lang = fallbackLanguage
	}
	label := "Soru"
	if lang != "tr" {
		label = "Question"
	}
	cvLine := ""
	if qc.CVFileName != "" {
		cvLine = fmt.Sprintf("The candidate uploaded a CV named %q; you may refer to it.", qc.CVFileName)
	}
	return fmt.Sprintf(geminiPrompt,
		strconv.Itoa(qc.Index), lang, label, strconv.Itoa(qc.Index),
		orUnknown(qc.Role), orUnknown(qc.Company), orUnknown(qc.Level), orUnknown(qc.Title),
		cvLine, qc.LastAnswer)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}
