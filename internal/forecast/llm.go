package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

const promptTemplate = `You forecast ingredient usage for a busy mamak restaurant kitchen.
Ingredient: %s
Current stock: %g %s

Estimate the stock left after 7 days and after 30 days of normal trading.
Reply with JSON only, in the form:
{"predicted7days": <number>, "predicted30days": <number>, "confidence": <number between 0 and 1>}`

// LLM asks a language model for each item and falls back to the heuristic
// for any item the model cannot answer.
type LLM struct {
	model    llms.Model
	name     string
	fallback Heuristic
	log      *slog.Logger
}

// NewLLM wraps an existing model
func NewLLM(model llms.Model, name string, log *slog.Logger) *LLM {
	if log == nil {
		log = slog.Default()
	}
	return &LLM{model: model, name: name, log: log}
}

// NewOpenAI builds an LLM forecaster on an OpenAI model
func NewOpenAI(modelName, apiKey string, log *slog.Logger) (*LLM, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai forecaster")
	}

	model, err := openai.New(
		openai.WithModel(modelName),
		openai.WithToken(apiKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenAI model: %w", err)
	}
	return NewLLM(model, modelName, log), nil
}

// Forecast only fails when ctx is done
func (f *LLM) Forecast(ctx context.Context, levels []StockLevel) ([]Prediction, error) {
	predictions := make([]Prediction, 0, len(levels))
	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		p, err := f.predict(ctx, level)
		if err != nil {
			f.log.Warn("forecast fell back to heuristic", "item", level.Name, "model", f.name, "error", err)
			p = f.fallback.predict(level)
		}
		predictions = append(predictions, p)
	}
	return predictions, nil
}

type modelAnswer struct {
	Predicted7Days  *float64 `json:"predicted7days"`
	Predicted30Days *float64 `json:"predicted30days"`
	Confidence      float64  `json:"confidence"`
}

func (f *LLM) predict(ctx context.Context, level StockLevel) (Prediction, error) {
	prompt := fmt.Sprintf(promptTemplate, level.Name, level.CurrentStock, level.Unit)
	resp, err := f.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}, llms.WithTemperature(0))
	if err != nil {
		return Prediction{}, fmt.Errorf("failed to generate forecast: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return Prediction{}, fmt.Errorf("empty response from model")
	}

	answer, err := parseAnswer(resp.Choices[0].Content)
	if err != nil {
		return Prediction{}, err
	}

	p7 := math.Max(0, *answer.Predicted7Days)
	p30 := math.Max(0, *answer.Predicted30Days)
	return Prediction{
		Name:            level.Name,
		CurrentStock:    level.CurrentStock,
		Predicted7Days:  p7,
		Predicted30Days: p30,
		Recommendation:  Recommend(p7, p30),
		Unit:            level.Unit,
		Confidence:      math.Min(1, math.Max(0, answer.Confidence)),
		ModelUsed:       f.name,
	}, nil
}

// models like to wrap JSON in prose or code fences
func parseAnswer(content string) (modelAnswer, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return modelAnswer{}, fmt.Errorf("no JSON object in model response")
	}

	var answer modelAnswer
	if err := json.Unmarshal([]byte(content[start:end+1]), &answer); err != nil {
		return modelAnswer{}, fmt.Errorf("failed to parse model response: %w", err)
	}
	if answer.Predicted7Days == nil || answer.Predicted30Days == nil {
		return modelAnswer{}, fmt.Errorf("model response is missing predictions")
	}
	return answer, nil
}
