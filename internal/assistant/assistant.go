// Package assistant wraps optional OpenAI chat calls used to phrase risk
// explanations and triage water reports.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/mr1hm/go-water-safety/internal/geo"
	"github.com/mr1hm/go-water-safety/internal/models"
)

const (
	DefaultModel = "gpt-4o-mini"

	maxDescriptionRunes = 500
)

var (
	ErrNoAPIKey     = errors.New("openai api key not set")
	ErrEmptyReply   = errors.New("empty completion")
	ErrUnrecognized = errors.New("unrecognized urgency")
)

type Assistant struct {
	client openai.Client
	model  string
}

// New returns an Assistant for apiKey. Extra options are passed to the
// OpenAI client (base URL, retries).
func New(apiKey, model string, opts ...option.RequestOption) (*Assistant, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrNoAPIKey
	}
	if model == "" {
		model = DefaultModel
	}

	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Assistant{
		client: openai.NewClient(opts...),
		model:  model,
	}, nil
}

// Rewrite turns a score and its deterministic explanation into one short sentence.
func (a *Assistant) Rewrite(ctx context.Context, score int, explanation string, p geo.Point) (string, error) {
	prompt := fmt.Sprintf(`You are a water safety assistant. In one short sentence (under 20 words), tell the user what this water safety result means. Be clear and calm.

Water safety score: %d/100 (higher = safer).
Factors: %s
Location: %g, %g

Reply with only that one sentence, no quotes or preamble.`, score, explanation, p.Lat, p.Lng)

	text, err := a.complete(ctx, 80, openai.UserMessage(prompt))
	if err != nil {
		return "", fmt.Errorf("rewrite explanation: %w", err)
	}
	return text, nil
}

// ClassifyUrgency asks the model for a single urgency word for a report description.
func (a *Assistant) ClassifyUrgency(ctx context.Context, description string) (models.Urgency, error) {
	if r := []rune(description); len(r) > maxDescriptionRunes {
		description = string(r[:maxDescriptionRunes])
	}

	text, err := a.complete(ctx, 10,
		openai.SystemMessage("You classify water safety reports by urgency. Reply with exactly one word: low, medium, high, or critical. Consider: contamination, flooding, no water, smell, color, illness, etc."),
		openai.UserMessage(fmt.Sprintf("Classify urgency for this report: %q", description)),
	)
	if err != nil {
		return "", fmt.Errorf("classify urgency: %w", err)
	}

	word := strings.Trim(strings.ToLower(strings.Fields(text)[0]), ".,!\"'")
	u, ok := models.ParseUrgency(word)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnrecognized, text)
	}
	return u, nil
}

func (a *Assistant) complete(ctx context.Context, maxTokens int64, msgs ...openai.ChatCompletionMessageParamUnion) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(a.model),
		Messages:  msgs,
		MaxTokens: openai.Int(maxTokens),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}
