package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/srihar-15/EMS/internal/config"

	"github.com/sashabaranov/go-openai"
)

var ErrAnalystNotConfigured = errors.New("insights: no AI api key configured")

const systemPrompt = "You are a senior HR data analyst. Answer with a simple HTML unordered list (<ul><li>...</li></ul>), no Markdown."

//go:generate mockgen -source=insights_analyst.go -destination=mock/insights_analyst_mock.go -package=mock
type Analyst interface {
	Analyze(ctx context.Context, prompt string) (string, error)
}

type openAIAnalyst struct {
	client *openai.Client
	model  string
}

// NewOpenAIAnalyst returns an Analyst that always fails with
// ErrAnalystNotConfigured when no api key is set.
func NewOpenAIAnalyst(cfg config.AIConfig) Analyst {
	if cfg.APIKey == "" {
		return &openAIAnalyst{model: cfg.Model}
	}
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAIAnalyst{client: openai.NewClientWithConfig(c), model: model}
}

func (a *openAIAnalyst) Analyze(ctx context.Context, prompt string) (string, error) {
	if a.client == nil {
		return "", ErrAnalystNotConfigured
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("openai returned empty content")
	}
	return text, nil
}
