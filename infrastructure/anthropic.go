package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"hr-portal/config"
)

type AnthropicClient struct {
	client      anthropic.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewAnthropicClient(cfg config.LLMConfig) (*AnthropicClient, error) {
	if cfg.AnthropicKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
	}

	return &AnthropicClient{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey)),
		model:       cfg.ModelName(),
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (a *AnthropicClient) Name() string { return "anthropic" }

func (a *AnthropicClient) Model() string { return a.model }

func (a *AnthropicClient) Close() error { return nil }

func (a *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(a.maxTokens),
		Temperature: anthropic.Float(float64(a.temperature)),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to call Claude API: %w", err)
	}

	var sb strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content in Claude response")
	}
	return sb.String(), nil
}
