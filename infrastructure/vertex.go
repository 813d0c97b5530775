package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"hr-portal/config"
)

// VertexClient uses Gemini models through Vertex AI with application default credentials.
type VertexClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
}

func NewVertexClient(ctx context.Context, cfg config.LLMConfig) (*VertexClient, error) {
	client, err := genai.NewClient(ctx, cfg.VertexProject, cfg.VertexLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName())
	model.SetTemperature(cfg.Temperature)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))
	model.ResponseMIMEType = "application/json"

	return &VertexClient{client: client, model: model, name: cfg.ModelName()}, nil
}

func (v *VertexClient) Name() string { return "vertex" }

func (v *VertexClient) Model() string { return v.name }

func (v *VertexClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}

func (v *VertexClient) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
