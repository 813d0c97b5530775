package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hr-portal/config"
	"hr-portal/domain"
)

// Generator is a closable text generator bound to one provider and model.
type Generator interface {
	domain.TextGenerator
	Model() string
	Close() error
}

// NewTextGenerator builds the provider selected by LLM_PROVIDER.
func NewTextGenerator(ctx context.Context, cfg config.LLMConfig, logger *logrus.Logger) (Generator, error) {
	var (
		gen Generator
		err error
	)
	switch cfg.Provider {
	case "gemini":
		gen, err = NewGeminiClient(cfg)
	case "vertex":
		gen, err = NewVertexClient(ctx, cfg)
	case "openai":
		gen, err = NewOpenAIClient(cfg)
	case "anthropic":
		gen, err = NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"provider": gen.Name(),
		"model":    gen.Model(),
	}).Info("text generator ready")

	return &loggingGenerator{next: gen, logger: logger}, nil
}

type loggingGenerator struct {
	next   Generator
	logger *logrus.Logger
}

func (l *loggingGenerator) Name() string  { return l.next.Name() }
func (l *loggingGenerator) Model() string { return l.next.Model() }
func (l *loggingGenerator) Close() error  { return l.next.Close() }

func (l *loggingGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	out, err := l.next.Generate(ctx, prompt)

	entry := l.logger.WithFields(logrus.Fields{
		"provider":     l.next.Name(),
		"model":        l.next.Model(),
		"prompt_chars": len(prompt),
		"duration_ms":  time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Warn("text generation failed")
		return "", err
	}
	entry.WithField("response_chars", len(out)).Debug("text generation completed")
	return out, nil
}
