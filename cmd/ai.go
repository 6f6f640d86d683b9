package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/ai/gemini"
	"github.com/spigell/jobmatch/internal/jobs"
	jmlog "github.com/spigell/jobmatch/internal/logger"
	"github.com/spigell/jobmatch/internal/secrets"
)

func newLetterWriter(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.LetterWriter, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		Env:  "GEMINI_API_KEY",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	writerLogger := jmlog.WithFields(logger, jmlog.AIFields("gemini", generator.Model())...)

	return gemini.NewWriter(generator, cfg.Gemini.Tone, cfg.Gemini.MaxLogLength, writerLogger), nil
}

// draftMessage asks the configured model for an application message.
func draftMessage(ctx context.Context, config *Config, posting *jobs.Posting, profile *jobs.Profile, logger *zap.Logger) (string, error) {
	writer, err := newLetterWriter(ctx, config.AI, logger)
	if err != nil {
		return "", fmt.Errorf("building ai writer: %w", err)
	}

	letter, err := writer.Draft(ctx, posting, profile)
	if err != nil {
		return "", fmt.Errorf("drafting message: %w", err)
	}

	logger.Info("drafted application message",
		zap.String("posting_id", posting.ID),
		zap.Strings("matched", letter.Matched),
	)
	logger.Debug(letter.Message)

	return letter.Message, nil
}
