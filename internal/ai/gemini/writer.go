package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/jobmatch/internal/ai"
	"github.com/spigell/jobmatch/internal/jobs"
	"github.com/spigell/jobmatch/internal/matching"
	"github.com/spigell/jobmatch/internal/utils"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Writer drafts application messages through a content generator.
type Writer struct {
	generator contentGenerator
	tone      string
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.LetterWriter = (*Writer)(nil)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200
	defaultTone         = "Friendly"
)

func NewWriter(generator contentGenerator, tone string, maxLogLength int, logger *zap.Logger) *Writer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if tone = strings.TrimSpace(tone); tone == "" {
		tone = defaultTone
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Writer{
		generator: generator,
		tone:      tone,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (w *Writer) Draft(ctx context.Context, posting *jobs.Posting, profile *jobs.Profile) (*ai.Letter, error) {
	if err := posting.Validate(); err != nil {
		return nil, err
	}
	if !profile.HasSkills() {
		return nil, fmt.Errorf("profile with skills is required: %w", jobs.ErrInvalidArgument)
	}

	postingJSON, err := json.MarshalIndent(posting, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal posting payload: %w", err)
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal profile payload: %w", err)
	}

	matched := matching.Matches(posting, profile)
	prompt := buildPrompt(string(profileJSON), string(postingJSON), matched, w.tone)

	w.logger.Debug("gemini generate content request",
		zap.String("posting_id", posting.ID),
		zap.String("cv_id", profile.CVID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("gemini generate content response",
		zap.String("posting_id", posting.ID),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	message, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	return &ai.Letter{Message: message, Matched: matched, Raw: raw}, nil
}

func buildPrompt(profileJSON, postingJSON string, matched []string, tone string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Profile:\n{{PROFILE_JSON}}\n\nPosting:\n{{POSTING_JSON}}\n\nJSON Response:"
	}

	matchedText := "none"
	if len(matched) > 0 {
		matchedText = strings.Join(matched, ", ")
	}

	prompt := strings.ReplaceAll(template, "{{PROFILE_JSON}}", profileJSON)
	prompt = strings.ReplaceAll(prompt, "{{POSTING_JSON}}", postingJSON)
	prompt = strings.ReplaceAll(prompt, "{{MATCHED}}", matchedText)
	prompt = strings.ReplaceAll(prompt, "{{TONE}}", tone)
	return prompt
}

// parseResponse accepts a JSON object with a message field, optionally fenced.
// Plain text responses are used as the message itself.
func parseResponse(raw string) (string, error) {
	cleaned := extractJSON(raw)

	if strings.HasPrefix(cleaned, "{") {
		var data struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
			return "", fmt.Errorf("parse gemini response: %w", err)
		}
		cleaned = strings.TrimSpace(data.Message)
	}

	if cleaned == "" {
		return "", errors.New("gemini response has no message")
	}
	return cleaned, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
