package agent

import (
	"context"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"patui/config"
)

const (
	// PlaceholderTitle is the title of a chat before its first user message
	// has been summarized.
	PlaceholderTitle = "New Chat"

	titleWidth = 40

	// Qwen's OpenAI-compatible endpoint
	qwenBaseURL = "https://dashscope.aliyuncs.com/compatible-mode/v1"
	qwenModel   = "qwen-plus"
)

// TruncateTitle derives a chat title from an instruction by truncation.
// Always deterministic and always available.
func TruncateTitle(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return PlaceholderTitle
	}
	// Collapse to a single line before measuring
	if i := strings.IndexAny(trimmed, "\r\n"); i >= 0 {
		trimmed = strings.TrimSpace(trimmed[:i])
		if trimmed == "" {
			return PlaceholderTitle
		}
	}
	return runewidth.Truncate(trimmed, titleWidth, "...")
}

// Summarizer produces short chat titles. When a Qwen API key is configured
// and the use_qwen3 flag is on it asks the model for a title; in every other
// case, including any model failure, it falls back to TruncateTitle. A title
// is cosmetic, so this never returns an error.
type Summarizer struct {
	client  openai.Client
	useQwen bool
}

func NewSummarizer(cfg *config.Config) *Summarizer {
	s := &Summarizer{}
	if cfg.UseQwen3 && cfg.QwenAPIKey != "" {
		s.client = openai.NewClient(
			option.WithBaseURL(qwenBaseURL),
			option.WithAPIKey(cfg.QwenAPIKey),
		)
		s.useQwen = true
	}
	return s
}

// Summarize returns a bounded-length display title for the given instruction.
func (s *Summarizer) Summarize(ctx context.Context, text string) string {
	if !s.useQwen || strings.TrimSpace(text) == "" {
		return TruncateTitle(text)
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("Summarize the user's phone automation instruction into a chat title of at most 6 words. Reply with the title only."),
			openai.UserMessage(text),
		},
		Model: openai.ChatModel(qwenModel),
	})
	if err != nil || len(completion.Choices) == 0 {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Summarizer] qwen title failed, using truncation: %v", err)
		}
		return TruncateTitle(text)
	}

	title := strings.TrimSpace(completion.Choices[0].Message.Content)
	if title == "" {
		return TruncateTitle(text)
	}
	// The model occasionally ignores the length bound
	return runewidth.Truncate(title, titleWidth, "...")
}
