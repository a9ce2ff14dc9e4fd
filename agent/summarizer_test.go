package agent

import (
	"context"
	"strings"
	"testing"

	"patui/config"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"empty", "", PlaceholderTitle},
		{"whitespace only", "   \n\t ", PlaceholderTitle},
		{"short", "turn on wifi", "turn on wifi"},
		{"trimmed", "  open camera  ", "open camera"},
		{
			"long is truncated with ellipsis",
			"open the settings app, scroll down to the network section and disable wifi",
			"open the settings app, scroll down to...",
		},
		{"multiline keeps first line", "turn on wifi\nthen open camera", "turn on wifi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateTitle(tt.text)
			if got != tt.want {
				t.Errorf("TruncateTitle(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestTruncateTitleBounded(t *testing.T) {
	long := strings.Repeat("打开微信发送消息 ", 20)
	got := TruncateTitle(long)
	if len([]rune(got)) == 0 {
		t.Fatal("empty title for non-empty input")
	}
	// Display width, not byte length, is the bound
	if w := len([]rune(got)); w > titleWidth {
		t.Errorf("title %q has %d runes, want <= %d", got, w, titleWidth)
	}
}

func TestSummarizerFallsBackWithoutQwen(t *testing.T) {
	cfg := &config.Config{Theme: "light"}
	s := NewSummarizer(cfg)

	got := s.Summarize(context.Background(), "turn on wifi and open the camera app please")
	want := TruncateTitle("turn on wifi and open the camera app please")
	if got != want {
		t.Errorf("Summarize() = %q, want truncation fallback %q", got, want)
	}
}

func TestSummarizerEmptyInput(t *testing.T) {
	cfg := &config.Config{UseQwen3: true, QwenAPIKey: "sk-test"}
	s := NewSummarizer(cfg)

	if got := s.Summarize(context.Background(), "   "); got != PlaceholderTitle {
		t.Errorf("Summarize(blank) = %q, want %q", got, PlaceholderTitle)
	}
}
