package ui

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	markdown "github.com/MichaelMure/go-term-markdown"
	tea "github.com/charmbracelet/bubbletea"
	gomarkdown "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"

	"patui/config"
	appmodel "patui/model"
)

// Pre-compiled regex patterns for better performance
var (
	inlineCodeRegex = regexp.MustCompile(`(?s)\x1b\[44;3m(.*?)\x1b\[0m`)
	mdLinkRegex     = regexp.MustCompile(`\[([^\]]+)\]\((https?://[^\)]+)\)`)
	urlRegex        = regexp.MustCompile(`(https?://[^\s]+)`)
	ansiRegex       = regexp.MustCompile(`\x1b\[[0-9;]*m`)
)

func (a *AppView) updateViewportContent(gotoBottom bool) {
	if len(a.dataModel.Active.Messages) == 0 {
		a.viewport.SetContent("No messages yet. Tell the phone agent what to do!")
		return
	}

	var content strings.Builder

	for i, msg := range a.dataModel.Active.Messages {
		selectPrefix := ""
		if a.selectMode && i == a.selectedMessageIdx {
			selectPrefix = HighlightStyle.Render(">>> ")
		}

		timestamp := DimStyle.Render(msg.Timestamp.Format("[15:04]"))

		if msg.Role == appmodel.RoleUser {
			role := UserStyle.Render("You")
			content.WriteString(formatUserMessage(selectPrefix, timestamp, role, msg.Content))
			continue
		}

		role := AgentStyle.Render("Agent")
		body := ""
		switch {
		case msg.Pending():
			body = fmt.Sprintf("%s Waiting for the phone agent...", a.loadingSpinner.View())
		case msg.Failed():
			role = FailedStyle.Render("Agent")
			body = FailedStyle.Render(msg.Content)
		default:
			body = msg.Content
			if rendered, ok := a.rendered[msg.ID]; ok {
				body = rendered
			}
		}

		content.WriteString(fmt.Sprintf("%s%s %s\n%s\n\n", selectPrefix, timestamp, role, body))
	}

	a.viewport.SetContent(content.String())
	if gotoBottom {
		a.viewport.GotoBottom()
	}
}

func formatUserMessage(selectPrefix, timestamp, role, content string) string {
	greenBold := "\x1b[32;1m"
	reset := "\x1b[0m"
	bar := greenBold + "┃" + reset

	lines := strings.Split(content, "\n")

	var result strings.Builder
	result.WriteString(fmt.Sprintf("%s%s %s %s\n", selectPrefix, bar, timestamp, role))

	for _, line := range lines {
		result.WriteString(fmt.Sprintf("%s %s\n", bar, line))
	}

	result.WriteString("\n")

	return result.String()
}

// renderMarkdownAsync renders a resolved report off the update loop. Reports
// come back from the agent as markdown.
func (a AppView) renderMarkdownAsync(messageID, content string) tea.Cmd {
	width := a.width
	return func() tea.Msg {
		startTime := time.Now()

		// Strip markdown link syntax [text](url) → url so links show as
		// plain URLs the terminal can make clickable
		content = preprocessLinks(content)

		// Autolink disabled keeps plain URLs as plain text
		defaultExt := markdown.Extensions()
		customExt := defaultExt &^ parser.Autolink
		p := parser.NewWithExtensions(customExt)
		r := markdown.NewRenderer(width-4, 0)
		doc := p.Parse([]byte(content))
		rendered := gomarkdown.Render(doc, r)

		processed := postProcessMarkdown(string(rendered))

		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] rendered report %s (%d chars) in %v", messageID, len(content), time.Since(startTime))
		}

		return markdownRenderedMsg{
			MessageID: messageID,
			Rendered:  strings.TrimRight(processed, "\n"),
		}
	}
}

func postProcessMarkdown(rendered string) string {
	// 1. Fix inline code: blue background → red text
	rendered = fixInlineCode(rendered)

	// 2. Color plain URLs red
	rendered = fixMarkdownLinks(rendered)

	return rendered
}

func preprocessLinks(content string) string {
	return mdLinkRegex.ReplaceAllString(content, "$2")
}

func fixInlineCode(s string) string {
	// Replace: \x1b[44;3m...text...\x1b[0m (Blue BG + Italic)
	// With:    \x1b[31m...text...\x1b[0m (Red text)
	return inlineCodeRegex.ReplaceAllString(s, "\x1b[31m$1\x1b[0m")
}

func fixMarkdownLinks(s string) string {
	redColor := "\x1b[31m"
	reset := "\x1b[0m"

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		// Skip code blocks (they have ┃ prefix from the renderer)
		if !strings.Contains(line, "┃") {
			lines[i] = urlRegex.ReplaceAllString(line, redColor+"$1"+reset)
		}
	}
	return strings.Join(lines, "\n")
}

// stripANSI removes ANSI escape codes for accurate length calculation
func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// wordWrap wraps text to maxWidth, breaking on spaces.
func wordWrap(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}

	var result strings.Builder
	for i, paragraph := range strings.Split(text, "\n") {
		if i > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(paragraph)
		lineLen := 0
		for j, word := range words {
			wordLen := len(stripANSI(word))
			if lineLen > 0 && lineLen+1+wordLen > maxWidth {
				result.WriteString("\n")
				lineLen = 0
			} else if j > 0 {
				result.WriteString(" ")
				lineLen++
			}
			result.WriteString(word)
			lineLen += wordLen
		}
	}
	return result.String()
}
