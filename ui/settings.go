package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"patui/config"
)

type SettingFieldType int

const (
	SettingTypeText SettingFieldType = iota
	SettingTypeSecret
	SettingTypeToggle
)

type SettingField struct {
	Label string
	Value string
	Type  SettingFieldType

	// Toggle values, in cycle order
	Options []string
}

func buildSettingsFields(cfg *config.Config) []SettingField {
	useQwen := "off"
	if cfg.UseQwen3 {
		useQwen = "on"
	}
	return []SettingField{
		{Label: "Device ID", Value: cfg.DeviceID, Type: SettingTypeText},
		{Label: "API Key", Value: cfg.APIKey, Type: SettingTypeSecret},
		{Label: "Qwen API Key", Value: cfg.QwenAPIKey, Type: SettingTypeSecret},
		{Label: "Theme", Value: cfg.Theme, Type: SettingTypeToggle, Options: []string{"light", "dark"}},
		{Label: "Qwen Titles", Value: useQwen, Type: SettingTypeToggle, Options: []string{"off", "on"}},
	}
}

func patchFromFields(fields []SettingField) config.Patch {
	var patch config.Patch
	for i := range fields {
		f := fields[i]
		switch f.Label {
		case "Device ID":
			patch.DeviceID = &f.Value
		case "API Key":
			patch.APIKey = &f.Value
		case "Qwen API Key":
			patch.QwenAPIKey = &f.Value
		case "Theme":
			patch.Theme = &f.Value
		case "Qwen Titles":
			useQwen := f.Value == "on"
			patch.UseQwen3 = &useQwen
		}
	}
	return patch
}

func (a AppView) handleSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.settingsEditMode {
		return a.handleSettingsEditMode(msg)
	}
	return a.handleSettingsNavigationMode(msg)
}

func (a AppView) handleSettingsNavigationMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "alt+o":
		a.showSettings = false
		return a, nil

	case "j", "down":
		if a.selectedSettingIdx < len(a.settingsFields)-1 {
			a.selectedSettingIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedSettingIdx > 0 {
			a.selectedSettingIdx--
		}
		return a, nil

	case "enter", " ":
		if a.selectedSettingIdx < 0 || a.selectedSettingIdx >= len(a.settingsFields) {
			return a, nil
		}
		field := &a.settingsFields[a.selectedSettingIdx]

		if field.Type == SettingTypeToggle {
			// Cycle to the next option
			for i, opt := range field.Options {
				if opt == field.Value {
					field.Value = field.Options[(i+1)%len(field.Options)]
					break
				}
			}
			a.settingsHasChanges = true
			return a, nil
		}

		a.settingsEditMode = true
		a.settingsEditInput = textinput.New()
		a.settingsEditInput.Prompt = ""
		a.settingsEditInput.CharLimit = 256
		a.settingsEditInput.SetValue(field.Value)
		a.settingsEditInput.Focus()
		a.settingsEditInput.CursorEnd()
		return a, textinput.Blink

	case "alt+enter":
		patch := patchFromFields(a.settingsFields)
		a.dataModel.Config.Apply(patch)
		ApplyTheme(a.dataModel.Config.Theme)
		a.settingsFields = buildSettingsFields(a.dataModel.Config)
		cfg := a.dataModel.Config
		return a, func() tea.Msg {
			return settingsSavedMsg{err: cfg.Save()}
		}
	}

	return a, nil
}

func (a AppView) handleSettingsEditMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.settingsEditMode = false
		a.settingsEditInput.Blur()
		return a, nil

	case "alt+u":
		a.settingsEditInput.SetValue("")
		return a, nil

	case "enter":
		a.settingsFields[a.selectedSettingIdx].Value = strings.TrimSpace(a.settingsEditInput.Value())
		a.settingsEditMode = false
		a.settingsEditInput.Blur()
		a.settingsHasChanges = true
		return a, nil
	}

	var cmd tea.Cmd
	a.settingsEditInput, cmd = a.settingsEditInput.Update(msg)
	return a, cmd
}

func renderSettings(fields []SettingField, selectedIdx int, editMode bool, editInput textinput.Model, hasChanges bool, saveError string, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}

	title := "Settings"
	if hasChanges {
		title = "Settings *"
	}
	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render(title)

	var fieldLines []string
	fieldLines = append(fieldLines, strings.Repeat(" ", modalWidth)) // Top padding

	for i, field := range fields {
		indicator := "  "
		if i == selectedIdx {
			indicator = "▶ "
		}

		label := field.Label + ":"
		labelStyled := label
		if i == selectedIdx {
			labelStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(label)
		}

		var valueDisplay string
		if editMode && i == selectedIdx {
			valueDisplay = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(editInput.View())
		} else {
			value := field.Value
			if field.Type == SettingTypeSecret && value != "" {
				value = strings.Repeat("*", len(value))
			}
			if value == "" {
				value = DimStyle.Render("(not set)")
			} else if field.Type == SettingTypeToggle {
				value = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(value)
			}
			valueDisplay = value
		}

		line := "  " + indicator + labelStyled
		fieldLines = append(fieldLines, lipgloss.NewStyle().Width(modalWidth).Render(line))
		fieldLines = append(fieldLines, lipgloss.NewStyle().Width(modalWidth).Render("      "+valueDisplay))
		fieldLines = append(fieldLines, strings.Repeat(" ", modalWidth))
	}

	if saveError != "" {
		errLine := lipgloss.NewStyle().
			Foreground(dangerColor).
			Width(modalWidth).
			Render("  " + wordWrap("Save failed: "+saveError, modalWidth-4))
		fieldLines = append(fieldLines, errLine)
		fieldLines = append(fieldLines, strings.Repeat(" ", modalWidth))
	}

	fieldSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(fieldLines, "\n"))

	var footer string
	if editMode {
		footer = FormatFooter("Enter", "Apply", "Alt+U", "Clear", "Esc", "Cancel")
	} else {
		footer = FormatFooter("j/k", "Navigate", "Enter", "Edit/Toggle", "Alt+Enter", "Save", "Esc", "Close")
	}
	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footer)

	sections := []string{titleSection, fieldSection, footerSection}
	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
