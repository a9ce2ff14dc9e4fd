package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"patui/agent"
	"patui/config"
)

func renderDeviceSelector(devices []agent.DeviceInfo, selectedIdx int, currentDeviceID string, loading bool, loadingSpinner spinner.Model, manualMode bool, manualInput textinput.Model, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Phone Devices")

	var header string
	switch {
	case manualMode:
		header = manualInput.View()
	case loading:
		header = fmt.Sprintf("%s Fetching devices...", loadingSpinner.View())
	default:
		header = fmt.Sprintf("%d devices", len(devices))
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	var deviceLines []string
	emptyLine := strings.Repeat(" ", modalWidth)
	deviceLines = append(deviceLines, emptyLine)

	if len(devices) == 0 && !loading {
		emptyMsg := lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render("No devices reported. Press r to refresh or m to enter a device id.")
		deviceLines = append(deviceLines, emptyMsg)
	}

	for i, device := range devices {
		indicator := "  "
		if i == selectedIdx {
			indicator = "▶ "
		}

		statusIcon := lipgloss.NewStyle().Foreground(dimColor).Render("○")
		if device.Status == "online" {
			statusIcon = lipgloss.NewStyle().Foreground(successColor).Render("●")
		}

		idStyled := device.DeviceID
		if i == selectedIdx {
			idStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(device.DeviceID)
		} else if device.DeviceID == currentDeviceID {
			idStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(device.DeviceID)
		}

		currentMarker := ""
		if device.DeviceID == currentDeviceID {
			currentMarker = " " + lipgloss.NewStyle().Foreground(accentColor).Render("(current)")
		}

		meta := device.ConnectionType
		if device.Model != "" {
			meta = fmt.Sprintf("%s  %s", device.Model, device.ConnectionType)
		}
		metaStyled := DimStyle.Render(meta)

		line := fmt.Sprintf("  %s%s %s%s  %s", indicator, statusIcon, idStyled, currentMarker, metaStyled)
		deviceLines = append(deviceLines, lipgloss.NewStyle().Width(modalWidth).Render(line))
	}

	deviceLines = append(deviceLines, emptyLine)

	var footerText string
	if manualMode {
		footerText = FormatFooter("Enter", "Use Device", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("j/k", "Navigate", "Enter", "Select", "r", "Refresh", "m", "Manual", "Esc", "Exit")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	var sections []string
	sections = append(sections, titleSection)
	sections = append(sections, headerSection)
	sections = append(sections, deviceLines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (a AppView) handleDeviceSelectorKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.deviceManualMode {
		switch msg.String() {
		case "esc":
			a.deviceManualMode = false
			a.deviceManualInput.Blur()
			return a, nil

		case "enter":
			deviceID := strings.TrimSpace(a.deviceManualInput.Value())
			if deviceID == "" {
				return a, nil
			}
			a.deviceManualMode = false
			a.deviceManualInput.Blur()
			a.showDeviceSelector = false
			return a, a.applyDeviceID(deviceID)
		}

		var cmd tea.Cmd
		a.deviceManualInput, cmd = a.deviceManualInput.Update(msg)
		return a, cmd
	}

	switch msg.String() {
	case "esc", "alt+d":
		a.showDeviceSelector = false
		return a, nil

	case "j", "down":
		if a.selectedDeviceIdx < len(a.dataModel.Devices)-1 {
			a.selectedDeviceIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedDeviceIdx > 0 {
			a.selectedDeviceIdx--
		}
		return a, nil

	case "r":
		a.devicesLoading = true
		return a, tea.Batch(a.dataModel.FetchDevices(), a.loadingSpinner.Tick)

	case "m":
		a.deviceManualMode = true
		a.deviceManualInput.SetValue(a.dataModel.Config.DeviceID)
		a.deviceManualInput.Focus()
		a.deviceManualInput.CursorEnd()
		return a, textinput.Blink

	case "enter":
		if a.selectedDeviceIdx < 0 || a.selectedDeviceIdx >= len(a.dataModel.Devices) {
			return a, nil
		}
		deviceID := a.dataModel.Devices[a.selectedDeviceIdx].DeviceID
		a.showDeviceSelector = false
		return a, a.applyDeviceID(deviceID)
	}

	return a, nil
}

// applyDeviceID updates the configured device and persists the change.
func (a *AppView) applyDeviceID(deviceID string) tea.Cmd {
	a.dataModel.Config.Apply(config.Patch{DeviceID: &deviceID})
	if err := a.dataModel.Config.Save(); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[UI] failed to save device selection: %v", err)
		}
		return a.setFlash("Failed to save device selection.", true)
	}
	return a.setFlash(fmt.Sprintf("Using device %s.", deviceID), false)
}
