package model

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// FetchDevices queries the control server for reachable devices. Failures
// surface as an empty list, never an error.
func (m *Model) FetchDevices() tea.Cmd {
	gateway := m.Gateway
	return func() tea.Msg {
		devices := gateway.ListDevices(context.Background())
		return DevicesListMsg{Devices: devices}
	}
}
