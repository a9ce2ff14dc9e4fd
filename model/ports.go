package model

import (
	"context"

	"patui/agent"
)

// Gateway is the phone agent command boundary. Implementations never return
// errors: Run yields a report or a failure description (ok distinguishes
// them) and ListDevices degrades to an empty list. agent.Client is the
// production implementation.
type Gateway interface {
	Run(ctx context.Context, instruction, deviceID string) (text string, ok bool)
	ListDevices(ctx context.Context) []agent.DeviceInfo
}

// Summarizer derives a bounded-length chat title from the first instruction
// of a chat. Must not fail; fall back to truncation.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}
