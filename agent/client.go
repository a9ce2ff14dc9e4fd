// Package agent is the HTTP boundary to the phone agent control server.
//
// The control server owns instruction translation, on-device execution and
// report summarization; this package only ships instructions to it and hands
// the resulting report text back to the chat model. By contract nothing here
// raises past its own boundary: Run converts every failure into a
// human-readable string so the caller can resolve its pending placeholder
// uniformly, and ListDevices degrades to an empty list.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"patui/config"
)

const (
	MsgEmptyInstruction  = "Please provide an instruction."
	MsgDeviceNotSet      = "Device ID is not configured. Please set it in Settings."
	MsgNoResult          = "No result returned from phone agent."
	MsgUnexpectedFailure = "Unexpected error while calling phone agent server. Please check the server logs."
)

// DeviceInfo describes one device reachable through the control server.
type DeviceInfo struct {
	DeviceID       string `json:"device_id"`
	Status         string `json:"status"`
	ConnectionType string `json:"connection_type"`
	Model          string `json:"model,omitempty"`
}

type runRequest struct {
	Instruction string `json:"instruction"`
	DeviceID    string `json:"device_id"`
}

type runResponse struct {
	Result string `json:"result"`
}

type devicesResponse struct {
	Devices []DeviceInfo `json:"devices"`
}

// Client talks to the phone agent control server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = config.DefaultServerURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		// Instruction execution drives a real device; give it room.
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Run sends one instruction to the control server and returns the report
// text. All failure paths (validation, transport, non-2xx) yield a
// descriptive string instead of an error; ok reports whether the text is a
// real report rather than a failure description.
func (c *Client) Run(ctx context.Context, instruction, deviceID string) (text string, ok bool) {
	if instruction == "" {
		return MsgEmptyInstruction, false
	}
	if deviceID == "" {
		return MsgDeviceNotSet, false
	}

	body, err := json.Marshal(runRequest{
		Instruction: instruction,
		DeviceID:    deviceID,
	})
	if err != nil {
		return MsgUnexpectedFailure, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/phone-agent/run", bytes.NewReader(body))
	if err != nil {
		return MsgUnexpectedFailure, false
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] run transport error: %v", err)
		}
		return err.Error(), false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		errBody, _ := io.ReadAll(res.Body)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] run HTTP error: %d %s", res.StatusCode, errBody)
		}
		return fmt.Sprintf("Phone agent request failed: %d %s", res.StatusCode, errBody), false
	}

	var data runResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] run malformed response: %v", err)
		}
		return MsgNoResult, false
	}
	if data.Result == "" {
		return MsgNoResult, false
	}

	return data.Result, true
}

// ListDevices fetches the devices currently reachable through the control
// server. Any failure returns an empty list.
func (c *Client) ListDevices(ctx context.Context) []DeviceInfo {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/phone-agent/devices", nil)
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] devices transport error: %v", err)
		}
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		errBody, _ := io.ReadAll(res.Body)
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] devices HTTP error: %d %s", res.StatusCode, errBody)
		}
		return nil
	}

	var data devicesResponse
	if err := json.NewDecoder(res.Body).Decode(&data); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Agent] devices malformed response: %v", err)
		}
		return nil
	}

	return data.Devices
}
