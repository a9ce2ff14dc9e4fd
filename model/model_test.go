package model

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"patui/agent"
	"patui/config"
)

// mockGateway implements Gateway with configurable responses, always
// settling immediately.
type mockGateway struct {
	RunFunc         func(ctx context.Context, instruction, deviceID string) (string, bool)
	ListDevicesFunc func(ctx context.Context) []agent.DeviceInfo
	Instructions    []string
}

func newMockGateway() *mockGateway {
	g := &mockGateway{}
	g.RunFunc = func(ctx context.Context, instruction, deviceID string) (string, bool) {
		return "report: " + instruction, true
	}
	g.ListDevicesFunc = func(ctx context.Context) []agent.DeviceInfo {
		return nil
	}
	return g
}

func (g *mockGateway) Run(ctx context.Context, instruction, deviceID string) (string, bool) {
	g.Instructions = append(g.Instructions, instruction)
	return g.RunFunc(ctx, instruction, deviceID)
}

func (g *mockGateway) ListDevices(ctx context.Context) []agent.DeviceInfo {
	return g.ListDevicesFunc(ctx)
}

// mockSummarizer records what it was asked to summarize.
type mockSummarizer struct {
	Texts []string
}

func (s *mockSummarizer) Summarize(ctx context.Context, text string) string {
	s.Texts = append(s.Texts, text)
	return "title: " + text
}

func newTestModel(gateway Gateway) *Model {
	cfg := &config.Config{DeviceID: "emulator-5554", Theme: "light", ServerURL: config.DefaultServerURL}
	m := NewModel(cfg, gateway, &mockSummarizer{}, nil, nil, "test")

	// Deterministic ids: id-1, id-2, ...
	n := 0
	m.NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return m
}

// settle executes a command tree synchronously and feeds the resulting
// messages back into the model, the way the update loop would.
func settle(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			settle(m, c)
		}
	case AgentResponseMsg:
		m.ResolveAgentResponse(msg)
	case TitleMsg:
		m.ApplyTitle(msg)
	}
}

func contents(c *Chat) []string {
	out := make([]string, len(c.Messages))
	for i, msg := range c.Messages {
		if msg.Pending() {
			out[i] = "<pending>"
		} else {
			out[i] = msg.Content
		}
	}
	return out
}

func sendAndSettle(t *testing.T, m *Model, text string) {
	t.Helper()
	cmd := m.SendMessage(text, "")
	if cmd == nil {
		t.Fatalf("SendMessage(%q) rejected", text)
	}
	settle(m, cmd)
}

func TestSendMessageLifecycle(t *testing.T) {
	m := newTestModel(newMockGateway())

	cmd := m.SendMessage("turn on wifi", "")
	if cmd == nil {
		t.Fatal("SendMessage rejected")
	}

	// Before resolution: user message plus exactly one pending placeholder
	if got := contents(m.Active); len(got) != 2 || got[0] != "turn on wifi" || got[1] != "<pending>" {
		t.Fatalf("messages before resolution = %v", got)
	}
	if !m.Awaiting {
		t.Error("Awaiting should be set while a call is in flight")
	}
	if m.Active.Messages[1].Role != RoleAgent {
		t.Errorf("placeholder role = %q, want agent", m.Active.Messages[1].Role)
	}

	settle(m, cmd)

	if m.Awaiting {
		t.Error("Awaiting should clear once the placeholder resolves")
	}
	last := m.Active.Messages[len(m.Active.Messages)-1]
	if last.Pending() || last.Content != "report: turn on wifi" || last.Failed() {
		t.Errorf("resolved message = %+v", last)
	}
}

func TestSendMessageValidation(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		attachment string
		wantSent   string
		rejected   bool
	}{
		{"empty", "", "", "", true},
		{"whitespace only", "   \n", "", "", true},
		{"trimmed", "  open camera  ", "", "open camera", false},
		{"attachment only", "", "/tmp/shot.png", "[attachment: shot.png]", false},
		{"text with attachment", "describe this", "/tmp/shot.png", "describe this [attachment: shot.png]", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := newMockGateway()
			m := newTestModel(gw)

			cmd := m.SendMessage(tt.text, tt.attachment)
			if tt.rejected {
				if cmd != nil || len(m.Active.Messages) != 0 {
					t.Errorf("expected rejection, got cmd=%v messages=%v", cmd, contents(m.Active))
				}
				return
			}
			if cmd == nil {
				t.Fatal("SendMessage rejected")
			}
			settle(m, cmd)
			if len(gw.Instructions) != 1 || gw.Instructions[0] != tt.wantSent {
				t.Errorf("gateway saw %v, want [%q]", gw.Instructions, tt.wantSent)
			}
		})
	}
}

// At most one pending placeholder exists, however operations are interleaved.
func TestSinglePendingInvariant(t *testing.T) {
	m := newTestModel(newMockGateway())

	cmd := m.SendMessage("first", "")
	if m.PendingCount() != 1 {
		t.Fatalf("PendingCount = %d, want 1", m.PendingCount())
	}

	// Everything is rejected while the call is in flight
	if c := m.SendMessage("second", ""); c != nil {
		t.Error("SendMessage accepted while awaiting")
	}
	if c := m.EditMessage(m.Active.Messages[0].ID, "changed"); c != nil {
		t.Error("EditMessage accepted while awaiting")
	}
	if c := m.Retry(m.Active.Messages[0].ID); c != nil {
		t.Error("Retry accepted while awaiting")
	}
	if m.PendingCount() != 1 {
		t.Errorf("PendingCount = %d after rejected operations, want 1", m.PendingCount())
	}

	settle(m, cmd)

	// The placeholder settled
	if m.PendingCount() != 0 {
		t.Errorf("PendingCount = %d after resolution, want 0", m.PendingCount())
	}
}

// Editing a prior turn truncates everything after it.
func TestEditTruncatesTail(t *testing.T) {
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "u1")
	sendAndSettle(t, m, "u2")

	if len(m.Active.Messages) != 4 {
		t.Fatalf("setup: %v", contents(m.Active))
	}

	cmd := m.EditMessage(m.Active.Messages[0].ID, "x")
	if cmd == nil {
		t.Fatal("EditMessage rejected")
	}

	if got := contents(m.Active); len(got) != 2 || got[0] != "x" || got[1] != "<pending>" {
		t.Fatalf("after edit = %v, want [x <pending>]", got)
	}

	settle(m, cmd)
	if got := m.Active.Messages[1].Content; got != "report: x" {
		t.Errorf("regenerated response = %q", got)
	}
}

func TestEditRejectsUnchangedOrEmpty(t *testing.T) {
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "u1")

	id := m.Active.Messages[0].ID
	if cmd := m.EditMessage(id, "u1"); cmd != nil {
		t.Error("edit with unchanged content should be a no-op")
	}
	if cmd := m.EditMessage(id, "   "); cmd != nil {
		t.Error("edit with blank content should be a no-op")
	}
	if cmd := m.EditMessage("no-such-id", "x"); cmd != nil {
		t.Error("edit of unknown message should be a no-op")
	}
	if len(m.Active.Messages) != 2 {
		t.Errorf("rejected edits mutated the chat: %v", contents(m.Active))
	}
}

// Retry on an agent message regenerates it, preserving prior turns.
func TestRetry(t *testing.T) {
	setup := func(t *testing.T) *Model {
		m := newTestModel(newMockGateway())
		sendAndSettle(t, m, "u1")
		sendAndSettle(t, m, "u2")
		return m
	}

	t.Run("agent message regenerates in place", func(t *testing.T) {
		m := setup(t)
		a2 := m.Active.Messages[3].ID

		cmd := m.Retry(a2)
		if got := contents(m.Active); len(got) != 4 || got[2] != "u2" || got[3] != "<pending>" {
			t.Fatalf("after Retry(a2) = %v, want [u1 report:u1 u2 <pending>]", got)
		}
		settle(m, cmd)
		if got := m.Active.Messages[3].Content; got != "report: u2" {
			t.Errorf("regenerated = %q", got)
		}
	})

	t.Run("earlier agent message drops later turns", func(t *testing.T) {
		m := setup(t)
		a1 := m.Active.Messages[1].ID

		m.Retry(a1)
		if got := contents(m.Active); len(got) != 2 || got[0] != "u1" || got[1] != "<pending>" {
			t.Errorf("after Retry(a1) = %v, want [u1 <pending>]", got)
		}
	})

	t.Run("user message resubmits keeping it", func(t *testing.T) {
		m := setup(t)
		u1 := m.Active.Messages[0].ID

		m.Retry(u1)
		if got := contents(m.Active); len(got) != 2 || got[0] != "u1" || got[1] != "<pending>" {
			t.Errorf("after Retry(u1) = %v, want [u1 <pending>]", got)
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		m := setup(t)
		if cmd := m.Retry("no-such-id"); cmd != nil {
			t.Error("retry of unknown message should be a no-op")
		}
	})
}

func TestRetryAgentWithoutPrecedingUser(t *testing.T) {
	m := newTestModel(newMockGateway())
	// An agent message with no user message before it (restored edge case)
	m.Active.Messages = append(m.Active.Messages, Message{
		ID: "a0", Role: RoleAgent, Content: "orphan", State: StateResolved,
	})

	if cmd := m.Retry("a0"); cmd != nil {
		t.Error("retry with no preceding user message should be a no-op")
	}
	if len(m.Active.Messages) != 1 {
		t.Errorf("no-op retry mutated the chat: %v", contents(m.Active))
	}
}

// NewChat archives the draft.
func TestNewChatArchivesDraft(t *testing.T) {
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "turn on wifi")

	m.NewChat()

	if len(m.History) != 1 {
		t.Fatalf("history has %d entries, want 1", len(m.History))
	}
	archived := m.History[0]
	if archived.ID == DraftChatID || archived.ID == "" {
		t.Errorf("archived chat kept sentinel id %q", archived.ID)
	}
	if len(archived.Messages) != 2 {
		t.Errorf("archived messages = %v", contents(archived))
	}

	if !m.Active.IsDraft() || len(m.Active.Messages) != 0 || m.Active.Title != agent.PlaceholderTitle {
		t.Errorf("active not reset to empty draft: %+v", m.Active)
	}
}

func TestNewChatEmptyDraftIsNoop(t *testing.T) {
	m := newTestModel(newMockGateway())
	m.NewChat()
	if len(m.History) != 0 {
		t.Errorf("empty draft was archived: %d entries", len(m.History))
	}
	if !m.Active.IsDraft() {
		t.Error("active chat is not a draft")
	}
}

func TestNewChatOverwritesLoadedChat(t *testing.T) {
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "u1")
	m.NewChat()
	chatID := m.History[0].ID

	m.SwitchChat(chatID)
	sendAndSettle(t, m, "u2")
	m.NewChat()

	if len(m.History) != 1 {
		t.Fatalf("history has %d entries, want 1 (overwrite, no duplication)", len(m.History))
	}
	if m.History[0].ID != chatID {
		t.Errorf("history id changed: %q -> %q", chatID, m.History[0].ID)
	}
	if len(m.History[0].Messages) != 4 {
		t.Errorf("overwritten chat = %v", contents(m.History[0]))
	}
}

func TestSwitchChat(t *testing.T) {
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "u1")
	m.NewChat()
	chatID := m.History[0].ID

	t.Run("activates a copy", func(t *testing.T) {
		m.SwitchChat(chatID)
		if m.Active.ID != chatID {
			t.Fatalf("active id = %q, want %q", m.Active.ID, chatID)
		}
		if m.Active == m.History[0] {
			t.Error("active chat aliases the history entry")
		}
	})

	t.Run("abandons unsaved changes on switch away", func(t *testing.T) {
		sendAndSettle(t, m, "u2") // mutate the loaded copy, do not archive
		m.SwitchChat(chatID)
		if len(m.Active.Messages) != 2 {
			t.Errorf("abandoned draft state leaked into history: %v", contents(m.Active))
		}
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		before := m.Active
		m.SwitchChat("no-such-chat")
		if m.Active != before {
			t.Error("active chat replaced on unknown id")
		}
	})
}

// The title stays the placeholder until the summarizer reports, independent
// of the agent response outcome.
func TestTitleDerivation(t *testing.T) {
	gw := newMockGateway()
	gw.RunFunc = func(ctx context.Context, instruction, deviceID string) (string, bool) {
		return "Phone agent request failed: 500 device offline", false
	}
	m := newTestModel(gw)

	if m.Active.Title != agent.PlaceholderTitle {
		t.Fatalf("fresh draft title = %q, want placeholder", m.Active.Title)
	}

	cmd := m.SendMessage("turn on wifi", "")
	settle(m, cmd)

	if m.Active.Title != "title: turn on wifi" {
		t.Errorf("title = %q, want summarizer output despite agent failure", m.Active.Title)
	}

	// Only the first user message derives a title
	s := m.Summarizer.(*mockSummarizer)
	sendAndSettle(t, m, "open camera")
	if len(s.Texts) != 1 {
		t.Errorf("summarizer called %d times, want 1", len(s.Texts))
	}
	if m.Active.Title != "title: turn on wifi" {
		t.Errorf("title changed on second send: %q", m.Active.Title)
	}
}

func TestFailedResponseMarksFailed(t *testing.T) {
	gw := newMockGateway()
	gw.RunFunc = func(ctx context.Context, instruction, deviceID string) (string, bool) {
		return "Phone agent request failed: 500 device offline", false
	}
	m := newTestModel(gw)

	sendAndSettle(t, m, "turn on wifi")

	last := m.Active.Messages[1]
	if !last.Failed() {
		t.Errorf("message state = %v, want failed", last.State)
	}
	if !strings.Contains(last.Content, "500") || !strings.Contains(last.Content, "device offline") {
		t.Errorf("failure content = %q", last.Content)
	}
}

// Scenario: unset device id short-circuits before any network call.
func TestDeviceNotConfiguredScenario(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer srv.Close()

	m := newTestModel(agent.NewClient(srv.URL, ""))
	m.Config.DeviceID = ""

	cmd := m.SendMessage("turn on wifi", "")
	settle(m, cmd)

	last := m.Active.Messages[1]
	if last.Content != agent.MsgDeviceNotSet || !last.Failed() {
		t.Errorf("placeholder resolved to %+v, want the fixed device-not-configured string", last)
	}
	if hits != 0 {
		t.Errorf("network was hit %d times, want 0", hits)
	}
}

func TestStaleResolutionIgnored(t *testing.T) {
	m := newTestModel(newMockGateway())

	t.Run("after new chat", func(t *testing.T) {
		cmd := m.SendMessage("u1", "")
		m.NewChat() // archives the draft, dropping the still-pending placeholder

		settle(m, cmd) // late response arrives

		if m.Awaiting {
			t.Error("Awaiting not cleared by the late response")
		}
		if n := len(m.History[0].Messages); n != 1 {
			t.Errorf("archived chat has %d messages, want 1 (placeholder dropped, response ignored)", n)
		}
		if len(m.Active.Messages) != 0 {
			t.Errorf("late response leaked into the new draft: %v", contents(m.Active))
		}
	})

	t.Run("after truncating edit", func(t *testing.T) {
		m := newTestModel(newMockGateway())
		sendAndSettle(t, m, "u1")
		sendAndSettle(t, m, "u2")

		// Resolve an id that was truncated away
		m.ResolveAgentResponse(AgentResponseMsg{
			ChatID:    m.Active.ID,
			MessageID: "id-ancient",
			Content:   "late",
			OK:        true,
		})
		for _, got := range contents(m.Active) {
			if got == "late" {
				t.Error("stale response written into the chat")
			}
		}
	})
}

func TestResolutionAppliesToInactiveChat(t *testing.T) {
	// A response for a chat that is still in history (switched away from)
	// resolves there if its placeholder survived.
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "u1")
	m.NewChat()
	archived := m.History[0]

	m.ResolveAgentResponse(AgentResponseMsg{
		ChatID:    archived.ID,
		MessageID: "id-unknown",
		Content:   "late",
		OK:        true,
	})
	// No placeholder survived archiving, so nothing may change
	if len(archived.Messages) != 2 {
		t.Errorf("archived chat mutated: %v", contents(archived))
	}
}

func TestApplyTitleGuards(t *testing.T) {
	m := newTestModel(newMockGateway())
	sendAndSettle(t, m, "u1")

	t.Run("empty title ignored", func(t *testing.T) {
		m.ApplyTitle(TitleMsg{Chat: m.Active, Title: ""})
		if m.Active.Title == "" {
			t.Error("empty title applied")
		}
	})

	t.Run("abandoned chat ignored", func(t *testing.T) {
		orphan := NewDraftChat()
		m.ApplyTitle(TitleMsg{Chat: orphan, Title: "x"})
		if orphan.Title == "x" {
			t.Error("title applied to a chat the model no longer owns")
		}
	})

	t.Run("does not overwrite a derived title", func(t *testing.T) {
		m.ApplyTitle(TitleMsg{Chat: m.Active, Title: "second"})
		if m.Active.Title == "second" {
			t.Error("late title overwrote the derived one")
		}
	})
}

func TestFetchDevices(t *testing.T) {
	gw := newMockGateway()
	gw.ListDevicesFunc = func(ctx context.Context) []agent.DeviceInfo {
		return []agent.DeviceInfo{{DeviceID: "emulator-5554", Status: "device", ConnectionType: "usb"}}
	}
	m := newTestModel(gw)

	msg := m.FetchDevices()()
	devices, ok := msg.(DevicesListMsg)
	if !ok {
		t.Fatalf("unexpected msg type %T", msg)
	}
	if len(devices.Devices) != 1 || devices.Devices[0].DeviceID != "emulator-5554" {
		t.Errorf("devices = %+v", devices.Devices)
	}
}
