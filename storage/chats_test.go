package storage

import (
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *ChatStorage {
	t.Helper()
	s, err := NewChatStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewChatStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testChat(title string, contents ...string) *Chat {
	chat := &Chat{Title: title}
	for i, c := range contents {
		role := "user"
		if i%2 == 1 {
			role = "agent"
		}
		chat.Messages = append(chat.Messages, Message{
			ID:        title + "-" + c,
			Role:      role,
			Content:   c,
			Timestamp: time.Now(),
		})
	}
	return chat
}

func TestSaveAssignsID(t *testing.T) {
	s := newTestStorage(t)

	chat := testChat("Untitled", "turn on wifi", "done")
	if err := s.Save(chat); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if chat.ID == "" {
		t.Error("Save should assign an id")
	}
	if chat.CreatedAt.IsZero() || chat.UpdatedAt.IsZero() {
		t.Error("Save should set timestamps")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	in := testChat("wifi chat", "turn on wifi", "Wi-Fi is now enabled.")
	in.Messages[1].Failed = false
	if err := s.Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := s.Load(in.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if out.Title != in.Title || len(out.Messages) != 2 {
		t.Errorf("loaded chat mismatch: %+v", out)
	}
	if out.Messages[0].Content != "turn on wifi" || out.Messages[1].Role != "agent" {
		t.Errorf("loaded messages mismatch: %+v", out.Messages)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := newTestStorage(t)

	older := testChat("older", "a")
	if err := s.Save(older); err != nil {
		t.Fatal(err)
	}
	// Save stamps UpdatedAt; make sure the second save lands later even on
	// coarse clocks
	time.Sleep(10 * time.Millisecond)

	newer := testChat("newer", "b")
	if err := s.Save(newer); err != nil {
		t.Fatal(err)
	}

	metas, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d chats, want 2", len(metas))
	}
	if metas[0].Title != "newer" {
		t.Errorf("first listed chat = %q, want newest", metas[0].Title)
	}
	if metas[0].MessageCount != 1 {
		t.Errorf("MessageCount = %d, want 1", metas[0].MessageCount)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStorage(t)

	chat := testChat("doomed", "x")
	if err := s.Save(chat); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(chat.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := s.Load(chat.ID); err == nil {
		t.Error("Load after Delete should fail")
	}

	matches, err := s.SearchMessages("x")
	if err != nil {
		t.Fatalf("SearchMessages: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("deleted chat still indexed: %+v", matches)
	}
}

func TestSearchMessages(t *testing.T) {
	s := newTestStorage(t)

	wifi := testChat("wifi", "turn on wifi", "Wi-Fi is now enabled.")
	camera := testChat("camera", "open the camera", "Camera opened.")
	for _, c := range []*Chat{wifi, camera} {
		if err := s.Save(c); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("case insensitive", func(t *testing.T) {
		matches, err := s.SearchMessages("WIFI")
		if err != nil {
			t.Fatalf("SearchMessages: %v", err)
		}
		if len(matches) == 0 {
			t.Fatal("no matches for WIFI")
		}
		for _, m := range matches {
			if m.ChatID != wifi.ID {
				t.Errorf("match from wrong chat: %+v", m)
			}
		}
	})

	t.Run("empty query", func(t *testing.T) {
		matches, err := s.SearchMessages("")
		if err != nil {
			t.Fatalf("SearchMessages: %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("empty query should match nothing, got %d", len(matches))
		}
	})

	t.Run("reindex on resave", func(t *testing.T) {
		wifi.Messages = wifi.Messages[:1]
		if err := s.Save(wifi); err != nil {
			t.Fatal(err)
		}
		matches, err := s.SearchMessages("enabled")
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 0 {
			t.Errorf("stale index rows survived resave: %+v", matches)
		}
	})
}

func TestCurrentChatID(t *testing.T) {
	s := newTestStorage(t)

	if err := s.SaveCurrentChatID("abc-123"); err != nil {
		t.Fatalf("SaveCurrentChatID: %v", err)
	}
	id, err := s.LoadCurrentChatID()
	if err != nil {
		t.Fatalf("LoadCurrentChatID: %v", err)
	}
	if id != "abc-123" {
		t.Errorf("LoadCurrentChatID = %q", id)
	}
}
