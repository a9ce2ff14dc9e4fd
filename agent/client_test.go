package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunValidation(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")

	tests := []struct {
		name        string
		instruction string
		deviceID    string
		want        string
	}{
		{"empty instruction", "", "emulator-5554", MsgEmptyInstruction},
		{"empty device id", "turn on wifi", "", MsgDeviceNotSet},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := client.Run(context.Background(), tt.instruction, tt.deviceID)
			if got != tt.want || ok {
				t.Errorf("Run() = (%q, %v), want (%q, false)", got, ok, tt.want)
			}
		})
	}

	if hits != 0 {
		t.Errorf("validation failures must short-circuit before any network call, server saw %d requests", hits)
	}
}

func TestRunSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/phone-agent/run" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		w.Write([]byte(`{"result":"Wi-Fi is now enabled."}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	got, ok := client.Run(context.Background(), "turn on wifi", "emulator-5554")
	if got != "Wi-Fi is now enabled." || !ok {
		t.Errorf("Run() = (%q, %v)", got, ok)
	}
}

func TestRunSendsAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want Bearer secret", got)
		}
		w.Write([]byte(`{"result":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret")
	client.Run(context.Background(), "open settings", "emulator-5554")
}

func TestRunHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("device offline"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	got, ok := client.Run(context.Background(), "turn on wifi", "emulator-5554")

	if ok {
		t.Error("HTTP failure reported ok=true")
	}
	if !strings.Contains(got, "500") || !strings.Contains(got, "device offline") {
		t.Errorf("Run() = %q, want status code and body included", got)
	}
	if !strings.HasPrefix(got, "Phone agent request failed:") {
		t.Errorf("Run() = %q, want the fixed failure prefix", got)
	}
}

func TestRunTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use to force a connection failure

	client := NewClient(srv.URL, "")
	got, ok := client.Run(context.Background(), "turn on wifi", "emulator-5554")
	if got == "" || ok {
		t.Errorf("transport failure must yield a descriptive string and ok=false, got (%q, %v)", got, ok)
	}
	if strings.HasPrefix(got, "Phone agent request failed:") {
		t.Errorf("transport failure should not be reported as an HTTP status failure: %q", got)
	}
}

func TestRunMissingResult(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty result field", `{"result":""}`},
		{"no result field", `{}`},
		{"malformed json", `{"result":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			got, ok := client.Run(context.Background(), "turn on wifi", "emulator-5554")
			if got != MsgNoResult || ok {
				t.Errorf("Run() = (%q, %v), want (%q, false)", got, ok, MsgNoResult)
			}
		})
	}
}

func TestListDevices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/phone-agent/devices" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"devices":[
			{"device_id":"emulator-5554","status":"device","connection_type":"usb","model":"Pixel 7"},
			{"device_id":"10.173.181.1:5555","status":"offline","connection_type":"wifi"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	devices := client.ListDevices(context.Background())

	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2", len(devices))
	}
	if devices[0].DeviceID != "emulator-5554" || devices[0].Model != "Pixel 7" {
		t.Errorf("unexpected first device: %+v", devices[0])
	}
	if devices[1].ConnectionType != "wifi" || devices[1].Model != "" {
		t.Errorf("unexpected second device: %+v", devices[1])
	}
}

func TestListDevicesFailures(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "")
		if devices := client.ListDevices(context.Background()); len(devices) != 0 {
			t.Errorf("got %d devices, want empty list", len(devices))
		}
	})

	t.Run("transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close()

		client := NewClient(srv.URL, "")
		if devices := client.ListDevices(context.Background()); len(devices) != 0 {
			t.Errorf("got %d devices, want empty list", len(devices))
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "")
		if devices := client.ListDevices(context.Background()); len(devices) != 0 {
			t.Errorf("got %d devices, want empty list", len(devices))
		}
	})
}
