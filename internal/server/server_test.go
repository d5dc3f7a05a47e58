package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/galihboy/motion-detection/internal/app"
	"github.com/galihboy/motion-detection/internal/store"
)

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	t.Run("returns 200 with JSON response", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
		}

		contentType := rec.Header().Get("Content-Type")
		if contentType != "application/json" {
			t.Errorf("expected Content-Type application/json, got %s", contentType)
		}

		var response map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if response["status"] != "ok" {
			t.Errorf("expected status 'ok', got %v", response["status"])
		}

		if _, exists := response["uptime"]; !exists {
			t.Error("expected 'uptime' field in response")
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		methods := []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch}

		for _, method := range methods {
			req := httptest.NewRequest(method, "/api/health", nil)
			rec := httptest.NewRecorder()

			s.ServeHTTP(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
			}
		}
	})
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestServer_Status(t *testing.T) {
	pub := NewPublisher()
	s := New(Config{Publisher: pub})

	pub.Publish([]byte{0xff, 0xd8}, app.Status{
		Method:        "Motion History Image",
		MotionPercent: 2.5,
		Recording:     true,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var status app.Status
	if err := json.NewDecoder(rec.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if status.Method != "Motion History Image" {
		t.Errorf("method = %s, want Motion History Image", status.Method)
	}
	if status.MotionPercent != 2.5 {
		t.Errorf("motion percent = %f, want 2.5", status.MotionPercent)
	}
	if !status.Recording {
		t.Error("recording flag lost in round trip")
	}
}

func newServerStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

func TestServer_Events(t *testing.T) {
	st := newServerStore(t)

	sessionID := uuid.New().String()
	if err := st.Sessions().Create(&store.Session{ID: sessionID}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	eventID := uuid.New().String()
	err := st.Events().Create(&store.MotionEvent{
		ID:        eventID,
		SessionID: sessionID,
		Method:    "Background Subtraction",
	})
	if err != nil {
		t.Fatalf("failed to create event: %v", err)
	}

	s := New(Config{Store: st})

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var events []eventJSON
	if err := json.NewDecoder(rec.Body).Decode(&events); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].ID != eventID {
		t.Errorf("event ID = %s, want %s", events[0].ID, eventID)
	}
	if events[0].EndedAt != nil {
		t.Error("open event should have no end time")
	}

	t.Run("rejects invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/events?limit=bogus", nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestServer_Sessions(t *testing.T) {
	st := newServerStore(t)

	sessionID := uuid.New().String()
	if err := st.Sessions().Create(&store.Session{ID: sessionID}); err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := st.Sessions().Finish(sessionID, 100, 2); err != nil {
		t.Fatalf("failed to finish session: %v", err)
	}

	s := New(Config{Store: st})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var sessions []sessionJSON
	if err := json.NewDecoder(rec.Body).Decode(&sessions); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("got %d sessions, want 1", len(sessions))
	}
	if sessions[0].Frames != 100 || sessions[0].Events != 2 {
		t.Errorf("counters = %d/%d, want 100/2", sessions[0].Frames, sessions[0].Events)
	}
	if sessions[0].EndedAt == nil {
		t.Error("finished session should have an end time")
	}
}

func TestStreamHandler_WritesFrames(t *testing.T) {
	pub := NewPublisher()
	jpegBytes := []byte{0xff, 0xd8, 0xff, 0xd9}
	pub.Publish(jpegBytes, app.Status{})

	s := New(Config{Publisher: pub})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/stream", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
		t.Errorf("Content-Type = %s, want multipart/x-mixed-replace", ct)
	}

	body := rec.Body.Bytes()
	if !bytes.Contains(body, []byte("--frame")) {
		t.Error("stream body missing frame boundary")
	}
	if !bytes.Contains(body, jpegBytes) {
		t.Error("stream body missing the published JPEG bytes")
	}
}

func TestServer_StaticFiles(t *testing.T) {
	tmpDir := t.TempDir()

	content := []byte("<html>motion</html>")
	if err := os.WriteFile(filepath.Join(tmpDir, "index.html"), content, 0644); err != nil {
		t.Fatalf("failed to write static file: %v", err)
	}

	s := New(Config{StaticDir: tmpDir})

	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), content) {
		t.Error("static file content mismatch")
	}
}
