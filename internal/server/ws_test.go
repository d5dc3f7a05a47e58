package server

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/galihboy/motion-detection/internal/app"
)

func TestLiveHandler_BroadcastsStatus(t *testing.T) {
	pub := NewPublisher()
	s := New(Config{Publisher: pub})

	ts := httptest.NewServer(s)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/live"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial failed: %v", err)
	}
	defer conn.Close()

	pub.Publish([]byte{0xff, 0xd8}, app.Status{
		Method:        "Optical Flow",
		MotionPercent: 1.5,
		Frames:        42,
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var status app.Status
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("failed to read broadcast: %v", err)
	}
	if status.Method != "Optical Flow" {
		t.Errorf("method = %s, want Optical Flow", status.Method)
	}
	if status.MotionPercent != 1.5 {
		t.Errorf("motion percent = %f, want 1.5", status.MotionPercent)
	}
	if status.Frames != 42 {
		t.Errorf("frames = %d, want 42", status.Frames)
	}
}
