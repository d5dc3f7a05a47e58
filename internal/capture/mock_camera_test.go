package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestMockCamera_ReadFrame_NotOpened(t *testing.T) {
	cam := NewMockCamera(nil, false)

	_, err := cam.ReadFrame()
	if !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestMockCamera_OpenClose(t *testing.T) {
	cam := NewMockCamera(nil, false)

	if cam.IsOpen() {
		t.Error("mock camera should not be open initially")
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if !cam.IsOpen() {
		t.Error("IsOpen() should return true after Open()")
	}

	if err := cam.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}
	if cam.IsOpen() {
		t.Error("IsOpen() should return false after Close()")
	}
}

func TestMockCamera_Playback(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f1.Close()
	f2 := gocv.NewMatWithSize(20, 20, gocv.MatTypeCV8UC3)
	defer f2.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1, &f2}, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer cam.Close()

	got, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if got.Rows() != 10 {
		t.Errorf("first frame rows = %d, want 10", got.Rows())
	}
	got.Close()

	got, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	if got.Rows() != 20 {
		t.Errorf("second frame rows = %d, want 20", got.Rows())
	}
	got.Close()

	// Sequence is exhausted and looping is disabled.
	_, err = cam.ReadFrame()
	if !errors.Is(err, ErrFrameRead) {
		t.Errorf("ReadFrame() after exhaustion error = %v, want ErrFrameRead", err)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f1.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1}, true)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer cam.Close()

	for i := 0; i < 5; i++ {
		got, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d failed: %v", i, err)
		}
		got.Close()
	}
}

func TestMockCamera_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	f1 := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC3)
	defer f1.Close()

	cam := NewMockCamera([]*gocv.Mat{&f1}, false)
	if err := cam.Open(); err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer cam.Close()

	got, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() failed: %v", err)
	}
	got.Close()

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrFrameRead) {
		t.Fatalf("expected exhaustion before Reset, got %v", err)
	}

	cam.Reset()

	got, err = cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after Reset failed: %v", err)
	}
	got.Close()
}
