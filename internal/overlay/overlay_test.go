package overlay

import (
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestFPSMeter_EmptyAndSingle(t *testing.T) {
	m := NewFPSMeter()

	if got := m.Rate(); got != 0 {
		t.Errorf("Rate() with no samples = %f, want 0", got)
	}

	if got := m.Tick(); got != 0 {
		t.Errorf("Tick() with single sample = %f, want 0", got)
	}
}

func TestFPSMeter_SteadyRate(t *testing.T) {
	m := NewFPSMeter()

	// Drive the clock manually at exactly 50ms per frame (20 fps).
	now := time.Unix(0, 0)
	m.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		m.Tick()
		now = now.Add(50 * time.Millisecond)
	}

	got := m.Rate()
	if got < 19.9 || got > 20.1 {
		t.Errorf("Rate() = %f, want ~20", got)
	}
}

func TestFPSMeter_WindowSlides(t *testing.T) {
	m := NewFPSMeter()

	now := time.Unix(0, 0)
	m.now = func() time.Time { return now }

	// Slow frames first, then fast ones; once the window has slid past
	// the slow frames the rate reflects only the fast ones.
	for i := 0; i < 5; i++ {
		m.Tick()
		now = now.Add(time.Second)
	}
	for i := 0; i < fpsWindow+5; i++ {
		m.Tick()
		now = now.Add(10 * time.Millisecond)
	}

	got := m.Rate()
	if got < 99 || got > 101 {
		t.Errorf("Rate() after window slid = %f, want ~100", got)
	}
}

func TestDraw(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	Draw(&frame, Stats{
		Method:        "Motion History",
		FPS:           19.7,
		MotionPercent: 3.25,
		Threshold:     25,
		DecayRate:     10,
		ShowDecay:     true,
		Recording:     true,
	})

	// The HUD must have painted something onto the black frame.
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(frame, &gray, gocv.ColorBGRToGray)
	if gocv.CountNonZero(gray) == 0 {
		t.Error("Draw left the frame untouched")
	}
}
