package detect

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestMotionHistory_DecayLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	params := NewParams()
	params.Threshold = 25
	params.DecayRate = 10

	d := newMotionHistory(params)
	defer d.Close()

	black := blackFrame(100, 100)
	defer black.Close()
	square := squareFrame(100, 100, 45, 45, 10, 255)
	defer square.Close()

	first, err := d.Process(&black)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	first.Close()

	// The square appears: its pixels are raised to MaxIntensity.
	raise, err := d.Process(&square)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	raise.Close()

	if got := d.mhi.GetUCharAt(50, 50); got != MaxIntensity {
		t.Fatalf("history value after raise = %d, want %d", got, MaxIntensity)
	}

	// The scene goes static. With decayRate=10 the pixel must stay
	// nonzero through 25 quiet frames and reach 0 on the 26th
	// (255 - 26*10 <= 0).
	for i := 1; i <= 26; i++ {
		res, err := d.Process(&square)
		if err != nil {
			t.Fatalf("Process returned error: %v", err)
		}
		res.Close()

		got := d.mhi.GetUCharAt(50, 50)
		if i < 26 && got == 0 {
			t.Fatalf("history value decayed to 0 after %d quiet frames, want nonzero", i)
		}
		if i == 26 && got != 0 {
			t.Errorf("history value = %d after 26 quiet frames, want 0", got)
		}
	}
}

func TestMotionHistory_PercentFromInstantaneousMask(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	params := NewParams()
	params.Threshold = 25
	params.DecayRate = 10

	d := newMotionHistory(params)
	defer d.Close()

	black := blackFrame(100, 100)
	defer black.Close()
	square := squareFrame(100, 100, 45, 45, 10, 255)
	defer square.Close()

	first, err := d.Process(&black)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	first.Close()

	raise, err := d.Process(&square)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	defer raise.Close()

	if raise.MotionPercent != 1.0 {
		t.Errorf("MotionPercent on motion frame = %f, want 1.0", raise.MotionPercent)
	}

	// A quiet frame reports 0% even though the trail is still visible in
	// the detection mask.
	quiet, err := d.Process(&square)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	defer quiet.Close()

	if quiet.MotionPercent != 0 {
		t.Errorf("MotionPercent on quiet frame = %f, want 0", quiet.MotionPercent)
	}
	if gocv.CountNonZero(quiet.Mask) == 0 {
		t.Error("detection mask should still carry the decaying trail")
	}
}

func TestMotionHistory_ValueBounds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	params := NewParams()
	params.Threshold = 25
	params.DecayRate = 200 // aggressive decay must still saturate at 0

	d := newMotionHistory(params)
	defer d.Close()

	frames := []gocv.Mat{
		blackFrame(80, 80),
		squareFrame(80, 80, 10, 10, 20, 255),
		blackFrame(80, 80),
		squareFrame(80, 80, 40, 40, 20, 255),
		blackFrame(80, 80),
	}
	defer func() {
		for i := range frames {
			frames[i].Close()
		}
	}()

	for i := range frames {
		res, err := d.Process(&frames[i])
		if err != nil {
			t.Fatalf("Process returned error: %v", err)
		}
		res.Close()

		min, max, _, _ := gocv.MinMaxLoc(d.mhi)
		if min < 0 || max > MaxIntensity {
			t.Errorf("frame %d: history values out of range [%f, %f]", i, min, max)
		}
	}
}

func TestMotionHistory_Reset(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	params := NewParams()
	params.Threshold = 25

	d := newMotionHistory(params)
	defer d.Close()

	black := blackFrame(100, 100)
	defer black.Close()
	square := squareFrame(100, 100, 45, 45, 10, 255)
	defer square.Close()

	for _, f := range []*gocv.Mat{&black, &square} {
		res, err := d.Process(f)
		if err != nil {
			t.Fatalf("Process returned error: %v", err)
		}
		res.Close()
	}

	if gocv.CountNonZero(d.mhi) == 0 {
		t.Fatal("history should be nonzero before reset")
	}

	d.Reset()

	if gocv.CountNonZero(d.mhi) != 0 {
		t.Error("history should be all zero after reset")
	}
}
