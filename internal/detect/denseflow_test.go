package detect

import (
	"testing"
)

func TestDenseFlow_StaticScene(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := newDenseFlow(NewParams())
	defer d.Close()

	frame := texturedFrame(160, 160)
	defer frame.Close()

	first, err := d.Process(&frame)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	first.Close()

	res, err := d.Process(&frame)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	defer res.Close()

	if res.MotionPercent != 0 {
		t.Errorf("static scene MotionPercent = %f, want 0", res.MotionPercent)
	}
	if res.Mask.Rows() != 160 || res.Mask.Cols() != 160 {
		t.Errorf("mask dimensions = %dx%d, want 160x160", res.Mask.Cols(), res.Mask.Rows())
	}
	if res.Overlay.Channels() != 3 {
		t.Errorf("overlay channels = %d, want 3", res.Overlay.Channels())
	}
}

func TestDenseFlow_MovingSquare(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	params := NewParams()
	params.Threshold = 5

	d := newDenseFlow(params)
	defer d.Close()

	before := squareFrame(160, 160, 40, 60, 40, 255)
	defer before.Close()
	after := squareFrame(160, 160, 60, 60, 40, 255)
	defer after.Close()

	first, err := d.Process(&before)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	first.Close()

	res, err := d.Process(&after)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	defer res.Close()

	if res.MotionPercent <= 0 {
		t.Errorf("moving square MotionPercent = %f, want > 0", res.MotionPercent)
	}
	if res.MotionPercent > 100 {
		t.Errorf("MotionPercent = %f, exceeds 100", res.MotionPercent)
	}
}

func TestDenseFlow_ThresholdMonotonic(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	before := squareFrame(160, 160, 40, 60, 40, 255)
	defer before.Close()
	after := squareFrame(160, 160, 55, 60, 40, 255)
	defer after.Close()

	thresholds := []float64{2, 10, 40, 120, 250}
	prev := 101.0

	for _, thresh := range thresholds {
		params := NewParams()
		params.Threshold = thresh

		d := newDenseFlow(params)

		first, err := d.Process(&before)
		if err != nil {
			t.Fatalf("Process returned error: %v", err)
		}
		first.Close()

		res, err := d.Process(&after)
		if err != nil {
			t.Fatalf("Process returned error: %v", err)
		}

		if res.MotionPercent > prev {
			t.Errorf("threshold %f: MotionPercent = %f, exceeds %f at lower threshold",
				thresh, res.MotionPercent, prev)
		}
		prev = res.MotionPercent

		res.Close()
		d.Close()
	}
}

func TestDenseFlow_DimensionChange(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	d := newDenseFlow(NewParams())
	defer d.Close()

	small := blackFrame(100, 100)
	defer small.Close()
	large := blackFrame(160, 160)
	defer large.Close()

	first, err := d.Process(&small)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	first.Close()

	res, err := d.Process(&large)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	defer res.Close()

	if res.MotionPercent != 0 {
		t.Errorf("MotionPercent after resize = %f, want 0", res.MotionPercent)
	}
	if res.Mask.Rows() != 160 || res.Mask.Cols() != 160 {
		t.Errorf("mask dimensions = %dx%d, want 160x160", res.Mask.Cols(), res.Mask.Rows())
	}
}
