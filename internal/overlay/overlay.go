// Package overlay renders the on-frame status display: active method,
// frame rate, motion level, tunable parameters and the recording marker.
package overlay

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// Stats is the per-frame state rendered onto the display frame.
type Stats struct {
	Method        string
	FPS           float64
	MotionPercent float64
	Threshold     float64
	DecayRate     float64
	// ShowDecay enables the decay-rate line; only the motion-history
	// variant has a decay parameter.
	ShowDecay bool
	Recording bool
}

var (
	textColor      = color.RGBA{0, 255, 0, 0}
	recordingColor = color.RGBA{255, 0, 0, 0}
)

const (
	fontScale  = 0.6
	lineHeight = 25
	marginLeft = 10
	marginTop  = 30
)

// Draw writes the status lines into the top-left corner of frame and, when
// recording, a red marker in the top-right corner. The frame is modified in
// place.
func Draw(frame *gocv.Mat, s Stats) {
	lines := []string{
		fmt.Sprintf("Method: %s", s.Method),
		fmt.Sprintf("FPS: %.1f", s.FPS),
		fmt.Sprintf("Motion: %.2f%%", s.MotionPercent),
		fmt.Sprintf("Threshold: %.0f", s.Threshold),
	}
	if s.ShowDecay {
		lines = append(lines, fmt.Sprintf("Decay: %.0f", s.DecayRate))
	}

	for i, line := range lines {
		pt := image.Pt(marginLeft, marginTop+i*lineHeight)
		gocv.PutText(frame, line, pt, gocv.FontHersheySimplex, fontScale, textColor, 2)
	}

	if s.Recording {
		center := image.Pt(frame.Cols()-30, 30)
		gocv.Circle(frame, center, 10, recordingColor, -1)
		gocv.PutText(frame, "REC", image.Pt(frame.Cols()-75, 37),
			gocv.FontHersheySimplex, fontScale, recordingColor, 2)
	}
}
