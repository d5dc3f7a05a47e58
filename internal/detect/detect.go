// Package detect implements the interchangeable motion-detection algorithms
// and the controller that switches between them at runtime.
package detect

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrEmptyFrame is returned when a detector is given a nil or empty frame.
var ErrEmptyFrame = errors.New("frame is nil or empty")

// Method identifies a motion-detection algorithm.
type Method int

// Available detection methods, numbered to match the keyboard shortcuts.
const (
	Background Method = iota + 1
	FrameDiff
	SparseFlow
	DenseFlow
	MotionHistory
)

// String returns the human-readable name of the method.
func (m Method) String() string {
	switch m {
	case Background:
		return "Background Subtraction"
	case FrameDiff:
		return "Frame Difference"
	case SparseFlow:
		return "Optical Flow"
	case DenseFlow:
		return "Dense Optical Flow"
	case MotionHistory:
		return "Motion History Image"
	default:
		return "Unknown"
	}
}

// Valid reports whether m names one of the implemented methods.
func (m Method) Valid() bool {
	return m >= Background && m <= MotionHistory
}

// Result holds the output of processing one frame. The caller owns both
// Mats and must call Close once the result has been consumed.
type Result struct {
	// Mask marks detected motion locations. Single channel, same
	// dimensions as the input frame.
	Mask gocv.Mat
	// Overlay is a 3-channel visualization ready for display.
	Overlay gocv.Mat
	// MotionPercent is the fraction of the frame in motion, in [0, 100].
	MotionPercent float64
}

// Close releases the result's Mats. Safe to call on a zero Result.
func (r *Result) Close() {
	r.Mask.Close()
	r.Overlay.Close()
}

// Detector is the common capability of all algorithm variants. A detector
// consumes one new frame plus its own prior state and produces a detection
// mask, an overlay visualization, and a scalar motion intensity.
//
// Detectors are not safe for concurrent use; the event loop is the only
// caller.
type Detector interface {
	// Process analyzes one frame. The frame is borrowed read-only for the
	// duration of the call.
	Process(frame *gocv.Mat) (Result, error)
	// Method returns the algorithm this detector implements.
	Method() Method
	// Reset clears persistent state so the next call starts fresh.
	Reset()
	// Close releases all persistent buffers.
	Close()
}

// toGray converts frame into dst as a single-channel image. dst is reused
// across calls to avoid reallocation.
func toGray(frame *gocv.Mat, dst *gocv.Mat) {
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, dst, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(dst)
	}
}

// maskPercent returns the percentage of non-zero pixels in mask.
func maskPercent(mask gocv.Mat) float64 {
	total := mask.Rows() * mask.Cols()
	if total == 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total) * 100.0
}

// sameSize reports whether m matches the given dimensions.
func sameSize(m gocv.Mat, rows, cols int) bool {
	return m.Rows() == rows && m.Cols() == cols
}
