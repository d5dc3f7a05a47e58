package detect

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

var diffBoxColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}

// frameDifference detects motion as the absolute per-pixel difference
// between the current and previous grayscale frames. The simplest and
// cheapest variant; its only persistent state is the previous frame.
type frameDifference struct {
	params      *Params
	prevGray    gocv.Mat
	gray        gocv.Mat // reused scratch buffer
	kernel      gocv.Mat // 3x3 rect, preserves rectangular regions exactly
	initialized bool
}

func newFrameDifference(params *Params) *frameDifference {
	return &frameDifference{
		params:   params,
		prevGray: gocv.NewMat(),
		gray:     gocv.NewMat(),
		kernel:   gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
	}
}

func (d *frameDifference) Method() Method { return FrameDiff }

// Process thresholds |gray - prevGray| at the current threshold value and
// applies a light morphological open to suppress isolated-pixel noise. The
// first call (or a dimension change) stores the frame and reports 0%.
func (d *frameDifference) Process(frame *gocv.Mat) (Result, error) {
	if frame == nil || frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	toGray(frame, &d.gray)

	if !d.initialized || !sameSize(d.prevGray, d.gray.Rows(), d.gray.Cols()) {
		d.gray.CopyTo(&d.prevGray)
		d.initialized = true
		return Result{
			Mask:    gocv.NewMatWithSize(d.gray.Rows(), d.gray.Cols(), gocv.MatTypeCV8UC1),
			Overlay: frame.Clone(),
		}, nil
	}

	diff := gocv.NewMat()
	gocv.AbsDiff(d.gray, d.prevGray, &diff)

	mask := gocv.NewMat()
	gocv.Threshold(diff, &mask, float32(d.params.Threshold), 255, gocv.ThresholdBinary)
	diff.Close()

	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, d.kernel)

	overlay := frame.Clone()
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		if gocv.ContourArea(contour) < MinContourArea {
			continue
		}
		gocv.Rectangle(&overlay, gocv.BoundingRect(contour), diffBoxColor, 2)
	}
	contours.Close()

	d.gray.CopyTo(&d.prevGray)

	return Result{
		Mask:          mask,
		Overlay:       overlay,
		MotionPercent: maskPercent(mask),
	}, nil
}

// Reset discards the stored previous frame.
func (d *frameDifference) Reset() {
	d.initialized = false
}

func (d *frameDifference) Close() {
	d.prevGray.Close()
	d.gray.Close()
	d.kernel.Close()
}
