package detect

import (
	"gocv.io/x/gocv"
)

// Farneback polynomial-expansion parameters.
const (
	fbPyrScale  = 0.5
	fbLevels    = 3
	fbWinSize   = 15
	fbIters     = 3
	fbPolyN     = 5
	fbPolySigma = 1.2
)

// denseFlow computes a per-pixel displacement field between consecutive
// frames (Farneback). The most compute-intensive variant; the flow buffer
// is reused across calls rather than reallocated.
type denseFlow struct {
	params      *Params
	prevGray    gocv.Mat
	gray        gocv.Mat // reused scratch buffer
	flow        gocv.Mat // reused CV32FC2 displacement field
	initialized bool
}

func newDenseFlow(params *Params) *denseFlow {
	return &denseFlow{
		params:   params,
		prevGray: gocv.NewMat(),
		gray:     gocv.NewMat(),
		flow:     gocv.NewMat(),
	}
}

func (d *denseFlow) Method() Method { return DenseFlow }

// Process computes the dense flow field, thresholds its magnitude for the
// detection mask, and renders the field as an HSV image: angle maps to hue,
// magnitude to value.
func (d *denseFlow) Process(frame *gocv.Mat) (Result, error) {
	if frame == nil || frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	toGray(frame, &d.gray)
	rows, cols := d.gray.Rows(), d.gray.Cols()

	if !d.initialized || !sameSize(d.prevGray, rows, cols) {
		d.gray.CopyTo(&d.prevGray)
		d.initialized = true
		return Result{
			Mask:    gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1),
			Overlay: frame.Clone(),
		}, nil
	}

	gocv.CalcOpticalFlowFarneback(d.prevGray, d.gray, &d.flow,
		fbPyrScale, fbLevels, fbWinSize, fbIters, fbPolyN, fbPolySigma,
		gocv.OptflowFarnebackGaussian)

	channels := gocv.Split(d.flow)
	magnitude := gocv.NewMat()
	angle := gocv.NewMat()
	gocv.Magnitude(channels[0], channels[1], &magnitude)
	gocv.Phase(channels[0], channels[1], &angle, true)
	for _, ch := range channels {
		ch.Close()
	}

	// Binary mask of pixels whose displacement exceeds the threshold.
	maskF := gocv.NewMat()
	gocv.Threshold(magnitude, &maskF, float32(d.params.Threshold*flowThresholdScale), 255, gocv.ThresholdBinary)
	mask := gocv.NewMat()
	maskF.ConvertTo(&mask, gocv.MatTypeCV8U)
	maskF.Close()

	overlay := d.renderFlow(magnitude, angle)
	magnitude.Close()
	angle.Close()

	d.gray.CopyTo(&d.prevGray)

	return Result{
		Mask:          mask,
		Overlay:       overlay,
		MotionPercent: maskPercent(mask),
	}, nil
}

// renderFlow maps the polar flow field to a BGR image: hue from angle,
// full saturation, value from min-max normalized magnitude.
func (d *denseFlow) renderFlow(magnitude, angle gocv.Mat) gocv.Mat {
	hue := gocv.NewMat()
	angle.MultiplyFloat(0.5) // 0-360 degrees to the 0-180 hue range
	angle.ConvertTo(&hue, gocv.MatTypeCV8U)

	sat := gocv.NewMatWithSize(magnitude.Rows(), magnitude.Cols(), gocv.MatTypeCV8UC1)
	sat.SetTo(gocv.NewScalar(255, 0, 0, 0))

	normalized := gocv.NewMat()
	gocv.Normalize(magnitude, &normalized, 0, 255, gocv.NormMinMax)
	val := gocv.NewMat()
	normalized.ConvertTo(&val, gocv.MatTypeCV8U)
	normalized.Close()

	hsv := gocv.NewMat()
	gocv.Merge([]gocv.Mat{hue, sat, val}, &hsv)
	hue.Close()
	sat.Close()
	val.Close()

	overlay := gocv.NewMat()
	gocv.CvtColor(hsv, &overlay, gocv.ColorHSVToBGR)
	hsv.Close()

	return overlay
}

// Reset discards the stored previous frame and flow field.
func (d *denseFlow) Reset() {
	d.initialized = false
}

func (d *denseFlow) Close() {
	d.prevGray.Close()
	d.gray.Close()
	d.flow.Close()
}
