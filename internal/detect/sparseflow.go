package detect

import (
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"
)

// Corner seeding and tracking constants (Lucas-Kanade).
const (
	maxCorners       = 100
	cornerQuality    = 0.3
	minCornerDist    = 7.0
	minTrackedPoints = 10

	// maxPointDrift is the sanity bound on per-frame displacement; points
	// that jump further are treated as tracking failures and dropped.
	maxPointDrift = 100.0

	// flowThresholdScale maps the shared 0-254 threshold knob onto
	// pixel-displacement magnitudes.
	flowThresholdScale = 0.2
)

var (
	flowLineColor  = color.RGBA{R: 0, G: 255, B: 255, A: 0}
	flowPointColor = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	maskWhite      = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// sparseFlow tracks corner features between consecutive frames with
// pyramidal Lucas-Kanade optical flow. It owns the tracked point set
// exclusively and re-seeds it whenever it falls below minTrackedPoints.
type sparseFlow struct {
	params      *Params
	prevGray    gocv.Mat
	gray        gocv.Mat // reused scratch buffer
	points      gocv.Mat // Nx1 CV32FC2 tracked point set
	initialized bool
}

func newSparseFlow(params *Params) *sparseFlow {
	return &sparseFlow{
		params:   params,
		prevGray: gocv.NewMat(),
		gray:     gocv.NewMat(),
		points:   gocv.NewMat(),
	}
}

func (d *sparseFlow) Method() Method { return SparseFlow }

// Process tracks the point set from the previous frame into the current
// one. Points that fail to track or exceed the drift bound are dropped.
// Motion percentage is the fraction of surviving points whose displacement
// magnitude exceeds the (scaled) threshold.
func (d *sparseFlow) Process(frame *gocv.Mat) (Result, error) {
	if frame == nil || frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	toGray(frame, &d.gray)
	rows, cols := d.gray.Rows(), d.gray.Cols()

	if !d.initialized || !sameSize(d.prevGray, rows, cols) {
		d.seed()
		d.gray.CopyTo(&d.prevGray)
		d.initialized = true
		return d.markerResult(frame), nil
	}

	// Re-seed from the current frame when the set has thinned out, then
	// resume tracking on the next call.
	if d.points.Empty() || d.points.Rows() < minTrackedPoints {
		d.seed()
		d.gray.CopyTo(&d.prevGray)
		return d.markerResult(frame), nil
	}

	nextPts := gocv.NewMat()
	status := gocv.NewMat()
	flowErr := gocv.NewMat()
	defer nextPts.Close()
	defer status.Close()
	defer flowErr.Close()

	gocv.CalcOpticalFlowPyrLK(d.prevGray, d.gray, d.points, &nextPts, &status, &flowErr)

	mask := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	overlay := frame.Clone()

	moveThreshold := d.params.Threshold * flowThresholdScale
	var survivors [][2]float32
	moving := 0

	for i := 0; i < status.Rows(); i++ {
		if status.GetUCharAt(i, 0) != 1 {
			continue
		}
		oldX := d.points.GetFloatAt(i, 0)
		oldY := d.points.GetFloatAt(i, 1)
		newX := nextPts.GetFloatAt(i, 0)
		newY := nextPts.GetFloatAt(i, 1)

		// Every retained point must lie within frame bounds.
		if newX < 0 || newY < 0 || int(newX) >= cols || int(newY) >= rows {
			continue
		}

		dist := math.Hypot(float64(newX-oldX), float64(newY-oldY))
		if dist > maxPointDrift {
			continue
		}
		survivors = append(survivors, [2]float32{newX, newY})

		newPt := image.Pt(int(newX), int(newY))
		if dist > moveThreshold {
			moving++
			gocv.Line(&overlay, newPt, image.Pt(int(oldX), int(oldY)), flowLineColor, 2)
			gocv.Circle(&mask, newPt, 3, maskWhite, -1)
		}
		gocv.Circle(&overlay, newPt, 3, flowPointColor, -1)
	}

	d.setPoints(survivors)
	d.gray.CopyTo(&d.prevGray)

	percent := 0.0
	if len(survivors) > 0 {
		percent = float64(moving) / float64(len(survivors)) * 100.0
	}

	return Result{
		Mask:          mask,
		Overlay:       overlay,
		MotionPercent: percent,
	}, nil
}

// seed replaces the point set with strong corner features from the current
// grayscale frame.
func (d *sparseFlow) seed() {
	corners := gocv.NewMat()
	gocv.GoodFeaturesToTrack(d.gray, &corners, maxCorners, cornerQuality, minCornerDist)
	d.points.Close()
	d.points = corners
}

// setPoints rebuilds the tracked point set from the surviving coordinates.
func (d *sparseFlow) setPoints(pts [][2]float32) {
	d.points.Close()
	if len(pts) == 0 {
		d.points = gocv.NewMat()
		return
	}
	d.points = gocv.NewMatWithSize(len(pts), 1, gocv.MatTypeCV32FC2)
	for i, p := range pts {
		d.points.SetFloatAt(i, 0, p[0])
		d.points.SetFloatAt(i, 1, p[1])
	}
}

// markerResult renders the current point set as markers with no motion.
func (d *sparseFlow) markerResult(frame *gocv.Mat) Result {
	mask := gocv.NewMatWithSize(d.gray.Rows(), d.gray.Cols(), gocv.MatTypeCV8UC1)
	overlay := frame.Clone()
	for i := 0; i < d.points.Rows(); i++ {
		pt := image.Pt(int(d.points.GetFloatAt(i, 0)), int(d.points.GetFloatAt(i, 1)))
		gocv.Circle(&overlay, pt, 3, flowPointColor, -1)
	}
	return Result{Mask: mask, Overlay: overlay}
}

// PointCount returns the current size of the tracked point set.
func (d *sparseFlow) PointCount() int {
	if d.points.Empty() {
		return 0
	}
	return d.points.Rows()
}

// Reset clears the point set and the stored previous frame.
func (d *sparseFlow) Reset() {
	d.points.Close()
	d.points = gocv.NewMat()
	d.initialized = false
}

func (d *sparseFlow) Close() {
	d.prevGray.Close()
	d.gray.Close()
	d.points.Close()
}
