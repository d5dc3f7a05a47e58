package detect

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// MOG2 model constants, matching a static-camera demo setup.
const (
	mogHistory      = 500
	mogVarThreshold = 50.0
	mogShadows      = true

	// MinContourArea is the smallest connected foreground region that
	// gets a bounding box on the overlay.
	MinContourArea = 1000.0
)

var boxColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}

// backgroundSubtraction separates moving foreground from a probabilistic
// background model (mixture of Gaussians) updated on every frame.
type backgroundSubtraction struct {
	params *Params
	bs     gocv.BackgroundSubtractorMOG2
	kernel gocv.Mat
	fg     gocv.Mat // reused raw foreground buffer
}

func newBackgroundSubtraction(params *Params) *backgroundSubtraction {
	return &backgroundSubtraction{
		params: params,
		bs:     gocv.NewBackgroundSubtractorMOG2WithParams(mogHistory, mogVarThreshold, mogShadows),
		kernel: gocv.GetStructuringElement(gocv.MorphEllipse, image.Pt(5, 5)),
		fg:     gocv.NewMat(),
	}
}

func (d *backgroundSubtraction) Method() Method { return Background }

// Process updates the background model with the frame, cleans up the
// foreground mask with close/open morphology, and draws bounding boxes
// around foreground regions above MinContourArea. The first frames produce
// an uninformative model; that startup noise is accepted as-is.
func (d *backgroundSubtraction) Process(frame *gocv.Mat) (Result, error) {
	if frame == nil || frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	d.bs.Apply(*frame, &d.fg)

	mask := gocv.NewMat()
	gocv.Threshold(d.fg, &mask, float32(d.params.Threshold), 255, gocv.ThresholdBinary)

	// Close fills small holes, open removes isolated-pixel noise.
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, d.kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, d.kernel)

	overlay := frame.Clone()
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		if area < MinContourArea {
			continue
		}
		rect := gocv.BoundingRect(contour)
		gocv.Rectangle(&overlay, rect, boxColor, 2)
		gocv.PutText(&overlay, fmt.Sprintf("Area: %d", int(area)),
			image.Pt(rect.Min.X, rect.Min.Y-10), gocv.FontHersheySimplex, 0.6, boxColor, 2)
	}
	contours.Close()

	return Result{
		Mask:          mask,
		Overlay:       overlay,
		MotionPercent: maskPercent(mask),
	}, nil
}

// Reset discards the learned background model.
func (d *backgroundSubtraction) Reset() {
	d.bs.Close()
	d.bs = gocv.NewBackgroundSubtractorMOG2WithParams(mogHistory, mogVarThreshold, mogShadows)
}

func (d *backgroundSubtraction) Close() {
	d.bs.Close()
	d.kernel.Close()
	d.fg.Close()
}
