package detect

import (
	"gocv.io/x/gocv"
)

// MaxIntensity is the value newly-moving pixels are raised to in the motion
// history image.
const MaxIntensity = 255

// motionHistory maintains a decaying temporal accumulator of recent motion.
// Each call the whole image decays toward zero by the decay rate, then
// pixels of the instantaneous motion mask are raised back to MaxIntensity,
// leaving a fading trail behind anything that moves.
//
// The decay/raise pass is built from plain per-pixel arithmetic (saturating
// subtract, then element-wise max) rather than a temporal-template library
// call, so the decay rate stays independently controllable.
type motionHistory struct {
	params      *Params
	prevGray    gocv.Mat
	gray        gocv.Mat // reused scratch buffer
	mhi         gocv.Mat // persistent CV8UC1 history image
	decay       gocv.Mat // constant image holding the decay rate
	lastDecay   float64
	initialized bool
}

func newMotionHistory(params *Params) *motionHistory {
	return &motionHistory{
		params:   params,
		prevGray: gocv.NewMat(),
		gray:     gocv.NewMat(),
		mhi:      gocv.NewMat(),
		decay:    gocv.NewMat(),
	}
}

func (d *motionHistory) Method() Method { return MotionHistory }

// Process computes the instantaneous motion mask from the frame difference,
// decays the history image, raises newly-moving pixels, and renders the
// history as a pseudocolor trail. Motion percentage reflects the
// instantaneous mask, not the accumulated trail.
func (d *motionHistory) Process(frame *gocv.Mat) (Result, error) {
	if frame == nil || frame.Empty() {
		return Result{}, ErrEmptyFrame
	}

	toGray(frame, &d.gray)
	rows, cols := d.gray.Rows(), d.gray.Cols()

	if !d.initialized || !sameSize(d.mhi, rows, cols) {
		d.allocate(rows, cols)
		d.gray.CopyTo(&d.prevGray)
		d.initialized = true
		return Result{
			Mask:    gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1),
			Overlay: frame.Clone(),
		}, nil
	}

	// Instantaneous binary motion mask from the frame difference.
	diff := gocv.NewMat()
	gocv.AbsDiff(d.gray, d.prevGray, &diff)
	instant := gocv.NewMat()
	gocv.Threshold(diff, &instant, float32(d.params.Threshold), MaxIntensity, gocv.ThresholdBinary)
	diff.Close()

	// Decay, then raise. The subtract saturates at zero, the max raises
	// moving pixels to MaxIntensity, so values stay in [0, MaxIntensity].
	d.syncDecay()
	gocv.Subtract(d.mhi, d.decay, &d.mhi)
	gocv.Max(d.mhi, instant, &d.mhi)

	// Any historical trace counts as motion for the mask; the overlay
	// keeps the graded intensity.
	mask := gocv.NewMat()
	gocv.Threshold(d.mhi, &mask, 0, 255, gocv.ThresholdBinary)

	overlay := gocv.NewMat()
	gocv.ApplyColorMap(d.mhi, &overlay, gocv.ColormapJet)

	percent := maskPercent(instant)
	instant.Close()

	d.gray.CopyTo(&d.prevGray)

	return Result{
		Mask:          mask,
		Overlay:       overlay,
		MotionPercent: percent,
	}, nil
}

// allocate sizes the history image and decay constant to the current frame
// and zeroes the history.
func (d *motionHistory) allocate(rows, cols int) {
	d.mhi.Close()
	d.mhi = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	d.decay.Close()
	d.decay = gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	d.decay.SetTo(gocv.NewScalar(d.params.DecayRate, 0, 0, 0))
	d.lastDecay = d.params.DecayRate
}

// syncDecay refreshes the decay constant when the rate was adjusted live.
func (d *motionHistory) syncDecay() {
	if d.params.DecayRate != d.lastDecay {
		d.decay.SetTo(gocv.NewScalar(d.params.DecayRate, 0, 0, 0))
		d.lastDecay = d.params.DecayRate
	}
}

// Reset zeroes the history image and re-baselines the previous frame. The
// history is always reset when this variant is freshly activated.
func (d *motionHistory) Reset() {
	if !d.mhi.Empty() {
		d.mhi.SetTo(gocv.NewScalar(0, 0, 0, 0))
	}
	d.initialized = false
}

func (d *motionHistory) Close() {
	d.prevGray.Close()
	d.gray.Close()
	d.mhi.Close()
	d.decay.Close()
}
