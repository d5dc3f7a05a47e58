package detect

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Controller holds the active algorithm variant and the shared tunable
// parameters, and hot-switches between variants without restarting capture.
//
// Each variant owns its persistent buffers independently, so switching is
// O(1) and never cross-contaminates state: non-active variants keep their
// previous-frame caches and resume with stale-but-valid state, except the
// motion history image, which is reset whenever its variant is reactivated.
type Controller struct {
	params    *Params
	active    Method
	detectors map[Method]Detector
}

// NewController creates a Controller with default parameters. The initial
// method is Background.
func NewController() *Controller {
	return &Controller{
		params:    NewParams(),
		active:    Background,
		detectors: make(map[Method]Detector),
	}
}

// Process runs the active variant on the frame.
func (c *Controller) Process(frame *gocv.Mat) (Result, error) {
	return c.detector(c.active).Process(frame)
}

// Switch activates the given method. The previously active variant keeps
// its persistent buffers for potential reactivation.
func (c *Controller) Switch(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("unknown detection method %d", m)
	}
	if m == c.active {
		return nil
	}
	c.active = m
	if m == MotionHistory {
		if d, ok := c.detectors[MotionHistory]; ok {
			d.Reset()
		}
	}
	return nil
}

// Active returns the currently active method.
func (c *Controller) Active() Method {
	return c.active
}

// Params returns the shared detection parameters.
func (c *Controller) Params() *Params {
	return c.params
}

// AdjustThreshold moves the shared threshold by the given number of steps,
// clamped to its valid range.
func (c *Controller) AdjustThreshold(steps int) float64 {
	return c.params.AdjustThreshold(steps)
}

// AdjustDecayRate moves the MHI decay rate by the given number of steps. It
// is a silent no-op unless the motion history variant is active.
func (c *Controller) AdjustDecayRate(steps int) float64 {
	if c.active != MotionHistory {
		return c.params.DecayRate
	}
	return c.params.AdjustDecayRate(steps)
}

// detector returns the variant for m, creating it on first use.
func (c *Controller) detector(m Method) Detector {
	if d, ok := c.detectors[m]; ok {
		return d
	}
	var d Detector
	switch m {
	case FrameDiff:
		d = newFrameDifference(c.params)
	case SparseFlow:
		d = newSparseFlow(c.params)
	case DenseFlow:
		d = newDenseFlow(c.params)
	case MotionHistory:
		d = newMotionHistory(c.params)
	default:
		d = newBackgroundSubtraction(c.params)
	}
	c.detectors[m] = d
	return d
}

// Close releases every instantiated variant.
func (c *Controller) Close() {
	for _, d := range c.detectors {
		d.Close()
	}
	c.detectors = make(map[Method]Detector)
}
