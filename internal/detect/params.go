package detect

// Parameter bounds and defaults. The threshold is the binary cutoff applied
// to pixel differences (and, scaled, to flow magnitudes); the decay rate is
// the per-frame intensity reduction of the motion history image.
const (
	MinThreshold     = 1.0
	MaxThreshold     = 254.0
	DefaultThreshold = 25.0
	ThresholdStep    = 5.0

	MinDecayRate     = 1.0
	MaxDecayRate     = 255.0
	DefaultDecayRate = 10.0
	DecayRateStep    = 5.0
)

// Params holds the live-tunable detection parameters. A single Params value
// is shared by reference with every algorithm variant; only the controller
// mutates it, and only between frames, so no locking is needed.
type Params struct {
	Threshold float64
	DecayRate float64
}

// NewParams returns Params with the default values.
func NewParams() *Params {
	return &Params{
		Threshold: DefaultThreshold,
		DecayRate: DefaultDecayRate,
	}
}

// AdjustThreshold moves the threshold by the given number of steps and
// clamps it to the valid range. It returns the new value.
func (p *Params) AdjustThreshold(steps int) float64 {
	p.Threshold = clamp(p.Threshold+float64(steps)*ThresholdStep, MinThreshold, MaxThreshold)
	return p.Threshold
}

// AdjustDecayRate moves the decay rate by the given number of steps and
// clamps it to the valid range. It returns the new value.
func (p *Params) AdjustDecayRate(steps int) float64 {
	p.DecayRate = clamp(p.DecayRate+float64(steps)*DecayRateStep, MinDecayRate, MaxDecayRate)
	return p.DecayRate
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
