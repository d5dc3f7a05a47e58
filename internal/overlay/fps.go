package overlay

import "time"

// fpsWindow is the number of recent frames averaged for the FPS readout.
const fpsWindow = 30

// FPSMeter measures the achieved frame rate over a sliding window of frame
// timestamps. It is not safe for concurrent use; the event loop ticks it
// from a single goroutine.
type FPSMeter struct {
	stamps []time.Time
	now    func() time.Time
}

func NewFPSMeter() *FPSMeter {
	return &FPSMeter{now: time.Now}
}

// Tick records that a frame was processed and returns the current rate.
func (m *FPSMeter) Tick() float64 {
	m.stamps = append(m.stamps, m.now())
	if len(m.stamps) > fpsWindow {
		m.stamps = m.stamps[len(m.stamps)-fpsWindow:]
	}
	return m.Rate()
}

// Rate returns frames per second over the current window, or 0 until at
// least two frames have been recorded.
func (m *FPSMeter) Rate() float64 {
	if len(m.stamps) < 2 {
		return 0
	}
	elapsed := m.stamps[len(m.stamps)-1].Sub(m.stamps[0]).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(len(m.stamps)-1) / elapsed
}
