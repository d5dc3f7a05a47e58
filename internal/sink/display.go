package sink

import "gocv.io/x/gocv"

// Display presents the annotated frame and the motion mask, and polls for
// key presses. Implementations are bound to the main goroutine when backed
// by HighGUI windows.
type Display interface {
	// Show presents the annotated frame and, when mask is non-nil, the
	// motion mask in a second window.
	Show(frame, mask *gocv.Mat)
	// WaitKey polls for a pressed key, returning -1 when none is pending.
	WaitKey(delayMS int) int
	Close() error
}

type windowDisplay struct {
	main *gocv.Window
	mask *gocv.Window
}

// NewDisplay opens the main preview window and a secondary mask window.
func NewDisplay(title string) Display {
	return &windowDisplay{
		main: gocv.NewWindow(title),
		mask: gocv.NewWindow(title + " - mask"),
	}
}

func (d *windowDisplay) Show(frame, mask *gocv.Mat) {
	if frame != nil && !frame.Empty() {
		d.main.IMShow(*frame)
	}
	if mask != nil && !mask.Empty() {
		d.mask.IMShow(*mask)
	}
}

func (d *windowDisplay) WaitKey(delayMS int) int {
	return d.main.WaitKey(delayMS)
}

func (d *windowDisplay) Close() error {
	if err := d.main.Close(); err != nil {
		return err
	}
	return d.mask.Close()
}

// NullDisplay discards frames and reports no key presses. It stands in for
// the windows in headless runs and in tests.
type NullDisplay struct{}

func (NullDisplay) Show(frame, mask *gocv.Mat) {}
func (NullDisplay) WaitKey(delayMS int) int    { return -1 }
func (NullDisplay) Close() error               { return nil }
