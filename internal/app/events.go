package app

// eventTracker turns the per-frame motion percentage into discrete motion
// events. An event starts when the level reaches triggerPercent and ends
// once it has stayed below the trigger for quietFrames consecutive frames,
// so brief dips do not split one event into several.
type eventTracker struct {
	triggerPercent float64
	quietFrames    int

	active bool
	quiet  int
	peak   float64
}

func newEventTracker(triggerPercent float64, quietFrames int) *eventTracker {
	return &eventTracker{
		triggerPercent: triggerPercent,
		quietFrames:    quietFrames,
	}
}

// update feeds one frame's motion level and reports event transitions.
// At most one of started and ended is true for a given frame.
func (t *eventTracker) update(percent float64) (started, ended bool) {
	if !t.active {
		if percent >= t.triggerPercent {
			t.active = true
			t.quiet = 0
			t.peak = percent
			return true, false
		}
		return false, false
	}

	if percent > t.peak {
		t.peak = percent
	}

	if percent >= t.triggerPercent {
		t.quiet = 0
		return false, false
	}

	t.quiet++
	if t.quiet >= t.quietFrames {
		t.active = false
		t.quiet = 0
		return false, true
	}
	return false, false
}

// peakPercent returns the highest level seen during the current or most
// recently ended event.
func (t *eventTracker) peakPercent() float64 { return t.peak }

func (t *eventTracker) isActive() bool { return t.active }
