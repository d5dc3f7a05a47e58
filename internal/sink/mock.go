package sink

import "gocv.io/x/gocv"

// MockRecorder records calls instead of writing video files.
type MockRecorder struct {
	Started    int
	Stopped    int
	Frames     int
	StartErr   error
	recording  bool
	LastWidth  int
	LastHeight int
	LastFPS    float64
}

func (m *MockRecorder) Start(width, height int, fps float64) (string, error) {
	if m.StartErr != nil {
		return "", m.StartErr
	}
	if m.recording {
		return "", ErrAlreadyRecording
	}
	m.Started++
	m.recording = true
	m.LastWidth = width
	m.LastHeight = height
	m.LastFPS = fps
	return "mock.avi", nil
}

func (m *MockRecorder) Write(frame *gocv.Mat) error {
	if !m.recording {
		return ErrNotRecording
	}
	m.Frames++
	return nil
}

func (m *MockRecorder) Stop() error {
	if !m.recording {
		return ErrNotRecording
	}
	m.Stopped++
	m.recording = false
	return nil
}

func (m *MockRecorder) IsRecording() bool { return m.recording }

// MockSnapshotter counts snapshot requests.
type MockSnapshotter struct {
	Saved   int
	SaveErr error
}

func (m *MockSnapshotter) Save(frame *gocv.Mat) (string, error) {
	if m.SaveErr != nil {
		return "", m.SaveErr
	}
	m.Saved++
	return "mock.jpg", nil
}

// ScriptedDisplay returns a scripted sequence of key presses from WaitKey,
// then -1 forever. It discards frames.
type ScriptedDisplay struct {
	Keys   []int
	index  int
	Shown  int
	Closed bool
}

func (d *ScriptedDisplay) Show(frame, mask *gocv.Mat) { d.Shown++ }

func (d *ScriptedDisplay) WaitKey(delayMS int) int {
	if d.index < len(d.Keys) {
		k := d.Keys[d.index]
		d.index++
		return k
	}
	return -1
}

func (d *ScriptedDisplay) Close() error {
	d.Closed = true
	return nil
}
