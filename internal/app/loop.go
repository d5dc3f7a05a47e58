package app

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/galihboy/motion-detection/internal/detect"
	"github.com/galihboy/motion-detection/internal/overlay"
	"github.com/galihboy/motion-detection/internal/store"
)

// Run executes the motion event loop until a quit command arrives or the
// camera stops delivering frames. It owns the camera, controller and display
// lifecycles and must be called from the main goroutine when the display is
// backed by HighGUI windows.
func (a *App) Run() error {
	if !a.camera.IsOpen() {
		if err := a.camera.Open(); err != nil {
			return fmt.Errorf("failed to open camera: %w", err)
		}
	}
	defer a.shutdown()

	a.startSession()
	log.Printf("Session %s started with %s", a.sessionID, a.controller.Active())

	for {
		if quit := a.pollCommand(); quit {
			return nil
		}

		frame, err := a.camera.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			return fmt.Errorf("frame acquisition failed: %w", err)
		}

		a.processFrame(frame)
		frame.Close()
	}
}

// pollCommand drains one pending key press and applies it.
func (a *App) pollCommand() (quit bool) {
	key := a.display.WaitKey(1)
	if key < 0 {
		return false
	}
	cmd, ok := CommandForKey(key)
	if !ok {
		return false
	}

	switch cmd.Action {
	case ActionQuit:
		return true
	case ActionToggleRecording:
		if a.isRecording() {
			a.stopRecording()
		} else {
			a.startRecording(true)
		}
	case ActionSnapshot:
		// Saved against the next processed frame so the snapshot carries
		// the overlay annotations.
		a.snapshotPending = true
	case ActionSwitchMethod:
		if err := a.controller.Switch(cmd.Method); err != nil {
			log.Printf("Failed to switch method: %v", err)
		} else {
			log.Printf("Switched to %s", cmd.Method)
		}
	case ActionThresholdUp:
		log.Printf("Threshold: %.0f", a.controller.AdjustThreshold(1))
	case ActionThresholdDown:
		log.Printf("Threshold: %.0f", a.controller.AdjustThreshold(-1))
	case ActionDecayUp:
		log.Printf("Decay rate: %.0f", a.controller.AdjustDecayRate(1))
	case ActionDecayDown:
		log.Printf("Decay rate: %.0f", a.controller.AdjustDecayRate(-1))
	}
	return false
}

func (a *App) processFrame(frame *gocv.Mat) {
	res, err := a.controller.Process(frame)
	if err != nil {
		log.Printf("Detection failed: %v", err)
		return
	}
	defer res.Close()

	a.frames++
	a.lastPercent = res.MotionPercent
	a.width = frame.Cols()
	a.height = frame.Rows()
	fps := a.fps.Tick()

	if started, ended := a.eventTracker.update(res.MotionPercent); started {
		a.beginEvent()
	} else if ended {
		a.endEvent()
	}

	if a.config.AutoRecord {
		if started, ended := a.recordTracker.update(res.MotionPercent); started {
			if !a.isRecording() {
				a.startRecording(false)
			}
		} else if ended {
			if a.isRecording() && !a.manualRecording {
				a.stopRecording()
			}
		}
	}

	st := a.status(fps)
	overlay.Draw(&res.Overlay, overlay.Stats{
		Method:        st.Method,
		FPS:           st.FPS,
		MotionPercent: st.MotionPercent,
		Threshold:     st.Threshold,
		DecayRate:     st.DecayRate,
		ShowDecay:     a.controller.Active() == detect.MotionHistory,
		Recording:     st.Recording,
	})

	if a.isRecording() {
		if err := a.recorder.Write(&res.Overlay); err != nil {
			log.Printf("Failed to write recording frame: %v", err)
		} else {
			a.recordedFrames++
		}
	}

	if a.snapshotPending {
		a.snapshotPending = false
		a.saveSnapshot(&res.Overlay)
	}

	if a.publisher != nil {
		a.publishFrame(&res.Overlay, st)
	}

	a.display.Show(&res.Overlay, &res.Mask)
}

func (a *App) beginEvent() {
	a.events++
	a.eventID = uuid.New().String()
	log.Printf("Motion event started (%.2f%%)", a.lastPercent)

	if a.store == nil {
		return
	}
	e := &store.MotionEvent{
		ID:          a.eventID,
		SessionID:   a.sessionID,
		Method:      a.controller.Active().String(),
		PeakPercent: a.lastPercent,
	}
	if err := a.store.Events().Create(e); err != nil {
		log.Printf("Failed to record motion event: %v", err)
	}
}

func (a *App) endEvent() {
	log.Printf("Motion event ended (peak %.2f%%)", a.eventTracker.peakPercent())

	if a.store == nil || a.eventID == "" {
		return
	}
	if err := a.store.Events().Finish(a.eventID, a.eventTracker.peakPercent()); err != nil {
		log.Printf("Failed to finish motion event: %v", err)
	}
	a.eventID = ""
}

func (a *App) startRecording(manual bool) {
	if a.recorder == nil {
		log.Println("Recording requested but no recorder configured")
		return
	}

	path, err := a.recorder.Start(a.width, a.height, a.camera.FPS())
	if err != nil {
		log.Printf("Failed to start recording: %v", err)
		return
	}
	a.manualRecording = manual
	a.recordedFrames = 0
	a.recordingID = uuid.New().String()
	log.Printf("Recording to %s", path)

	if a.store == nil {
		return
	}
	rec := &store.Recording{ID: a.recordingID, SessionID: a.sessionID, Path: path}
	if err := a.store.Media().CreateRecording(rec); err != nil {
		log.Printf("Failed to record recording row: %v", err)
	}
}

func (a *App) stopRecording() {
	if err := a.recorder.Stop(); err != nil {
		log.Printf("Failed to stop recording: %v", err)
		return
	}
	log.Printf("Recording stopped after %d frames", a.recordedFrames)

	if a.store != nil && a.recordingID != "" {
		if err := a.store.Media().FinishRecording(a.recordingID, a.recordedFrames); err != nil {
			log.Printf("Failed to finish recording row: %v", err)
		}
	}
	a.recordingID = ""
	a.manualRecording = false
}

func (a *App) saveSnapshot(frame *gocv.Mat) {
	if a.snapshotter == nil {
		log.Println("Snapshot requested but no snapshotter configured")
		return
	}

	path, err := a.snapshotter.Save(frame)
	if err != nil {
		log.Printf("Failed to save snapshot: %v", err)
		return
	}
	log.Printf("Snapshot saved to %s", path)

	if a.store == nil {
		return
	}
	snap := &store.Snapshot{
		ID:            uuid.New().String(),
		SessionID:     a.sessionID,
		Path:          path,
		Method:        a.controller.Active().String(),
		MotionPercent: a.lastPercent,
	}
	if err := a.store.Media().CreateSnapshot(snap); err != nil {
		log.Printf("Failed to record snapshot row: %v", err)
	}
}

func (a *App) publishFrame(frame *gocv.Mat, st Status) {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		log.Printf("Failed to encode frame: %v", err)
		return
	}
	data := make([]byte, len(buf.GetBytes()))
	copy(data, buf.GetBytes())
	buf.Close()

	a.publisher.Publish(data, st)
}

func (a *App) shutdown() {
	if a.isRecording() {
		a.stopRecording()
	}
	if a.eventTracker.isActive() {
		a.endEvent()
	}
	a.finishSession()

	a.controller.Close()
	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if err := a.display.Close(); err != nil {
		log.Printf("Error closing display: %v", err)
	}

	log.Printf("Session %s ended after %d frames", a.sessionID, a.frames)
}
