// Package app wires the capture, detection, overlay and sink layers into the
// interactive motion detection loop.
package app

import (
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/galihboy/motion-detection/internal/capture"
	"github.com/galihboy/motion-detection/internal/detect"
	"github.com/galihboy/motion-detection/internal/overlay"
	"github.com/galihboy/motion-detection/internal/sink"
	"github.com/galihboy/motion-detection/internal/store"
)

// Loop tuning constants.
const (
	// DefaultEventTriggerPercent is the motion level that opens a motion event.
	DefaultEventTriggerPercent = 1.0
	// DefaultRecordTriggerPercent is the motion level that starts auto-recording.
	DefaultRecordTriggerPercent = 0.5
	// DefaultQuietFrames is how many consecutive quiet frames close an event.
	DefaultQuietFrames = 30
)

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	CameraID int
	Width    int
	Height   int
	Method   detect.Method

	RecordDir   string
	SnapshotDir string
	// AutoRecord starts a recording when motion crosses RecordTriggerPercent
	// and stops it once the motion has quieted down.
	AutoRecord           bool
	RecordTriggerPercent float64
	EventTriggerPercent  float64
	EventQuietFrames     int

	// Optional overrides, used by tests and headless runs. Nil fields get
	// real implementations (or the null display).
	Camera      capture.Camera
	Display     sink.Display
	Recorder    sink.Recorder
	Snapshotter sink.Snapshotter
	Publisher   Publisher
}

// App is the motion detection application.
type App struct {
	config      Config
	camera      capture.Camera
	controller  *detect.Controller
	display     sink.Display
	recorder    sink.Recorder
	snapshotter sink.Snapshotter
	publisher   Publisher
	store       *store.Store

	fps           *overlay.FPSMeter
	eventTracker  *eventTracker
	recordTracker *eventTracker

	sessionID string
	frames    int64
	events    int64

	eventID         string
	recordingID     string
	recordedFrames  int64
	manualRecording bool

	snapshotPending bool
	lastPercent     float64

	// Last seen frame dimensions, for starting a recording between frames.
	width  int
	height int
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	if config.Width <= 0 {
		config.Width = capture.DefaultWidth
	}
	if config.Height <= 0 {
		config.Height = capture.DefaultHeight
	}
	if config.EventTriggerPercent <= 0 {
		config.EventTriggerPercent = DefaultEventTriggerPercent
	}
	if config.RecordTriggerPercent <= 0 {
		config.RecordTriggerPercent = DefaultRecordTriggerPercent
	}
	if config.EventQuietFrames <= 0 {
		config.EventQuietFrames = DefaultQuietFrames
	}

	a := &App{
		config:        config,
		camera:        config.Camera,
		display:       config.Display,
		recorder:      config.Recorder,
		snapshotter:   config.Snapshotter,
		publisher:     config.Publisher,
		store:         config.Store,
		controller:    detect.NewController(),
		fps:           overlay.NewFPSMeter(),
		eventTracker:  newEventTracker(config.EventTriggerPercent, config.EventQuietFrames),
		recordTracker: newEventTracker(config.RecordTriggerPercent, config.EventQuietFrames),
		width:         config.Width,
		height:        config.Height,
	}

	if a.camera == nil {
		a.camera = capture.NewCameraWithSize(config.CameraID, config.Width, config.Height)
	}
	if a.display == nil {
		a.display = sink.NullDisplay{}
	}
	if a.recorder == nil && config.RecordDir != "" {
		rec, err := sink.NewRecorder(config.RecordDir)
		if err != nil {
			return nil, err
		}
		a.recorder = rec
	}
	if a.snapshotter == nil && config.SnapshotDir != "" {
		snap, err := sink.NewSnapshotter(config.SnapshotDir)
		if err != nil {
			return nil, err
		}
		a.snapshotter = snap
	}

	if config.Method.Valid() {
		if err := a.controller.Switch(config.Method); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// Controller returns the detection controller.
func (a *App) Controller() *detect.Controller {
	return a.controller
}

// SessionID returns the ID of the current session, or "" before Run.
func (a *App) SessionID() string {
	return a.sessionID
}

// status builds the live state snapshot for the overlay and publishers.
func (a *App) status(fps float64) Status {
	params := a.controller.Params()
	return Status{
		SessionID:     a.sessionID,
		Method:        a.controller.Active().String(),
		MotionPercent: a.lastPercent,
		FPS:           fps,
		Threshold:     params.Threshold,
		DecayRate:     params.DecayRate,
		Recording:     a.isRecording(),
		Frames:        a.frames,
		Events:        a.events,
	}
}

func (a *App) isRecording() bool {
	return a.recorder != nil && a.recorder.IsRecording()
}

// startSession opens the persistent session row.
func (a *App) startSession() {
	a.sessionID = uuid.New().String()
	a.frames = 0
	a.events = 0

	if a.store == nil {
		return
	}
	if err := a.store.Sessions().Create(&store.Session{ID: a.sessionID, StartedAt: time.Now()}); err != nil {
		log.Printf("Failed to create session: %v", err)
	}
}

// finishSession closes the session row with the final counters.
func (a *App) finishSession() {
	if a.store == nil || a.sessionID == "" {
		return
	}
	if err := a.store.Sessions().Finish(a.sessionID, a.frames, a.events); err != nil {
		log.Printf("Failed to finish session: %v", err)
	}
}
