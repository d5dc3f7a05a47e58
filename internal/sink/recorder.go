// Package sink writes processed frames out of the pipeline: video recording,
// still snapshots and the on-screen display windows.
package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// Recording errors.
var (
	// ErrAlreadyRecording is returned when starting a recorder that is active.
	ErrAlreadyRecording = errors.New("recording already in progress")
	// ErrNotRecording is returned when writing or stopping without an active recording.
	ErrNotRecording = errors.New("no recording in progress")
)

// Recorder writes annotated frames to a timestamped video file. One
// recording is active at a time; Start while active is an error.
type Recorder interface {
	Start(width, height int, fps float64) (path string, err error)
	Write(frame *gocv.Mat) error
	Stop() error
	IsRecording() bool
}

// fileRecorder writes Motion JPEG video files into a directory.
type fileRecorder struct {
	dir    string
	writer *gocv.VideoWriter
	path   string
	frames int
	now    func() time.Time
}

// NewRecorder creates a Recorder that stores files under dir, creating the
// directory if needed.
func NewRecorder(dir string) (Recorder, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create recording directory: %w", err)
	}
	return &fileRecorder{dir: dir, now: time.Now}, nil
}

func (r *fileRecorder) Start(width, height int, fps float64) (string, error) {
	if r.writer != nil {
		return "", ErrAlreadyRecording
	}
	if fps <= 0 {
		fps = 20.0
	}

	name := fmt.Sprintf("motion_%s.avi", r.now().Format("20060102_150405"))
	path := filepath.Join(r.dir, name)

	writer, err := gocv.VideoWriterFile(path, "MJPG", fps, width, height, true)
	if err != nil {
		return "", fmt.Errorf("failed to open video writer: %w", err)
	}

	r.writer = writer
	r.path = path
	r.frames = 0

	return path, nil
}

func (r *fileRecorder) Write(frame *gocv.Mat) error {
	if r.writer == nil {
		return ErrNotRecording
	}
	if err := r.writer.Write(*frame); err != nil {
		return fmt.Errorf("failed to write video frame: %w", err)
	}
	r.frames++
	return nil
}

func (r *fileRecorder) Stop() error {
	if r.writer == nil {
		return ErrNotRecording
	}
	err := r.writer.Close()
	r.writer = nil
	r.path = ""
	return err
}

func (r *fileRecorder) IsRecording() bool {
	return r.writer != nil
}
