package sink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gocv.io/x/gocv"
)

// ErrSnapshotWrite is returned when the image cannot be encoded to disk.
var ErrSnapshotWrite = errors.New("failed to write snapshot")

// Snapshotter saves single annotated frames as timestamped JPEG files.
type Snapshotter interface {
	Save(frame *gocv.Mat) (path string, err error)
}

type fileSnapshotter struct {
	dir string
	now func() time.Time
}

// NewSnapshotter creates a Snapshotter that stores files under dir, creating
// the directory if needed.
func NewSnapshotter(dir string) (Snapshotter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	return &fileSnapshotter{dir: dir, now: time.Now}, nil
}

func (s *fileSnapshotter) Save(frame *gocv.Mat) (string, error) {
	name := fmt.Sprintf("motion_screenshot_%s.jpg", s.now().Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	if ok := gocv.IMWrite(path, *frame); !ok {
		return "", fmt.Errorf("%w: %s", ErrSnapshotWrite, path)
	}
	return path, nil
}
