package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/galihboy/motion-detection/internal/app"
	"github.com/galihboy/motion-detection/internal/capture"
	"github.com/galihboy/motion-detection/internal/detect"
	"github.com/galihboy/motion-detection/internal/server"
	"github.com/galihboy/motion-detection/internal/sink"
	"github.com/galihboy/motion-detection/internal/store"
)

func main() {
	var (
		cameraID    = flag.Int("camera", 0, "camera device ID")
		width       = flag.Int("width", capture.DefaultWidth, "requested capture width")
		height      = flag.Int("height", capture.DefaultHeight, "requested capture height")
		method      = flag.Int("method", int(detect.Background), "initial detection method (1-5)")
		dbPath      = flag.String("db", "", "database path (default ~/.motiondetect/motiondetect.db)")
		recordDir   = flag.String("record-dir", "", "directory for recordings (default ~/.motiondetect/recordings)")
		snapshotDir = flag.String("snapshot-dir", "", "directory for snapshots (default ~/.motiondetect/snapshots)")
		autoRecord  = flag.Bool("auto-record", false, "start recording automatically when motion is detected")
		addr        = flag.String("addr", "", "HTTP listen address, e.g. :8080 (disabled when empty)")
		headless    = flag.Bool("headless", false, "run without display windows")
		listCameras = flag.Bool("list", false, "list available camera devices and exit")
	)
	flag.Parse()

	if *listCameras {
		devices := capture.ListDevices(5)
		if len(devices) == 0 {
			fmt.Println("No camera devices found")
			return
		}
		for _, d := range devices {
			fmt.Printf("Camera %d: %dx%d\n", d.ID, d.Width, d.Height)
		}
		return
	}

	if !detect.Method(*method).Valid() {
		log.Fatalf("Invalid method %d, expected 1-5", *method)
	}

	fmt.Println("Motion Detection - Real-Time Video Analysis")

	dataDir, err := dataDirectory()
	if err != nil {
		log.Fatalf("Failed to locate data directory: %v", err)
	}

	if *dbPath == "" {
		*dbPath = filepath.Join(dataDir, "motiondetect.db")
	}
	if *recordDir == "" {
		*recordDir = filepath.Join(dataDir, "recordings")
	}
	if *snapshotDir == "" {
		*snapshotDir = filepath.Join(dataDir, "snapshots")
	}

	st, err := store.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	cfg := app.Config{
		Store:       st,
		CameraID:    *cameraID,
		Width:       *width,
		Height:      *height,
		Method:      detect.Method(*method),
		RecordDir:   *recordDir,
		SnapshotDir: *snapshotDir,
		AutoRecord:  *autoRecord,
	}

	if !*headless {
		cfg.Display = sink.NewDisplay("Motion Detection")
	}

	if *addr != "" {
		pub := server.NewPublisher()
		cfg.Publisher = pub

		srv := server.New(server.Config{
			Publisher: pub,
			Store:     st,
		})
		go func() {
			fmt.Printf("Starting server on %s\n", *addr)
			if err := srv.ListenAndServe(*addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	fmt.Println("Keys: 1-5 select method, +/- threshold, a/d decay, r record, s snapshot, q quit")

	if err := a.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

// dataDirectory returns ~/.motiondetect, creating it if needed.
func dataDirectory() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(homeDir, ".motiondetect")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}
