package app

// Status is the live state snapshot handed to publishers and the HTTP layer.
type Status struct {
	SessionID     string  `json:"session_id"`
	Method        string  `json:"method"`
	MotionPercent float64 `json:"motion_percent"`
	FPS           float64 `json:"fps"`
	Threshold     float64 `json:"threshold"`
	DecayRate     float64 `json:"decay_rate"`
	Recording     bool    `json:"recording"`
	Frames        int64   `json:"frames"`
	Events        int64   `json:"events"`
}

// Publisher receives each annotated frame as JPEG bytes together with the
// current status. The byte slice is owned by the publisher after the call.
type Publisher interface {
	Publish(jpeg []byte, status Status)
}
