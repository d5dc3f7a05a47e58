// Package server provides the HTTP API, the MJPEG stream and the WebSocket
// live feed for the motion detection application.
package server

import (
	"sync"

	"github.com/galihboy/motion-detection/internal/app"
)

// Publisher holds the latest annotated frame and status published by the
// event loop, for the HTTP handlers to read. It implements app.Publisher.
type Publisher struct {
	mu     sync.RWMutex
	jpeg   []byte
	status app.Status
	seq    uint64
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish stores the frame and status, replacing the previous ones.
func (p *Publisher) Publish(jpeg []byte, status app.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.jpeg = jpeg
	p.status = status
	p.seq++
}

// Frame returns the latest JPEG frame and its sequence number. The frame is
// nil until the first Publish. Callers must not modify the returned slice.
func (p *Publisher) Frame() ([]byte, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.jpeg, p.seq
}

// Status returns the latest published status.
func (p *Publisher) Status() app.Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
