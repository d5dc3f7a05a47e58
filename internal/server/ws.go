package server

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveHandler broadcasts the live detection status via WebSocket.
type LiveHandler struct {
	publisher *Publisher
	clients   map[*websocket.Conn]bool
	mu        sync.RWMutex
}

// NewLiveHandler creates a new LiveHandler reading from the publisher.
func NewLiveHandler(publisher *Publisher) *LiveHandler {
	h := &LiveHandler{
		publisher: publisher,
		clients:   make(map[*websocket.Conn]bool),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// broadcast sends the latest status to all connected clients.
func (h *LiveHandler) broadcast() {
	ticker := time.NewTicker(streamInterval)
	defer ticker.Stop()

	var lastSeq uint64
	for range ticker.C {
		h.mu.RLock()
		idle := len(h.clients) == 0
		h.mu.RUnlock()
		if idle {
			continue
		}

		_, seq := h.publisher.Frame()
		if seq == lastSeq {
			continue
		}
		lastSeq = seq

		status := h.publisher.Status()

		h.mu.RLock()
		for conn := range h.clients {
			if err := conn.WriteJSON(status); err != nil {
				log.Printf("websocket write error: %v", err)
			}
		}
		h.mu.RUnlock()
	}
}
