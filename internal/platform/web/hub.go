// Package web streams the frames a view presents to browsers. A Hub is
// installed as a raster frame sink; every presented frame is encoded once as
// PNG and pushed to all connected websocket clients.
package web

import (
	"bytes"
	"image"
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/raster"
)

// clientBuffer is how many frames may queue for a slow client before older
// frames are dropped.
const clientBuffer = 4

// Hub fans presented frames out to websocket clients.
type Hub struct {
	mu      sync.Mutex
	latest  []byte // PNG of the last presented frame
	frames  uint64
	clients map[*client]struct{}
	logger  *log.Logger
}

// NewHub creates an empty hub. logger may be nil.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
}

// Sink returns the frame sink to pass to the raster canvas.
func (h *Hub) Sink() raster.FrameSink {
	return h.publish
}

func (h *Hub) publish(frame *image.RGBA) error {
	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf, frame); err != nil {
		return err
	}
	data := buf.Bytes()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = data
	h.frames++
	for c := range h.clients {
		c.offer(data)
	}
	return nil
}

// Latest returns the PNG of the last presented frame, or nil.
func (h *Hub) Latest() []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest
}

// Frames returns how many frames were published.
func (h *Hub) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.frames
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// register adds c and queues the latest frame so new viewers see the
// board right away.
func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.offer(h.latest)
	}
	h.logger.Debug("watcher connected", "remote", c.remote, "watchers", len(h.clients))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	h.logger.Debug("watcher disconnected", "remote", c.remote, "watchers", len(h.clients))
}

// client is one websocket viewer.
type client struct {
	remote string
	send   chan []byte
}

func newClient(remote string) *client {
	return &client{remote: remote, send: make(chan []byte, clientBuffer)}
}

// offer queues data, dropping the oldest queued frame when full.
// Called with the hub lock held.
func (c *client) offer(data []byte) {
	for {
		select {
		case c.send <- data:
			return
		default:
		}
		select {
		case <-c.send:
		default:
		}
	}
}
