package sse

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Event types written to stream subscribers.
const (
	EventFragment = "fragment"
	EventResult   = "result"
	EventError    = "error"
	EventDone     = "done"
)

const (
	cleanupInterval = 5 * time.Minute
	retention       = 10 * time.Minute
)

var ErrUnknownStream = errors.New("unknown stream")

// Event is one entry of a job's log. Data is encoded as JSON by the transport.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Hub keeps an append-only event log per job id
type Hub struct {
	mu      sync.RWMutex
	streams map[string]*Stream
	stop    chan struct{}
	once    sync.Once
}

// Stream holds the events and state for a translation job
type Stream struct {
	mu         sync.Mutex
	events     []Event
	done       bool
	finishedAt time.Time
	clients    int
	// notify is closed and replaced on every append
	notify chan struct{}
}

// Client reads a stream from the beginning at its own pace.
type Client struct {
	stream *Stream
	cursor int
}

func NewHub() *Hub {
	return &Hub{
		streams: make(map[string]*Stream),
		stop:    make(chan struct{}),
	}
}

func (h *Hub) Run() {
	// cleanup old streams periodically
	ticker := time.NewTicker(cleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				h.cleanup(time.Now())
			case <-h.stop:
				return
			}
		}
	}()
}

func (h *Hub) Stop() {
	h.once.Do(func() { close(h.stop) })
}

func (h *Hub) cleanup(now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, stream := range h.streams {
		stream.mu.Lock()
		expired := stream.done && stream.clients == 0 && now.Sub(stream.finishedAt) >= retention
		stream.mu.Unlock()

		if expired {
			delete(h.streams, id)
		}
	}
}

func (h *Hub) Create(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.streams[id]; !ok {
		h.streams[id] = &Stream{notify: make(chan struct{})}
	}
}

func (h *Hub) Exists(id string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.streams[id]
	return ok
}

func (h *Hub) get(id string) (*Stream, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.streams[id]
	return s, ok
}

// Send appends ev to the job's log and wakes every subscriber. A done event closes the log.
func (h *Hub) Send(id string, ev Event) error {
	stream, ok := h.get(id)
	if !ok {
		return ErrUnknownStream
	}

	stream.mu.Lock()
	defer stream.mu.Unlock()
	if stream.done {
		return nil
	}

	stream.events = append(stream.events, ev)
	if ev.Type == EventDone {
		stream.done = true
		stream.finishedAt = time.Now()
	}
	close(stream.notify)
	stream.notify = make(chan struct{})
	return nil
}

// AddClient subscribes to id. Late subscribers replay the whole log.
func (h *Hub) AddClient(id string) (*Client, error) {
	stream, ok := h.get(id)
	if !ok {
		return nil, ErrUnknownStream
	}
	stream.mu.Lock()
	stream.clients++
	stream.mu.Unlock()
	return &Client{stream: stream}, nil
}

func (h *Hub) RemoveClient(client *Client) {
	if client == nil {
		return
	}
	client.stream.mu.Lock()
	client.stream.clients--
	client.stream.mu.Unlock()
}

// Next blocks until the next event is available. It returns false once the log is
// exhausted after a done event, or when ctx ends.
func (c *Client) Next(ctx context.Context) (Event, bool) {
	for {
		c.stream.mu.Lock()
		if c.cursor < len(c.stream.events) {
			ev := c.stream.events[c.cursor]
			c.cursor++
			c.stream.mu.Unlock()
			return ev, true
		}
		if c.stream.done {
			c.stream.mu.Unlock()
			return Event{}, false
		}
		wait := c.stream.notify
		c.stream.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return Event{}, false
		}
	}
}
