package api

import (
	"encoding/json"
	"io"
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// AllTopics is the topic of clients that want every chart's events.
const AllTopics = "*"

// SSEClient represents a connected SSE client
type SSEClient struct {
	Topic   string
	Channel chan ChartEvent
}

// ChartEvent tells a page that one chart was rebuilt and its SVG should be refetched.
type ChartEvent struct {
	Kind      string    `json:"kind"`
	EventType string    `json:"event_type"`
	Seq       uint64    `json:"seq"`
	Width     float64   `json:"width"`
	Reason    string    `json:"reason,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// SSEHub fans chart events out to Server-Sent Events clients
type SSEHub struct {
	clients    map[string]map[chan ChartEvent]bool
	clientsMu  sync.RWMutex
	register   chan SSEClient
	unregister chan SSEClient
	broadcast  chan ChartEvent
	done       chan struct{}
	closeOnce  sync.Once
	keepAlive  time.Duration
}

// NewSSEHub creates a new SSE hub
func NewSSEHub() *SSEHub {
	hub := &SSEHub{
		clients:    make(map[string]map[chan ChartEvent]bool),
		register:   make(chan SSEClient, 10),
		unregister: make(chan SSEClient, 10),
		broadcast:  make(chan ChartEvent, 100),
		done:       make(chan struct{}),
		keepAlive:  30 * time.Second,
	}

	go hub.run()
	return hub
}

// run processes SSE hub operations until Close
func (h *SSEHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			if h.clients[client.Topic] == nil {
				h.clients[client.Topic] = make(map[chan ChartEvent]bool)
			}
			h.clients[client.Topic][client.Channel] = true
			log.Printf("[SSE] Client registered for %s (total clients: %d)",
				client.Topic, len(h.clients[client.Topic]))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.drop(client)

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for _, topic := range []string{event.Kind, AllTopics} {
				for clientChan := range h.clients[topic] {
					select {
					case clientChan <- event:
					default:
						log.Printf("[SSE] Client channel full for %s, skipping event %d", topic, event.Seq)
					}
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			h.clientsMu.Lock()
			for topic, clients := range h.clients {
				for ch := range clients {
					close(ch)
				}
				delete(h.clients, topic)
			}
			h.clientsMu.Unlock()
			return
		}
	}
}

func (h *SSEHub) drop(client SSEClient) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	clients, exists := h.clients[client.Topic]
	if !exists || !clients[client.Channel] {
		return
	}
	delete(clients, client.Channel)
	close(client.Channel)
	log.Printf("[SSE] Client unregistered from %s (remaining clients: %d)", client.Topic, len(clients))
	if len(clients) == 0 {
		delete(h.clients, client.Topic)
	}
}

// Broadcast sends an event to the clients of its chart and to AllTopics clients
func (h *SSEHub) Broadcast(event ChartEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	case <-h.done:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping event: %s/%s", event.Kind, event.EventType)
	}
}

// Close stops the hub and closes every client channel. It is safe to call more than once.
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// HandleSSE streams chart events. ?kind= narrows the stream to one chart.
func (h *SSEHub) HandleSSE(c *gin.Context) {
	topic := c.DefaultQuery("kind", AllTopics)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := make(chan ChartEvent, 10)
	client := SSEClient{Topic: topic, Channel: clientChan}

	select {
	case h.register <- client:
	case <-h.done:
		c.JSON(503, gin.H{"error": "event stream closed"})
		return
	}

	defer func() {
		select {
		case h.unregister <- client:
		case <-h.done:
		}
	}()

	c.Status(200)
	c.Writer.Flush()

	ctx := c.Request.Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-clientChan:
			if !ok {
				return false
			}
			eventJSON, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.EventType, string(eventJSON))
			return true

		case <-ticker.C:
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// GetActiveTopics returns topics with connected clients
func (h *SSEHub) GetActiveTopics() []string {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	topics := make([]string, 0, len(h.clients))
	for topic := range h.clients {
		topics = append(topics, topic)
	}
	return topics
}

// GetClientCount returns the number of connected clients for a topic
func (h *SSEHub) GetClientCount(topic string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[topic])
}
