package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/teslashibe/go-vtuber/internal/log"
)

// Hub maintains the set of active clients and broadcasts messages to them.
// Only the Run goroutine mutates the client set.
type Hub struct {
	name string

	clients    map[*Client]bool
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu    sync.RWMutex
	count int

	// OnCount is called from the Run goroutine whenever the client count changes.
	OnCount func(n int)
}

// New creates a new Hub
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run serves register, unregister and broadcast requests until ctx is done,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.remove(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			h.setCount()
			log.Debug("stream client connected", "hub", h.name, "client", client.ID, "total", len(h.clients))

		case client := <-h.unregister:
			if h.clients[client] {
				h.remove(client)
				log.Debug("stream client disconnected", "hub", h.name, "client", client.ID, "total", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Too slow to keep up
					h.remove(client)
					log.Warn("dropped slow stream client", "hub", h.name, "client", client.ID)
				}
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	delete(h.clients, client)
	close(client.send)
	h.setCount()
}

func (h *Hub) setCount() {
	n := len(h.clients)
	h.mu.Lock()
	h.count = n
	h.mu.Unlock()
	if h.OnCount != nil {
		h.OnCount(n)
	}
}

// Broadcast queues msg for every connected client. It never blocks the caller;
// when the queue is full the message is dropped and false is returned.
func (h *Hub) Broadcast(msg Message) bool {
	select {
	case h.broadcast <- msg:
		return true
	default:
		return false
	}
}

// BroadcastJSON encodes and broadcasts a JSON message
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(Message{Data: data})
	return nil
}

// BroadcastBinary broadcasts an encoded frame
func (h *Hub) BroadcastBinary(data []byte) {
	h.Broadcast(Message{Frame: true, Data: data})
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}
