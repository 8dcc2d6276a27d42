// Package hub fans avatar frames and status updates out to websocket clients.
package hub

import "github.com/gofiber/websocket/v2"

// Message is one broadcast payload: a JSON status document or an encoded
// avatar frame. Data is shared between clients and must not be modified after
// Broadcast.
type Message struct {
	Frame bool
	Data  []byte
}

// frameType returns the websocket opcode the message is written with.
func (m Message) frameType() int {
	if m.Frame {
		return websocket.BinaryMessage
	}
	return websocket.TextMessage
}
