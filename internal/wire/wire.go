// Package wire defines the JSON envelopes exchanged over a room socket.
package wire

import (
	"encoding/json"
	"fmt"

	"sketchroom/internal/shape"
)

type Type string

const (
	TypeJoinRoom    Type = "join_room"
	TypeLeaveRoom   Type = "leave_room"
	TypeChat        Type = "chat"
	TypeDeleteShape Type = "delete_shape"
)

// Envelope is every message on the socket. For chat, Message is itself a
// JSON-encoded shape: the double encoding is part of the protocol and
// must be preserved for compatibility.
type Envelope struct {
	Type    Type   `json:"type"`
	RoomID  string `json:"roomId,omitempty"`
	Message string `json:"message,omitempty"`
	ShapeID string `json:"shapeId,omitempty"`
}

func Join(roomID string) Envelope {
	return Envelope{Type: TypeJoinRoom, RoomID: roomID}
}

func Leave(roomID string) Envelope {
	return Envelope{Type: TypeLeaveRoom, RoomID: roomID}
}

// Chat wraps a shape into its double-encoded envelope.
func Chat(roomID string, s shape.Shape) (Envelope, error) {
	inner, err := shape.Encode(s)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode chat shape: %w", err)
	}
	return Envelope{Type: TypeChat, RoomID: roomID, Message: string(inner)}, nil
}

func Delete(roomID, shapeID string) Envelope {
	return Envelope{Type: TypeDeleteShape, RoomID: roomID, ShapeID: shapeID}
}

// Shape decodes the inner shape of a chat envelope.
func (e Envelope) Shape() (shape.Shape, error) {
	return shape.Decode([]byte(e.Message))
}

func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Parse decodes an inbound frame. A frame that is not JSON or has no
// recognized type is an error; receivers ignore such frames without
// closing the connection.
func Parse(data []byte) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return Envelope{}, fmt.Errorf("parse envelope: %w", err)
	}
	switch e.Type {
	case TypeJoinRoom, TypeLeaveRoom, TypeChat, TypeDeleteShape:
		return e, nil
	}
	return Envelope{}, fmt.Errorf("parse envelope: unknown type %q", e.Type)
}
