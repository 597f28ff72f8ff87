package protocol

import (
	"encoding/json"
	"fmt"
)

// Client-to-server event names
const (
	EventJoin            = "join"
	EventCodeChange      = "codeChange"
	EventCursorMove      = "cursorMove"
	EventSelectionChange = "selectionChange"
	EventLeaveRoom       = "leaveRoom"
	EventTyping          = "typing"
	EventLanguageChange  = "languageChange"
)

// Server-to-client event names
const (
	EventUserJoined      = "userJoined"
	EventCodeUpdate      = "codeUpdate"
	EventCursorUpdate    = "cursorUpdate"
	EventSelectionUpdate = "selectionUpdate"
	EventUserTyping      = "userTyping"
	EventLanguageUpdate  = "languageUpdate"
)

// Every frame on the wire is an envelope: the event name plus its payload
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound payloads

type JoinPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type CodeChangePayload struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

type CursorMovePayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	Position int    `json:"position"`
}

type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type SelectionChangePayload struct {
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Selection Selection `json:"selection"`
}

type TypingPayload struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName"`
}

type LanguageChangePayload struct {
	RoomID   string `json:"roomId"`
	Language string `json:"language"`
}

// Outbound payloads. userJoined carries a plain name list, codeUpdate and
// languageUpdate carry bare strings, so only the cursor and selection
// relays need structs here.

type CursorUpdatePayload struct {
	UserID   string `json:"userId"`
	Position int    `json:"position"`
}

type SelectionUpdatePayload struct {
	UserID    string    `json:"userId"`
	Selection Selection `json:"selection"`
}

var clientEvents = map[string]bool{
	EventJoin:            true,
	EventCodeChange:      true,
	EventCursorMove:      true,
	EventSelectionChange: true,
	EventLeaveRoom:       true,
	EventTyping:          true,
	EventLanguageChange:  true,
}

// Parses an inbound frame and rejects unknown event names
func Decode(data []byte) (*Envelope, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty message")
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("malformed envelope: %w", err)
	}

	if !clientEvents[env.Event] {
		return nil, fmt.Errorf("unknown event: %q", env.Event)
	}

	return &env, nil
}

// Builds an outbound frame for the given event and payload
func Encode(event string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: data})
}
