// Package event defines the immutable records published on the fan-out bus.
// Each record maps one-to-one onto an outbound wire frame.
package event

import (
	"encoding/json"
	"fmt"
)

// Event is the fan-out payload. Events are never mutated after construction.
type Event interface {
	Kind() string
}

// MessagePosted announces a freshly stored message.
type MessagePosted struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

func (MessagePosted) Kind() string { return "message" }

// MessageEdited announces a content replacement on a live message.
type MessageEdited struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func (MessageEdited) Kind() string { return "edit" }

// MessageDeleted announces the removal of a live message.
type MessageDeleted struct {
	ID string `json:"id"`
}

func (MessageDeleted) Kind() string { return "delete" }

// Encode renders the outbound wire frame for an event.
// Field names and the type discriminator are a fixed external contract.
func Encode(e Event) ([]byte, error) {
	switch evt := e.(type) {
	case MessagePosted:
		return json.Marshal(struct {
			Type string `json:"type"`
			MessagePosted
		}{Type: evt.Kind(), MessagePosted: evt})
	case MessageEdited:
		return json.Marshal(struct {
			Type string `json:"type"`
			MessageEdited
		}{Type: evt.Kind(), MessageEdited: evt})
	case MessageDeleted:
		return json.Marshal(struct {
			Type string `json:"type"`
			MessageDeleted
		}{Type: evt.Kind(), MessageDeleted: evt})
	default:
		return nil, fmt.Errorf("unencodable event %T", e)
	}
}
