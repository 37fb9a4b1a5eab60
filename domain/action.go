package domain

import (
	"encoding/json"
	"fmt"

	"chat-room/errors"
)

type ActionType string

const (
	ActionMessage ActionType = "message"
	ActionEdit    ActionType = "edit"
	ActionDelete  ActionType = "delete"
)

// Action is one decoded client intent read from the wire.
type Action struct {
	Type    ActionType
	ID      string
	Content string
}

// DecodeAction parses a raw inbound frame.
// The wire contract: "message" requires content, "edit" requires id and
// content, "delete" requires id. A frame that fails here is discarded by
// the caller; it never terminates the connection.
func DecodeAction(raw []byte) (Action, error) {
	var frame struct {
		Type    string  `json:"type"`
		ID      *string `json:"id"`
		Content *string `json:"content"`
	}
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Action{}, fmt.Errorf("%w: %v", errors.ErrMalformedFrame, err)
	}

	action := Action{Type: ActionType(frame.Type)}
	switch action.Type {
	case ActionMessage:
		if frame.Content == nil {
			return Action{}, fmt.Errorf("%w: message without content", errors.ErrMalformedFrame)
		}
		action.Content = *frame.Content
	case ActionEdit:
		if frame.ID == nil || frame.Content == nil {
			return Action{}, fmt.Errorf("%w: edit requires id and content", errors.ErrMalformedFrame)
		}
		action.ID = *frame.ID
		action.Content = *frame.Content
	case ActionDelete:
		if frame.ID == nil {
			return Action{}, fmt.Errorf("%w: delete requires id", errors.ErrMalformedFrame)
		}
		action.ID = *frame.ID
	default:
		return Action{}, fmt.Errorf("%w: %q", errors.ErrUnknownAction, frame.Type)
	}
	return action, nil
}
