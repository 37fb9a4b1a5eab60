// Package services wires the room's domain operations to the shared
// runtime state, keeping transport handlers free of business logic.
package services

import (
	"context"
	"log/slog"

	"github.com/abadojack/whatlanggo"

	"chat-room/domain/event"
	"chat-room/moderation"
	"chat-room/runtime"
)

// ChatService is the single dispatch point for post, edit, and delete.
// Content passes through moderation before it reaches the store, so the
// stored text and the broadcast text are always the same.
type ChatService struct {
	log       *slog.Logger
	store     *runtime.MessageStore
	bus       *runtime.Bus
	moderator *moderation.Moderator
}

func NewChatService(log *slog.Logger, store *runtime.MessageStore, bus *runtime.Bus, moderator *moderation.Moderator) *ChatService {
	return &ChatService{log: log, store: store, bus: bus, moderator: moderator}
}

// Post stores a new message and broadcasts it. Posting always succeeds;
// empty content is a product decision left to clients.
func (s *ChatService) Post(_ context.Context, author, content string) error {
	content = s.censor(author, content)
	message := s.store.Post(author, content)
	s.bus.Publish(event.MessagePosted{ID: message.ID, Username: author, Content: content})

	lang := whatlanggo.Detect(content).Lang.Iso6391()
	s.log.Debug("Message posted", "id", message.ID, "author", author, "lang", lang)
	return nil
}

// Edit replaces a live message's content when the requester is its
// author. On failure nothing is broadcast and the store stays unchanged;
// the caller swallows the error without answering the client.
func (s *ChatService) Edit(_ context.Context, id, requester, content string) error {
	content = s.censor(requester, content)
	if err := s.store.Edit(id, requester, content); err != nil {
		return err
	}
	s.bus.Publish(event.MessageEdited{ID: id, Content: content})
	return nil
}

// Delete removes a live message when the requester is its author.
func (s *ChatService) Delete(_ context.Context, id, requester string) error {
	if err := s.store.Delete(id, requester); err != nil {
		return err
	}
	s.bus.Publish(event.MessageDeleted{ID: id})
	return nil
}

func (s *ChatService) censor(author, content string) string {
	if s.moderator == nil {
		return content
	}
	masked, found := s.moderator.Censor(content)
	if len(found) > 0 {
		s.log.Info("Censored message content", "author", author, "words", len(found))
	}
	return masked
}
