package runtime

import (
	"sync"

	"github.com/google/uuid"

	"chat-room/domain"
	"chat-room/errors"
)

// MessageStore holds the messages currently live in the room.
// Authorization for edit and delete is enforced here and only here, so
// the "only the author mutates their own message" invariant has a single
// choke point no matter how many connection coordinators exist.
//
// One mutex covers the whole map. Hold times are map operations only;
// the lock is never held across a network write or a channel receive.
type MessageStore struct {
	mu       sync.Mutex
	messages map[string]domain.Message
}

func NewMessageStore() *MessageStore {
	return &MessageStore{messages: make(map[string]domain.Message)}
}

// Post stores a new message under a fresh id and returns it.
// Content validation is a product decision left to the caller; empty
// content is stored as-is.
func (s *MessageStore) Post(author, content string) domain.Message {
	message := domain.Message{
		ID:      uuid.NewString(),
		Author:  author,
		Content: content,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[message.ID] = message
	return message
}

// Edit replaces the content of a live message. The read-modify-write runs
// under the store mutex, so it is atomic with respect to concurrent edits
// and deletes of the same id.
func (s *MessageStore) Edit(id, requester, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return errors.ErrMessageNotFound
	}
	if message.Author != requester {
		return errors.ErrNotAuthor
	}
	message.Content = content
	s.messages[id] = message
	return nil
}

// Delete removes a live message. Deleting an absent id reports
// ErrMessageNotFound; callers decide whether that is fatal (it never is
// for the connection coordinator, which simply skips the broadcast).
func (s *MessageStore) Delete(id, requester string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	if !ok {
		return errors.ErrMessageNotFound
	}
	if message.Author != requester {
		return errors.ErrNotAuthor
	}
	delete(s.messages, id)
	return nil
}

// Get looks up a live message.
func (s *MessageStore) Get(id string) (domain.Message, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	message, ok := s.messages[id]
	return message, ok
}

// Count reports the number of live messages, for diagnostics.
func (s *MessageStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.messages)
}
