package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"chat-room/domain/event"
	"chat-room/errors"
)

type recordingSink struct {
	events []event.Event
}

func (r *recordingSink) Consume(e event.Event) {
	r.events = append(r.events, e)
}

func TestRegistry_Register(t *testing.T) {
	req := require.New(t)

	t.Run("Should register a new session", func(t *testing.T) {
		// Given
		registry := NewRegistry()

		// When
		err := registry.Register("session-1", "alice", &recordingSink{})

		// Then
		req.NoError(err)
		req.Equal(1, registry.Count())
		name, ok := registry.DisplayName("session-1")
		req.True(ok)
		req.Equal("alice", name)
	})

	t.Run("Should reject a duplicate session id", func(t *testing.T) {
		// Given
		registry := NewRegistry()
		req.NoError(registry.Register("session-1", "alice", &recordingSink{}))

		// When
		err := registry.Register("session-1", "bob", &recordingSink{})

		// Then
		req.ErrorIs(err, errors.ErrDuplicateSession)
		req.Equal(1, registry.Count())
		name, _ := registry.DisplayName("session-1")
		req.Equal("alice", name)
	})

	t.Run("Should allow the same display name on distinct sessions", func(t *testing.T) {
		// Given
		registry := NewRegistry()

		// When
		err1 := registry.Register("session-1", "alice", &recordingSink{})
		err2 := registry.Register("session-2", "alice", &recordingSink{})

		// Then
		req.NoError(err1)
		req.NoError(err2)
		req.Equal(2, registry.Count())
	})
}

func TestRegistry_Unregister(t *testing.T) {
	req := require.New(t)

	t.Run("Should remove a registered session", func(t *testing.T) {
		// Given
		registry := NewRegistry()
		req.NoError(registry.Register("session-1", "alice", &recordingSink{}))

		// When
		registry.Unregister("session-1")

		// Then
		req.Equal(0, registry.Count())
		_, ok := registry.DisplayName("session-1")
		req.False(ok)
	})

	t.Run("Should be a no-op for an unknown session", func(t *testing.T) {
		// Given
		registry := NewRegistry()
		req.NoError(registry.Register("session-1", "alice", &recordingSink{}))

		// When
		registry.Unregister("session-2")
		registry.Unregister("session-2")

		// Then
		req.Equal(1, registry.Count())
	})
}
