package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"chat-room/contract"
	"chat-room/domain"
	"chat-room/domain/event"
)

// Coordinator runs the per-connection session state machine:
// Connecting -> Active -> Closed. One coordinator serves every
// connection; the per-session state lives on the stack of
// HandleConnection.
type Coordinator struct {
	log        *slog.Logger
	registry   *Registry
	bus        *Bus
	dispatcher contract.Dispatcher
}

func NewCoordinator(log *slog.Logger, registry *Registry, bus *Bus, dispatcher contract.Dispatcher) *Coordinator {
	return &Coordinator{log: log, registry: registry, bus: bus, dispatcher: dispatcher}
}

// HandleConnection drives one client connection to completion and only
// returns once the session is fully closed.
//
// Two goroutines run while the session is active: the caller's, reading
// inbound frames, and a writer draining the bus subscription to the
// transport. Whichever stops first cancels the shared context and closes
// the transport, which unblocks the other. Unregistration runs exactly
// once, after both pumps have stopped.
func (c *Coordinator) HandleConnection(ctx context.Context, transport contract.Transport, displayName string) error {
	sessionID := uuid.NewString()

	sub := c.bus.Subscribe()
	defer sub.Close()

	if err := c.registry.Register(sessionID, displayName, sub); err != nil {
		_ = transport.Close()
		return fmt.Errorf("registration rejected: %w", err)
	}

	connCtx, cancel := context.WithCancel(ctx)
	var stopOnce sync.Once
	stop := func() {
		stopOnce.Do(func() {
			cancel()
			_ = transport.Close()
		})
	}
	defer stop()

	c.log.Info("Session active", "session_id", sessionID, "username", displayName)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		defer stop()
		c.writePump(connCtx, transport, sub)
	}()

	c.readPump(connCtx, transport, displayName)
	stop()
	<-writerDone

	name, _ := c.registry.DisplayName(sessionID)
	c.registry.Unregister(sessionID)
	c.log.Info("Session closed", "session_id", sessionID, "username", name)
	return nil
}

// readPump decodes inbound frames and applies them. A malformed frame is
// logged and discarded without closing the connection; only a transport
// error ends the loop.
func (c *Coordinator) readPump(ctx context.Context, transport contract.Transport, displayName string) {
	for {
		raw, err := transport.ReadText()
		if err != nil {
			if ctx.Err() == nil {
				c.log.Debug("Read loop ended", "username", displayName, "error", err)
			}
			return
		}

		action, err := domain.DecodeAction(raw)
		if err != nil {
			c.log.Warn("Discarding inbound frame", "username", displayName, "error", err)
			continue
		}

		// Failed edits and deletes are dropped silently: no event is
		// broadcast and the actor gets no error frame back.
		switch action.Type {
		case domain.ActionMessage:
			err = c.dispatcher.Post(ctx, displayName, action.Content)
		case domain.ActionEdit:
			err = c.dispatcher.Edit(ctx, action.ID, displayName, action.Content)
		case domain.ActionDelete:
			err = c.dispatcher.Delete(ctx, action.ID, displayName)
		}
		if err != nil {
			c.log.Debug("Action rejected", "username", displayName, "type", action.Type, "error", err)
		}
	}
}

// writePump drains the subscription to the transport in arrival order.
// A write failure ends the session.
func (c *Coordinator) writePump(ctx context.Context, transport contract.Transport, sub *Subscription) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-sub.C():
			payload, err := event.Encode(evt)
			if err != nil {
				c.log.Error("Dropping unencodable event", "error", err)
				continue
			}
			if err := transport.WriteText(payload); err != nil {
				if ctx.Err() == nil {
					c.log.Debug("Write loop ended", "error", err)
				}
				return
			}
		}
	}
}
