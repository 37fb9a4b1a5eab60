//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"reflect"

	"chat-room/domain/event"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself.
// Can be silly, focused.
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes, avoiding the need
// for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives fan-out events. Implementations must never block the
// caller; a sink that cannot keep up sheds load on its own side.
type EventSink interface {
	Consume(e event.Event)
}

// Transport is the duplex text channel of one connected client.
// ReadText blocks until a frame arrives or the peer goes away; Close
// unblocks a pending read.
type Transport interface {
	ReadText() ([]byte, error)
	WriteText(payload []byte) error
	Close() error
}

// Dispatcher applies one decoded client action against the room state.
// Failed edits and deletes surface as errors to the caller, which logs
// and swallows them; nothing is broadcast in that case.
type Dispatcher interface {
	Post(ctx context.Context, author, content string) error
	Edit(ctx context.Context, id, requester, content string) error
	Delete(ctx context.Context, id, requester string) error
}
