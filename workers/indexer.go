package workers

import (
	"context"
	"log/slog"

	"chat-room/domain/event"
	"chat-room/runtime"
	"chat-room/search"
)

// IndexerWorker keeps the search index in sync with the room by draining
// its own bus subscription. Like any subscriber it is best-effort: under
// heavy overflow the index may briefly lag the store, never the reverse
// direction.
type IndexerWorker struct {
	log   *slog.Logger
	sub   *runtime.Subscription
	store *runtime.MessageStore
	index *search.Index
}

func NewIndexerWorker(log *slog.Logger, sub *runtime.Subscription, store *runtime.MessageStore, index *search.Index) *IndexerWorker {
	return &IndexerWorker{log: log, sub: sub, store: store, index: index}
}

func (w *IndexerWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping indexer")
			return nil
		case evt := <-w.sub.C():
			w.apply(evt)
		}
	}
}

func (w *IndexerWorker) apply(evt event.Event) {
	var err error
	switch e := evt.(type) {
	case event.MessagePosted:
		err = w.index.Upsert(e.ID, e.Username, e.Content)
	case event.MessageEdited:
		// The edit event carries no author; the store does. A message
		// deleted in the meantime simply stays out of the index.
		if message, ok := w.store.Get(e.ID); ok {
			err = w.index.Upsert(message.ID, message.Author, message.Content)
		}
	case event.MessageDeleted:
		err = w.index.Delete(e.ID)
	}
	if err != nil {
		w.log.Warn("Index update failed", "event", evt.Kind(), "error", err)
	}
}
