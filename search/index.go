// Package search maintains a full-text index over the messages currently
// live in the room. The index lives in memory only, matching the room's
// lifetime; nothing survives a restart.
package search

import (
	"context"
	"log/slog"

	"github.com/blugelabs/bluge"
)

// Index wraps an in-memory bluge index keyed by message id.
type Index struct {
	log    *slog.Logger
	writer *bluge.Writer
}

// Hit is one search result.
type Hit struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Content  string `json:"content"`
}

func NewIndex(log *slog.Logger) (*Index, error) {
	writer, err := bluge.OpenWriter(bluge.InMemoryOnlyConfig())
	if err != nil {
		return nil, err
	}
	return &Index{log: log, writer: writer}, nil
}

// Upsert indexes a message, replacing any previous document under the
// same id. Used for both fresh posts and edits.
func (i *Index) Upsert(id, author, content string) error {
	doc := bluge.NewDocument(id).
		AddField(bluge.NewTextField("content", content).StoreValue()).
		AddField(bluge.NewKeywordField("username", author).StoreValue())
	return i.writer.Update(doc.ID(), doc)
}

// Delete drops a message from the index.
func (i *Index) Delete(id string) error {
	return i.writer.Delete(bluge.Identifier(id))
}

// Search runs a match query over message content and returns up to limit
// hits, best first.
func (i *Index) Search(ctx context.Context, terms string, limit int) ([]Hit, error) {
	reader, err := i.writer.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := reader.Close(); err != nil {
			i.log.Warn("Failed to close index reader", "error", err)
		}
	}()

	query := bluge.NewMatchQuery(terms).SetField("content")
	request := bluge.NewTopNSearch(limit, query)

	iterator, err := reader.Search(ctx, request)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var hit Hit
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case "username":
				hit.Username = string(value)
			case "content":
				hit.Content = string(value)
			}
			return true
		})
		if err != nil {
			return nil, err
		}
		hits = append(hits, hit)
	}
	return hits, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.writer.Close()
}
