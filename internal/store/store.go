package store

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("store: document not found")

// Document is a single record in a remote collection. IDs are assigned by
// the store; Data carries the raw field map.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Filter is a single field predicate, e.g. {"ownerId", "==", uid}.
type Filter struct {
	Field string
	Op    string
	Value interface{}
}

// Order names the field the result set is sorted on.
type Order struct {
	Field string
	Desc  bool
}

// SnapshotFunc receives the complete, ordered result set of a subscribed
// query. Every invocation replaces the previous one; it is never a diff.
type SnapshotFunc func(docs []Document)

type ErrorFunc func(err error)

// Store is the uniform adapter over a remote document collection.
type Store interface {
	// Create inserts a document and returns its store-assigned id.
	Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error)
	// Set writes a document under a caller-chosen id, replacing any
	// existing content.
	Set(ctx context.Context, collection, id string, doc map[string]interface{}) error
	// Update applies a field patch to an existing document. Returns
	// ErrNotFound if the document does not exist.
	Update(ctx context.Context, collection, id string, patch map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	// Get reads a single document. Returns ErrNotFound if absent.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Query runs a one-shot filtered, ordered read.
	Query(ctx context.Context, collection string, filters []Filter, order Order) ([]Document, error)
	// Subscribe establishes a long-lived listener delivering the full
	// current snapshot of the matching set on every change. The returned
	// handle must be cancelled to release the server-side listener.
	Subscribe(ctx context.Context, collection string, filters []Filter, order Order, onChange SnapshotFunc, onError ErrorFunc) (*Subscription, error)
}

// Subscription is the cancellation handle of a live listener. Cancel is
// idempotent: duplicate calls release nothing twice.
type Subscription struct {
	once   sync.Once
	cancel func()
}

func NewSubscription(cancel func()) *Subscription {
	return &Subscription{cancel: cancel}
}

func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}
