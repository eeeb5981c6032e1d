package store

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemStore is an in-memory Store used for local mode and as the test
// double. It delivers subscription snapshots synchronously on every
// mutation, in the remote store's place.
type MemStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	subs        map[string]map[int]*memSub
	nextSub     int
}

type memSub struct {
	filters  []Filter
	order    Order
	onChange SnapshotFunc
}

func NewMemStore() *MemStore {
	return &MemStore{
		collections: make(map[string]map[string]map[string]interface{}),
		subs:        make(map[string]map[int]*memSub),
	}
}

func (m *MemStore) Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	id := uuid.NewString()
	if err := m.Set(ctx, collection, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (m *MemStore) Set(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	m.mu.Lock()
	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string]map[string]interface{})
		m.collections[collection] = col
	}
	col[id] = copyFields(doc)
	pending := m.pendingSnapshots(collection)
	m.mu.Unlock()

	deliver(pending)
	return nil
}

func (m *MemStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	pending := m.pendingSnapshots(collection)
	m.mu.Unlock()

	deliver(pending)
	return nil
}

func (m *MemStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	delete(m.collections[collection], id)
	pending := m.pendingSnapshots(collection)
	m.mu.Unlock()

	deliver(pending)
	return nil
}

func (m *MemStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return Document{ID: id, Data: copyFields(doc)}, nil
}

func (m *MemStore) Query(ctx context.Context, collection string, filters []Filter, order Order) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot(collection, filters, order), nil
}

func (m *MemStore) Subscribe(ctx context.Context, collection string, filters []Filter, order Order, onChange SnapshotFunc, onError ErrorFunc) (*Subscription, error) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	if m.subs[collection] == nil {
		m.subs[collection] = make(map[int]*memSub)
	}
	m.subs[collection][id] = &memSub{filters: filters, order: order, onChange: onChange}
	initial := m.snapshot(collection, filters, order)
	m.mu.Unlock()

	onChange(initial)

	return NewSubscription(func() {
		m.mu.Lock()
		delete(m.subs[collection], id)
		m.mu.Unlock()
	}), nil
}

// ActiveListeners reports how many subscriptions are currently held open
// on a collection.
func (m *MemStore) ActiveListeners(collection string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs[collection])
}

type pendingSnapshot struct {
	onChange SnapshotFunc
	docs     []Document
}

// pendingSnapshots computes, under the lock, the snapshot every listener
// on the collection should receive for the current state.
func (m *MemStore) pendingSnapshots(collection string) []pendingSnapshot {
	var out []pendingSnapshot
	for _, sub := range m.subs[collection] {
		out = append(out, pendingSnapshot{
			onChange: sub.onChange,
			docs:     m.snapshot(collection, sub.filters, sub.order),
		})
	}
	return out
}

func deliver(pending []pendingSnapshot) {
	for _, p := range pending {
		p.onChange(p.docs)
	}
}

func (m *MemStore) snapshot(collection string, filters []Filter, order Order) []Document {
	docs := make([]Document, 0)
	for id, data := range m.collections[collection] {
		if !matches(data, filters) {
			continue
		}
		docs = append(docs, Document{ID: id, Data: copyFields(data)})
	}
	if order.Field != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := compareValues(docs[i].Data[order.Field], docs[j].Data[order.Field])
			if c == 0 {
				return docs[i].ID < docs[j].ID
			}
			if order.Desc {
				return c > 0
			}
			return c < 0
		})
	} else {
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	}
	return docs
}

func matches(data map[string]interface{}, filters []Filter) bool {
	for _, f := range filters {
		if f.Op != "==" {
			return false
		}
		if !reflect.DeepEqual(data[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func copyFields(doc map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

func compareValues(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0
		}
		if av.Before(bv) {
			return -1
		}
		if av.After(bv) {
			return 1
		}
		return 0
	case string:
		bv, _ := b.(string)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		af, aok := toFloat(a)
		bf, bok := toFloat(b)
		if !aok || !bok {
			return 0
		}
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

var _ Store = (*MemStore)(nil)
