package store

import (
	"context"
	"testing"
	"time"
)

func seedItems(t *testing.T, m *MemStore) []string {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ids := make([]string, 0, 3)
	for i, title := range []string{"denim jacket", "wool scarf", "linen shirt"} {
		id, err := m.Create(context.Background(), "items", map[string]interface{}{
			"title":     title,
			"status":    "available",
			"createdAt": base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, id)
	}
	return ids
}

func TestQueryOrdersByCreatedAtDesc(t *testing.T) {
	m := NewMemStore()
	seedItems(t, m)

	docs, err := m.Query(context.Background(), "items", nil, Order{Field: "createdAt", Desc: true})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(docs))
	}
	if docs[0].Data["title"] != "linen shirt" || docs[2].Data["title"] != "denim jacket" {
		t.Fatalf("unexpected order: %v, %v", docs[0].Data["title"], docs[2].Data["title"])
	}
}

func TestQueryAndFirstSnapshotAgree(t *testing.T) {
	m := NewMemStore()
	seedItems(t, m)
	order := Order{Field: "createdAt", Desc: true}

	queried, err := m.Query(context.Background(), "items", nil, order)
	if err != nil {
		t.Fatalf("query: %v", err)
	}

	var first []Document
	sub, err := m.Subscribe(context.Background(), "items", nil, order,
		func(docs []Document) {
			if first == nil {
				first = docs
			}
		},
		func(err error) { t.Errorf("subscription error: %v", err) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	if len(first) != len(queried) {
		t.Fatalf("snapshot has %d documents, query returned %d", len(first), len(queried))
	}
	for i := range first {
		if first[i].ID != queried[i].ID {
			t.Fatalf("position %d: snapshot %s, query %s", i, first[i].ID, queried[i].ID)
		}
	}
}

func TestSnapshotReplacesWholeSet(t *testing.T) {
	m := NewMemStore()
	ids := seedItems(t, m)

	var latest []Document
	calls := 0
	sub, err := m.Subscribe(context.Background(), "items",
		[]Filter{{Field: "status", Op: "==", Value: "available"}},
		Order{Field: "createdAt", Desc: true},
		func(docs []Document) {
			latest = docs
			calls++
		},
		func(err error) { t.Errorf("subscription error: %v", err) })
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Cancel()

	if calls != 1 || len(latest) != 3 {
		t.Fatalf("expected initial snapshot of 3, got %d calls, %d docs", calls, len(latest))
	}

	if err := m.Update(context.Background(), "items", ids[0], map[string]interface{}{"status": "redeemed"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(latest) != 2 {
		t.Fatalf("expected snapshot to shrink to 2, got %d", len(latest))
	}
	for _, d := range latest {
		if d.ID == ids[0] {
			t.Fatal("redeemed item still present in filtered snapshot")
		}
	}

	// No accumulation: three mutations later the set is still exact.
	if err := m.Delete(context.Background(), "items", ids[1]); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(latest) != 1 || latest[0].ID != ids[2] {
		t.Fatalf("stale entries accumulated: %d docs", len(latest))
	}
}

func TestUpdateMissingDocument(t *testing.T) {
	m := NewMemStore()
	err := m.Update(context.Background(), "items", "nope", map[string]interface{}{"status": "redeemed"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	m := NewMemStore()
	seedItems(t, m)

	sub, err := m.Subscribe(context.Background(), "items", nil, Order{}, func([]Document) {}, func(error) {})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	if got := m.ActiveListeners("items"); got != 1 {
		t.Fatalf("expected 1 active listener, got %d", got)
	}

	sub.Cancel()
	sub.Cancel()
	if got := m.ActiveListeners("items"); got != 0 {
		t.Fatalf("expected 0 active listeners after double cancel, got %d", got)
	}
}

func TestGetAndSet(t *testing.T) {
	m := NewMemStore()
	if err := m.Set(context.Background(), "users", "uid-1", map[string]interface{}{"points": 60}); err != nil {
		t.Fatalf("set: %v", err)
	}
	doc, err := m.Get(context.Background(), "users", "uid-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.Data["points"] != 60 {
		t.Fatalf("expected 60 points, got %v", doc.Data["points"])
	}
	if _, err := m.Get(context.Background(), "users", "uid-2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
