package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore adapts a Firestore client to the Store contract.
// Firestore query snapshots already deliver the full matching set on
// every change, which is exactly the subscription semantics required.
type FirestoreStore struct {
	Client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{Client: client}
}

func (s *FirestoreStore) Create(ctx context.Context, collection string, doc map[string]interface{}) (string, error) {
	ref, _, err := s.Client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("firestore create %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Set(ctx context.Context, collection, id string, doc map[string]interface{}) error {
	_, err := s.Client.Collection(collection).Doc(id).Set(ctx, doc)
	if err != nil {
		return fmt.Errorf("firestore set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, patch map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(patch))
	for field, value := range patch {
		updates = append(updates, firestore.Update{Path: field, Value: value})
	}
	_, err := s.Client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("firestore update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.Client.Collection(collection).Doc(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("firestore delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := s.Client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("firestore get %s/%s: %w", collection, id, err)
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, filters []Filter, order Order) ([]Document, error) {
	iter := s.buildQuery(collection, filters, order).Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore query %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (s *FirestoreStore) Subscribe(ctx context.Context, collection string, filters []Filter, order Order, onChange SnapshotFunc, onError ErrorFunc) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	snapshots := s.buildQuery(collection, filters, order).Snapshots(ctx)

	go func() {
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					onError(fmt.Errorf("firestore subscription %s: %w", collection, err))
				}
				return
			}
			docs := make([]Document, 0, snap.Size)
			docIter := snap.Documents
			for {
				d, err := docIter.Next()
				if err == iterator.Done {
					break
				}
				if err != nil {
					onError(fmt.Errorf("firestore subscription %s: %w", collection, err))
					return
				}
				docs = append(docs, Document{ID: d.Ref.ID, Data: d.Data()})
			}
			onChange(docs)
		}
	}()

	return NewSubscription(func() {
		cancel()
		snapshots.Stop()
	}), nil
}

func (s *FirestoreStore) buildQuery(collection string, filters []Filter, order Order) firestore.Query {
	q := s.Client.Collection(collection).Query
	for _, f := range filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	if order.Field != "" {
		dir := firestore.Asc
		if order.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(order.Field, dir)
	}
	return q
}

var _ Store = (*FirestoreStore)(nil)
