package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rewearBack/internal/models"
	"rewearBack/internal/store"
)

const itemsCollection = "items"

type ItemRepository struct {
	Store store.Store
}

// AddItem inserts a new listing. Status is always forced to "available"
// and both timestamps are stamped here; whatever the caller set is ignored.
func (r *ItemRepository) AddItem(ctx context.Context, item models.Item) (models.Result, error) {
	if item.OwnerID == "" {
		return models.Result{}, models.ErrNoIdentity
	}
	now := time.Now()
	id, err := r.Store.Create(ctx, itemsCollection, map[string]interface{}{
		"title":       item.Title,
		"description": item.Description,
		"category":    item.Category,
		"size":        item.Size,
		"condition":   item.Condition,
		"pointsValue": item.PointsValue,
		"images":      item.Images,
		"ownerId":     item.OwnerID,
		"status":      models.ItemStatusAvailable,
		"createdAt":   now,
		"updatedAt":   now,
	})
	if err != nil {
		log.Printf("add item error: %v", err)
		return models.Fail("Failed to add item"), nil
	}
	return models.OK(id, "Item added successfully!"), nil
}

// UpdateItem patches listing fields and restamps updatedAt. A status
// change is validated against the one-directional item lifecycle; an item
// that left "available" never returns to it.
func (r *ItemRepository) UpdateItem(ctx context.Context, itemID string, updates map[string]interface{}) (models.Result, error) {
	if itemID == "" {
		return models.Result{}, fmt.Errorf("item repository: empty item id")
	}
	if next, ok := updates["status"].(string); ok {
		current, err := r.Store.Get(ctx, itemsCollection, itemID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return models.Fail("Item not found"), nil
			}
			log.Printf("update item error: %v", err)
			return models.Fail("Failed to update item"), nil
		}
		if !models.CanTransitionItem(stringField(current.Data, "status"), next) {
			return models.Fail("Invalid item status transition"), nil
		}
	}
	patch := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		patch[k] = v
	}
	patch["updatedAt"] = time.Now()
	if err := r.Store.Update(ctx, itemsCollection, itemID, patch); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Fail("Item not found"), nil
		}
		log.Printf("update item error: %v", err)
		return models.Fail("Failed to update item"), nil
	}
	return models.OK(itemID, ""), nil
}

// DeleteItem removes a listing. Callers are responsible for not deleting
// items still referenced by a redemption or swap request.
func (r *ItemRepository) DeleteItem(ctx context.Context, itemID string) (models.Result, error) {
	if itemID == "" {
		return models.Result{}, fmt.Errorf("item repository: empty item id")
	}
	if err := r.Store.Delete(ctx, itemsCollection, itemID); err != nil {
		log.Printf("delete item error: %v", err)
		return models.Fail("Failed to delete item"), nil
	}
	return models.OK(itemID, ""), nil
}

func (r *ItemRepository) GetItems(ctx context.Context) ([]models.Item, error) {
	docs, err := r.Store.Query(ctx, itemsCollection, nil, byCreatedAtDesc())
	if err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return itemsFromDocs(docs), nil
}

func (r *ItemRepository) GetUserItems(ctx context.Context, userID string) ([]models.Item, error) {
	if userID == "" {
		return nil, models.ErrNoIdentity
	}
	docs, err := r.Store.Query(ctx, itemsCollection,
		[]store.Filter{{Field: "ownerId", Op: "==", Value: userID}}, byCreatedAtDesc())
	if err != nil {
		return nil, fmt.Errorf("get user items: %w", err)
	}
	return itemsFromDocs(docs), nil
}

func (r *ItemRepository) GetAvailableItems(ctx context.Context) ([]models.Item, error) {
	docs, err := r.Store.Query(ctx, itemsCollection,
		[]store.Filter{{Field: "status", Op: "==", Value: models.ItemStatusAvailable}}, byCreatedAtDesc())
	if err != nil {
		return nil, fmt.Errorf("get available items: %w", err)
	}
	return itemsFromDocs(docs), nil
}

func (r *ItemRepository) GetItemByID(ctx context.Context, itemID string) (models.Item, error) {
	doc, err := r.Store.Get(ctx, itemsCollection, itemID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Item{}, models.ErrItemNotFound
	}
	if err != nil {
		return models.Item{}, fmt.Errorf("get item: %w", err)
	}
	return itemFromDoc(doc), nil
}

// SubscribeItems opens a live feed over every listing, newest first.
func (r *ItemRepository) SubscribeItems(ctx context.Context, onChange func([]models.Item), onError func(error)) (*store.Subscription, error) {
	return r.Store.Subscribe(ctx, itemsCollection, nil, byCreatedAtDesc(),
		func(docs []store.Document) { onChange(itemsFromDocs(docs)) }, onError)
}

// SubscribeUserItems opens a live feed over one owner's listings.
func (r *ItemRepository) SubscribeUserItems(ctx context.Context, userID string, onChange func([]models.Item), onError func(error)) (*store.Subscription, error) {
	if userID == "" {
		return nil, models.ErrNoIdentity
	}
	return r.Store.Subscribe(ctx, itemsCollection,
		[]store.Filter{{Field: "ownerId", Op: "==", Value: userID}}, byCreatedAtDesc(),
		func(docs []store.Document) { onChange(itemsFromDocs(docs)) }, onError)
}

func itemFromDoc(doc store.Document) models.Item {
	return models.Item{
		ID:          doc.ID,
		Title:       stringField(doc.Data, "title"),
		Description: stringField(doc.Data, "description"),
		Category:    stringField(doc.Data, "category"),
		Size:        stringField(doc.Data, "size"),
		Condition:   stringField(doc.Data, "condition"),
		PointsValue: intField(doc.Data, "pointsValue"),
		Images:      stringSliceField(doc.Data, "images"),
		OwnerID:     stringField(doc.Data, "ownerId"),
		Status:      stringField(doc.Data, "status"),
		CreatedAt:   timeField(doc.Data, "createdAt"),
		UpdatedAt:   timeField(doc.Data, "updatedAt"),
	}
}

func itemsFromDocs(docs []store.Document) []models.Item {
	items := make([]models.Item, 0, len(docs))
	for _, d := range docs {
		items = append(items, itemFromDoc(d))
	}
	return items
}
