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

const swapRequestsCollection = "swapRequests"

type SwapRequestRepository struct {
	Store store.Store
}

// CreateSwapRequest inserts a request with status forced to "pending".
func (r *SwapRequestRepository) CreateSwapRequest(ctx context.Context, req models.SwapRequest) (models.Result, error) {
	if req.FromUserID == "" {
		return models.Result{}, models.ErrNoIdentity
	}
	if req.ItemID == "" {
		return models.Result{}, fmt.Errorf("swap repository: empty item id")
	}
	now := time.Now()
	id, err := r.Store.Create(ctx, swapRequestsCollection, map[string]interface{}{
		"fromUserId":  req.FromUserID,
		"toUserId":    req.ToUserID,
		"itemId":      req.ItemID,
		"status":      models.SwapStatusPending,
		"createdAt":   now,
		"dateCreated": now.Format("2006-01-02"),
	})
	if err != nil {
		log.Printf("create swap request error: %v", err)
		return models.Fail("Failed to create swap request"), nil
	}
	return models.OK(id, ""), nil
}

// UpdateSwapRequest patches the status field and restamps updatedAt.
// There is no terminal-state guard here: an already accepted request can
// still be declined by a later call.
func (r *SwapRequestRepository) UpdateSwapRequest(ctx context.Context, requestID, status string) (models.Result, error) {
	if requestID == "" {
		return models.Result{}, fmt.Errorf("swap repository: empty request id")
	}
	err := r.Store.Update(ctx, swapRequestsCollection, requestID, map[string]interface{}{
		"status":    status,
		"updatedAt": time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Fail("Swap request not found"), nil
		}
		log.Printf("update swap request error: %v", err)
		return models.Fail("Failed to update swap request"), nil
	}
	return models.OK(requestID, ""), nil
}

func (r *SwapRequestRepository) GetUserSwapRequests(ctx context.Context, userID string) ([]models.SwapRequest, error) {
	if userID == "" {
		return nil, models.ErrNoIdentity
	}
	docs, err := r.Store.Query(ctx, swapRequestsCollection,
		[]store.Filter{{Field: "fromUserId", Op: "==", Value: userID}}, byCreatedAtDesc())
	if err != nil {
		return nil, fmt.Errorf("get user swap requests: %w", err)
	}
	requests := make([]models.SwapRequest, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, swapRequestFromDoc(d))
	}
	return requests, nil
}

func swapRequestFromDoc(doc store.Document) models.SwapRequest {
	return models.SwapRequest{
		ID:          doc.ID,
		FromUserID:  stringField(doc.Data, "fromUserId"),
		ToUserID:    stringField(doc.Data, "toUserId"),
		ItemID:      stringField(doc.Data, "itemId"),
		Status:      stringField(doc.Data, "status"),
		CreatedAt:   timeField(doc.Data, "createdAt"),
		UpdatedAt:   timeField(doc.Data, "updatedAt"),
		DateCreated: stringField(doc.Data, "dateCreated"),
	}
}
