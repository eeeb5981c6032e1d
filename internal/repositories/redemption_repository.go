package repositories

import (
	"context"
	"fmt"
	"log"
	"time"

	"rewearBack/internal/models"
	"rewearBack/internal/store"
)

const redemptionsCollection = "redemptions"

type RedemptionRepository struct {
	Store store.Store
}

// AddRedemption records a redemption and then transitions the redeemed
// item to "redeemed" as a dependent write. The two writes land in
// different collections and are not atomic: if the item update fails the
// redemption stays recorded. That window is logged, not rolled back.
func (r *RedemptionRepository) AddRedemption(ctx context.Context, rd models.Redemption) (models.Result, error) {
	if rd.UserID == "" {
		return models.Result{}, models.ErrNoIdentity
	}
	if rd.ItemID == "" {
		return models.Result{}, fmt.Errorf("redemption repository: empty item id")
	}
	now := time.Now()
	id, err := r.Store.Create(ctx, redemptionsCollection, map[string]interface{}{
		"userId":       rd.UserID,
		"itemId":       rd.ItemID,
		"pointsSpent":  rd.PointsSpent,
		"createdAt":    now,
		"dateRedeemed": now.Format("2006-01-02"),
	})
	if err != nil {
		log.Printf("add redemption error: %v", err)
		return models.Fail("Failed to redeem item"), nil
	}

	err = r.Store.Update(ctx, itemsCollection, rd.ItemID, map[string]interface{}{
		"status":    models.ItemStatusRedeemed,
		"updatedAt": time.Now(),
	})
	if err != nil {
		log.Printf("inconsistency: redemption %s recorded but item %s was not marked redeemed: %v", id, rd.ItemID, err)
		return models.Fail("Failed to redeem item"), nil
	}
	return models.OK(id, ""), nil
}

func (r *RedemptionRepository) GetUserRedemptions(ctx context.Context, userID string) ([]models.Redemption, error) {
	if userID == "" {
		return nil, models.ErrNoIdentity
	}
	docs, err := r.Store.Query(ctx, redemptionsCollection,
		[]store.Filter{{Field: "userId", Op: "==", Value: userID}}, byCreatedAtDesc())
	if err != nil {
		return nil, fmt.Errorf("get user redemptions: %w", err)
	}
	redemptions := make([]models.Redemption, 0, len(docs))
	for _, d := range docs {
		redemptions = append(redemptions, redemptionFromDoc(d))
	}
	return redemptions, nil
}

func redemptionFromDoc(doc store.Document) models.Redemption {
	return models.Redemption{
		ID:           doc.ID,
		UserID:       stringField(doc.Data, "userId"),
		ItemID:       stringField(doc.Data, "itemId"),
		PointsSpent:  intField(doc.Data, "pointsSpent"),
		CreatedAt:    timeField(doc.Data, "createdAt"),
		DateRedeemed: stringField(doc.Data, "dateRedeemed"),
	}
}
