package repositories

import (
	"context"
	"testing"
	"time"

	"rewearBack/internal/models"
	"rewearBack/internal/store"
)

func TestAddRedemptionMarksItemRedeemed(t *testing.T) {
	mem := store.NewMemStore()
	items := &ItemRepository{Store: mem}
	redemptions := &RedemptionRepository{Store: mem}

	added, err := items.AddItem(context.Background(), models.Item{Title: "denim jacket", PointsValue: 50, OwnerID: "owner-1"})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	res, err := redemptions.AddRedemption(context.Background(), models.Redemption{
		UserID:      "uid-1",
		ItemID:      added.ID,
		PointsSpent: 50,
	})
	if err != nil {
		t.Fatalf("add redemption: %v", err)
	}
	if !res.Success || res.ID == "" {
		t.Fatalf("expected success with id, got %+v", res)
	}

	item, err := items.GetItemByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.Status != models.ItemStatusRedeemed {
		t.Fatalf("expected item status redeemed, got %q", item.Status)
	}

	list, err := redemptions.GetUserRedemptions(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("get user redemptions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one redemption, got %d", len(list))
	}
	rd := list[0]
	if rd.PointsSpent != 50 || rd.ItemID != added.ID {
		t.Fatalf("unexpected redemption %+v", rd)
	}
	if rd.DateRedeemed != rd.CreatedAt.Format("2006-01-02") {
		t.Fatalf("dateRedeemed %q is not the date projection of createdAt %v", rd.DateRedeemed, rd.CreatedAt)
	}
}

func TestAddRedemptionMissingItemLeavesRecord(t *testing.T) {
	mem := store.NewMemStore()
	redemptions := &RedemptionRepository{Store: mem}

	res, err := redemptions.AddRedemption(context.Background(), models.Redemption{
		UserID:      "uid-1",
		ItemID:      "gone",
		PointsSpent: 50,
	})
	if err != nil {
		t.Fatalf("add redemption: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure when the dependent item write cannot land")
	}

	// The dependent write failed after the redemption write: the record
	// survives. This is the documented partial-failure window.
	list, err := redemptions.GetUserRedemptions(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("get user redemptions: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the recorded redemption to remain, got %d", len(list))
	}
}

func TestAddRedemptionRequiresIdentity(t *testing.T) {
	redemptions := &RedemptionRepository{Store: store.NewMemStore()}
	if _, err := redemptions.AddRedemption(context.Background(), models.Redemption{ItemID: "item-1"}); err != models.ErrNoIdentity {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}

func TestGetUserRedemptionsOrderedByRecency(t *testing.T) {
	mem := store.NewMemStore()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i, item := range []string{"item-a", "item-b"} {
		if err := mem.Set(context.Background(), redemptionsCollection, item+"-rd", map[string]interface{}{
			"userId":       "uid-1",
			"itemId":       item,
			"pointsSpent":  10,
			"createdAt":    base.Add(time.Duration(i) * time.Minute),
			"dateRedeemed": "2024-05-01",
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	redemptions := &RedemptionRepository{Store: mem}
	list, err := redemptions.GetUserRedemptions(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("get user redemptions: %v", err)
	}
	if len(list) != 2 || list[0].ItemID != "item-b" {
		t.Fatalf("expected newest first, got %+v", list)
	}
}
