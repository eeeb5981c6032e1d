package repositories

import (
	"context"
	"testing"

	"rewearBack/internal/models"
	"rewearBack/internal/store"
)

func TestCreateSwapRequestForcesPending(t *testing.T) {
	swaps := &SwapRequestRepository{Store: store.NewMemStore()}

	res, err := swaps.CreateSwapRequest(context.Background(), models.SwapRequest{
		FromUserID: "uid-1",
		ToUserID:   "uid-2",
		ItemID:     "item-1",
		Status:     models.SwapStatusAccepted, // must be ignored
	})
	if err != nil {
		t.Fatalf("create swap request: %v", err)
	}
	if !res.Success || res.ID == "" {
		t.Fatalf("expected success with id, got %+v", res)
	}

	list, err := swaps.GetUserSwapRequests(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("get swap requests: %v", err)
	}
	if len(list) != 1 || list[0].Status != models.SwapStatusPending {
		t.Fatalf("expected one pending request, got %+v", list)
	}
	if list[0].DateCreated != list[0].CreatedAt.Format("2006-01-02") {
		t.Fatalf("dateCreated %q is not the date projection of createdAt", list[0].DateCreated)
	}
}

func TestUpdateSwapRequestStatus(t *testing.T) {
	swaps := &SwapRequestRepository{Store: store.NewMemStore()}
	res, err := swaps.CreateSwapRequest(context.Background(), models.SwapRequest{FromUserID: "uid-1", ItemID: "item-1"})
	if err != nil {
		t.Fatalf("create swap request: %v", err)
	}

	upd, err := swaps.UpdateSwapRequest(context.Background(), res.ID, models.SwapStatusAccepted)
	if err != nil || !upd.Success {
		t.Fatalf("update to accepted failed: %v %+v", err, upd)
	}
	list, _ := swaps.GetUserSwapRequests(context.Background(), "uid-1")
	if list[0].Status != models.SwapStatusAccepted {
		t.Fatalf("expected accepted, got %q", list[0].Status)
	}

	// There is deliberately no terminal-state guard: a second transition
	// on an already accepted request still lands.
	upd, err = swaps.UpdateSwapRequest(context.Background(), res.ID, models.SwapStatusDeclined)
	if err != nil || !upd.Success {
		t.Fatalf("second update failed: %v %+v", err, upd)
	}
	list, _ = swaps.GetUserSwapRequests(context.Background(), "uid-1")
	if list[0].Status != models.SwapStatusDeclined {
		t.Fatalf("expected declined, got %q", list[0].Status)
	}
}

func TestUpdateMissingSwapRequest(t *testing.T) {
	swaps := &SwapRequestRepository{Store: store.NewMemStore()}
	res, err := swaps.UpdateSwapRequest(context.Background(), "missing", models.SwapStatusAccepted)
	if err != nil {
		t.Fatalf("update swap request: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure result for a missing request")
	}
}

func TestCreateSwapRequestRequiresIdentity(t *testing.T) {
	swaps := &SwapRequestRepository{Store: store.NewMemStore()}
	if _, err := swaps.CreateSwapRequest(context.Background(), models.SwapRequest{ItemID: "item-1"}); err != models.ErrNoIdentity {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
}
