package economy

import (
	"context"
	"fmt"
	"log"

	"rewearBack/internal/identity"
	"rewearBack/internal/mirror"
	"rewearBack/internal/models"
	"rewearBack/internal/notify"
	"rewearBack/internal/repositories"
)

// Engine runs the redemption and swap workflows. It holds no state of
// its own: durable state lives in the remote store, and the mirror is
// only read for presentation details (item titles). Every workflow emits
// exactly one success or one error event on the bus.
type Engine struct {
	Items       *repositories.ItemRepository
	Redemptions *repositories.RedemptionRepository
	Swaps       *repositories.SwapRequestRepository
	Identity    identity.Bridge
	Bus         notify.Publisher
	Mirror      *mirror.Mirror
	ErrorLog    *log.Logger
}

// AddItem lists a new garment and reports the outcome on the bus.
func (e *Engine) AddItem(ctx context.Context, item models.Item) (models.Result, error) {
	res, err := e.Items.AddItem(ctx, item)
	if err != nil {
		return models.Result{}, err
	}
	if !res.Success {
		e.Bus.Publish(notify.Event{Type: notify.TypeError, Message: res.Message})
		return res, nil
	}
	e.Bus.Publish(notify.Event{Type: notify.TypeSuccess, Message: res.Message})
	return res, nil
}

// UpdateItem and DeleteItem pass through without bus traffic; the
// original flows only notify on add and redeem.

func (e *Engine) UpdateItem(ctx context.Context, itemID string, updates map[string]interface{}) (models.Result, error) {
	return e.Items.UpdateItem(ctx, itemID, updates)
}

func (e *Engine) DeleteItem(ctx context.Context, itemID string) (models.Result, error) {
	return e.Items.DeleteItem(ctx, itemID)
}

// RedeemItem runs the redemption saga: record the redemption (which
// transitions the item to redeemed as a dependent write), then debit the
// user's points through the identity collaborator.
//
// Preconditions — sufficient points and an available item — are the
// caller's to check; they are not re-validated here. The two backing
// writes span different collections and are not atomic: when the points
// debit fails after the redemption landed, nothing is rolled back. The
// inconsistency is logged and the error reported.
func (e *Engine) RedeemItem(ctx context.Context, userID, itemID string, pointsSpent int) (models.Result, error) {
	if userID == "" {
		return models.Result{}, models.ErrNoIdentity
	}

	res, err := e.Redemptions.AddRedemption(ctx, models.Redemption{
		UserID:      userID,
		ItemID:      itemID,
		PointsSpent: pointsSpent,
	})
	if err != nil {
		return models.Result{}, err
	}
	if !res.Success {
		e.Bus.Publish(notify.Event{Type: notify.TypeError, Message: res.Message})
		return res, nil
	}

	if err := e.debitPoints(ctx, userID, pointsSpent); err != nil {
		e.ErrorLog.Printf("inconsistency: redemption %s recorded but points debit for user %s failed: %v", res.ID, userID, err)
		e.Bus.Publish(notify.Event{Type: notify.TypeError, Message: "Failed to update points balance"})
		return models.Fail("Failed to update points balance"), nil
	}

	title := itemID
	if item, ok := e.Mirror.ItemByID(itemID); ok {
		title = item.Title
	}
	e.Bus.Publish(notify.Event{
		Type:    notify.TypeSuccess,
		Message: fmt.Sprintf("Successfully redeemed %q for %d points!", title, pointsSpent),
	})
	return res, nil
}

func (e *Engine) debitPoints(ctx context.Context, userID string, pointsSpent int) error {
	user, err := e.Identity.GetProfile(ctx, userID)
	if err != nil {
		return err
	}
	return e.Identity.UpdatePoints(ctx, userID, user.Points-pointsSpent)
}

// CreateSwapRequest inserts a pending request. No points move and no
// item status changes on creation.
func (e *Engine) CreateSwapRequest(ctx context.Context, req models.SwapRequest) (models.Result, error) {
	return e.Swaps.CreateSwapRequest(ctx, req)
}

// UpdateSwapRequest transitions the status field only. Accepting a swap
// deliberately leaves the referenced item untouched; whether acceptance
// should also mark the item swapped is a product decision that has not
// been made (see DESIGN.md).
func (e *Engine) UpdateSwapRequest(ctx context.Context, requestID, status string) (models.Result, error) {
	return e.Swaps.UpdateSwapRequest(ctx, requestID, status)
}

// GetUserRedemptions is the engine's read path for a user's history.
func (e *Engine) GetUserRedemptions(ctx context.Context, userID string) ([]models.Redemption, error) {
	return e.Redemptions.GetUserRedemptions(ctx, userID)
}
