package economy

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"

	"rewearBack/internal/identity"
	"rewearBack/internal/mirror"
	"rewearBack/internal/models"
	"rewearBack/internal/notify"
	"rewearBack/internal/repositories"
	"rewearBack/internal/store"
)

type fixture struct {
	mem    *store.MemStore
	engine *Engine
	bridge *identity.StoreBridge
	events <-chan notify.Event
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemStore()
	items := &repositories.ItemRepository{Store: mem}
	redemptions := &repositories.RedemptionRepository{Store: mem}
	swaps := &repositories.SwapRequestRepository{Store: mem}
	bridge := &identity.StoreBridge{Store: mem}
	bus := notify.NewBus()
	events, detach := bus.Attach(8)
	t.Cleanup(detach)

	mir := mirror.New(items, redemptions, swaps, log.New(io.Discard, "", 0))
	if err := mir.Start(context.Background()); err != nil {
		t.Fatalf("mirror start: %v", err)
	}

	return &fixture{
		mem:    mem,
		bridge: bridge,
		events: events,
		engine: &Engine{
			Items:       items,
			Redemptions: redemptions,
			Swaps:       swaps,
			Identity:    bridge,
			Bus:         bus,
			Mirror:      mir,
			ErrorLog:    log.New(io.Discard, "", 0),
		},
	}
}

func (f *fixture) seedUser(t *testing.T, uid string, points int) {
	t.Helper()
	if _, err := f.bridge.EnsureProfile(context.Background(), models.User{UID: uid, Name: "Dana"}); err != nil {
		t.Fatalf("ensure profile: %v", err)
	}
	if err := f.bridge.UpdatePoints(context.Background(), uid, points); err != nil {
		t.Fatalf("seed points: %v", err)
	}
}

func (f *fixture) takeEvent(t *testing.T) notify.Event {
	t.Helper()
	select {
	case e := <-f.events:
		return e
	default:
		t.Fatal("expected an event on the bus")
		return notify.Event{}
	}
}

func (f *fixture) assertNoMoreEvents(t *testing.T) {
	t.Helper()
	select {
	case e := <-f.events:
		t.Fatalf("unexpected extra event %+v", e)
	default:
	}
}

func TestRedeemItemHappyPath(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "uid-1", 60)

	added, err := f.engine.Items.AddItem(context.Background(), models.Item{
		Title:       "denim jacket",
		PointsValue: 50,
		OwnerID:     "owner-1",
	})
	if err != nil || !added.Success {
		t.Fatalf("add item: %v %+v", err, added)
	}

	res, err := f.engine.RedeemItem(context.Background(), "uid-1", added.ID, 50)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	// Redemption recorded with the right amount.
	redemptions, err := f.engine.GetUserRedemptions(context.Background(), "uid-1")
	if err != nil || len(redemptions) != 1 {
		t.Fatalf("expected one redemption: %v %+v", err, redemptions)
	}
	if redemptions[0].PointsSpent != 50 {
		t.Fatalf("expected 50 points spent, got %d", redemptions[0].PointsSpent)
	}

	// Points balance debited, never below zero under honored preconditions.
	user, err := f.bridge.GetProfile(context.Background(), "uid-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if user.Points != 10 {
		t.Fatalf("expected 10 points left, got %d", user.Points)
	}

	// Item transitioned to redeemed.
	item, err := f.engine.Items.GetItemByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.Status != models.ItemStatusRedeemed {
		t.Fatalf("expected redeemed item, got %q", item.Status)
	}

	// Exactly one success event naming the item and the amount.
	event := f.takeEvent(t)
	if event.Type != notify.TypeSuccess {
		t.Fatalf("expected success event, got %+v", event)
	}
	if !strings.Contains(event.Message, "denim jacket") || !strings.Contains(event.Message, "50") {
		t.Fatalf("event message missing item title or amount: %q", event.Message)
	}
	f.assertNoMoreEvents(t)
}

func TestRedeemItemFailureEmitsOneErrorEvent(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "uid-1", 60)

	res, err := f.engine.RedeemItem(context.Background(), "uid-1", "missing-item", 50)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure for a missing item")
	}

	event := f.takeEvent(t)
	if event.Type != notify.TypeError {
		t.Fatalf("expected error event, got %+v", event)
	}
	f.assertNoMoreEvents(t)
}

func TestRedeemItemPointsDebitFailureIsReportedNotRolledBack(t *testing.T) {
	f := newFixture(t)
	// No user profile exists, so the debit step fails after the
	// redemption write already landed.
	added, err := f.engine.Items.AddItem(context.Background(), models.Item{Title: "scarf", PointsValue: 20, OwnerID: "owner-1"})
	if err != nil || !added.Success {
		t.Fatalf("add item: %v %+v", err, added)
	}

	res, err := f.engine.RedeemItem(context.Background(), "ghost", added.ID, 20)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if res.Success {
		t.Fatal("expected failure result when the debit cannot land")
	}

	// The redemption record survives: the partial-failure window is
	// reported, not compensated.
	redemptions, err := f.engine.GetUserRedemptions(context.Background(), "ghost")
	if err != nil || len(redemptions) != 1 {
		t.Fatalf("expected the recorded redemption to remain: %v %+v", err, redemptions)
	}

	event := f.takeEvent(t)
	if event.Type != notify.TypeError {
		t.Fatalf("expected error event, got %+v", event)
	}
	f.assertNoMoreEvents(t)
}

func TestRedeemItemRequiresIdentity(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.RedeemItem(context.Background(), "", "item-1", 10); err != models.ErrNoIdentity {
		t.Fatalf("expected ErrNoIdentity, got %v", err)
	}
	f.assertNoMoreEvents(t)
}

func TestAddItemPublishesSuccess(t *testing.T) {
	f := newFixture(t)
	res, err := f.engine.AddItem(context.Background(), models.Item{Title: "shirt", OwnerID: "uid-1"})
	if err != nil || !res.Success {
		t.Fatalf("add item: %v %+v", err, res)
	}

	event := f.takeEvent(t)
	if event.Type != notify.TypeSuccess || event.Message != "Item added successfully!" {
		t.Fatalf("unexpected event %+v", event)
	}
	f.assertNoMoreEvents(t)
}

func TestSwapWorkflowHasNoSideEffects(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "uid-1", 60)
	added, err := f.engine.Items.AddItem(context.Background(), models.Item{Title: "coat", PointsValue: 30, OwnerID: "uid-2"})
	if err != nil || !added.Success {
		t.Fatalf("add item: %v %+v", err, added)
	}

	created, err := f.engine.CreateSwapRequest(context.Background(), models.SwapRequest{
		FromUserID: "uid-1",
		ToUserID:   "uid-2",
		ItemID:     added.ID,
	})
	if err != nil || !created.Success {
		t.Fatalf("create swap: %v %+v", err, created)
	}

	upd, err := f.engine.UpdateSwapRequest(context.Background(), created.ID, models.SwapStatusAccepted)
	if err != nil || !upd.Success {
		t.Fatalf("accept swap: %v %+v", err, upd)
	}

	// Accepting a swap moves no points and leaves the item untouched.
	item, err := f.engine.Items.GetItemByID(context.Background(), added.ID)
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.Status != models.ItemStatusAvailable {
		t.Fatalf("swap acceptance must not transition the item, got %q", item.Status)
	}
	user, err := f.bridge.GetProfile(context.Background(), "uid-1")
	if err != nil || user.Points != 60 {
		t.Fatalf("swap acceptance must not move points: %v %+v", err, user)
	}
	f.assertNoMoreEvents(t)
}
