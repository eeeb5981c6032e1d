package mirror

import (
	"context"
	"log"
	"sync"

	"rewearBack/internal/models"
	"rewearBack/internal/repositories"
	"rewearBack/internal/store"
)

// Collection sync states.
const (
	StateUninitialized = "uninitialized"
	StateLoading       = "loading"
	StateSynced        = "synced"
)

// Key names one of the mirrored collections.
type Key string

const (
	KeyItems        Key = "items"
	KeyUserItems    Key = "userItems"
	KeySwapRequests Key = "swapRequests"
	KeyRedemptions  Key = "redemptions"
)

// Mirror keeps local copies of the remote collections current: every
// listing, plus the signed-in user's listings, swap requests and
// redemptions. Each collection is replaced wholesale by its subscription
// snapshot; nothing here re-sorts or merges.
type Mirror struct {
	itemsRepo       *repositories.ItemRepository
	redemptionsRepo *repositories.RedemptionRepository
	swapsRepo       *repositories.SwapRequestRepository
	errorLog        *log.Logger

	mu           sync.Mutex
	uid          string
	generation   int
	items        []models.Item
	userItems    []models.Item
	swapRequests []models.SwapRequest
	redemptions  []models.Redemption
	states       map[Key]string
	subs         map[Key]*store.Subscription
}

func New(items *repositories.ItemRepository, redemptions *repositories.RedemptionRepository, swaps *repositories.SwapRequestRepository, errorLog *log.Logger) *Mirror {
	return &Mirror{
		itemsRepo:       items,
		redemptionsRepo: redemptions,
		swapsRepo:       swaps,
		errorLog:        errorLog,
		states: map[Key]string{
			KeyItems:        StateUninitialized,
			KeyUserItems:    StateUninitialized,
			KeySwapRequests: StateUninitialized,
			KeyRedemptions:  StateUninitialized,
		},
		subs: make(map[Key]*store.Subscription),
	}
}

// Start opens the all-items feed. The collection is not user-scoped and
// survives sign-out; calling Start again replaces the previous listener.
func (m *Mirror) Start(ctx context.Context) error {
	m.mu.Lock()
	m.states[KeyItems] = StateLoading
	m.mu.Unlock()
	m.cancelSubscription(KeyItems)

	sub, err := m.itemsRepo.SubscribeItems(ctx,
		func(items []models.Item) {
			m.mu.Lock()
			m.items = items
			m.states[KeyItems] = StateSynced
			m.mu.Unlock()
		},
		func(err error) {
			m.errorLog.Printf("items subscription error: %v", err)
			m.mu.Lock()
			m.items = nil
			m.mu.Unlock()
		})
	if err != nil {
		m.mu.Lock()
		m.states[KeyItems] = StateUninitialized
		m.mu.Unlock()
		return err
	}
	m.storeSubscription(KeyItems, sub)
	return nil
}

// SetUser (re)establishes the user-scoped feeds for uid. Any previous
// user's handles are cancelled first, so at most one subscription per
// key is ever active.
func (m *Mirror) SetUser(ctx context.Context, uid string) error {
	if uid == "" {
		return models.ErrNoIdentity
	}

	m.mu.Lock()
	m.uid = uid
	m.generation++
	gen := m.generation
	m.states[KeyUserItems] = StateLoading
	m.states[KeySwapRequests] = StateLoading
	m.states[KeyRedemptions] = StateLoading
	m.mu.Unlock()
	m.cancelSubscription(KeyUserItems)

	if err := m.loadUserReadModels(ctx, uid, gen); err != nil {
		return err
	}

	sub, err := m.itemsRepo.SubscribeUserItems(ctx, uid,
		func(items []models.Item) {
			m.mu.Lock()
			if m.generation == gen {
				m.userItems = items
				m.states[KeyUserItems] = StateSynced
			}
			m.mu.Unlock()
		},
		func(err error) {
			m.errorLog.Printf("user items subscription error: %v", err)
			m.mu.Lock()
			if m.generation == gen {
				m.userItems = nil
			}
			m.mu.Unlock()
		})
	if err != nil {
		return err
	}
	m.storeSubscription(KeyUserItems, sub)
	return nil
}

// ClearUser tears down the user-scoped feeds on sign-out. The all-items
// collection is left alone.
func (m *Mirror) ClearUser() {
	m.mu.Lock()
	m.uid = ""
	m.generation++
	m.userItems = nil
	m.swapRequests = nil
	m.redemptions = nil
	m.states[KeyUserItems] = StateUninitialized
	m.states[KeySwapRequests] = StateUninitialized
	m.states[KeyRedemptions] = StateUninitialized
	m.mu.Unlock()
	m.cancelSubscription(KeyUserItems)
}

// Stop cancels every live listener. Safe to call more than once.
func (m *Mirror) Stop() {
	for _, key := range []Key{KeyItems, KeyUserItems} {
		m.cancelSubscription(key)
	}
}

// RefreshRedemptions re-runs the one-shot redemptions load for the
// signed-in user. Redemptions have no live feed; callers refresh after a
// redeeming write.
func (m *Mirror) RefreshRedemptions(ctx context.Context) error {
	m.mu.Lock()
	uid, gen := m.uid, m.generation
	m.mu.Unlock()
	if uid == "" {
		return models.ErrNoIdentity
	}

	redemptions, err := m.redemptionsRepo.GetUserRedemptions(ctx, uid)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.generation == gen {
		m.redemptions = redemptions
		m.states[KeyRedemptions] = StateSynced
	}
	m.mu.Unlock()
	return nil
}

// RefreshSwapRequests re-runs the one-shot swap-requests load.
func (m *Mirror) RefreshSwapRequests(ctx context.Context) error {
	m.mu.Lock()
	uid, gen := m.uid, m.generation
	m.mu.Unlock()
	if uid == "" {
		return models.ErrNoIdentity
	}

	requests, err := m.swapsRepo.GetUserSwapRequests(ctx, uid)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.generation == gen {
		m.swapRequests = requests
		m.states[KeySwapRequests] = StateSynced
	}
	m.mu.Unlock()
	return nil
}

func (m *Mirror) loadUserReadModels(ctx context.Context, uid string, gen int) error {
	redemptions, err := m.redemptionsRepo.GetUserRedemptions(ctx, uid)
	if err != nil {
		return err
	}
	requests, err := m.swapsRepo.GetUserSwapRequests(ctx, uid)
	if err != nil {
		return err
	}
	m.mu.Lock()
	if m.generation == gen {
		m.redemptions = redemptions
		m.states[KeyRedemptions] = StateSynced
		m.swapRequests = requests
		m.states[KeySwapRequests] = StateSynced
	}
	m.mu.Unlock()
	return nil
}

func (m *Mirror) storeSubscription(key Key, sub *store.Subscription) {
	m.mu.Lock()
	prev := m.subs[key]
	m.subs[key] = sub
	m.mu.Unlock()
	if prev != nil {
		// Start/SetUser already cancelled the prior handle; this only
		// covers concurrent re-subscribes racing each other.
		prev.Cancel()
	}
}

func (m *Mirror) cancelSubscription(key Key) {
	m.mu.Lock()
	sub := m.subs[key]
	delete(m.subs, key)
	m.mu.Unlock()
	if sub != nil {
		sub.Cancel()
	}
}

// State reports the sync state of one collection.
func (m *Mirror) State(key Key) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.states[key]
}

func (m *Mirror) Items() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Item(nil), m.items...)
}

func (m *Mirror) UserItems() []models.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Item(nil), m.userItems...)
}

func (m *Mirror) SwapRequests() []models.SwapRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SwapRequest(nil), m.swapRequests...)
}

func (m *Mirror) Redemptions() []models.Redemption {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Redemption(nil), m.redemptions...)
}

// ItemByID looks an item up in the mirrored all-items collection.
func (m *Mirror) ItemByID(id string) (models.Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, item := range m.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.Item{}, false
}
