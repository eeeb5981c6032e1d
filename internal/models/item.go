package models

import "time"

// Item lifecycle statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusRedeemed  = "redeemed"
	ItemStatusSwapped   = "swapped"
)

// Item condition grades.
const (
	ConditionExcellent = "excellent"
	ConditionGood      = "good"
	ConditionFair      = "fair"
)

type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Size        string    `json:"size"`
	Condition   string    `json:"condition"`
	PointsValue int       `json:"pointsValue"`
	Images      []string  `json:"images"`
	OwnerID     string    `json:"ownerId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Item status transitions are one-directional: an item that left
// "available" never returns to it.
var itemTransitions = map[string]map[string]struct{}{
	ItemStatusAvailable: {
		ItemStatusRedeemed: {},
		ItemStatusSwapped:  {},
	},
	ItemStatusRedeemed: {},
	ItemStatusSwapped:  {},
}

// CanTransitionItem returns whether an item may move from the current status
// to the target status.
func CanTransitionItem(from, to string) bool {
	if from == to {
		return true
	}
	allowed, ok := itemTransitions[from]
	if !ok {
		return false
	}
	_, ok = allowed[to]
	return ok
}
