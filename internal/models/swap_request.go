package models

import "time"

// Swap request statuses.
const (
	SwapStatusPending  = "pending"
	SwapStatusAccepted = "accepted"
	SwapStatusDeclined = "declined"
)

type SwapRequest struct {
	ID          string    `json:"id"`
	FromUserID  string    `json:"fromUserId"`
	ToUserID    string    `json:"toUserId"`
	ItemID      string    `json:"itemId"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	DateCreated string    `json:"dateCreated"`
}
