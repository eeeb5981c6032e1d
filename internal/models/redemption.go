package models

import "time"

// Redemption records a points purchase of an item. Created once per
// successful redemption and immutable thereafter.
type Redemption struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	ItemID       string    `json:"itemId"`
	PointsSpent  int       `json:"pointsSpent"`
	CreatedAt    time.Time `json:"createdAt"`
	DateRedeemed string    `json:"dateRedeemed"`
}
