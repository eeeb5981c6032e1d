package handlers

import (
	"encoding/json"
	"net/http"

	"rewearBack/internal/economy"
	"rewearBack/internal/identity"
	"rewearBack/internal/models"
)

type RedemptionHandler struct {
	Engine   *economy.Engine
	Identity identity.Bridge
}

type redeemRequest struct {
	ItemID      string `json:"itemId"`
	PointsSpent int    `json:"pointsSpent"`
}

// Redeem checks the economy preconditions on behalf of the caller and
// runs the redemption workflow. The engine itself does not re-validate.
func (h *RedemptionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		http.Error(w, "Missing identity", http.StatusUnauthorized)
		return
	}

	var req redeemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	item, err := h.Engine.Items.GetItemByID(r.Context(), req.ItemID)
	if err != nil {
		http.Error(w, "Item not found", http.StatusNotFound)
		return
	}
	if item.Status != models.ItemStatusAvailable {
		http.Error(w, "Item is no longer available", http.StatusConflict)
		return
	}
	// The charge is the item's current pointsValue; the client-supplied
	// value only confirms which price the user agreed to.
	if req.PointsSpent != item.PointsValue {
		http.Error(w, "Points value does not match item", http.StatusBadRequest)
		return
	}
	user, err := h.Identity.GetProfile(r.Context(), uid)
	if err != nil {
		http.Error(w, "Unknown user", http.StatusUnauthorized)
		return
	}
	if user.Points < item.PointsValue {
		http.Error(w, "Insufficient points", http.StatusBadRequest)
		return
	}

	res, err := h.Engine.RedeemItem(r.Context(), uid, req.ItemID, item.PointsValue)
	if err != nil {
		http.Error(w, "Missing identity", http.StatusUnauthorized)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *RedemptionHandler) GetUserRedemptions(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get(":user_id")
	redemptions, err := h.Engine.GetUserRedemptions(r.Context(), uid)
	if err != nil {
		http.Error(w, "Invalid user_id", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(redemptions)
}
