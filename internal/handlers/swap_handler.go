package handlers

import (
	"encoding/json"
	"net/http"

	"rewearBack/internal/economy"
	"rewearBack/internal/models"
)

type SwapHandler struct {
	Engine *economy.Engine
}

func (h *SwapHandler) CreateSwapRequest(w http.ResponseWriter, r *http.Request) {
	var req models.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	req.FromUserID = userID(r)

	res, err := h.Engine.CreateSwapRequest(r.Context(), req)
	if err != nil {
		http.Error(w, "Invalid swap request", http.StatusBadRequest)
		return
	}
	if res.Success {
		w.WriteHeader(http.StatusCreated)
	}
	json.NewEncoder(w).Encode(res)
}

func (h *SwapHandler) UpdateSwapRequest(w http.ResponseWriter, r *http.Request) {
	requestID := r.URL.Query().Get(":id")
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if body.Status != models.SwapStatusAccepted && body.Status != models.SwapStatusDeclined {
		http.Error(w, "Invalid status", http.StatusBadRequest)
		return
	}

	res, err := h.Engine.UpdateSwapRequest(r.Context(), requestID, body.Status)
	if err != nil {
		http.Error(w, "Invalid request id", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (h *SwapHandler) GetUserSwapRequests(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get(":user_id")
	requests, err := h.Engine.Swaps.GetUserSwapRequests(r.Context(), uid)
	if err != nil {
		http.Error(w, "Invalid user_id", http.StatusBadRequest)
		return
	}
	json.NewEncoder(w).Encode(requests)
}
