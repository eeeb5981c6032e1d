package handlers

import (
	"encoding/json"
	"net/http"

	"rewearBack/internal/notify"
)

type NotificationHandler struct {
	FCM *notify.FCMNotifier
}

// RegisterDeviceToken attaches a device's FCM token to the signed-in
// user so bus events reach it as push notifications.
func (h *NotificationHandler) RegisterDeviceToken(w http.ResponseWriter, r *http.Request) {
	if h.FCM == nil {
		http.Error(w, "Push notifications are not configured", http.StatusServiceUnavailable)
		return
	}
	uid := userID(r)
	if uid == "" {
		http.Error(w, "Missing identity", http.StatusUnauthorized)
		return
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	h.FCM.RegisterToken(uid, body.Token)
	w.WriteHeader(http.StatusNoContent)
}
