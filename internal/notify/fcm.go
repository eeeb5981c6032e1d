package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"firebase.google.com/go/messaging"
)

const fcmSendTimeout = 10 * time.Second

// FCMNotifier pushes bus events to registered device tokens. Devices
// register their FCM token over HTTP; delivery is best-effort and a
// failed send only logs.
type FCMNotifier struct {
	send func(ctx context.Context, msg *messaging.Message) (string, error)

	mu     sync.Mutex
	tokens map[string]string // uid -> device token
}

func NewFCMNotifier(client *messaging.Client) *FCMNotifier {
	return &FCMNotifier{send: client.Send, tokens: make(map[string]string)}
}

func (n *FCMNotifier) RegisterToken(uid, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if token == "" {
		delete(n.tokens, uid)
		return
	}
	n.tokens[uid] = token
}

// Publish hands the event off to a background sender and returns
// immediately, so a slow FCM round trip never stalls the workflow
// that raised the event.
func (n *FCMNotifier) Publish(event Event) {
	n.mu.Lock()
	tokens := make([]string, 0, len(n.tokens))
	for _, t := range n.tokens {
		tokens = append(tokens, t)
	}
	n.mu.Unlock()
	if len(tokens) == 0 {
		return
	}
	go n.deliver(tokens, event)
}

func (n *FCMNotifier) deliver(tokens []string, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), fcmSendTimeout)
	defer cancel()

	title := "ReWear"
	if event.Type == TypeError {
		title = "ReWear: something went wrong"
	}
	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  event.Message,
			},
			Android: &messaging.AndroidConfig{
				Priority: "high",
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{
						Alert: &messaging.ApsAlert{Title: title, Body: event.Message},
						Sound: "default",
					},
				},
			},
		}
		if _, err := n.send(ctx, msg); err != nil {
			log.Printf("fcm send error: %v", err)
		}
	}
}

var _ Publisher = (*FCMNotifier)(nil)
