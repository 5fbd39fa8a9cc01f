// Package notify delivers user-facing notifications. Push messages are
// handed to the mobile gateway over NATS rather than sent directly.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// PushNotifier publishes push payloads on notify.push.<user> subjects. The
// gateway service owns device tokens and the actual FCM delivery.
type PushNotifier struct {
	conn *nats.Conn
}

func NewPushNotifier(conn *nats.Conn) *PushNotifier {
	return &PushNotifier{conn: conn}
}

type pushPayload struct {
	UserID string    `json:"user_id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

func (n *PushNotifier) SendPush(ctx context.Context, userID, title, body string) error {
	payload, err := json.Marshal(pushPayload{
		UserID: userID,
		Title:  title,
		Body:   body,
		SentAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("marshal push payload: %w", err)
	}
	if err := n.conn.Publish("notify.push."+userID, payload); err != nil {
		return fmt.Errorf("publish push for %s: %w", userID, err)
	}
	return nil
}
