package http

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/kaamlink/kaamlink/internal/pkg/metrics"
)

// wsMessage is sent from client to subscribe/unsubscribe to feeds.
type wsMessage struct {
	Action   string `json:"action"`   // "subscribe" | "unsubscribe"
	Channel  string `json:"channel"`  // "urgent" | "matches" (default: urgent)
	Category string `json:"category"` // payload category filter (optional, "" = all)
}

// WebSocketHandler returns a handler that upgrades to WebSocket
// and relays real-time NATS events to connected clients.
// Clients send JSON: {"action":"subscribe","channel":"urgent","category":"plumbing"}
// Urgent-job subjects carry the job ID, not the category, so category
// filtering happens on the decoded payload.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		log.Printf("ws client connected: %s", remoteAddr)

		var mu sync.Mutex
		subs := make(map[string]*nats.Subscription) // channel -> subscription

		// Helper: thread-safe write
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		relay := func(category string) nats.MsgHandler {
			return func(msg *nats.Msg) {
				if category != "" {
					var probe struct {
						Category string `json:"category"`
					}
					if err := json.Unmarshal(msg.Data, &probe); err != nil || probe.Category != category {
						return
					}
				}
				_ = writeJSON(json.RawMessage(msg.Data))
			}
		}

		subjectFor := func(channel string) string {
			switch channel {
			case "urgent":
				return "jobs.urgent.>"
			case "matches":
				return "jobs.match.>"
			}
			return ""
		}

		// Auto-subscribe to all urgent jobs by default
		sub, err := nc.Subscribe("jobs.urgent.>", relay(""))
		if err != nil {
			log.Printf("ws default subscribe error: %v", err)
			return
		}
		subs["urgent"] = sub

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// Read client messages for subscribe/unsubscribe
		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var m wsMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}

			channel := m.Channel
			if channel == "" {
				channel = "urgent"
			}
			subject := subjectFor(channel)
			if subject == "" {
				_ = writeJSON(map[string]string{"error": "unknown channel: " + channel})
				continue
			}

			switch m.Action {
			case "subscribe":
				if old, exists := subs[channel]; exists {
					// Re-subscribing swaps the category filter
					_ = old.Unsubscribe()
					delete(subs, channel)
				}
				s, err := nc.Subscribe(subject, relay(m.Category))
				if err != nil {
					_ = writeJSON(map[string]string{"error": "subscribe failed: " + err.Error()})
					continue
				}
				subs[channel] = s
				_ = writeJSON(map[string]string{"status": "subscribed", "channel": channel})

			case "unsubscribe":
				if s, exists := subs[channel]; exists {
					_ = s.Unsubscribe()
					delete(subs, channel)
					_ = writeJSON(map[string]string{"status": "unsubscribed", "channel": channel})
				} else {
					_ = writeJSON(map[string]string{"error": "not subscribed to " + channel})
				}

			default:
				_ = writeJSON(map[string]string{"error": "unknown action: " + m.Action})
			}
		}

		// Cleanup
		close(done)
		for _, s := range subs {
			_ = s.Unsubscribe()
		}
		log.Printf("ws client disconnected: %s", remoteAddr)
	}
}
