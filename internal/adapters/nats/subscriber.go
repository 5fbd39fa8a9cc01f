package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/kaamlink/kaamlink/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber sharing a NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}
	return &Subscriber{conn: conn, js: js}, nil
}

func (s *Subscriber) SubscribeUrgentJobs(ctx context.Context, handler func(ctx context.Context, job *domain.UrgentJob) error) error {
	sub, err := s.js.Subscribe("jobs.urgent.>", func(msg *nats.Msg) {
		var job domain.UrgentJob
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &job); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("urgent-matcher"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

func (s *Subscriber) SubscribeMatches(ctx context.Context, handler func(ctx context.Context, m *domain.UrgentMatch) error) error {
	sub, err := s.js.Subscribe("jobs.match.>", func(msg *nats.Msg) {
		var m domain.UrgentMatch
		if err := json.Unmarshal(msg.Data, &m); err != nil {
			_ = msg.Nak()
			return
		}
		if err := handler(ctx, &m); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("match-notifier"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
