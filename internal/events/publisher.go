// Package events publishes workspace lifecycle events to NATS
// JetStream. Eventing is optional: the publisher is nil-safe and
// publish failures never fail the request that triggered them.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/Abhishek200416/AI-Platform-Production-Grade-Workspace/internal/config"
)

// Publisher wraps a NATS connection with JetStream support.
type Publisher struct {
	conn *nats.Conn
	js   jetstream.JetStream
}

// Connect connects to NATS and ensures the events stream exists.
func Connect(ctx context.Context, cfg config.NATSConfig) (*Publisher, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			slog.Info("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("creating JetStream context: %w", err)
	}

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      StreamEvents,
		Subjects:  []string{"workspace.events.>"},
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("ensuring events stream: %w", err)
	}

	slog.Info("connected to NATS", "url", cfg.URL)
	return &Publisher{conn: nc, js: js}, nil
}

// PublishCompletion publishes a chat completion event.
func (p *Publisher) PublishCompletion(ctx context.Context, event CompletionEvent) error {
	return p.publish(ctx, SubjectCompletion, event)
}

// PublishFile publishes a file analysis event.
func (p *Publisher) PublishFile(ctx context.Context, event FileEvent) error {
	return p.publish(ctx, SubjectFile, event)
}

func (p *Publisher) publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling event for %s: %w", subject, err)
	}
	if _, err := p.js.Publish(ctx, subject, payload); err != nil {
		return fmt.Errorf("publishing to %s: %w", subject, err)
	}
	return nil
}

// Healthy returns true if the NATS connection is active.
func (p *Publisher) Healthy() bool {
	return p.conn.IsConnected()
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if err := p.conn.Drain(); err != nil {
		slog.Warn("draining NATS connection", "error", err)
	}
}
