// Package service holds the pieces that sit between handlers and the
// outside world, currently the activity event publisher.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/satomiya/keikocho/internal/queue"
)

// ActivityPublisher sends journal events to the lesson.activity queue.
// Publishing is best effort: the write that triggered the event has
// already committed, so failures are logged and returned but callers
// ignore them rather than failing the request.
type ActivityPublisher struct {
	enabled bool
	log     zerolog.Logger
}

// NewActivityPublisher builds a publisher.  When enabled is false every
// Publish call is a silent no-op, which keeps handler code free of
// conditionals.
func NewActivityPublisher(enabled bool, log zerolog.Logger) *ActivityPublisher {
	return &ActivityPublisher{enabled: enabled, log: log}
}

// Publish stamps and sends one event.  A fresh connection per publish
// is deliberate given the journal's write rate; messages are marked
// persistent so they survive a broker restart.
func (p *ActivityPublisher) Publish(ctx context.Context, ev queue.ActivityEvent) error {
	if p == nil || !p.enabled {
		return nil
	}
	if ev.OccurredAt == "" {
		ev.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	conn, err := amqp.Dial(queue.BrokerURL())
	if err != nil {
		p.log.Warn().Err(err).Str("kind", ev.Kind).Msg("activity publish: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Str("kind", ev.Kind).Msg("activity publish: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare so publisher and consumer can start in any order.
	if _, err := ch.QueueDeclare(queue.ActivityQueueName, true, false, false, false, nil); err != nil {
		p.log.Warn().Err(err).Str("kind", ev.Kind).Msg("activity publish: queue declare failed")
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn().Err(err).Str("kind", ev.Kind).Msg("activity publish: marshal failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ActivityQueueName, false, false, pub); err != nil {
		p.log.Warn().Err(err).Str("kind", ev.Kind).Msg("activity publish: publish failed")
		return err
	}

	p.log.Debug().Str("kind", ev.Kind).Uint64("lesson_id", ev.LessonID).Msg("activity event published")
	return nil
}
