package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/starbase-io/roster/internal/model"
	"github.com/starbase-io/roster/internal/repository"
)

// StartAuditConsumer connects to RabbitMQ, declares the audit.log queue
// (durable), and starts consuming messages. Each event becomes one row in
// the api_call_log table. The function runs a reconnect loop with capped
// backoff and keeps running indefinitely, logging processing errors and
// rejecting the offending message so the server continues operating.
func StartAuditConsumer(logs *repository.CallLogRepo) {
	url := brokerURL()

	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, logs); err != nil {
			log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, logs *repository.CallLogRepo) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}

	if _, err := ch.QueueDeclare(auditQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(auditQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body, logs); err != nil {
			log.Printf("audit-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte, logs *repository.CallLogRepo) error {
	var ev AuditEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	entry := model.APICallLog{
		APIEndpoint:   ev.Endpoint,
		SuccessStatus: ev.Success,
		ChangedField:  optional(ev.ChangedField),
		OldValue:      optional(ev.OldValue),
		NewValue:      optional(ev.NewValue),
		ErrorLog:      optional(ev.ErrorLog),
	}
	if ts, err := time.Parse(time.RFC3339, ev.LoggedAt); err == nil {
		entry.CallDate = ts
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := logs.Insert(ctx, entry); err != nil {
		return fmt.Errorf("insert call log: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
