package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

// Notifier delivers a decoded notification to a human, typically by email.
type Notifier interface {
	SendLeadAssigned(p LeadAssignedPayload) error
	SendContractsExpiring(p ContractsExpiringPayload) error
}

// Consumer is the part of *amqp.Channel the worker needs.
type Consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

var errUnknownKind = errors.New("unknown notification kind")

type Worker struct {
	Channel  Consumer
	Notifier Notifier
	Log      *logger.Logger
}

func NewWorker(ch Consumer, notifier Notifier, log *logger.Logger) *Worker {
	return &Worker{Channel: ch, Notifier: notifier, Log: log}
}

// Start consumes until ctx is cancelled or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	w.Log.Info("notification worker started", "queue", queueName)

	for {
		select {
		case <-ctx.Done():
			w.Log.Info("notification worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(d)
		}
	}
}

func (w *Worker) handle(d amqp.Delivery) {
	if err := w.process(d.Body); err != nil {
		// no requeue: failed notifications go to the DLQ for inspection
		w.Log.Error("notification failed", "error", err, "type", d.Type)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}

func (w *Worker) process(body []byte) error {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Kind {
	case KindLeadAssigned:
		var p LeadAssignedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Kind, err)
		}
		w.Log.Info("sending lead assignment", "manager", p.ManagerEmail, "lead_id", p.LeadID)
		return w.Notifier.SendLeadAssigned(p)
	case KindContractsExpiring:
		var p ContractsExpiringPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", env.Kind, err)
		}
		w.Log.Info("sending expiring contracts notice", "manager", p.ManagerEmail, "contracts", len(p.Contracts))
		return w.Notifier.SendContractsExpiring(p)
	default:
		return fmt.Errorf("%w: %q", errUnknownKind, env.Kind)
	}
}
