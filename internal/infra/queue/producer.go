package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Kind string

const (
	KindLeadAssigned      Kind = "lead_assigned"
	KindContractsExpiring Kind = "contracts_expiring"
)

// Envelope is the message body on the notification queue.
type Envelope struct {
	Kind    Kind            `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

type LeadAssignedPayload struct {
	ManagerEmail string `json:"manager_email"`
	ManagerName  string `json:"manager_name"`
	LeadID       string `json:"lead_id"`
	LeadName     string `json:"lead_name"`
	LeadEmail    string `json:"lead_email"`
	LeadPhone    string `json:"lead_phone"`
	CampaignName string `json:"campaign_name"`
}

type ExpiringItem struct {
	ContractName string `json:"contract_name"`
	ClientName   string `json:"client_name"`
}

type ContractsExpiringPayload struct {
	ManagerEmail string         `json:"manager_email"`
	ManagerName  string         `json:"manager_name"`
	EndDate      string         `json:"end_date"`
	Contracts    []ExpiringItem `json:"contracts"`
}

// Channel is the part of *amqp.Channel the producer needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch Channel
}

func NewProducer(ch Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch}
}

func (p *RabbitMQProducer) PublishLeadAssigned(ctx context.Context, payload LeadAssignedPayload) error {
	return p.publish(ctx, KindLeadAssigned, payload)
}

func (p *RabbitMQProducer) PublishContractsExpiring(ctx context.Context, payload ContractsExpiringPayload) error {
	return p.publish(ctx, KindContractsExpiring, payload)
}

func (p *RabbitMQProducer) publish(ctx context.Context, kind Kind, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", kind, err)
	}
	body, err := json.Marshal(Envelope{Kind: kind, Payload: raw})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(kind),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", kind, err)
	}
	return nil
}
