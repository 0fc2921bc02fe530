package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Campaign is an advertising effort promoting exactly one service.
type Campaign struct {
	ID        string          `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Channel   string          `json:"channel" db:"channel"`
	Budget    decimal.Decimal `json:"budget" db:"budget"`
	ServiceID string          `json:"service_id" db:"service_id"`
	Archivable
}

func NewCampaign(name, channel string, budget decimal.Decimal, serviceID string) *Campaign {
	return &Campaign{
		ID:         uuid.New().String(),
		Name:       name,
		Channel:    channel,
		Budget:     budget,
		ServiceID:  serviceID,
		Archivable: newArchivable(time.Now().UTC()),
	}
}

func (c *Campaign) Ref() Ref {
	return Ref{Kind: "campaign", ID: c.ID, Label: c.Name, Deleted: c.IsDeleted}
}

// CampaignOrder is a SQL-side ordering of the campaign list. Ordering by
// profit happens after aggregation and is not a CampaignOrder.
type CampaignOrder string

const (
	CampaignOrderDefault    CampaignOrder = ""
	CampaignOrderName       CampaignOrder = "name"
	CampaignOrderNameDesc   CampaignOrder = "-name"
	CampaignOrderBudget     CampaignOrder = "budget"
	CampaignOrderBudgetDesc CampaignOrder = "-budget"
)

type CampaignFilter struct {
	Channel   string
	ServiceID string
	OrderBy   CampaignOrder
}

type CampaignRepositoryInterface interface {
	Create(ctx context.Context, c *Campaign) error
	FindByID(ctx context.Context, id string, scope Scope) (*Campaign, error)
	ListByService(ctx context.Context, serviceID string, scope Scope) ([]Campaign, error)
	// ListFacts returns the non-deleted campaigns matching the filter joined with
	// their non-deleted leads and every history entry of those leads, in one query.
	ListFacts(ctx context.Context, filter CampaignFilter) ([]CampaignFact, error)
	UpdateDeletion(ctx context.Context, c *Campaign) error
	Delete(ctx context.Context, id string) error
}
