package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Nicksok2413/CRM/internal/entity"
)

const (
	defaultLeadSort  = "-created_at"
	defaultLeadLimit = 50
	maxLeadLimit     = 200
)

type ListLeadsUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewListLeadsUseCase(leads entity.LeadRepositoryInterface) *ListLeadsUseCase {
	return &ListLeadsUseCase{Leads: leads}
}

// Execute lists non-deleted leads visible to the actor. Managers only get
// their own leads.
func (uc *ListLeadsUseCase) Execute(ctx context.Context, actor entity.Actor, input ListLeadsInput) ([]entity.Lead, error) {
	if err := authorize(actor, entity.CapViewLeads); err != nil {
		return nil, err
	}

	sort := strings.TrimSpace(input.Sort)
	if sort == "" {
		sort = defaultLeadSort
	}
	if _, ok := entity.LeadSorts[sort]; !ok {
		return nil, invalid("sort", "must be one of last_name, -last_name, created_at, -created_at")
	}
	if input.Limit < 0 || input.Offset < 0 {
		return nil, invalid("limit", "limit and offset must not be negative")
	}
	limit := input.Limit
	if limit == 0 {
		limit = defaultLeadLimit
	}
	if limit > maxLeadLimit {
		limit = maxLeadLimit
	}

	campaignID := strings.TrimSpace(input.CampaignID)
	if campaignID != "" {
		if _, err := uuid.Parse(campaignID); err != nil {
			return nil, invalid("campaign_id", "must be a valid id")
		}
	}

	leads, err := uc.Leads.List(ctx, entity.LeadFilter{
		CampaignID: campaignID,
		ManagerID:  entity.LeadScopeFor(actor),
		Sort:       sort,
		Limit:      limit,
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, technical("list leads", err)
	}
	return leads, nil
}
