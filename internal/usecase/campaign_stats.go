package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Nicksok2413/CRM/internal/entity"
)

type CampaignStatsUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
}

func NewCampaignStatsUseCase(campaigns entity.CampaignRepositoryInterface) *CampaignStatsUseCase {
	return &CampaignStatsUseCase{Campaigns: campaigns}
}

// Execute aggregates every matching campaign from a single joined fetch.
func (uc *CampaignStatsUseCase) Execute(ctx context.Context, actor entity.Actor, input CampaignStatsInput) ([]entity.CampaignStats, error) {
	if err := authorize(actor, entity.CapViewStats); err != nil {
		return nil, err
	}
	order, byProfit, desc, err := parseCampaignSort(input.Sort, input.WithProfit)
	if err != nil {
		return nil, err
	}

	serviceID := strings.TrimSpace(input.ServiceID)
	if serviceID != "" {
		if _, err := uuid.Parse(serviceID); err != nil {
			return nil, invalid("service_id", "must be a valid id")
		}
	}

	facts, err := uc.Campaigns.ListFacts(ctx, entity.CampaignFilter{
		Channel:   strings.TrimSpace(input.Channel),
		ServiceID: serviceID,
		OrderBy:   order,
	})
	if err != nil {
		return nil, technical("load campaign facts", err)
	}

	stats := entity.AggregateCampaigns(facts, input.WithProfit)
	if byProfit {
		entity.SortByProfit(stats, desc)
	}
	return stats, nil
}

// parseCampaignSort splits the requested ordering into a store-side order and
// a profit ordering applied after aggregation. Profit ordering is only valid
// when the profit annotation is computed.
func parseCampaignSort(raw string, withProfit bool) (order entity.CampaignOrder, byProfit, desc bool, err error) {
	switch s := strings.TrimSpace(raw); s {
	case "":
		return entity.CampaignOrderDefault, false, false, nil
	case "name", "-name", "budget", "-budget":
		return entity.CampaignOrder(s), false, false, nil
	case "profit", "-profit":
		if !withProfit {
			return "", false, false, invalid("sort", "profit ordering requires with_profit=true")
		}
		return entity.CampaignOrderDefault, true, s == "-profit", nil
	default:
		return "", false, false, invalid("sort", "must be one of name, -name, budget, -budget, profit, -profit")
	}
}
