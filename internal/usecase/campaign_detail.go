package usecase

import (
	"context"
	"time"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/metrics"
)

const detailCachePrefix = "crm:campaign_detail:"

func DetailCacheKey(campaignID string, filter entity.StatusFilter) string {
	return detailCachePrefix + campaignID + ":" + filter.CacheKey()
}

type CampaignDetailUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
	Leads     entity.LeadRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Cache     ReportCache
	TTL       time.Duration
	Log       *logger.Logger
}

func NewCampaignDetailUseCase(
	campaigns entity.CampaignRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
	cache ReportCache,
	ttl time.Duration,
	log *logger.Logger,
) *CampaignDetailUseCase {
	return &CampaignDetailUseCase{
		Campaigns: campaigns,
		Leads:     leads,
		Customers: customers,
		Cache:     cache,
		TTL:       ttl,
		Log:       log,
	}
}

// Execute serves the detail report from cache when possible. Cache failures
// only cost a recompute.
func (uc *CampaignDetailUseCase) Execute(ctx context.Context, actor entity.Actor, campaignID, rawFilter string) (*entity.CampaignDetail, error) {
	if err := authorize(actor, entity.CapViewStats); err != nil {
		return nil, err
	}
	filter, err := entity.ParseStatusFilter(rawFilter)
	if err != nil {
		return nil, invalid("status", "must be one of active, archived, in_work or empty")
	}
	key := DetailCacheKey(campaignID, filter)

	var cached entity.CampaignDetail
	found, err := uc.Cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		metrics.RecordCacheLookup("error")
		uc.Log.Warn("report cache read failed", "key", key, "error", err)
	case found:
		metrics.RecordCacheLookup("hit")
		return &cached, nil
	default:
		metrics.RecordCacheLookup("miss")
	}

	detail, err := uc.compute(ctx, campaignID, filter)
	if err != nil {
		return nil, err
	}

	if err := uc.Cache.Set(ctx, key, detail, uc.TTL); err != nil {
		uc.Log.Warn("report cache write failed", "key", key, "error", err)
	}
	return detail, nil
}

func (uc *CampaignDetailUseCase) compute(ctx context.Context, campaignID string, filter entity.StatusFilter) (*entity.CampaignDetail, error) {
	campaign, err := uc.Campaigns.FindByID(ctx, campaignID, entity.ScopeActive)
	if err != nil {
		return nil, lookupErr("campaign", campaignID, err)
	}
	leads, err := uc.Leads.ListByCampaign(ctx, campaignID, entity.ScopeActive)
	if err != nil {
		return nil, technical("load campaign leads", err)
	}

	var history []entity.LeadContract
	if len(leads) > 0 {
		ids := make([]string, len(leads))
		for i, l := range leads {
			ids[i] = l.ID
		}
		history, err = uc.Customers.ListContractsForLeads(ctx, ids)
		if err != nil {
			return nil, technical("load contract history", err)
		}
	}

	detail := entity.BuildCampaignDetail(*campaign, leads, history, filter)
	return &detail, nil
}
