package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

// PurgeUseCase physically deletes a record after checking, through the
// all-rows view, that nothing still depends on it.
//
// The check and the delete are separate statements and a dependent inserted
// between them is not seen by the guard. Foreign keys still refuse a lead purge
// racing a new history entry and a service purge racing a new contract; the
// other races go through.
type PurgeUseCase struct {
	Services  entity.ServiceRepositoryInterface
	Campaigns entity.CampaignRepositoryInterface
	Leads     entity.LeadRepositoryInterface
	Contracts entity.ContractRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Log       *logger.Logger
}

func NewPurgeUseCase(
	services entity.ServiceRepositoryInterface,
	campaigns entity.CampaignRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	contracts entity.ContractRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
	log *logger.Logger,
) *PurgeUseCase {
	return &PurgeUseCase{
		Services:  services,
		Campaigns: campaigns,
		Leads:     leads,
		Contracts: contracts,
		Customers: customers,
		Log:       log,
	}
}

func (uc *PurgeUseCase) Execute(ctx context.Context, actor entity.Actor, kind RecordKind, id string) error {
	if err := authorize(actor, entity.CapPurge); err != nil {
		return err
	}

	var (
		target   entity.Ref
		blockers []entity.Ref
		remove   func(ctx context.Context, id string) error
		err      error
	)
	switch kind {
	case KindServices:
		target, blockers, err = uc.serviceBlockers(ctx, id)
		remove = uc.Services.Delete
	case KindCampaigns:
		target, blockers, err = uc.campaignBlockers(ctx, id)
		remove = uc.Campaigns.Delete
	case KindLeads:
		target, blockers, err = uc.leadBlockers(ctx, id)
		remove = uc.Leads.Delete
	case KindContracts:
		target, blockers, err = uc.contractBlockers(ctx, id)
		remove = uc.Contracts.Delete
	default:
		return invalid("kind", "only services, campaigns, leads and contracts can be purged")
	}
	if err != nil {
		return err
	}
	if len(blockers) > 0 {
		return &BusinessRuleError{
			Code:     CodeProtected,
			Message:  fmt.Sprintf("%s %q is referenced by %d record(s)", target.Kind, target.Label, len(blockers)),
			Blockers: blockers,
		}
	}

	if err := remove(ctx, id); err != nil {
		switch {
		case errors.Is(err, entity.ErrNotFound):
			return &NotFoundError{Entity: target.Kind, ID: id}
		case errors.Is(err, entity.ErrReferenced):
			return &BusinessRuleError{
				Code:    CodeProtected,
				Message: fmt.Sprintf("%s %q gained a dependent while being deleted", target.Kind, target.Label),
			}
		}
		return technical("purge "+target.Kind, err)
	}

	uc.Log.Warn("record purged", "actor", actor.ID, "kind", kind, "id", id, "label", target.Label)
	return nil
}

func (uc *PurgeUseCase) serviceBlockers(ctx context.Context, id string) (entity.Ref, []entity.Ref, error) {
	s, err := uc.Services.FindByID(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, lookupErr("service", id, err)
	}
	campaigns, err := uc.Campaigns.ListByService(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, technical("load service campaigns", err)
	}
	contracts, err := uc.Contracts.ListByService(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, technical("load service contracts", err)
	}

	// Archived campaigns are removed with the service, so their own guard
	// applies here: any lead they generated blocks the purge.
	var blockers []entity.Ref
	for i := range campaigns {
		if !campaigns[i].IsDeleted {
			blockers = append(blockers, campaigns[i].Ref())
			continue
		}
		leads, err := uc.Leads.ListByCampaign(ctx, campaigns[i].ID, entity.ScopeAll)
		if err != nil {
			return entity.Ref{}, nil, technical("load campaign leads", err)
		}
		for j := range leads {
			blockers = append(blockers, leads[j].Ref())
		}
	}
	for i := range contracts {
		blockers = append(blockers, contracts[i].Ref())
	}
	return s.Ref(), blockers, nil
}

func (uc *PurgeUseCase) campaignBlockers(ctx context.Context, id string) (entity.Ref, []entity.Ref, error) {
	c, err := uc.Campaigns.FindByID(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, lookupErr("campaign", id, err)
	}
	leads, err := uc.Leads.ListByCampaign(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, technical("load campaign leads", err)
	}

	var blockers []entity.Ref
	for i := range leads {
		blockers = append(blockers, leads[i].Ref())
	}
	return c.Ref(), blockers, nil
}

func (uc *PurgeUseCase) leadBlockers(ctx context.Context, id string) (entity.Ref, []entity.Ref, error) {
	l, err := uc.Leads.FindByID(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, lookupErr("lead", id, err)
	}
	entries, err := uc.Customers.ListByLead(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, technical("load lead history", err)
	}

	var blockers []entity.Ref
	for i := range entries {
		blockers = append(blockers, entries[i].Ref())
	}
	return l.Ref(), blockers, nil
}

// contractBlockers only counts the current customer. Archived history of the
// contract is deleted together with it.
func (uc *PurgeUseCase) contractBlockers(ctx context.Context, id string) (entity.Ref, []entity.Ref, error) {
	c, err := uc.Contracts.FindByID(ctx, id, entity.ScopeAll)
	if err != nil {
		return entity.Ref{}, nil, lookupErr("contract", id, err)
	}
	entries, err := uc.Customers.ListByContract(ctx, id, entity.ScopeActive)
	if err != nil {
		return entity.Ref{}, nil, technical("load contract history", err)
	}

	var blockers []entity.Ref
	for i := range entries {
		blockers = append(blockers, entries[i].Ref())
	}
	return c.Ref(), blockers, nil
}
