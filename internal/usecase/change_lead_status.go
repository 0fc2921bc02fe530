package usecase

import (
	"context"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

type ChangeLeadStatusUseCase struct {
	Leads entity.LeadRepositoryInterface
	Log   *logger.Logger
}

func NewChangeLeadStatusUseCase(leads entity.LeadRepositoryInterface, log *logger.Logger) *ChangeLeadStatusUseCase {
	return &ChangeLeadStatusUseCase{Leads: leads, Log: log}
}

func (uc *ChangeLeadStatusUseCase) Execute(ctx context.Context, actor entity.Actor, leadID, rawStatus string) (*entity.Lead, error) {
	if err := authorize(actor, entity.CapChangeLeadStatus); err != nil {
		return nil, err
	}
	status, err := entity.ParseLeadStatus(rawStatus)
	if err != nil {
		return nil, invalid("status", "must be one of NEW, IN_PROGRESS, CONVERTED, LOST")
	}

	lead, err := uc.Leads.FindByID(ctx, leadID, entity.ScopeActive)
	if err != nil {
		return nil, lookupErr("lead", leadID, err)
	}
	if !entity.CanAccessLead(actor, lead) {
		return nil, &NotFoundError{Entity: "lead", ID: leadID}
	}

	previous := lead.Status
	changed, err := lead.SetStatus(status)
	if err != nil {
		return nil, invalid("status", err.Error())
	}
	if !changed {
		return lead, nil
	}
	if err := uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status); err != nil {
		return nil, technical("update lead status", err)
	}

	uc.Log.Info("lead status changed",
		"actor", actor.ID,
		"lead_id", lead.ID,
		"from", previous,
		"to", lead.Status,
	)
	return lead, nil
}
