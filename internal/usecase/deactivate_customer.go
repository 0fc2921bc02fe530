package usecase

import (
	"context"
	"time"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/metrics"
)

type DeactivateCustomerUseCase struct {
	Tx        Transactor
	Leads     entity.LeadRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Log       *logger.Logger
	Now       func() time.Time
}

func NewDeactivateCustomerUseCase(
	tx Transactor,
	leads entity.LeadRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
	log *logger.Logger,
) *DeactivateCustomerUseCase {
	return &DeactivateCustomerUseCase{
		Tx:        tx,
		Leads:     leads,
		Customers: customers,
		Log:       log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// Execute soft-deletes the history entry and, on the not-deleted -> deleted
// edge only, moves a converted lead without other active entries back to work.
func (uc *DeactivateCustomerUseCase) Execute(ctx context.Context, actor entity.Actor, entryID string) (*DeactivateCustomerOutput, error) {
	if err := authorize(actor, entity.CapManageCustomers); err != nil {
		return nil, err
	}

	out := &DeactivateCustomerOutput{EntryID: entryID}
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		entry, err := uc.Customers.FindByIDForUpdate(ctx, entryID)
		if err != nil {
			return lookupErr("customer", entryID, err)
		}
		lead, err := uc.Leads.FindByIDForUpdate(ctx, entry.LeadID, entity.ScopeAll)
		if err != nil {
			return lookupErr("lead", entry.LeadID, err)
		}
		if !entity.CanAccessLead(actor, lead) {
			return &NotFoundError{Entity: "customer", ID: entryID}
		}
		out.LeadID = lead.ID

		if !entry.SoftDelete(uc.Now()) {
			return nil
		}
		if err := uc.Customers.UpdateDeletion(ctx, entry); err != nil {
			return technical("archive history entry", err)
		}
		out.Deactivated = true

		remaining, err := uc.Customers.CountActiveByLead(ctx, lead.ID)
		if err != nil {
			return technical("count active entries", err)
		}
		if remaining > 0 || !lead.RevertConversion() {
			return nil
		}
		if err := uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status); err != nil {
			return technical("update lead status", err)
		}
		out.StatusReverted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if out.Deactivated {
		metrics.RecordDeactivation(out.StatusReverted)
		uc.Log.Info("customer deactivated",
			"actor", actor.ID,
			"entry_id", entryID,
			"lead_id", out.LeadID,
			"status_reverted", out.StatusReverted,
		)
	}
	return out, nil
}
