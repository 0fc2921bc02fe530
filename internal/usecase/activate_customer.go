package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/metrics"
)

type ActivateCustomerUseCase struct {
	Tx        Transactor
	Leads     entity.LeadRepositoryInterface
	Contracts entity.ContractRepositoryInterface
	Campaigns entity.CampaignRepositoryInterface
	Customers entity.CustomerRepositoryInterface
	Log       *logger.Logger
}

func NewActivateCustomerUseCase(
	tx Transactor,
	leads entity.LeadRepositoryInterface,
	contracts entity.ContractRepositoryInterface,
	campaigns entity.CampaignRepositoryInterface,
	customers entity.CustomerRepositoryInterface,
	log *logger.Logger,
) *ActivateCustomerUseCase {
	return &ActivateCustomerUseCase{
		Tx:        tx,
		Leads:     leads,
		Contracts: contracts,
		Campaigns: campaigns,
		Customers: customers,
		Log:       log,
	}
}

// Execute links the lead to the contract and converts the lead, all or nothing.
// Preconditions are checked in order and the first failure wins.
func (uc *ActivateCustomerUseCase) Execute(ctx context.Context, actor entity.Actor, input ActivateCustomerInput) (*entity.ContractHistoryEntry, error) {
	if err := authorize(actor, entity.CapManageCustomers); err != nil {
		return nil, err
	}
	var verrs ValidationErrors
	if strings.TrimSpace(input.LeadID) == "" {
		verrs = append(verrs, ValidationError{"lead_id", "is required"})
	}
	if strings.TrimSpace(input.ContractID) == "" {
		verrs = append(verrs, ValidationError{"contract_id", "is required"})
	}
	if len(verrs) > 0 {
		return nil, verrs
	}

	var entry *entity.ContractHistoryEntry
	err := uc.Tx.WithinTx(ctx, func(ctx context.Context) error {
		lead, err := uc.Leads.FindByIDForUpdate(ctx, input.LeadID, entity.ScopeActive)
		if err != nil {
			return lookupErr("lead", input.LeadID, err)
		}
		if !entity.CanAccessLead(actor, lead) {
			return &NotFoundError{Entity: "lead", ID: input.LeadID}
		}
		contract, err := uc.Contracts.FindByIDForUpdate(ctx, input.ContractID)
		if err != nil {
			return lookupErr("contract", input.ContractID, err)
		}

		if lead.Status == entity.LeadStatusConverted {
			return &BusinessRuleError{
				Code:     CodeLeadAlreadyActive,
				Message:  fmt.Sprintf("lead %s is already an active customer; deactivate it first", lead.FullName()),
				Blockers: []entity.Ref{lead.Ref()},
			}
		}

		linked, err := uc.Customers.FindActiveByContract(ctx, contract.ID)
		switch {
		case err == nil:
			return contractTaken(contract, linked)
		case !errors.Is(err, entity.ErrNotFound):
			return technical("check contract link", err)
		}

		if lead.CampaignID != nil {
			// a soft-deleted campaign still decides which service the lead wanted
			campaign, err := uc.Campaigns.FindByID(ctx, *lead.CampaignID, entity.ScopeAll)
			if err != nil {
				return lookupErr("campaign", *lead.CampaignID, err)
			}
			if campaign.ServiceID != contract.ServiceID {
				return &BusinessRuleError{
					Code:     CodeServiceMismatch,
					Message:  fmt.Sprintf("contract %s is for another service than campaign %s", contract.Name, campaign.Name),
					Blockers: []entity.Ref{campaign.Ref(), contract.Ref()},
				}
			}
		}

		e := entity.NewContractHistoryEntry(lead.ID, contract.ID, actor)
		if err := uc.Customers.Create(ctx, e); err != nil {
			if errors.Is(err, entity.ErrContractAlreadyLinked) {
				return contractTaken(contract, nil)
			}
			return technical("create history entry", err)
		}
		lead.Convert()
		if err := uc.Leads.UpdateStatus(ctx, lead.ID, lead.Status); err != nil {
			return technical("update lead status", err)
		}
		entry = e
		return nil
	})

	metrics.RecordActivation(activationResult(err))
	if err != nil {
		return nil, err
	}

	uc.Log.Info("customer activated",
		"actor", actor.ID,
		"lead_id", input.LeadID,
		"contract_id", input.ContractID,
		"entry_id", entry.ID,
	)
	return entry, nil
}

func contractTaken(c *entity.Contract, linked *entity.ContractHistoryEntry) error {
	blockers := []entity.Ref{c.Ref()}
	if linked != nil {
		blockers = append(blockers, linked.Ref())
	}
	return &BusinessRuleError{
		Code:     CodeContractAlreadyLinked,
		Message:  fmt.Sprintf("contract %s already backs an active customer", c.Name),
		Blockers: blockers,
	}
}

func activationResult(err error) string {
	if err == nil {
		return "ok"
	}
	var br *BusinessRuleError
	if errors.As(err, &br) {
		return br.Code
	}
	return "error"
}
