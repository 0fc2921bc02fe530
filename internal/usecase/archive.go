package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

// RecordKind names a collection in URLs and logs.
type RecordKind string

const (
	KindServices  RecordKind = "services"
	KindCampaigns RecordKind = "campaigns"
	KindLeads     RecordKind = "leads"
	KindContracts RecordKind = "contracts"
	KindCustomers RecordKind = "customers"
)

func ParseRecordKind(raw string) (RecordKind, error) {
	switch k := RecordKind(raw); k {
	case KindServices, KindCampaigns, KindLeads, KindContracts, KindCustomers:
		return k, nil
	}
	return "", invalid("kind", "must be one of services, campaigns, leads, contracts, customers")
}

var kindCapability = map[RecordKind]entity.Capability{
	KindServices:  entity.CapManageServices,
	KindCampaigns: entity.CapManageCampaigns,
	KindLeads:     entity.CapDeleteLead,
	KindContracts: entity.CapManageContracts,
	KindCustomers: entity.CapManageCustomers,
}

// ArchiveUseCase soft-deletes and restores records. History entries are only
// archived through deactivation and never restored.
type ArchiveUseCase struct {
	Services  entity.ServiceRepositoryInterface
	Campaigns entity.CampaignRepositoryInterface
	Leads     entity.LeadRepositoryInterface
	Contracts entity.ContractRepositoryInterface
	Log       *logger.Logger
	Now       func() time.Time
}

func NewArchiveUseCase(
	services entity.ServiceRepositoryInterface,
	campaigns entity.CampaignRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	contracts entity.ContractRepositoryInterface,
	log *logger.Logger,
) *ArchiveUseCase {
	return &ArchiveUseCase{
		Services:  services,
		Campaigns: campaigns,
		Leads:     leads,
		Contracts: contracts,
		Log:       log,
		Now:       func() time.Time { return time.Now().UTC() },
	}
}

// archivable binds a loaded record to the write that persists its deletion flag.
type archivable struct {
	record entity.SoftDeletable
	save   func(ctx context.Context) error
	// beforeRestore re-checks constraints that only hold among non-deleted rows.
	beforeRestore func(ctx context.Context) error
}

func (uc *ArchiveUseCase) SoftDelete(ctx context.Context, actor entity.Actor, kind RecordKind, id string) error {
	if kind == KindCustomers {
		return invalid("kind", "customers are archived by deactivation")
	}
	a, err := uc.load(ctx, actor, kind, id)
	if err != nil {
		return err
	}
	if !a.record.SoftDelete(uc.Now()) {
		return nil
	}
	if err := a.save(ctx); err != nil {
		return technical("archive "+string(kind), err)
	}
	uc.Log.Info("record archived", "actor", actor.ID, "kind", kind, "id", id)
	return nil
}

func (uc *ArchiveUseCase) Restore(ctx context.Context, actor entity.Actor, kind RecordKind, id string) error {
	if kind == KindCustomers {
		if err := authorize(actor, kindCapability[kind]); err != nil {
			return err
		}
		return &BusinessRuleError{
			Code:    CodeHistoryRestoreForbidden,
			Message: "contract history cannot be restored; activate the lead again instead",
		}
	}
	a, err := uc.load(ctx, actor, kind, id)
	if err != nil {
		return err
	}
	if !a.record.Deleted() {
		return nil
	}
	if a.beforeRestore != nil {
		if err := a.beforeRestore(ctx); err != nil {
			return err
		}
	}
	a.record.Restore(uc.Now())
	if err := a.save(ctx); err != nil {
		switch {
		case errors.Is(err, entity.ErrDuplicateEmail):
			return invalid("email", "already used by another lead")
		case errors.Is(err, entity.ErrDuplicatePhone):
			return invalid("phone", "already used by another lead")
		case errors.Is(err, entity.ErrDuplicateName):
			return invalid("name", "another service with this name exists")
		}
		return technical("restore "+string(kind), err)
	}
	uc.Log.Info("record restored", "actor", actor.ID, "kind", kind, "id", id)
	return nil
}

func (uc *ArchiveUseCase) load(ctx context.Context, actor entity.Actor, kind RecordKind, id string) (*archivable, error) {
	capability, ok := kindCapability[kind]
	if !ok {
		return nil, invalid("kind", "unknown record kind")
	}
	if err := authorize(actor, capability); err != nil {
		return nil, err
	}

	switch kind {
	case KindServices:
		s, err := uc.Services.FindByID(ctx, id, entity.ScopeAll)
		if err != nil {
			return nil, lookupErr("service", id, err)
		}
		return &archivable{
			record: s,
			save:   func(ctx context.Context) error { return uc.Services.UpdateDeletion(ctx, s) },
			beforeRestore: func(ctx context.Context) error {
				taken, err := uc.Services.NameTaken(ctx, s.Name, s.ID)
				if err != nil {
					return technical("check service name", err)
				}
				if taken {
					return invalid("name", "another service with this name exists")
				}
				return nil
			},
		}, nil
	case KindCampaigns:
		c, err := uc.Campaigns.FindByID(ctx, id, entity.ScopeAll)
		if err != nil {
			return nil, lookupErr("campaign", id, err)
		}
		return &archivable{
			record: c,
			save:   func(ctx context.Context) error { return uc.Campaigns.UpdateDeletion(ctx, c) },
		}, nil
	case KindLeads:
		l, err := uc.Leads.FindByID(ctx, id, entity.ScopeAll)
		if err != nil {
			return nil, lookupErr("lead", id, err)
		}
		if !entity.CanAccessLead(actor, l) {
			return nil, &NotFoundError{Entity: "lead", ID: id}
		}
		return &archivable{
			record: l,
			save:   func(ctx context.Context) error { return uc.Leads.UpdateDeletion(ctx, l) },
			beforeRestore: func(ctx context.Context) error {
				return uc.checkLeadUnique(ctx, l)
			},
		}, nil
	case KindContracts:
		c, err := uc.Contracts.FindByID(ctx, id, entity.ScopeAll)
		if err != nil {
			return nil, lookupErr("contract", id, err)
		}
		return &archivable{
			record: c,
			save:   func(ctx context.Context) error { return uc.Contracts.UpdateDeletion(ctx, c) },
		}, nil
	}
	return nil, invalid("kind", "unknown record kind")
}

func (uc *ArchiveUseCase) checkLeadUnique(ctx context.Context, l *entity.Lead) error {
	emailTaken, phoneTaken, err := uc.Leads.FindDuplicates(ctx, l.Email, l.Phone, l.ID)
	if err != nil {
		return technical("check lead duplicates", err)
	}
	var verrs ValidationErrors
	if emailTaken {
		verrs = append(verrs, ValidationError{"email", "already used by another lead"})
	}
	if phoneTaken {
		verrs = append(verrs, ValidationError{"phone", "already used by another lead"})
	}
	if len(verrs) > 0 {
		return verrs
	}
	return nil
}
