package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
)

type CreateServiceUseCase struct {
	Services entity.ServiceRepositoryInterface
	Log      *logger.Logger
}

func NewCreateServiceUseCase(services entity.ServiceRepositoryInterface, log *logger.Logger) *CreateServiceUseCase {
	return &CreateServiceUseCase{Services: services, Log: log}
}

func (uc *CreateServiceUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateServiceInput) (*entity.Service, error) {
	if err := authorize(actor, entity.CapManageServices); err != nil {
		return nil, err
	}
	if errs := ValidateServiceInput(input); len(errs) > 0 {
		return nil, errs
	}

	name := strings.TrimSpace(input.Name)
	taken, err := uc.Services.NameTaken(ctx, name, "")
	if err != nil {
		return nil, technical("check service name", err)
	}
	if taken {
		return nil, invalid("name", "another service with this name exists")
	}

	s := entity.NewService(name, strings.TrimSpace(input.Description), input.Cost)
	if err := uc.Services.Create(ctx, s); err != nil {
		if errors.Is(err, entity.ErrDuplicateName) {
			return nil, invalid("name", "another service with this name exists")
		}
		return nil, technical("create service", err)
	}

	uc.Log.Info("service created", "actor", actor.ID, "service_id", s.ID)
	return s, nil
}

type CreateCampaignUseCase struct {
	Campaigns entity.CampaignRepositoryInterface
	Services  entity.ServiceRepositoryInterface
	Log       *logger.Logger
}

func NewCreateCampaignUseCase(campaigns entity.CampaignRepositoryInterface, services entity.ServiceRepositoryInterface, log *logger.Logger) *CreateCampaignUseCase {
	return &CreateCampaignUseCase{Campaigns: campaigns, Services: services, Log: log}
}

func (uc *CreateCampaignUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateCampaignInput) (*entity.Campaign, error) {
	if err := authorize(actor, entity.CapManageCampaigns); err != nil {
		return nil, err
	}
	if errs := ValidateCampaignInput(input); len(errs) > 0 {
		return nil, errs
	}
	if err := serviceExists(ctx, uc.Services, input.ServiceID); err != nil {
		return nil, err
	}

	c := entity.NewCampaign(strings.TrimSpace(input.Name), strings.TrimSpace(input.Channel), input.Budget, input.ServiceID)
	if err := uc.Campaigns.Create(ctx, c); err != nil {
		return nil, technical("create campaign", err)
	}

	uc.Log.Info("campaign created", "actor", actor.ID, "campaign_id", c.ID)
	return c, nil
}

type CreateContractUseCase struct {
	Contracts entity.ContractRepositoryInterface
	Services  entity.ServiceRepositoryInterface
	Log       *logger.Logger
}

func NewCreateContractUseCase(contracts entity.ContractRepositoryInterface, services entity.ServiceRepositoryInterface, log *logger.Logger) *CreateContractUseCase {
	return &CreateContractUseCase{Contracts: contracts, Services: services, Log: log}
}

func (uc *CreateContractUseCase) Execute(ctx context.Context, actor entity.Actor, input CreateContractInput) (*entity.Contract, error) {
	if err := authorize(actor, entity.CapManageContracts); err != nil {
		return nil, err
	}
	start, end, errs := ValidateContractInput(input)
	if len(errs) > 0 {
		return nil, errs
	}
	if err := serviceExists(ctx, uc.Services, input.ServiceID); err != nil {
		return nil, err
	}

	c := entity.NewContract(strings.TrimSpace(input.Name), input.ServiceID, input.Amount, start, end)
	if err := uc.Contracts.Create(ctx, c); err != nil {
		return nil, technical("create contract", err)
	}

	uc.Log.Info("contract created", "actor", actor.ID, "contract_id", c.ID, "end_date", input.EndDate)
	return c, nil
}

func serviceExists(ctx context.Context, services entity.ServiceRepositoryInterface, id string) error {
	_, err := services.FindByID(ctx, id, entity.ScopeActive)
	if errors.Is(err, entity.ErrNotFound) {
		return invalid("service_id", "service does not exist")
	}
	if err != nil {
		return technical("load service", err)
	}
	return nil
}
