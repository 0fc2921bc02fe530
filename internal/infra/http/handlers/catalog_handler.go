package handlers

import (
	"context"
	"net/http"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

type ServiceCreator interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.CreateServiceInput) (*entity.Service, error)
}

type CampaignCreator interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.CreateCampaignInput) (*entity.Campaign, error)
}

type ContractCreator interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.CreateContractInput) (*entity.Contract, error)
}

type CatalogHandler struct {
	services  ServiceCreator
	campaigns CampaignCreator
	contracts ContractCreator
	log       *logger.Logger
}

func NewCatalogHandler(services ServiceCreator, campaigns CampaignCreator, contracts ContractCreator, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{services: services, campaigns: campaigns, contracts: contracts, log: log}
}

// CreateService handles POST /services.
func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateServiceInput
	create(w, r, h.log, &input, func(ctx context.Context, actor entity.Actor) (any, error) {
		return h.services.Execute(ctx, actor, input)
	})
}

// CreateCampaign handles POST /campaigns.
func (h *CatalogHandler) CreateCampaign(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateCampaignInput
	create(w, r, h.log, &input, func(ctx context.Context, actor entity.Actor) (any, error) {
		return h.campaigns.Execute(ctx, actor, input)
	})
}

// CreateContract handles POST /contracts.
func (h *CatalogHandler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateContractInput
	create(w, r, h.log, &input, func(ctx context.Context, actor entity.Actor) (any, error) {
		return h.contracts.Execute(ctx, actor, input)
	})
}

// create decodes into input, then runs exec, which reads the decoded input.
func create(w http.ResponseWriter, r *http.Request, log *logger.Logger, input any, exec func(context.Context, entity.Actor) (any, error)) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	if !decodeJSON(w, r, input) {
		return
	}

	out, err := exec(r.Context(), actor)
	if err != nil {
		writeError(w, r, log, err)
		return
	}
	writeJSON(w, http.StatusCreated, out)
}
