package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

type CustomerActivator interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.ActivateCustomerInput) (*entity.ContractHistoryEntry, error)
}

type CustomerDeactivator interface {
	Execute(ctx context.Context, actor entity.Actor, entryID string) (*usecase.DeactivateCustomerOutput, error)
}

type CustomerHandler struct {
	activate   CustomerActivator
	deactivate CustomerDeactivator
	log        *logger.Logger
}

func NewCustomerHandler(activate CustomerActivator, deactivate CustomerDeactivator, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{activate: activate, deactivate: deactivate, log: log}
}

// Activate handles POST /customers.
func (h *CustomerHandler) Activate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var input usecase.ActivateCustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	entry, err := h.activate.Execute(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// Deactivate handles DELETE /customers/{id}. Repeating it is harmless.
func (h *CustomerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	out, err := h.deactivate.Execute(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
