package handlers

import (
	"context"
	"net/http"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

type DuplicateChecker interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.CheckDuplicatesInput) (*usecase.CheckDuplicatesOutput, error)
}

// ValidationHandler lets lead forms warn about taken emails and phones
// before submitting.
type ValidationHandler struct {
	check DuplicateChecker
	log   *logger.Logger
}

func NewValidationHandler(check DuplicateChecker, log *logger.Logger) *ValidationHandler {
	return &ValidationHandler{check: check, log: log}
}

// Handle serves POST /leads/check-duplicates.
func (h *ValidationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var input usecase.CheckDuplicatesInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.check.Execute(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
