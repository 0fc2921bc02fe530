package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

type Archiver interface {
	SoftDelete(ctx context.Context, actor entity.Actor, kind usecase.RecordKind, id string) error
	Restore(ctx context.Context, actor entity.Actor, kind usecase.RecordKind, id string) error
}

type Purger interface {
	Execute(ctx context.Context, actor entity.Actor, kind usecase.RecordKind, id string) error
}

// RecordsHandler serves the lifecycle routes shared by every kind:
// DELETE /{kind}/{id}, POST /{kind}/{id}/restore, DELETE /{kind}/{id}/purge.
type RecordsHandler struct {
	archive Archiver
	purge   Purger
	log     *logger.Logger
}

func NewRecordsHandler(archive Archiver, purge Purger, log *logger.Logger) *RecordsHandler {
	return &RecordsHandler{archive: archive, purge: purge, log: log}
}

func (h *RecordsHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.archive.SoftDelete)
}

func (h *RecordsHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.archive.Restore)
}

func (h *RecordsHandler) Purge(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.purge.Execute)
}

func (h *RecordsHandler) run(w http.ResponseWriter, r *http.Request, op func(context.Context, entity.Actor, usecase.RecordKind, string) error) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	kind, err := usecase.ParseRecordKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	if err := op(r.Context(), actor, kind, chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
