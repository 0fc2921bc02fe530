package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

type CampaignStatsReader interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.CampaignStatsInput) ([]entity.CampaignStats, error)
}

type CampaignDetailReader interface {
	Execute(ctx context.Context, actor entity.Actor, campaignID, rawFilter string) (*entity.CampaignDetail, error)
}

type StatsHandler struct {
	list   CampaignStatsReader
	detail CampaignDetailReader
	log    *logger.Logger
}

func NewStatsHandler(list CampaignStatsReader, detail CampaignDetailReader, log *logger.Logger) *StatsHandler {
	return &StatsHandler{list: list, detail: detail, log: log}
}

// List handles GET /campaigns/stats?channel=&service_id=&sort=&with_profit=.
func (h *StatsHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	input := usecase.CampaignStatsInput{
		Channel:   q.Get("channel"),
		ServiceID: q.Get("service_id"),
		Sort:      q.Get("sort"),
	}
	if raw := q.Get("with_profit"); raw != "" {
		withProfit, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, h.log, usecase.ValidationErrors{{Field: "with_profit", Message: "must be true or false"}})
			return
		}
		input.WithProfit = withProfit
	}

	stats, err := h.list.Execute(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Detail handles GET /campaigns/{id}/stats?status=.
func (h *StatsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	detail, err := h.detail.Execute(r.Context(), actor, chi.URLParam(r, "id"), r.URL.Query().Get("status"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}
