package handlers

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

type LeadCreator interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.CreateLeadInput) (*entity.Lead, error)
}

type LeadLister interface {
	Execute(ctx context.Context, actor entity.Actor, input usecase.ListLeadsInput) ([]entity.Lead, error)
}

type LeadStatusChanger interface {
	Execute(ctx context.Context, actor entity.Actor, leadID, rawStatus string) (*entity.Lead, error)
}

type LeadHandler struct {
	create       LeadCreator
	list         LeadLister
	changeStatus LeadStatusChanger
	rateLimiter  *RateLimiter
	log          *logger.Logger
}

func NewLeadHandler(create LeadCreator, list LeadLister, changeStatus LeadStatusChanger, limiter *RateLimiter, log *logger.Logger) *LeadHandler {
	return &LeadHandler{
		create:       create,
		list:         list,
		changeStatus: changeStatus,
		rateLimiter:  limiter,
		log:          log,
	}
}

// Create handles POST /leads.
func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	var input usecase.CreateLeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.create.Execute(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

// List handles GET /leads?campaign_id=&sort=&limit=&offset=.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	input := usecase.ListLeadsInput{CampaignID: q.Get("campaign_id"), Sort: q.Get("sort")}

	var errs usecase.ValidationErrors
	for _, p := range []struct {
		field string
		dst   *int
	}{{"limit", &input.Limit}, {"offset", &input.Offset}} {
		raw := q.Get(p.field)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, usecase.ValidationError{Field: p.field, Message: "must be an integer"})
			continue
		}
		*p.dst = n
	}
	if len(errs) > 0 {
		writeError(w, r, h.log, errs)
		return
	}

	leads, err := h.list.Execute(r.Context(), actor, input)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

// ChangeStatus handles POST /leads/{id}/status/{status}.
func (h *LeadHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOf(w, r)
	if !ok {
		return
	}

	lead, err := h.changeStatus.Execute(r.Context(), actor, chi.URLParam(r, "id"), chi.URLParam(r, "status"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

type CaptureLeadRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	CampaignID string `json:"campaign_id,omitempty"`
}

type CaptureLeadResponse struct {
	Success bool   `json:"success"`
	LeadID  string `json:"lead_id,omitempty"`
}

// CaptureLead handles POST /public/leads from landing pages. It runs as the
// system actor and never assigns a manager.
func (h *LeadHandler) CaptureLead(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		w.Header().Set("Retry-After", strconv.Itoa(int(h.rateLimiter.window.Seconds())))
		writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later")
		return
	}

	var req CaptureLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, err := h.create.Execute(r.Context(), entity.SystemActor, usecase.CreateLeadInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		CampaignID: req.CampaignID,
	})
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, CaptureLeadResponse{Success: true, LeadID: lead.ID})
}

// getClientIP reads the peer address only. Proxy headers are resolved once by
// chi's RealIP middleware in front of this handler.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimiter is a fixed window counter per client key.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
	stop     chan struct{}
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
		stop:     make(chan struct{}),
	}

	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[key]
	now := rl.now()

	if !exists {
		rl.visitors[key] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

// Close stops the cleanup goroutine.
func (rl *RateLimiter) Close() {
	close(rl.stop)
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for key, v := range rl.visitors {
				if now.Sub(v.lastReset) > rl.window*2 {
					delete(rl.visitors, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}
