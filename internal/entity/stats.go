package entity

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ROI returns (revenue / budget) * 100 rounded to two places. It is undefined
// (Valid == false) when the budget is not positive.
func ROI(revenue, budget decimal.Decimal) decimal.NullDecimal {
	if !budget.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(revenue.Div(budget).Mul(hundred).Round(2))
}

// CampaignFact is one row of the campaign list join: a campaign, optionally one
// of its non-deleted leads, optionally one history entry of that lead.
type CampaignFact struct {
	Campaign
	LeadID         *string             `db:"lead_id"`
	EntryID        *string             `db:"entry_id"`
	EntryDeleted   *bool               `db:"entry_deleted"`
	ContractAmount decimal.NullDecimal `db:"contract_amount"`
}

type CampaignStats struct {
	Campaign
	LeadsCount     int             `json:"leads_count"`
	CustomersCount int             `json:"customers_count"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	// Profit is nil when not requested; a non-nil invalid value encodes as null.
	Profit *decimal.NullDecimal `json:"profit,omitempty"`
}

// AggregateCampaigns folds the joined facts into one record per campaign,
// keeping the order in which campaigns first appear.
func AggregateCampaigns(facts []CampaignFact, withProfit bool) []CampaignStats {
	type acc struct {
		stats   CampaignStats
		leads   map[string]struct{}
		entries map[string]struct{}
	}
	order := make([]string, 0)
	byID := make(map[string]*acc)

	for _, f := range facts {
		a, ok := byID[f.ID]
		if !ok {
			a = &acc{
				stats:   CampaignStats{Campaign: f.Campaign, TotalRevenue: decimal.Zero},
				leads:   make(map[string]struct{}),
				entries: make(map[string]struct{}),
			}
			byID[f.ID] = a
			order = append(order, f.ID)
		}
		if f.LeadID == nil {
			continue
		}
		a.leads[*f.LeadID] = struct{}{}

		if f.EntryID == nil || (f.EntryDeleted != nil && *f.EntryDeleted) {
			continue
		}
		if _, seen := a.entries[*f.EntryID]; seen {
			continue
		}
		a.entries[*f.EntryID] = struct{}{}
		if f.ContractAmount.Valid {
			a.stats.TotalRevenue = a.stats.TotalRevenue.Add(f.ContractAmount.Decimal)
		}
	}

	out := make([]CampaignStats, 0, len(order))
	for _, id := range order {
		a := byID[id]
		a.stats.LeadsCount = len(a.leads)
		a.stats.CustomersCount = len(a.entries)
		if withProfit {
			p := ROI(a.stats.TotalRevenue, a.stats.Budget)
			a.stats.Profit = &p
		}
		out = append(out, a.stats)
	}
	return out
}

// SortByProfit orders campaigns by profit, undefined profit last in both directions.
func SortByProfit(stats []CampaignStats, desc bool) {
	sort.SliceStable(stats, func(i, j int) bool {
		pi, pj := stats[i].Profit, stats[j].Profit
		vi := pi != nil && pi.Valid
		vj := pj != nil && pj.Valid
		switch {
		case vi && !vj:
			return true
		case !vi:
			return false
		}
		if desc {
			return pi.Decimal.GreaterThan(pj.Decimal)
		}
		return pi.Decimal.LessThan(pj.Decimal)
	})
}

type StatusFilter string

const (
	FilterAll      StatusFilter = ""
	FilterActive   StatusFilter = "active"
	FilterArchived StatusFilter = "archived"
	FilterInWork   StatusFilter = "in_work"
)

func ParseStatusFilter(raw string) (StatusFilter, error) {
	f := StatusFilter(strings.ToLower(strings.TrimSpace(raw)))
	switch f {
	case FilterAll, FilterActive, FilterArchived, FilterInWork:
		return f, nil
	}
	return "", ErrInvalidStatusFilter
}

// CacheKey is the normalized form used in report cache keys.
func (f StatusFilter) CacheKey() string {
	if f == FilterAll {
		return "all"
	}
	return string(f)
}

type LeadClass string

const (
	ClassActive   LeadClass = "active"
	ClassArchived LeadClass = "archived"
	ClassInWork   LeadClass = "in_work"
)

// ClassifyLead puts a lead in exactly one class. A past customer or a lost
// lead is archived; a lead never linked to a contract and not lost is in work.
func ClassifyLead(status LeadStatus, hasActive, hasHistory bool) LeadClass {
	switch {
	case hasActive:
		return ClassActive
	case hasHistory || status == LeadStatusLost:
		return ClassArchived
	default:
		return ClassInWork
	}
}

func (f StatusFilter) Matches(c LeadClass) bool {
	return f == FilterAll || string(f) == string(c)
}

type CampaignLead struct {
	Lead
	Class LeadClass `json:"class"`
}

type CampaignDetail struct {
	Campaign           Campaign            `json:"campaign"`
	Filter             StatusFilter        `json:"filter"`
	Leads              []CampaignLead      `json:"leads_list"`
	TotalLeads         int                 `json:"total_leads"`
	TotalActiveClients int                 `json:"total_active_clients"`
	TotalRevenue       decimal.Decimal     `json:"total_revenue"`
	Profit             decimal.NullDecimal `json:"profit"`
}

// BuildCampaignDetail computes the campaign KPIs over every given lead and
// applies the filter to the lead list only. leads are the campaign's
// non-deleted leads; history holds every entry of those leads.
func BuildCampaignDetail(c Campaign, leads []Lead, history []LeadContract, filter StatusFilter) CampaignDetail {
	type leadHistory struct {
		active bool
		any    bool
	}
	byLead := make(map[string]*leadHistory, len(leads))
	for _, l := range leads {
		byLead[l.ID] = &leadHistory{}
	}

	revenue := decimal.Zero
	for _, h := range history {
		lh, ok := byLead[h.LeadID]
		if !ok {
			continue
		}
		lh.any = true
		if !h.IsDeleted {
			lh.active = true
		}
		revenue = revenue.Add(h.Amount)
	}

	d := CampaignDetail{
		Campaign:     c,
		Filter:       filter,
		Leads:        make([]CampaignLead, 0, len(leads)),
		TotalLeads:   len(leads),
		TotalRevenue: revenue,
		Profit:       ROI(revenue, c.Budget),
	}
	for _, l := range leads {
		lh := byLead[l.ID]
		if lh.active {
			d.TotalActiveClients++
		}
		class := ClassifyLead(l.Status, lh.active, lh.any)
		if filter.Matches(class) {
			d.Leads = append(d.Leads, CampaignLead{Lead: l, Class: class})
		}
	}
	return d
}
