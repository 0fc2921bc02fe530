package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func fact(c Campaign, leadID, entryID string, deleted bool, amount string) CampaignFact {
	f := CampaignFact{Campaign: c}
	if leadID != "" {
		f.LeadID = strPtr(leadID)
	}
	if entryID != "" {
		f.EntryID = strPtr(entryID)
		f.EntryDeleted = boolPtr(deleted)
		f.ContractAmount = decimal.NewNullDecimal(dec(amount))
	}
	return f
}

func TestAggregateCampaigns_ThreeLeadsTwoCustomers(t *testing.T) {
	c := Campaign{ID: "c1", Name: "Spring", Budget: dec("1000.00")}
	facts := []CampaignFact{
		fact(c, "l1", "e1", false, "750.00"),
		fact(c, "l2", "e2", false, "1250.00"),
		fact(c, "l3", "", false, ""),
	}

	stats := AggregateCampaigns(facts, true)

	require.Len(t, stats, 1)
	s := stats[0]
	assert.Equal(t, 3, s.LeadsCount)
	assert.Equal(t, 2, s.CustomersCount)
	assert.True(t, s.TotalRevenue.Equal(dec("2000.00")))
	require.NotNil(t, s.Profit)
	require.True(t, s.Profit.Valid)
	assert.True(t, s.Profit.Decimal.Equal(dec("200.00")))
}

func TestAggregateCampaigns_SoftDeletedLeadNotJoined(t *testing.T) {
	c := Campaign{ID: "c1", Budget: dec("1000.00")}
	// the store joins only non-deleted leads, so l3 is simply absent
	facts := []CampaignFact{
		fact(c, "l1", "e1", false, "750.00"),
		fact(c, "l2", "e2", false, "1250.00"),
	}

	s := AggregateCampaigns(facts, true)[0]

	assert.Equal(t, 2, s.LeadsCount)
	assert.Equal(t, 2, s.CustomersCount)
	assert.True(t, s.TotalRevenue.Equal(dec("2000.00")))
	assert.True(t, s.Profit.Decimal.Equal(dec("200.00")))
}

func TestAggregateCampaigns_DeletedEntriesIgnored(t *testing.T) {
	c := Campaign{ID: "c1", Budget: dec("500")}
	facts := []CampaignFact{
		fact(c, "l1", "e1", true, "300"),
		fact(c, "l1", "e2", false, "100"),
		fact(c, "l2", "e3", true, "900"),
	}

	s := AggregateCampaigns(facts, false)[0]

	assert.Equal(t, 2, s.LeadsCount)
	assert.Equal(t, 1, s.CustomersCount)
	assert.True(t, s.TotalRevenue.Equal(dec("100")))
	assert.Nil(t, s.Profit)
}

func TestAggregateCampaigns_NoLeadsRevenueIsZero(t *testing.T) {
	facts := []CampaignFact{
		{Campaign: Campaign{ID: "c1", Budget: dec("0")}},
		{Campaign: Campaign{ID: "c2", Budget: dec("10")}},
	}

	stats := AggregateCampaigns(facts, true)

	require.Len(t, stats, 2)
	assert.Equal(t, "c1", stats[0].ID)
	assert.Equal(t, "c2", stats[1].ID)
	for _, s := range stats {
		assert.Equal(t, 0, s.LeadsCount)
		assert.True(t, s.TotalRevenue.IsZero())
		assert.Equal(t, "0", s.TotalRevenue.String())
	}
	assert.False(t, stats[0].Profit.Valid, "zero budget has no profit")
	assert.True(t, stats[1].Profit.Valid)
	assert.True(t, stats[1].Profit.Decimal.IsZero())
}

func TestROI(t *testing.T) {
	assert.False(t, ROI(dec("100"), decimal.Zero).Valid)
	assert.False(t, ROI(decimal.Zero, decimal.Zero).Valid)

	r := ROI(dec("1"), dec("3"))
	require.True(t, r.Valid)
	assert.Equal(t, "33.33", r.Decimal.StringFixed(2))
}

func TestSortByProfit_UndefinedLast(t *testing.T) {
	p := func(s string) *decimal.NullDecimal {
		if s == "" {
			return &decimal.NullDecimal{}
		}
		v := decimal.NewNullDecimal(dec(s))
		return &v
	}
	stats := []CampaignStats{
		{Campaign: Campaign{ID: "none"}, Profit: p("")},
		{Campaign: Campaign{ID: "low"}, Profit: p("10")},
		{Campaign: Campaign{ID: "high"}, Profit: p("250")},
	}

	SortByProfit(stats, true)
	assert.Equal(t, []string{"high", "low", "none"}, ids(stats))

	SortByProfit(stats, false)
	assert.Equal(t, []string{"low", "high", "none"}, ids(stats))
}

func ids(stats []CampaignStats) []string {
	out := make([]string, len(stats))
	for i, s := range stats {
		out[i] = s.ID
	}
	return out
}

func TestParseStatusFilter(t *testing.T) {
	f, err := ParseStatusFilter("  Active ")
	require.NoError(t, err)
	assert.Equal(t, FilterActive, f)

	f, err = ParseStatusFilter("")
	require.NoError(t, err)
	assert.Equal(t, "all", f.CacheKey())

	_, err = ParseStatusFilter("customers")
	assert.ErrorIs(t, err, ErrInvalidStatusFilter)
}

func TestClassifyLead(t *testing.T) {
	assert.Equal(t, ClassActive, ClassifyLead(LeadStatusConverted, true, true))
	// past customer back in work
	assert.Equal(t, ClassArchived, ClassifyLead(LeadStatusInProgress, false, true))
	// lost without ever buying
	assert.Equal(t, ClassArchived, ClassifyLead(LeadStatusLost, false, false))
	assert.Equal(t, ClassInWork, ClassifyLead(LeadStatusNew, false, false))
	assert.Equal(t, ClassInWork, ClassifyLead(LeadStatusInProgress, false, false))
}

func detailFixture() (Campaign, []Lead, []LeadContract) {
	c := Campaign{ID: "c1", Budget: dec("1000")}
	leads := []Lead{
		{ID: "active", Status: LeadStatusConverted},
		{ID: "past", Status: LeadStatusInProgress},
		{ID: "lost", Status: LeadStatusLost},
		{ID: "fresh", Status: LeadStatusNew},
		{ID: "working", Status: LeadStatusInProgress},
	}
	history := []LeadContract{
		{EntryID: "e1", LeadID: "active", IsDeleted: false, Amount: dec("400")},
		{EntryID: "e0", LeadID: "active", IsDeleted: true, Amount: dec("100")},
		{EntryID: "e2", LeadID: "past", IsDeleted: true, Amount: dec("250")},
		{EntryID: "x", LeadID: "other-campaign", IsDeleted: false, Amount: dec("9999")},
	}
	return c, leads, history
}

func TestBuildCampaignDetail_KPIsIgnoreFilter(t *testing.T) {
	c, leads, history := detailFixture()

	for _, f := range []StatusFilter{FilterAll, FilterActive, FilterArchived, FilterInWork} {
		d := BuildCampaignDetail(c, leads, history, f)
		assert.Equal(t, 5, d.TotalLeads, f)
		assert.Equal(t, 1, d.TotalActiveClients, f)
		assert.True(t, d.TotalRevenue.Equal(dec("750")), f)
		require.True(t, d.Profit.Valid)
		assert.True(t, d.Profit.Decimal.Equal(dec("75")), f)
	}
}

func TestBuildCampaignDetail_ArchivedHistoryCountsInRevenue(t *testing.T) {
	c := Campaign{ID: "c1", Budget: dec("0")}
	leads := []Lead{{ID: "l1", Status: LeadStatusInProgress}}
	history := []LeadContract{{EntryID: "e1", LeadID: "l1", IsDeleted: true, Amount: dec("320.50")}}

	d := BuildCampaignDetail(c, leads, history, FilterArchived)

	require.Len(t, d.Leads, 1)
	assert.Equal(t, ClassArchived, d.Leads[0].Class)
	assert.True(t, d.TotalRevenue.Equal(dec("320.50")))
	assert.Equal(t, 0, d.TotalActiveClients)
	assert.False(t, d.Profit.Valid)
}

func TestBuildCampaignDetail_LostWithoutHistoryIsArchived(t *testing.T) {
	c := Campaign{ID: "c1", Budget: dec("10")}
	leads := []Lead{{ID: "l1", Status: LeadStatusLost}}

	archived := BuildCampaignDetail(c, leads, nil, FilterArchived)
	inWork := BuildCampaignDetail(c, leads, nil, FilterInWork)

	assert.Len(t, archived.Leads, 1)
	assert.Empty(t, inWork.Leads)
	assert.True(t, archived.TotalRevenue.IsZero())
}

func TestBuildCampaignDetail_FiltersPartitionLeads(t *testing.T) {
	c, leads, history := detailFixture()

	all := leadIDs(BuildCampaignDetail(c, leads, history, FilterAll).Leads)
	seen := make(map[string]StatusFilter)
	for _, f := range []StatusFilter{FilterActive, FilterArchived, FilterInWork} {
		for _, id := range leadIDs(BuildCampaignDetail(c, leads, history, f).Leads) {
			prev, dup := seen[id]
			assert.False(t, dup, "lead %s in both %s and %s", id, prev, f)
			seen[id] = f
		}
	}

	assert.Len(t, seen, len(all))
	for _, id := range all {
		assert.Contains(t, seen, id)
	}
	assert.Equal(t, FilterActive, seen["active"])
	assert.Equal(t, FilterArchived, seen["past"])
	assert.Equal(t, FilterArchived, seen["lost"])
	assert.Equal(t, FilterInWork, seen["fresh"])
	assert.Equal(t, FilterInWork, seen["working"])
}

func TestBuildCampaignDetail_Deterministic(t *testing.T) {
	c, leads, history := detailFixture()

	first := BuildCampaignDetail(c, leads, history, FilterAll)
	second := BuildCampaignDetail(c, leads, history, FilterAll)

	assert.Equal(t, first, second)
}

func leadIDs(ls []CampaignLead) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}
