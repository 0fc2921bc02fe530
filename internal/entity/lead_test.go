package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLead_StartsNew(t *testing.T) {
	l := NewLead("Anna", "Ivanova", "anna@example.com", "", nil, nil)

	assert.NotEmpty(t, l.ID)
	assert.Equal(t, LeadStatusNew, l.Status)
	assert.False(t, l.Deleted())
	assert.Equal(t, "Ivanova Anna", l.FullName())
}

func TestParseLeadStatus(t *testing.T) {
	s, err := ParseLeadStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, LeadStatusInProgress, s)

	_, err = ParseLeadStatus("WON")
	assert.ErrorIs(t, err, ErrInvalidLeadStatus)
}

func TestLead_SetStatus(t *testing.T) {
	l := &Lead{Status: LeadStatusNew}

	changed, err := l.SetStatus(LeadStatusLost)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = l.SetStatus(LeadStatusLost)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = l.SetStatus("WON")
	assert.ErrorIs(t, err, ErrInvalidLeadStatus)
	assert.Equal(t, LeadStatusLost, l.Status)
}

func TestLead_Convert(t *testing.T) {
	l := &Lead{Status: LeadStatusInProgress}
	assert.True(t, l.Convert())
	assert.Equal(t, LeadStatusConverted, l.Status)
	assert.False(t, l.Convert())
}

func TestLead_RevertConversionOnlyFromConverted(t *testing.T) {
	for _, s := range []LeadStatus{LeadStatusNew, LeadStatusInProgress, LeadStatusLost} {
		l := &Lead{Status: s}
		assert.False(t, l.RevertConversion(), s)
		assert.Equal(t, s, l.Status)
	}

	l := &Lead{Status: LeadStatusConverted}
	assert.True(t, l.RevertConversion())
	assert.Equal(t, LeadStatusInProgress, l.Status)
}

func TestArchivable_ReportsEdgesOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var rec SoftDeletable = &ContractHistoryEntry{}

	assert.False(t, rec.Restore(now), "nothing to restore")
	assert.True(t, rec.SoftDelete(now))
	assert.True(t, rec.Deleted())
	assert.False(t, rec.SoftDelete(now.Add(time.Hour)), "already deleted")

	e := rec.(*ContractHistoryEntry)
	require.NotNil(t, e.DeletedAt)
	assert.Equal(t, now, *e.DeletedAt)

	assert.True(t, rec.Restore(now))
	assert.Nil(t, e.DeletedAt)
	assert.False(t, rec.Deleted())
}

func TestActor_Capabilities(t *testing.T) {
	admin := Actor{ID: "1", Role: RoleAdmin}
	manager := Actor{ID: "m1", Role: RoleManager}
	marketer := Actor{ID: "k1", Role: RoleMarketer}

	assert.True(t, admin.Can(CapPurge))
	assert.False(t, manager.Can(CapPurge))
	assert.True(t, manager.Can(CapManageCustomers))
	assert.False(t, marketer.Can(CapViewLeads))
	assert.True(t, marketer.Can(CapViewStats))
	assert.True(t, SystemActor.Can(CapAddLead))
}

func TestLeadScope(t *testing.T) {
	manager := Actor{ID: "m1", Role: RoleManager}
	operator := Actor{ID: "o1", Role: RoleOperator}

	own := &Lead{ManagerID: strPtr("m1")}
	foreign := &Lead{ManagerID: strPtr("m2")}
	unassigned := &Lead{}

	assert.Equal(t, "m1", LeadScopeFor(manager))
	assert.Equal(t, "", LeadScopeFor(operator))
	assert.True(t, CanAccessLead(manager, own))
	assert.False(t, CanAccessLead(manager, foreign))
	assert.False(t, CanAccessLead(manager, unassigned))
	assert.True(t, CanAccessLead(operator, foreign))
}

func TestNewContractHistoryEntry_SystemActorNotRecorded(t *testing.T) {
	e := NewContractHistoryEntry("l1", "k1", SystemActor)
	assert.Nil(t, e.CreatedBy)

	e = NewContractHistoryEntry("l1", "k1", Actor{ID: "m1", Role: RoleManager})
	require.NotNil(t, e.CreatedBy)
	assert.Equal(t, "m1", *e.CreatedBy)
}
