package mail

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestRenderLeadAssigned_MissingFieldsShowNotProvided(t *testing.T) {
	e, err := renderLeadAssigned(queue.LeadAssignedPayload{
		ManagerEmail: "olga@crm.local",
		ManagerName:  "Olga",
		LeadName:     "Ivanova Anna",
		LeadEmail:    "anna@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "olga@crm.local", e.To)
	assert.Contains(t, e.Subject, "Ivanova Anna")
	assert.Contains(t, e.Body, "Phone: not provided")
	assert.Contains(t, e.Body, "Campaign: not provided")
}

func TestRenderContractsExpiring_ListsEveryContract(t *testing.T) {
	e, err := renderContractsExpiring(queue.ContractsExpiringPayload{
		ManagerEmail: "olga@crm.local",
		EndDate:      "2026-10-22",
		Contracts: []queue.ExpiringItem{
			{ContractName: "Audit", ClientName: "Petrov Ivan"},
			{ContractName: "Hosting", ClientName: "Sidorova Maria"},
		},
	})

	require.NoError(t, err)
	assert.Contains(t, e.Body, "Audit (client: Petrov Ivan)")
	assert.Contains(t, e.Body, "Hosting (client: Sidorova Maria)")
}

func TestRender_NoRecipient(t *testing.T) {
	_, err := renderLeadAssigned(queue.LeadAssignedPayload{})
	assert.ErrorIs(t, err, ErrNoRecipient)
}

func TestSendLeadAssigned_UsesDialer(t *testing.T) {
	d := &recordingDialer{}
	s := &EmailSender{From: "crm@crm.local", Dialer: d}

	err := s.SendLeadAssigned(queue.LeadAssignedPayload{ManagerEmail: "olga@crm.local", LeadName: "X"})

	require.NoError(t, err)
	require.Len(t, d.sent, 1)
	assert.Equal(t, []string{"olga@crm.local"}, d.sent[0].GetHeader("To"))

	var buf bytes.Buffer
	_, err = d.sent[0].WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "crm@crm.local")
}

func TestSend_WrapsSMTPError(t *testing.T) {
	smtpErr := errors.New("connection refused")
	s := &EmailSender{From: "crm@crm.local", Dialer: &recordingDialer{err: smtpErr}}

	err := s.SendContractsExpiring(queue.ContractsExpiringPayload{ManagerEmail: "olga@crm.local"})

	assert.ErrorIs(t, err, smtpErr)
}
