package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContractHistoryEntry records one episode of a lead being an active customer
// under a contract. A non-deleted entry is the lead's current customer link.
type ContractHistoryEntry struct {
	ID         string  `json:"id" db:"id"`
	LeadID     string  `json:"lead_id" db:"lead_id"`
	ContractID string  `json:"contract_id" db:"contract_id"`
	CreatedBy  *string `json:"created_by,omitempty" db:"created_by"`
	Archivable
}

func NewContractHistoryEntry(leadID, contractID string, actor Actor) *ContractHistoryEntry {
	e := &ContractHistoryEntry{
		ID:         uuid.New().String(),
		LeadID:     leadID,
		ContractID: contractID,
		Archivable: newArchivable(time.Now().UTC()),
	}
	if actor.ID != "" && actor.Role != RoleSystem {
		id := actor.ID
		e.CreatedBy = &id
	}
	return e
}

func (e *ContractHistoryEntry) Ref() Ref {
	return Ref{Kind: "customer", ID: e.ID, Label: e.ContractID, Deleted: e.IsDeleted}
}

// LeadContract is one history entry of a lead joined with its contract amount.
type LeadContract struct {
	EntryID    string          `db:"entry_id"`
	LeadID     string          `db:"lead_id"`
	ContractID string          `db:"contract_id"`
	IsDeleted  bool            `db:"is_deleted"`
	Amount     decimal.Decimal `db:"amount"`
}

type CustomerRepositoryInterface interface {
	Create(ctx context.Context, e *ContractHistoryEntry) error
	FindByID(ctx context.Context, id string, scope Scope) (*ContractHistoryEntry, error)
	// FindByIDForUpdate locks the entry row, deleted or not, for the current transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*ContractHistoryEntry, error)
	// FindActiveByContract returns the non-deleted entry backed by the contract, or ErrNotFound.
	FindActiveByContract(ctx context.Context, contractID string) (*ContractHistoryEntry, error)
	ListByLead(ctx context.Context, leadID string, scope Scope) ([]ContractHistoryEntry, error)
	ListByContract(ctx context.Context, contractID string, scope Scope) ([]ContractHistoryEntry, error)
	// ListContractsForLeads loads every entry, deleted or not, of the given leads in one query.
	ListContractsForLeads(ctx context.Context, leadIDs []string) ([]LeadContract, error)
	CountActiveByLead(ctx context.Context, leadID string) (int, error)
	UpdateDeletion(ctx context.Context, e *ContractHistoryEntry) error
}
