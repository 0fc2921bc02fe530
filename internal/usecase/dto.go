package usecase

import "github.com/shopspring/decimal"

type CreateServiceInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
}

type CreateCampaignInput struct {
	Name      string          `json:"name"`
	Channel   string          `json:"channel"`
	Budget    decimal.Decimal `json:"budget"`
	ServiceID string          `json:"service_id"`
}

type CreateContractInput struct {
	Name      string          `json:"name"`
	ServiceID string          `json:"service_id"`
	Amount    decimal.Decimal `json:"amount"`
	StartDate string          `json:"start_date"`
	EndDate   string          `json:"end_date"`
}

type CreateLeadInput struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	CampaignID string `json:"campaign_id"`
	ManagerID  string `json:"manager_id"`
}

type CheckDuplicatesInput struct {
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	ExcludeID string `json:"exclude_id"`
}

type CheckDuplicatesOutput struct {
	EmailTaken bool `json:"email_taken"`
	PhoneTaken bool `json:"phone_taken"`
}

type ListLeadsInput struct {
	CampaignID string
	Sort       string
	Limit      int
	Offset     int
}

type ActivateCustomerInput struct {
	LeadID     string `json:"lead_id"`
	ContractID string `json:"contract_id"`
}

type DeactivateCustomerOutput struct {
	EntryID        string `json:"entry_id"`
	LeadID         string `json:"lead_id"`
	Deactivated    bool   `json:"deactivated"`
	StatusReverted bool   `json:"status_reverted"`
}

type CampaignStatsInput struct {
	Channel    string
	ServiceID  string
	Sort       string
	WithProfit bool
}

type NotifyExpiringOutput struct {
	Contracts int `json:"contracts"`
	Managers  int `json:"managers"`
	Failed    int `json:"failed"`
}
