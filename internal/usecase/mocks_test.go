package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

// fakeTx runs fn directly and remembers whether it failed, standing in for a
// rollback.
type fakeTx struct {
	calls      int
	rolledBack bool
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	err := fn(ctx)
	f.rolledBack = err != nil
	return err
}

type MockServiceRepository struct{ mock.Mock }

func (m *MockServiceRepository) Create(ctx context.Context, s *entity.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Service, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Service), args.Error(1)
}

func (m *MockServiceRepository) NameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockServiceRepository) UpdateDeletion(ctx context.Context, s *entity.Service) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockServiceRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCampaignRepository struct{ mock.Mock }

func (m *MockCampaignRepository) Create(ctx context.Context, c *entity.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCampaignRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Campaign, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ListByService(ctx context.Context, serviceID string, scope entity.Scope) ([]entity.Campaign, error) {
	args := m.Called(ctx, serviceID, scope)
	return args.Get(0).([]entity.Campaign), args.Error(1)
}

func (m *MockCampaignRepository) ListFacts(ctx context.Context, filter entity.CampaignFilter) ([]entity.CampaignFact, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.CampaignFact), args.Error(1)
}

func (m *MockCampaignRepository) UpdateDeletion(ctx context.Context, c *entity.Campaign) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCampaignRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockLeadRepository struct{ mock.Mock }

func (m *MockLeadRepository) Create(ctx context.Context, l *entity.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Lead, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindByIDForUpdate(ctx context.Context, id string, scope entity.Scope) (*entity.Lead, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) List(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) ListByCampaign(ctx context.Context, campaignID string, scope entity.Scope) ([]entity.Lead, error) {
	args := m.Called(ctx, campaignID, scope)
	return args.Get(0).([]entity.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindDuplicates(ctx context.Context, email, phone, excludeID string) (bool, bool, error) {
	args := m.Called(ctx, email, phone, excludeID)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *MockLeadRepository) UpdateStatus(ctx context.Context, id string, status entity.LeadStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockLeadRepository) UpdateDeletion(ctx context.Context, l *entity.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockContractRepository struct{ mock.Mock }

func (m *MockContractRepository) Create(ctx context.Context, c *entity.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.Contract, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contract), args.Error(1)
}

func (m *MockContractRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Contract), args.Error(1)
}

func (m *MockContractRepository) ListByService(ctx context.Context, serviceID string, scope entity.Scope) ([]entity.Contract, error) {
	args := m.Called(ctx, serviceID, scope)
	return args.Get(0).([]entity.Contract), args.Error(1)
}

func (m *MockContractRepository) ListExpiring(ctx context.Context, endDate time.Time) ([]entity.ExpiringContract, error) {
	args := m.Called(ctx, endDate)
	return args.Get(0).([]entity.ExpiringContract), args.Error(1)
}

func (m *MockContractRepository) UpdateDeletion(ctx context.Context, c *entity.Contract) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockContractRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Create(ctx context.Context, e *entity.ContractHistoryEntry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id string, scope entity.Scope) (*entity.ContractHistoryEntry, error) {
	args := m.Called(ctx, id, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ContractHistoryEntry), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id string) (*entity.ContractHistoryEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ContractHistoryEntry), args.Error(1)
}

func (m *MockCustomerRepository) FindActiveByContract(ctx context.Context, contractID string) (*entity.ContractHistoryEntry, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ContractHistoryEntry), args.Error(1)
}

func (m *MockCustomerRepository) ListByLead(ctx context.Context, leadID string, scope entity.Scope) ([]entity.ContractHistoryEntry, error) {
	args := m.Called(ctx, leadID, scope)
	return args.Get(0).([]entity.ContractHistoryEntry), args.Error(1)
}

func (m *MockCustomerRepository) ListByContract(ctx context.Context, contractID string, scope entity.Scope) ([]entity.ContractHistoryEntry, error) {
	args := m.Called(ctx, contractID, scope)
	return args.Get(0).([]entity.ContractHistoryEntry), args.Error(1)
}

func (m *MockCustomerRepository) ListContractsForLeads(ctx context.Context, leadIDs []string) ([]entity.LeadContract, error) {
	args := m.Called(ctx, leadIDs)
	return args.Get(0).([]entity.LeadContract), args.Error(1)
}

func (m *MockCustomerRepository) CountActiveByLead(ctx context.Context, leadID string) (int, error) {
	args := m.Called(ctx, leadID)
	return args.Int(0), args.Error(1)
}

func (m *MockCustomerRepository) UpdateDeletion(ctx context.Context, e *entity.ContractHistoryEntry) error {
	return m.Called(ctx, e).Error(0)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockQueueProducer struct{ mock.Mock }

func (m *MockQueueProducer) PublishLeadAssigned(ctx context.Context, p queue.LeadAssignedPayload) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockQueueProducer) PublishContractsExpiring(ctx context.Context, p queue.ContractsExpiringPayload) error {
	return m.Called(ctx, p).Error(0)
}

// memoryCache is a ReportCache storing values as the encoded form a real
// cache would, so reads exercise the round trip.
type memoryCache struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	gets    int
	setKeys []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	c.gets++
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	c.setKeys = append(c.setKeys, key)
	if c.setErr != nil {
		return c.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}
