package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Nicksok2413/CRM/internal/entity"
	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

func expiringRows() []entity.ExpiringContract {
	return []entity.ExpiringContract{
		{ContractID: "k1", ContractName: "Audit", LeadFirstName: "Anna", LeadLastName: "Ivanova",
			ManagerID: "m1", ManagerEmail: "petrov@example.com", ManagerUsername: "petrov", ManagerFirstName: "Ivan"},
		{ContractID: "k2", ContractName: "SEO", LeadFirstName: "Oleg", LeadLastName: "Sidorov",
			ManagerID: "m2", ManagerEmail: "smirnova@example.com", ManagerUsername: "smirnova"},
		{ContractID: "k3", ContractName: "Ads", LeadFirstName: "Olga", LeadLastName: "Orlova",
			ManagerID: "m1", ManagerEmail: "petrov@example.com", ManagerUsername: "petrov", ManagerFirstName: "Ivan"},
	}
}

func newNotifyUseCase(contracts *MockContractRepository, producer *MockQueueProducer) *NotifyExpiringContractsUseCase {
	uc := NewNotifyExpiringContractsUseCase(contracts, producer, 7, logger.NewNop())
	uc.Now = func() time.Time { return time.Date(2026, 5, 10, 23, 30, 0, 0, time.UTC) }
	return uc
}

func TestNotifyExpiring_GroupsByManager(t *testing.T) {
	contracts := new(MockContractRepository)
	producer := new(MockQueueProducer)
	endDate := time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)
	contracts.On("ListExpiring", mock.Anything, endDate).Return(expiringRows(), nil)

	var sent []queue.ContractsExpiringPayload
	producer.On("PublishContractsExpiring", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = append(sent, args.Get(1).(queue.ContractsExpiringPayload)) }).
		Return(nil)

	out, err := newNotifyUseCase(contracts, producer).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, &NotifyExpiringOutput{Contracts: 3, Managers: 2}, out)
	require.Len(t, sent, 2)
	assert.Equal(t, "Ivan", sent[0].ManagerName)
	assert.Equal(t, "2026-05-17", sent[0].EndDate)
	assert.Equal(t, []queue.ExpiringItem{
		{ContractName: "Audit", ClientName: "Ivanova Anna"},
		{ContractName: "Ads", ClientName: "Orlova Olga"},
	}, sent[0].Contracts)
	assert.Equal(t, "smirnova", sent[1].ManagerName)
}

func TestNotifyExpiring_UsesUTCDate(t *testing.T) {
	contracts := new(MockContractRepository)
	producer := new(MockQueueProducer)
	// 01:30 on May 11 in Moscow is still May 10 in UTC
	contracts.On("ListExpiring", mock.Anything, time.Date(2026, 5, 17, 0, 0, 0, 0, time.UTC)).
		Return([]entity.ExpiringContract{}, nil)
	uc := NewNotifyExpiringContractsUseCase(contracts, producer, 7, logger.NewNop())
	uc.Now = func() time.Time { return time.Date(2026, 5, 11, 1, 30, 0, 0, time.FixedZone("MSK", 3*60*60)) }

	_, err := uc.Execute(context.Background())

	require.NoError(t, err)
	contracts.AssertExpectations(t)
}

func TestNotifyExpiring_CountsFailures(t *testing.T) {
	contracts := new(MockContractRepository)
	producer := new(MockQueueProducer)
	contracts.On("ListExpiring", mock.Anything, mock.Anything).Return(expiringRows(), nil)
	producer.On("PublishContractsExpiring", mock.Anything, mock.MatchedBy(func(p queue.ContractsExpiringPayload) bool {
		return p.ManagerEmail == "petrov@example.com"
	})).Return(errors.New("channel closed"))
	producer.On("PublishContractsExpiring", mock.Anything, mock.Anything).Return(nil)

	out, err := newNotifyUseCase(contracts, producer).Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, out.Failed)
	producer.AssertNumberOfCalls(t, "PublishContractsExpiring", 2)
}

func TestNotifyExpiring_RerunSendsAgain(t *testing.T) {
	contracts := new(MockContractRepository)
	producer := new(MockQueueProducer)
	contracts.On("ListExpiring", mock.Anything, mock.Anything).Return(expiringRows()[:1], nil)
	producer.On("PublishContractsExpiring", mock.Anything, mock.Anything).Return(nil)
	uc := newNotifyUseCase(contracts, producer)

	for i := 0; i < 2; i++ {
		_, err := uc.Execute(context.Background())
		require.NoError(t, err)
	}

	producer.AssertNumberOfCalls(t, "PublishContractsExpiring", 2)
}

func TestNotifyExpiring_QueryFailure(t *testing.T) {
	contracts := new(MockContractRepository)
	contracts.On("ListExpiring", mock.Anything, mock.Anything).Return([]entity.ExpiringContract(nil), errors.New("db down"))

	_, err := newNotifyUseCase(contracts, new(MockQueueProducer)).Execute(context.Background())

	var terr *TechnicalError
	assert.ErrorAs(t, err, &terr)
}
