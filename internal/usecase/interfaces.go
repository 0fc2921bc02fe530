package usecase

import (
	"context"
	"time"

	"github.com/Nicksok2413/CRM/internal/infra/queue"
)

// ReportCache is a best-effort read-through store. A miss is (false, nil).
type ReportCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type QueueProducerInterface interface {
	PublishLeadAssigned(ctx context.Context, payload queue.LeadAssignedPayload) error
	PublishContractsExpiring(ctx context.Context, payload queue.ContractsExpiringPayload) error
}
