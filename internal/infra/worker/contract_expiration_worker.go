package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Nicksok2413/CRM/internal/infra/logger"
	"github.com/Nicksok2413/CRM/internal/usecase"
)

const runTimeout = 5 * time.Minute

// ExpiringContractsNotifier is the job body, NotifyExpiringContractsUseCase in production.
type ExpiringContractsNotifier interface {
	Execute(ctx context.Context) (*usecase.NotifyExpiringOutput, error)
}

// ContractExpirationWorker runs the expiring contract scan on a cron schedule.
type ContractExpirationWorker struct {
	cron     *cron.Cron
	notifier ExpiringContractsNotifier
	log      *logger.Logger
}

func NewContractExpirationWorker(notifier ExpiringContractsNotifier, log *logger.Logger) *ContractExpirationWorker {
	return &ContractExpirationWorker{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		notifier: notifier,
		log:      log,
	}
}

// Start registers the job and starts the scheduler. It fails on a malformed schedule.
func (w *ContractExpirationWorker) Start(ctx context.Context, schedule string) error {
	if _, err := w.cron.AddFunc(schedule, func() { w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid contract expiration schedule %q: %w", schedule, err)
	}
	w.cron.Start()
	w.log.Info("contract expiration worker started", "schedule", schedule)
	return nil
}

// Stop waits for a running scan to finish.
func (w *ContractExpirationWorker) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("contract expiration worker stopped")
}

func (w *ContractExpirationWorker) RunOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	out, err := w.notifier.Execute(ctx)
	if err != nil {
		w.log.Error("contract expiration scan failed", "error", err)
		return
	}
	if out.Failed > 0 {
		w.log.Warn("some expiration notices were not published", "failed", out.Failed, "managers", out.Managers)
	}
}
