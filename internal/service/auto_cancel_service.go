package service

import (
	"context"
	"time"

	"github.com/thread-next/internal/cache"
	"github.com/thread-next/internal/constants"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/repository"
)

const sweepBatchLimit = 200

// AutoCancelService expires unpaid non-COD orders that sat in pending
// for longer than the configured window. It runs from the worker ticker
// and from the admin trigger endpoint; the gate keeps overlapping
// triggers from sweeping twice within the minimum interval.
type AutoCancelService struct {
	orderRepo     repository.OrderRepository
	statusService *OrderStatusService
	gate          cache.SweepGate
	afterHours    int
	interval      time.Duration
	now           func() time.Time
}

// NewAutoCancelService creates an auto-cancel service.
func NewAutoCancelService(
	orderRepo repository.OrderRepository,
	statusService *OrderStatusService,
	gate cache.SweepGate,
	afterHours int,
	intervalMinutes int,
) *AutoCancelService {
	if afterHours <= 0 {
		afterHours = constants.AutoCancelAfterHours
	}
	if intervalMinutes <= 0 {
		intervalMinutes = constants.AutoCancelSweepIntervalMin
	}
	if gate == nil {
		gate = cache.NewMemorySweepGate()
	}
	return &AutoCancelService{
		orderRepo:     orderRepo,
		statusService: statusService,
		gate:          gate,
		afterHours:    afterHours,
		interval:      time.Duration(intervalMinutes) * time.Minute,
		now:           time.Now,
	}
}

// WithClock overrides the clock, for tests.
func (s *AutoCancelService) WithClock(now func() time.Time) *AutoCancelService {
	if now != nil {
		s.now = now
	}
	return s
}

// SweepResult summarizes one sweep run.
type SweepResult struct {
	Ran       bool `json:"ran"`
	Scanned   int  `json:"scanned"`
	Cancelled int  `json:"cancelled"`
	Failed    int  `json:"failed"`
}

// RunSweep cancels every pending, unpaid, non-COD order older than the
// window. Each order compensates in its own transaction so one corrupt
// order cannot block the rest of the batch; failures are logged and
// skipped, not retried within the run. A call inside the minimum
// interval is a no-op.
func (s *AutoCancelService) RunSweep(ctx context.Context) (SweepResult, error) {
	acquired, err := s.gate.TryAcquire(ctx, constants.SweepGateKey, s.interval)
	if err != nil {
		return SweepResult{}, err
	}
	if !acquired {
		logger.Debugw("auto_cancel_sweep_skipped", "reason", "interval_gate")
		return SweepResult{Ran: false}, nil
	}

	cutoff := s.now().Add(-time.Duration(s.afterHours) * time.Hour)
	candidates, err := s.orderRepo.ListAutoCancelCandidates(cutoff, sweepBatchLimit)
	if err != nil {
		return SweepResult{Ran: true}, err
	}

	result := SweepResult{Ran: true, Scanned: len(candidates)}
	for i := range candidates {
		order := &candidates[i]
		if _, cancelErr := s.statusService.Cancel(order.ID, constants.AutoCancelNote); cancelErr != nil {
			result.Failed++
			logger.Errorw("auto_cancel_order_failed",
				"order_id", order.ID,
				"order_no", order.OrderNo,
				"error", cancelErr,
			)
			continue
		}
		result.Cancelled++
	}

	logger.Infow("auto_cancel_sweep_finished",
		"scanned", result.Scanned,
		"cancelled", result.Cancelled,
		"failed", result.Failed,
	)
	return result, nil
}
