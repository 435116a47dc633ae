package worker

import (
	"context"
	"errors"
	"time"

	"github.com/thread-next/internal/config"
	"github.com/thread-next/internal/logger"
	"github.com/thread-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service is the async queue worker. Besides consuming tasks it drives
// the periodic auto-cancel sweep; the sweep's own interval gate keeps
// the ticker and admin triggers from overlapping.
type Service struct {
	name          string
	server        *asynq.Server
	mux           *asynq.ServeMux
	consumer      *Consumer
	sweepInterval time.Duration
}

// NewService creates the worker service.
func NewService(cfg *config.QueueConfig, consumer *Consumer, sweepIntervalMinutes int) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	if sweepIntervalMinutes <= 0 {
		sweepIntervalMinutes = 10
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:          "worker",
		server:        server,
		mux:           mux,
		consumer:      consumer,
		sweepInterval: time.Duration(sweepIntervalMinutes) * time.Minute,
	}, nil
}

// Name returns the service name.
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start runs the worker until the server stops.
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.AutoCancelService != nil {
		go s.runAutoCancelLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop shuts the worker down.
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

func (s *Service) runAutoCancelLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.AutoCancelService == nil {
		return
	}
	runOnce := func() {
		if _, err := s.consumer.AutoCancelService.RunSweep(ctx); err != nil {
			logger.Warnw("worker_auto_cancel_loop_failed", "error", err)
		}
	}
	runOnce()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
