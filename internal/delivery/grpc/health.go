package grpc

import (
	"context"
	"time"

	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	"github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthProbeTimeout = 2 * time.Second

// HealthProbe keeps the gRPC health status in step with the store.
type HealthProbe struct {
	srv      *health.Server
	checker  repository.HealthChecker
	interval time.Duration
	l        logger.Logger
}

func NewHealthProbe(srv *health.Server, checker repository.HealthChecker, interval time.Duration, l logger.Logger) *HealthProbe {
	return &HealthProbe{
		srv:      srv,
		checker:  checker,
		interval: interval,
		l:        l,
	}
}

// Run probes until ctx is done, then reports NOT_SERVING.
func (p *HealthProbe) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.probe(ctx)
	for {
		select {
		case <-ctx.Done():
			p.srv.Shutdown()
			return nil
		case <-ticker.C:
			p.probe(ctx)
		}
	}
}

func (p *HealthProbe) probe(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	st := healthpb.HealthCheckResponse_SERVING
	if err := p.checker.Ping(pctx); err != nil {
		p.l.Warnf(ctx, "delivery.grpc.HealthProbe.probe: %v", err)
		st = healthpb.HealthCheckResponse_NOT_SERVING
	}

	p.srv.SetServingStatus("", st)
	p.srv.SetServingStatus(TicketingServiceName, st)
}
