package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/vogiaan1904/ticketbottle-ticketing/config"
	grpcSvc "github.com/vogiaan1904/ticketbottle-ticketing/internal/delivery/grpc"
	httpDelivery "github.com/vogiaan1904/ticketbottle-ticketing/internal/delivery/http"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/delivery/kafka/consumer"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/dispatcher"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/gateway"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/infra/postgres"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/infra/redis"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/repository"
	pgrepo "github.com/vogiaan1904/ticketbottle-ticketing/internal/repository/postgres"
	redisrepo "github.com/vogiaan1904/ticketbottle-ticketing/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-ticketing/internal/service"
	pkgKafka "github.com/vogiaan1904/ticketbottle-ticketing/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-ticketing/pkg/logger"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const (
	shutdownTimeout     = 10 * time.Second
	healthProbeInterval = 10 * time.Second
)

type stores struct {
	tickets       repository.TicketRepository
	registrations repository.RegistrationRepository
	orders        repository.OrderRepository
	health        repository.HealthChecker
	close         func()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	l := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
	})

	st, err := openStores(ctx, cfg, l)
	if err != nil {
		l.Fatalf(ctx, "Failed to open %s store: %v", cfg.Store.Driver, err)
	}
	defer st.close()

	// Ticket-issued notifications
	var notifier dispatcher.Notifier = dispatcher.NewLogNotifier(l)
	if cfg.Kafka.Enabled {
		kSyncProd, err := pkgKafka.NewProducer(pkgKafka.ProducerConfig{
			Brokers:      cfg.Kafka.Brokers,
			ClientID:     "ticketing-service",
			RetryMax:     cfg.Kafka.ProducerRetryMax,
			RequiredAcks: cfg.Kafka.ProducerRequiredAcks,
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		prod := producer.NewProducer(kSyncProd, l)
		defer func() {
			if err := prod.Close(); err != nil {
				l.Errorf(ctx, "Failed to close Kafka producer: %v", err)
			}
		}()
		notifier = prod
	}
	disp := dispatcher.New(notifier, cfg.Dispatcher, l)

	ids, err := service.NewIDGenerator(cfg.Ticket.NodeID)
	if err != nil {
		l.Fatalf(ctx, "Failed to initialize ID generator: %v", err)
	}

	// Initialize services
	ticketSvc := service.NewTicketService(st.tickets, st.registrations, st.orders, disp, ids, cfg.Payment, l)
	checkInSvc := service.NewCheckInService(st.tickets, l)
	regSvc := service.NewRegistrationService(st.registrations, ids, l)
	orderSvc := service.NewOrderService(st.orders, gateway.NewClient(cfg.Payment, l), ids, cfg.Payment, l)
	authSvc := service.NewAuthService(cfg.Admin, l)

	disp.Start()

	g, gctx := errgroup.WithContext(ctx)

	// Gateway notification relay
	if cfg.Kafka.Enabled && cfg.Kafka.RelayEnabled {
		kConsGrCli, err := pkgKafka.NewConsumer(pkgKafka.ConsumerConfig{
			Brokers:  cfg.Kafka.Brokers,
			GroupID:  cfg.Kafka.ConsumerGroupID,
			ClientID: "ticketing-service",
		})
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka consumer: %v", err)
		}
		g.Go(func() error {
			return runRelay(gctx, kConsGrCli, ticketSvc, l)
		})
	}

	// gRPC server
	lnr, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRpcPort))
	if err != nil {
		l.Fatalf(ctx, "gRPC server failed to listen: %v", err)
	}

	gRpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcSvc.LoggingInterceptor(l),
		grpcSvc.AdminAuthInterceptor(authSvc),
	))
	grpcSvc.RegisterTicketingServer(gRpcSrv, grpcSvc.NewGrpcService(ticketSvc, checkInSvc, l))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(gRpcSrv, healthSrv)

	g.Go(func() error {
		return grpcSvc.NewHealthProbe(healthSrv, st.health, healthProbeInterval, l).Run(gctx)
	})
	g.Go(func() error {
		l.Infof(ctx, "gRPC server is listening on port: %d", cfg.Server.GRpcPort)
		return gRpcSrv.Serve(lnr)
	})
	g.Go(func() error {
		<-gctx.Done()
		gRpcSrv.GracefulStop()
		return nil
	})

	// http server
	h := httpDelivery.NewHTTPHandler(httpDelivery.Services{
		Tickets:       ticketSvc,
		CheckIns:      checkInSvc,
		Registrations: regSvc,
		Orders:        orderSvc,
		Auth:          authSvc,
	}, st.health, l)

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:      httpDelivery.NewRouter(h, cfg.Server.CORSOrigins),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g.Go(func() error {
		l.Infof(ctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	if err := waitThenDrain(disp, g.Wait); err != nil {
		l.Errorf(ctx, "Server stopped with error: %v", err)
	}

	l.Info(ctx, "Server exited")
}

func openStores(ctx context.Context, cfg *config.Config, l pkgLog.Logger) (*stores, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.Connect(ctx, cfg.Postgres, l)
		if err != nil {
			return nil, err
		}
		return &stores{
			tickets:       pgrepo.NewTicketRepository(pool, l),
			registrations: pgrepo.NewRegistrationRepository(pool, l),
			orders:        pgrepo.NewOrderRepository(pool, l),
			health:        pgrepo.NewHealthChecker(pool),
			close:         func() { postgres.Disconnect(context.Background(), pool, l) },
		}, nil
	default:
		cli, err := redis.Connect(ctx, cfg.Redis, l)
		if err != nil {
			return nil, err
		}
		return &stores{
			tickets:       redisrepo.NewTicketRepository(cli, l),
			registrations: redisrepo.NewRegistrationRepository(cli, l),
			orders:        redisrepo.NewOrderRepository(cli, l),
			health:        redisrepo.NewHealthChecker(cli),
			close:         func() { redis.Disconnect(context.Background(), cli, l) },
		}, nil
	}
}

// waitThenDrain stops disp only after wait returns, so requests finishing
// during server shutdown can still queue notifications.
func waitThenDrain(disp *dispatcher.Dispatcher, wait func() error) error {
	defer disp.Stop()
	return wait()
}

func runRelay(ctx context.Context, consGr sarama.ConsumerGroup, ticketSvc service.TicketService, l pkgLog.Logger) error {
	cons := consumer.NewConsumer(consGr, ticketSvc, l)
	if err := cons.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return cons.Close()
}
