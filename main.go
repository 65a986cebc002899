package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	appinventory "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/inventory"
	apporder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/order"
	appwallet "github.com/RahulSharma2309/sharma-ecommerce-go/internal/application/wallet"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/config"
	domaininventory "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/inventory"
	domainorder "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/order"
	domoutbox "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/outbox"
	domainpayment "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/payment"
	domainprofile "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/profile"
	domainwallet "github.com/RahulSharma2309/sharma-ecommerce-go/internal/domain/wallet"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/gateway"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/id"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/memory"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/outbox"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/postgres"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/infrastructure/telemetry"
	"github.com/RahulSharma2309/sharma-ecommerce-go/internal/observability"
	httppresentation "github.com/RahulSharma2309/sharma-ecommerce-go/internal/presentation/http"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.New()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger := telemetry.NewZapLogger(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)
	if s, ok := logger.(interface{ Sync() error }); ok {
		defer func() { _ = s.Sync() }()
	}

	tel := buildTelemetry(cfg, logger)
	idGen := id.NewGenerator()

	productRepo, walletRepo, profileRepo, orderRepo, paymentRepo, cleanup, err := buildStorage(cfg)
	if err != nil {
		logger.Error("storage_init_failed", observability.F("error", err.Error()))
		os.Exit(1)
	}
	defer cleanup()

	bus := outbox.NewBus(logger)
	bus.Start(context.Background())
	defer bus.Stop(context.Background())
	subscribeAudit(bus, logger)

	inventorySvc := appinventory.NewService(productRepo, idGen, logger)
	walletSvc := appwallet.NewService(profileRepo, walletRepo, paymentRepo, idGen, logger)

	var (
		inventoryGW apporder.InventoryGateway
		walletGW    apporder.WalletGateway
		profileGW   apporder.ProfileGateway
		recorder    apporder.PaymentRecorder
	)
	if cfg.RemoteGateways() {
		inventoryGW = gateway.NewInventoryClient(cfg.InventoryURL, cfg.GatewayTimeout, tel)
		wc := gateway.NewWalletClient(cfg.WalletURL, cfg.GatewayTimeout, tel)
		walletGW, profileGW, recorder = wc, wc, wc
		logger.Info("gateways_remote",
			observability.F("inventory_url", cfg.InventoryURL),
			observability.F("wallet_url", cfg.WalletURL),
		)
	} else {
		inventoryGW = gateway.NewLocalInventoryGateway(inventorySvc)
		walletGW = gateway.NewLocalWalletGateway(walletSvc)
		profileGW = gateway.NewLocalProfileGateway(walletSvc)
		recorder = gateway.NewLocalPaymentRecorder(walletSvc)
	}

	placeOrder := apporder.NewPlaceOrderUseCase(
		orderRepo, inventoryGW, walletGW, profileGW, recorder, idGen, bus, tel)
	orderSvc := apporder.NewService(placeOrder, orderRepo)

	handler := httppresentation.NewHandler(orderSvc, inventorySvc, walletSvc, logger, tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:    cfg.HTTPAddr(),
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("http_server_start",
			observability.F("addr", server.Addr),
			observability.F("storage", cfg.StorageBackend),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http_server_error", observability.F("error", err.Error()))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", observability.F("error", err.Error()))
	} else {
		logger.Info("http_server_stopped")
	}
}

func buildTelemetry(cfg *config.Config, logger observability.Logger) observability.Observability {
	reg := telemetry.NewRegistry("", nil)

	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: reg.Counter(observability.MUsecaseRequests,
			"Total number of use case invocations.", "use_case", "outcome"),
		observability.MSagaCompensations: reg.Counter(observability.MSagaCompensations,
			"Saga compensation steps by outcome.", "step", "outcome"),
		observability.MHTTPRequests: reg.Counter(observability.MHTTPRequests,
			"Total number of HTTP requests.", "method", "route", "status"),
		observability.MExternalRequests: reg.Counter(observability.MExternalRequests,
			"Total number of collaborator service calls.", "service", "operation", "outcome"),
	}
	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: reg.Histogram(observability.MUsecaseDuration,
			"Duration of use case execution in seconds.", nil, "use_case"),
		observability.MHTTPRequestDuration: reg.Histogram(observability.MHTTPRequestDuration,
			"Duration of HTTP requests in seconds.", nil, "method", "route", "status"),
		observability.MExternalRequestDuration: reg.Histogram(observability.MExternalRequestDuration,
			"Duration of collaborator service calls in seconds.", nil, "service", "operation", "outcome"),
	}

	return telemetry.New(telemetry.NewTracer(cfg.ServiceName), logger, counters, histograms)
}

func buildStorage(cfg *config.Config) (
	domaininventory.Repository,
	domainwallet.Repository,
	domainprofile.Directory,
	domainorder.Repository,
	domainpayment.Ledger,
	func(),
	error,
) {
	if cfg.StorageBackend == config.BackendPostgres {
		pool, err := postgres.Connect(cfg.DSN())
		if err != nil {
			return nil, nil, nil, nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, nil, nil, nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		return postgres.NewProductRepository(pool),
			postgres.NewWalletRepository(pool),
			postgres.NewProfileRepository(pool),
			postgres.NewOrderRepository(pool),
			postgres.NewPaymentRepository(pool),
			pool.Close,
			nil
	}

	return memory.NewProductRepository(),
		memory.NewWalletRepository(),
		memory.NewProfileRepository(),
		memory.NewOrderRepository(),
		memory.NewPaymentRepository(),
		func() {},
		nil
}

// subscribeAudit logs the order lifecycle events. In a larger deployment
// these handlers would feed notifications or analytics.
func subscribeAudit(bus *outbox.Bus, logger observability.Logger) {
	audit := logger.With(observability.F("component", "order_audit"))

	bus.Subscribe(domainorder.OrderCompletedEvent{}.EventName(), func(_ context.Context, e domoutbox.Event) error {
		ev, ok := e.(domainorder.OrderCompletedEvent)
		if !ok {
			return nil
		}
		audit.Info("order_completed",
			observability.F("order_id", ev.OrderID),
			observability.F("identity_id", ev.IdentityID),
			observability.F("total_amount", ev.TotalAmount),
		)
		return nil
	})

	bus.Subscribe(domainorder.OrderRejectedEvent{}.EventName(), func(_ context.Context, e domoutbox.Event) error {
		ev, ok := e.(domainorder.OrderRejectedEvent)
		if !ok {
			return nil
		}
		audit.Warn("order_rejected",
			observability.F("identity_id", ev.IdentityID),
			observability.F("reason", ev.Reason),
			observability.F("compensated", ev.Compensated),
		)
		return nil
	})
}
