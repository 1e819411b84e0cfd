package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-system/internal/config"
	"storefront-system/internal/database"
	"storefront-system/internal/logger"
	"storefront-system/internal/messaging"
	"storefront-system/internal/services/cart"
	"storefront-system/internal/services/catalog"
	"storefront-system/internal/services/identity"
	"storefront-system/internal/services/kitchen"
	"storefront-system/internal/services/notification"
	"storefront-system/internal/services/order"
	"storefront-system/internal/services/pricing"
	"storefront-system/internal/services/settings"
	"storefront-system/internal/services/wishlist"
	"storefront-system/internal/web"
)

func main() {
	var (
		mode          = flag.String("mode", "", "Service mode (storefront-service, admin-service, notification-subscriber)")
		port          = flag.Int("port", 0, "HTTP port (default 3000 storefront, 3001 admin)")
		configPath    = flag.String("config", "config.yaml", "Path to the configuration file")
		prefetch      = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
		adminName     = flag.String("admin-name", "Administrator", "Seeded administrator name")
		adminEmail    = flag.String("admin-email", "admin@spicegarden.example", "Seeded administrator email")
		adminPassword = flag.String("admin-password", "admin123", "Seeded administrator password")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	seed := adminSeed{name: *adminName, email: *adminEmail, password: *adminPassword}

	switch *mode {
	case "storefront-service":
		if err := runHTTPService(ctx, cfg, log, portOrDefault(*port, 3000), seed, false); err != nil {
			log.Error("service_failed", "Storefront service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "admin-service":
		if err := runHTTPService(ctx, cfg, log, portOrDefault(*port, 3001), seed, true); err != nil {
			log.Error("service_failed", "Admin service failed", requestID, err, nil)
			os.Exit(1)
		}
	case "notification-subscriber":
		if err := runNotificationSubscriber(ctx, cfg, log, *prefetch); err != nil {
			log.Error("service_failed", "Notification subscriber failed", requestID, err, nil)
			os.Exit(1)
		}
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

type adminSeed struct {
	name     string
	email    string
	password string
}

func portOrDefault(port, fallback int) int {
	if port == 0 {
		return fallback
	}
	return port
}

// runHTTPService wires the full stack and serves either the storefront
// or the back-office surface.
func runHTTPService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int, seed adminSeed, admin bool) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	rabbit, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer rabbit.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)

	publisher := messaging.NewPublisher(rabbit, log)

	identitySvc := identity.NewService(identity.NewPostgresStore(db), log)
	if err := identitySvc.EnsureAdmin(ctx, seed.name, seed.email, seed.password); err != nil {
		return err
	}

	dispatcher := notification.NewDispatcher(notification.NewPostgresStore(db), publisher, log)
	catalogSvc := catalog.NewService(catalog.NewPostgresStore(db), log)
	cartSvc := cart.NewService(cart.NewPostgresStore(db), catalogSvc, log)
	wishlistSvc := wishlist.NewService(wishlist.NewPostgresStore(db), catalogSvc, log)
	pricingSvc := pricing.NewService(pricing.NewPostgresStore(db), log)
	orderSvc := order.NewService(order.NewPostgresStore(db), dispatcher, log)
	kitchenSvc := kitchen.NewService(orderSvc, log)
	settingsSvc := settings.NewService(settings.NewPostgresStore(db), log)

	catalogHandler := catalog.NewHandler(catalogSvc, log)
	orderHandler := order.NewHandler(orderSvc, cartSvc, pricingSvc, log)
	notificationHandler := notification.NewHandler(dispatcher, log)
	settingsHandler := settings.NewHandler(settingsSvc, log)

	mux := http.NewServeMux()
	if admin {
		orderHandler.RegisterAdmin(mux)
		catalogHandler.RegisterAdmin(mux)
		settingsHandler.RegisterAdmin(mux)
		kitchen.NewHandler(kitchenSvc, log).RegisterAdmin(mux)
		notificationHandler.Register(mux)
	} else {
		catalogHandler.RegisterStorefront(mux)
		orderHandler.RegisterStorefront(mux)
		settingsHandler.RegisterStorefront(mux)
		notificationHandler.Register(mux)
		pricing.NewHandler(pricingSvc, cartSvc, log).Register(mux)
		cart.NewHandler(cartSvc, log).Register(mux)
		wishlist.NewHandler(wishlistSvc, log).Register(mux)
		identity.NewHandler(identitySvc, log).Register(mux)
	}

	var inner http.Handler = mux
	if admin {
		inner = web.RequireAdmin(inner)
	}

	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(r.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		web.WriteJSON(w, code, map[string]interface{}{"status": status})
	})
	root.Handle("/", inner)

	handler := web.WithLogging(log, web.WithActor(identitySvc, root))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http_listening", fmt.Sprintf("Listening on port %d", port), requestID, map[string]interface{}{"port": port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// runNotificationSubscriber consumes order events and prints them.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	rabbit, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer rabbit.Close()

	consumer := messaging.NewConsumer(rabbit, log, messaging.OrderEventsQueue, "notification-subscriber", prefetch)
	return notification.NewSubscriber(consumer, log).Start(ctx)
}
