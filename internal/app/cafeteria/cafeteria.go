// Package cafeteria собирает приложение столовой: хранилище, кеш,
// брокер уведомлений, сервисы и HTTP-сервер.
package cafeteria

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/cafeteria-backend/internal/cache"
	"github.com/magabrotheeeer/cafeteria-backend/internal/config"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/sl"
	"github.com/magabrotheeeer/cafeteria-backend/internal/migrations"
	"github.com/magabrotheeeer/cafeteria-backend/internal/rabbitmq"
	allergyservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/allergy"
	authservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/auth"
	entitlementservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/entitlement"
	inventoryservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/inventory"
	menuservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/menu"
	notificationservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/notification"
	paymentservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/payment"
	purchaseservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchase"
	purchaserequestservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/purchaserequest"
	reviewservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/review"
	statsservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/stats"
	subscriptionservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/subscription"
	walletservice "github.com/magabrotheeeer/cafeteria-backend/internal/services/wallet"
	"github.com/magabrotheeeer/cafeteria-backend/internal/storage/repository"
)

// App объединяет HTTP-сервер и подключения к внешним системам.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New подключает все зависимости и собирает приложение. Недоступный
// брокер уведомлений не мешает запуску: уведомления остаются в базе,
// рассылка писем отключается.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var publisher notificationservice.Publisher
	conn, err := rabbitmq.Connect(cfg.RabbitConnection, cfg.RabbitRetries, cfg.RabbitRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq is unavailable, email notifications disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues)
		if err != nil {
			return nil, err
		}
		publisher = rabbitmq.NewNotificationPublisher(ch)
	}

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	notificationService := notificationservice.NewNotificationService(db, publisher, logger)
	authService := authservice.NewAuthService(db, jwtMaker)
	walletService := walletservice.NewWalletService(db, logger)
	subscriptionService := subscriptionservice.NewSubscriptionService(db, logger)
	paymentService := paymentservice.NewPaymentService(db, logger)
	purchaseService := purchaseservice.NewPurchaseService(db, logger)
	entitlementService := entitlementservice.NewEntitlementService(db, logger)
	menuService := menuservice.NewMenuService(db, cacheRedis, logger)
	inventoryService := inventoryservice.NewInventoryService(db, notificationService, logger)
	purchaseRequestService := purchaserequestservice.NewPurchaseRequestService(db, notificationService, logger)
	statsService := statsservice.NewStatsService(db, cacheRedis, logger)
	reviewService := reviewservice.NewReviewService(db, logger)
	allergyService := allergyservice.NewAllergyService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Storage:         db,
		JWTMaker:        jwtMaker,
		Auth:            authService,
		Wallet:          walletService,
		Subscription:    subscriptionService,
		Payment:         paymentService,
		Purchase:        purchaseService,
		Entitlement:     entitlementService,
		Menu:            menuService,
		Inventory:       inventoryService,
		PurchaseRequest: purchaseRequestService,
		Notification:    notificationService,
		Stats:           statsService,
		Review:          reviewService,
		Allergy:         allergyService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и корректно останавливает его при отмене
// контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
