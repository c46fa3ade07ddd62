// Package cafeteria предоставляет маршруты для основного приложения.
package cafeteria

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	adminusers "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/admin/users"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/admin/userupdate"
	allergycreate "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/allergy/create"
	allergydelete "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/allergy/delete"
	allergylist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/allergy/list"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/auth/register"
	dishcreate "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/dish/create"
	dishlist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/dish/list"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/health"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/inventory/adjust"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/inventory/ingredientcreate"
	inventorylist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/inventory/list"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/meal/claim"
	mealmy "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/meal/my"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/meal/serve"
	menucreate "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/menu/create"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/menu/today"
	notificationbroadcast "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/notification/broadcast"
	notificationlist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/notification/list"
	notificationread "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/notification/read"
	paymentcreate "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/payment/create"
	paymentlist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/payment/list"
	purchasebuy "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/purchase/buy"
	purchaselist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/purchase/list"
	requestcreate "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/purchaserequest/create"
	requestdecide "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/purchaserequest/decide"
	requestlist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/purchaserequest/list"
	reviewcreate "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/review/create"
	reviewdelete "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/review/delete"
	reviewlist "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/review/list"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/stats/attendance"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/stats/dashboard"
	statspayments "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/stats/payments"
	subscriptionbuy "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/subscription/buy"
	subscriptionget "github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/subscription/get"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/wallet/balance"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/handlers/wallet/topup"
	"github.com/magabrotheeeer/cafeteria-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/cafeteria-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/cafeteria-backend/internal/models"
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

// Services объединяет зависимости маршрутов приложения.
type Services struct {
	Storage         *repository.Storage
	JWTMaker        jwt.Maker
	Auth            *authservice.AuthService
	Wallet          *walletservice.WalletService
	Subscription    *subscriptionservice.SubscriptionService
	Payment         *paymentservice.PaymentService
	Purchase        *purchaseservice.PurchaseService
	Entitlement     *entitlementservice.EntitlementService
	Menu            *menuservice.MenuService
	Inventory       *inventoryservice.InventoryService
	PurchaseRequest *purchaserequestservice.PurchaseRequestService
	Notification    *notificationservice.NotificationService
	Stats           *statsservice.StatsService
	Review          *reviewservice.ReviewService
	Allergy         *allergyservice.AllergyService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/health", health.New(logger, s.Storage).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.JWTMaker, logger))
			r.Use(middlewarectx.ActiveUserMiddleware(logger, s.Storage))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/wallet/balance", balance.New(logger, s.Wallet).ServeHTTP)
			r.Post("/wallet/topup", topup.New(logger, s.Wallet).ServeHTTP)

			r.Post("/subscriptions", subscriptionbuy.New(logger, s.Subscription).ServeHTTP)
			r.Get("/subscriptions/active", subscriptionget.New(logger, s.Subscription).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payment).ServeHTTP)
			r.Get("/payments/list", paymentlist.New(logger, s.Payment).ServeHTTP)

			r.Post("/purchases", purchasebuy.New(logger, s.Purchase).ServeHTTP)
			r.Get("/purchases/list", purchaselist.New(logger, s.Purchase).ServeHTTP)

			r.Get("/meals/my", mealmy.New(logger, s.Entitlement).ServeHTTP)

			// Операции студента
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleStudent))
				r.Post("/meals/claim", claim.New(logger, s.Entitlement).ServeHTTP)
				r.Get("/reviews", reviewlist.New(logger, s.Review).ServeHTTP)
				r.Post("/reviews", reviewcreate.New(logger, s.Review).ServeHTTP)
				r.Delete("/reviews/{id}", reviewdelete.New(logger, s.Review).ServeHTTP)
				r.Get("/allergies", allergylist.New(logger, s.Allergy).ServeHTTP)
				r.Post("/allergies", allergycreate.New(logger, s.Allergy).ServeHTTP)
				r.Delete("/allergies/{id}", allergydelete.New(logger, s.Allergy).ServeHTTP)
			})

			r.Get("/menu/today", today.New(logger, s.Menu).ServeHTTP)
			r.Get("/dishes", dishlist.New(logger, s.Menu).ServeHTTP)

			r.Get("/notifications", notificationlist.New(logger, s.Notification).ServeHTTP)
			notificationHandler := notificationread.New(logger, s.Notification)
			r.Post("/notifications/{id}/read", notificationHandler.ServeHTTP)
			r.Post("/notifications/read-all", notificationHandler.ServeHTTPAll)

			// Операции повара
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleCook, models.RoleAdmin))
				r.Post("/cook/meals/serve", serve.New(logger, s.Entitlement).ServeHTTP)
				r.Get("/cook/inventory", inventorylist.New(logger, s.Inventory).ServeHTTP)
				r.Put("/cook/inventory/{id}", adjust.New(logger, s.Inventory).ServeHTTP)
				r.Post("/cook/purchase-requests", requestcreate.New(logger, s.PurchaseRequest).ServeHTTP)
				r.Get("/cook/purchase-requests", requestlist.New(logger, s.PurchaseRequest).ServeHTTP)
			})

			// Операции администратора
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))
				r.Post("/admin/menu", menucreate.New(logger, s.Menu).ServeHTTP)
				r.Post("/admin/dishes", dishcreate.New(logger, s.Menu).ServeHTTP)
				r.Post("/admin/ingredients", ingredientcreate.New(logger, s.Inventory).ServeHTTP)
				r.Put("/admin/purchase-requests/{id}", requestdecide.New(logger, s.PurchaseRequest).ServeHTTP)
				r.Post("/admin/notifications", notificationbroadcast.New(logger, s.Notification).ServeHTTP)
				r.Get("/admin/users", adminusers.New(logger, s.Storage).ServeHTTP)
				r.Put("/admin/users/{id}", userupdate.New(logger, s.Storage).ServeHTTP)
				r.Get("/admin/stats/dashboard", dashboard.New(logger, s.Stats).ServeHTTP)
				r.Get("/admin/stats/payments", statspayments.New(logger, s.Stats).ServeHTTP)
				r.Get("/admin/stats/attendance", attendance.New(logger, s.Stats).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
