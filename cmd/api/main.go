package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/gamezilla/storefront/internal/admin"
	"github.com/gamezilla/storefront/internal/auth"
	"github.com/gamezilla/storefront/internal/cache"
	"github.com/gamezilla/storefront/internal/cart"
	"github.com/gamezilla/storefront/internal/catalog"
	"github.com/gamezilla/storefront/internal/categories"
	"github.com/gamezilla/storefront/internal/messaging"
	"github.com/gamezilla/storefront/internal/orders"
	"github.com/gamezilla/storefront/internal/reviews"
	"github.com/gamezilla/storefront/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, "storefront-api", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize tracer", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracer(ctx) }()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider("storefront-api", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize meter", "error", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownMeter(ctx) }()

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, "order.placed")
		defer func() { _ = producer.Close() }()
	}

	var gameCache *cache.GameCache
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer func() { _ = client.Close() }()
		gameCache = cache.NewGameCache(client)
	}

	pricing := orders.DefaultPricing()
	if v := os.Getenv("TAX_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Error("invalid TAX_RATE", "value", v)
			os.Exit(1)
		}
		pricing.TaxRate = rate
	}
	if v := os.Getenv("SHIPPING_FEE"); v != "" {
		fee, err := strconv.ParseFloat(v, 64)
		if err != nil {
			logger.Error("invalid SHIPPING_FEE", "value", v)
			os.Exit(1)
		}
		pricing.ShippingFee = fee
	}

	gamesHandler := catalog.NewHandler(catalog.NewGameRepository(db), gameCache, logger)
	cartHandler := cart.NewHandler(cart.NewCartRepository(db), logger)
	ordersHandler := orders.NewHandler(orders.NewOrderRepository(db), producer, pricing, logger)
	reviewsHandler := reviews.NewHandler(reviews.NewReviewRepository(db), logger)
	categoriesHandler := categories.NewHandler(categories.NewCategoryRepository(db), logger)
	adminHandler := admin.NewHandler(admin.NewAdminRepository(db), logger)

	authmw := auth.NewMiddleware(db, logger)
	authed := func(h http.HandlerFunc) http.Handler {
		return authmw.Authenticate(telemetry.WithHTTPRoute(h))
	}
	adminOnly := func(h http.HandlerFunc) http.Handler {
		return authmw.Authenticate(auth.RequireRole("Admin")(telemetry.WithHTTPRoute(h)))
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/games", telemetry.WithHTTPRoute(gamesHandler.HandleList))
	mux.HandleFunc("GET /api/games/genres", telemetry.WithHTTPRoute(gamesHandler.HandleGenres))
	mux.HandleFunc("GET /api/games/platforms", telemetry.WithHTTPRoute(gamesHandler.HandlePlatforms))
	mux.HandleFunc("GET /api/games/{id}", telemetry.WithHTTPRoute(gamesHandler.HandleGet))
	mux.Handle("POST /api/games", adminOnly(gamesHandler.HandleCreate))
	mux.Handle("PUT /api/games/{id}", adminOnly(gamesHandler.HandleUpdate))
	mux.Handle("DELETE /api/games/{id}", adminOnly(gamesHandler.HandleDelete))

	mux.HandleFunc("GET /api/cart/{userId}", telemetry.WithHTTPRoute(cartHandler.HandleGetByUser))
	mux.HandleFunc("POST /api/cart/add", telemetry.WithHTTPRoute(cartHandler.HandleAddItem))
	mux.HandleFunc("PUT /api/cart/update", telemetry.WithHTTPRoute(cartHandler.HandleUpdateItem))
	mux.HandleFunc("DELETE /api/cart/{first}/{second}", telemetry.WithHTTPRoute(cartHandler.HandleDelete))

	mux.HandleFunc("POST /api/orders", telemetry.WithHTTPRoute(ordersHandler.HandlePlaceOrder))
	mux.HandleFunc("POST /api/orders/payment", telemetry.WithHTTPRoute(ordersHandler.HandleProcessPayment))
	mux.HandleFunc("GET /api/orders", telemetry.WithHTTPRoute(ordersHandler.HandleListAll))
	mux.HandleFunc("GET /api/orders/{userId}", telemetry.WithHTTPRoute(ordersHandler.HandleListByUser))
	mux.HandleFunc("GET /api/orders/details/{orderId}", telemetry.WithHTTPRoute(ordersHandler.HandleGetDetails))
	mux.HandleFunc("PUT /api/orders/status/{orderId}", telemetry.WithHTTPRoute(ordersHandler.HandleUpdateStatus))

	mux.HandleFunc("GET /api/reviews/game/{gameId}", telemetry.WithHTTPRoute(reviewsHandler.HandleListForGame))
	mux.HandleFunc("GET /api/reviews/{reviewId}", telemetry.WithHTTPRoute(reviewsHandler.HandleGet))
	mux.Handle("POST /api/reviews", authed(reviewsHandler.HandleAdd))
	mux.Handle("PUT /api/reviews/{reviewId}", authed(reviewsHandler.HandleUpdate))
	mux.Handle("DELETE /api/reviews/{reviewId}", authed(reviewsHandler.HandleDelete))

	mux.HandleFunc("GET /api/categories", telemetry.WithHTTPRoute(categoriesHandler.HandleList))
	mux.Handle("POST /api/categories", adminOnly(categoriesHandler.HandleCreate))
	mux.Handle("PUT /api/categories/{categoryId}", adminOnly(categoriesHandler.HandleUpdate))
	mux.Handle("DELETE /api/categories/{categoryId}", adminOnly(categoriesHandler.HandleDelete))

	mux.Handle("GET /api/admin/users", adminOnly(adminHandler.HandleListUsers))
	mux.Handle("GET /api/admin/roles", adminOnly(adminHandler.HandleListRoles))
	mux.Handle("PUT /api/admin/users/{userId}/role", adminOnly(adminHandler.HandleUpdateUserRole))
	mux.Handle("POST /api/admin/permissions/assign", adminOnly(adminHandler.HandleAssignPermission))
	mux.Handle("GET /api/admin/dashboard", adminOnly(adminHandler.HandleDashboard))
	mux.Handle("GET /api/admin/reports/sales", adminOnly(adminHandler.HandleSalesReport))
	mux.Handle("GET /api/admin/reports/users", adminOnly(adminHandler.HandleUsersReport))

	mux.Handle("GET /metrics", metricsHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(mux, "storefront-api",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting storefront api", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
