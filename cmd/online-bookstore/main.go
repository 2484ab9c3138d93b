package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/online-bookstore/internal/api/handlers"
	"github.com/aaravmahajanofficial/online-bookstore/internal/api/middleware"
	"github.com/aaravmahajanofficial/online-bookstore/internal/cache"
	"github.com/aaravmahajanofficial/online-bookstore/internal/config"
	"github.com/aaravmahajanofficial/online-bookstore/internal/health"
	"github.com/aaravmahajanofficial/online-bookstore/internal/metrics"
	repository "github.com/aaravmahajanofficial/online-bookstore/internal/repositories"
	service "github.com/aaravmahajanofficial/online-bookstore/internal/services"
	"github.com/aaravmahajanofficial/online-bookstore/internal/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, cfg)
	if err != nil {
		slog.Error("❌ Error initialising tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	if err := repository.Migrate(ctx, repos.DB); err != nil {
		slog.Error("❌ Error applying the schema", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := redisClient.Close(); err != nil {
			slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
		}
	}()

	bookCache := cache.NewRedisCache(redisClient, &cfg.Cache)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error creating the health handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)
	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey, cfg.Security.TokenTTL())
	userHandler := handlers.NewUserHandler(userService)
	bookService := service.NewBookService(repos.Book, bookCache)
	bookHandler := handlers.NewBookHandler(bookService)
	cartService := service.NewCartService(repos.Tx, repos.Cart, repos.Book, repos.User)
	cartHandler := handlers.NewCartHandler(cartService)
	orderService := service.NewOrderService(repos.Tx, repos.Order, repos.Cart, repos.Book, repos.User)
	orderHandler := handlers.NewOrderHandler(orderService, cartService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	routerMux.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	routerMux.HandleFunc("GET /api/v1/books", bookHandler.ListBooks())
	routerMux.HandleFunc("GET /api/v1/books/categories", bookHandler.ListCategories())
	routerMux.HandleFunc("GET /api/v1/books/{id}", bookHandler.GetBook())
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.Authenticate(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.Authenticate(cartHandler.AddItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{bookId}", authMiddleware.Authenticate(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.Authenticate(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.CreateOrder()))
	routerMux.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	routerMux.Handle("GET /metrics", metrics.Handler())
	routerMux.Handle("GET /health", healthHandler.Handler())

	// Middleware chaining; metrics sits directly on the mux so r.Pattern is populated
	var handler http.Handler = routerMux
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "online-bookstore")

	// Setup http server
	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("❌ Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown failed", slog.String("error", err.Error()))
	}
}
