package main

import (
	"context"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/denizatli/orderhub-backend/internal/cache"
	"github.com/denizatli/orderhub-backend/internal/config"
	"github.com/denizatli/orderhub-backend/internal/modules/catalog"
	"github.com/denizatli/orderhub-backend/internal/modules/product"
	"github.com/denizatli/orderhub-backend/internal/modules/stock"
)

func main() {
	cfg := config.Load("productservice")

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	slog.Info("connected to database")

	c := cache.New(cfg.RedisAddr, cfg.ServiceName)

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	catalogService := catalog.NewService(catalog.NewPostgresRepository(db), c, cfg.CacheTTL)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	productService := product.NewService(product.NewPostgresRepository(db), c, cfg.CacheTTL)
	product.NewHandler(productService).RegisterRoutes(router)

	stockService := stock.NewService(stock.NewPostgresRepository(db))
	stock.NewHandler(stockService).RegisterRoutes(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		slog.Info("product service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}
