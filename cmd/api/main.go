package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/benitema/card-orders-api/internal/auth"
	"github.com/benitema/card-orders-api/internal/config"
	"github.com/benitema/card-orders-api/internal/handlers"
	"github.com/benitema/card-orders-api/internal/repository"
	"github.com/benitema/card-orders-api/internal/services"
	"github.com/benitema/card-orders-api/pkg/datastore"
	xhttp "github.com/benitema/card-orders-api/pkg/http"
	"github.com/benitema/card-orders-api/pkg/logger"
	"github.com/benitema/card-orders-api/pkg/prom"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}

	if config.Get().PromNamespace != "" {
		if err := prom.Create(config.Get().AppName, config.Get().AppEnv, config.Get().PromNamespace); err != nil {
			logger.Error("failed to init metrics", "error", err)
			return
		}
	}

	store, err := openStore()
	if err != nil {
		logger.Error("failed to open datastore", "error", err)
		return
	}

	verifier, err := auth.NewVerifier(context.Background(), config.Get().AuthDomain, config.Get().AuthAudience)
	if err != nil {
		logger.Error("failed to load signing keys", "error", err)
		return
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	s.Server.ReadBufferSize = 1024 * 16
	s.Server.WriteBufferSize = 1024 * 16
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Second * 5))
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.MetricsMiddleware)
	s.Use(xhttp.RecoverMiddleware)
	s.Router = xhttp.CreateDefaultRouter()
	s.Router.NotFound = handlers.NotFound
	s.Router.MethodNotAllowed = handlers.MethodNotAllowed

	cardRepo := repository.NewCreditCardRepository(store)
	orderRepo := repository.NewOrderRepository(store)
	relRepo := repository.NewRelationshipRepository(store)

	// services; relationship writes all funnel through one service
	relationshipService := services.NewRelationshipService(cardRepo, orderRepo, relRepo)
	cardService := services.NewCreditCardService(cardRepo, relRepo, relationshipService)
	orderService := services.NewOrderService(orderRepo, relRepo, relationshipService)
	healthService := services.NewHealthService(store)

	cardHandler := handlers.NewCreditCardHandler(cardService, verifier)
	orderHandler := handlers.NewOrderHandler(orderService)
	relationshipHandler := handlers.NewRelationshipHandler(relationshipService)
	healthHandler := handlers.NewHealthHandler(healthService)

	handlers.RegisterCreditCardRoutes(s.Router, cardHandler)
	handlers.RegisterOrderRoutes(s.Router, orderHandler)
	handlers.RegisterRelationshipRoutes(s.Router, relationshipHandler)
	handlers.RegisterHealthRoutes(s.Router, healthHandler)
	if prom.MetricSystemEnabled {
		s.Router.GET("/metrics", prom.Handler())
	}

	logger.Info("starting api", "version", version, "commit", commit, "built", date)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(config.Get().HttpListenAddr); err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func openStore() (datastore.Store, error) {
	switch config.Get().DatastoreDriver {
	case "postgres":
		cfg := datastore.PostgresConfig{
			Host:     config.Get().PostgresHost,
			Port:     config.Get().PostgresPort,
			User:     config.Get().PostgresUser,
			Password: config.Get().PostgresPassword,
			Database: config.Get().PostgresDatabase,
		}
		if err := datastore.Migrate(cfg, config.Get().MigrationsDir); err != nil {
			return nil, err
		}
		return datastore.NewPostgresStore(cfg, config.Get().AppEnv == "dev")
	default:
		return datastore.NewRedisStore(config.Get().RedisKeyPrefix, &datastore.RedisOptions{
			Addrs:      []string{config.Get().RedisAddr},
			ClientName: "default",
			DB:         config.Get().RedisDatabase,
			Username:   config.Get().RedisUsername,
			Password:   config.Get().RedisPassword,
		})
	}
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
