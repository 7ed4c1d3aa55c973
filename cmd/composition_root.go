package cmd

import (
	"fmt"
	"log/slog"

	"dispatch/internal/adapters/in/auth"
	httpadapter "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/metrics"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

// CompositionRoot builds the object graph once at start-up. The catalog,
// hierarchy and lifecycle are checked against each other here, so a
// misconfigured table stops the process before it serves a request.
type CompositionRoot struct {
	config      Config
	logger      *slog.Logger
	gormDB      *gorm.DB
	uowFactory  ports.UnitOfWorkFactory
	guard       services.AuthorizationGuard
	coordinator services.DispatchCoordinator
	tokens      auth.Tokens
	registry    *prometheus.Registry
	recorder    *metrics.PrometheusRecorder
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	guard := services.NewAuthorizationGuard(access.DefaultPermissionCatalog(), access.DefaultRoleHierarchy())

	coordinator, err := services.NewDispatchCoordinator(guard, order.DefaultLifecycle())
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokens(config.JWTSecret, config.JWTIssuer)
	if err != nil {
		return nil, fmt.Errorf("%s_JWT_SECRET: %w", EnvPrefix, err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &CompositionRoot{
		config:      config,
		logger:      logger,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		guard:       guard,
		coordinator: coordinator,
		tokens:      tokens,
		registry:    registry,
		recorder:    metrics.NewPrometheusRecorder(registry),
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	handler := commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.guard, c.recorder)
	return &handler
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() *commands.ChangeOrderStatusCommandHandler {
	handler := commands.NewChangeOrderStatusCommandHandler(c.orderUoWFactory(), c.coordinator, c.recorder)
	return &handler
}

func (c *CompositionRoot) CreateReleaseStaleAssignmentsCommandHandler() (*commands.ReleaseStaleAssignmentsCommandHandler, error) {
	role, err := c.config.SystemActorRole()
	if err != nil {
		return nil, err
	}
	handler, err := commands.NewReleaseStaleAssignmentsCommandHandler(c.orderUoWFactory(), c.coordinator, role, c.recorder)
	if err != nil {
		return nil, fmt.Errorf("%s_SYSTEM_ROLE: %w", EnvPrefix, err)
	}
	return &handler, nil
}

func (c *CompositionRoot) CreateGetDispatchBoardQueryHandler() queries.GetDispatchBoardQueryHandler {
	return queries.NewGetDispatchBoardQueryHandler(c.gormDB, c.guard, c.coordinator, c.recorder)
}

func (c *CompositionRoot) CreateGetActorPermissionsQueryHandler() queries.GetActorPermissionsQueryHandler {
	return queries.NewGetActorPermissionsQueryHandler(c.guard)
}

// CreateHTTPServer wires the API handlers into the router configuration.
func (c *CompositionRoot) CreateHTTPServer() httpadapter.RouterConfig {
	return httpadapter.RouterConfig{
		Server: httpadapter.NewServer(
			c.CreateCreateOrderCommandHandler(),
			c.CreateChangeOrderStatusCommandHandler(),
			c.CreateGetDispatchBoardQueryHandler(),
			c.CreateGetActorPermissionsQueryHandler(),
		),
		Tokens:             c.tokens,
		Logger:             c.logger.With("component", "http"),
		Gatherer:           c.registry,
		RateLimitPerMinute: c.config.RateLimitPerMinute,
		Production:         c.config.IsProduction(),
	}
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	handler, err := c.CreateReleaseStaleAssignmentsCommandHandler()
	if err != nil {
		return nil, err
	}

	staleJob, err := jobs.NewStaleAssignmentJob(handler, c.recorder, c.config.StaleAssignmentTimeout, c.logger)
	if err != nil {
		return nil, err
	}

	return jobs.NewJobManager(staleJob), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
