package api

import (
	"context"
	"fmt"
	"time"

	"github.com/example/task-tracker/modules/account"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/task"
	"github.com/example/task-tracker/modules/timetracking"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Config holds HTTP API settings.
type Config struct {
	Port        int
	CORSOrigins string
	Tokens      TokenConfig
}

// Module is the HTTP driving adapter.
type Module struct {
	cfg    Config
	app    *fiber.App
	ports  Ports
	tokens *TokenManager
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)
var _ mono.DependentModule = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates a new API module.
func NewModule(cfg Config, logger types.Logger) *Module {
	if cfg.Port == 0 {
		cfg.Port = 3000
	}
	return &Module{
		cfg:    cfg,
		tokens: NewTokenManager(cfg.Tokens),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"account", "task", "timetracking", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "account":
		m.ports.Accounts = account.NewAccountAdapter(container)
	case "task":
		m.ports.Tasks = task.NewTaskAdapter(container)
	case "timetracking":
		m.ports.Timers = timetracking.NewTimerAdapter(container)
	case "activity":
		m.ports.Activity = activity.NewActivityAdapter(container)
	}
}

// Start builds the router and starts serving.
func (m *Module) Start(_ context.Context) error {
	if m.ports.Accounts == nil || m.ports.Tasks == nil || m.ports.Timers == nil || m.ports.Activity == nil {
		return fmt.Errorf("api dependencies not set")
	}

	m.app = NewRouter(m.cfg, NewHandlers(m.ports, m.tokens, m.logger), m.tokens, m.logger)

	addr := fmt.Sprintf(":%d", m.cfg.Port)
	errCh := make(chan error, 1)
	go func() {
		if err := m.app.Listen(addr); err != nil {
			errCh <- err
		}
	}()

	// Catch immediate startup errors such as a port already in use.
	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed to start: %w", err)
	case <-time.After(100 * time.Millisecond):
	}

	m.logger.Info("HTTP server started", "addr", addr)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.app != nil {
		if err := m.app.ShutdownWithContext(ctx); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
	}
	m.logger.Info("HTTP server stopped")
	return nil
}

// Health returns the health status of the module.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port": m.cfg.Port,
		},
	}
}

// NewRouter creates the Fiber app with middleware and all routes mounted.
func NewRouter(cfg Config, h *Handlers, tokens *TokenManager, log types.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Task Tracker",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} ${method} ${path} ${latency}\n",
	}))
	origins := cfg.CORSOrigins
	if origins == "" {
		origins = "http://localhost:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: origins != "*",
	}))

	v1 := app.Group("/api/v1")
	v1.Get("/health", h.Health)
	v1.Post("/auth/register", h.Register)

	protected := v1.Group("", AuthMiddleware(tokens))
	protected.Get("/me", h.Me)

	protected.Get("/lists", h.ListLists)
	protected.Post("/lists", h.CreateList)
	protected.Delete("/lists/:id", h.DeleteList)

	protected.Get("/tasks", h.ListTasks)
	protected.Post("/tasks", h.CreateTask)
	protected.Get("/tasks/:id", h.GetTask)
	protected.Put("/tasks/:id", h.UpdateTask)
	protected.Patch("/tasks/:id/status", h.SetTaskStatus)
	protected.Delete("/tasks/:id", h.DeleteTask)
	protected.Get("/tasks/:id/time-summary", h.TaskTimeSummary)

	protected.Get("/time-entries", h.ListTimeEntries)
	protected.Get("/time-entries/active", h.ActiveTimer)
	protected.Post("/time-entries/start", h.StartTimer)
	protected.Put("/time-entries/:id/stop", h.StopTimer)
	protected.Patch("/time-entries/:id", h.DescribeTimeEntry)

	protected.Get("/activity", h.Activity)

	return app
}

func errorHandler(log types.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
			message = e.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP error", "code", code, "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(ErrorResponse{
			Error:   "server_error",
			Message: message,
		})
	}
}
