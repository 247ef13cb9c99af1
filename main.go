package main

import (
	"context"
	"log"
	"os"

	"github.com/example/task-tracker/modules/account"
	"github.com/example/task-tracker/modules/activity"
	"github.com/example/task-tracker/modules/api"
	"github.com/example/task-tracker/modules/storage"
	"github.com/example/task-tracker/modules/task"
	"github.com/example/task-tracker/modules/timetracking"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	loadDotEnv()
	cfg := loadConfig()

	log.Println("=== Task Tracker ===")

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownWait),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	logger := app.Logger()

	// Order: storage first, then the engines that use it, the event
	// consumer, and finally the HTTP adapter that depends on all of them.
	store := storage.NewModule(cfg.Storage, logger.WithModule("storage"))
	app.Register(store)
	app.Register(account.NewModule(store, cfg.BcryptCost, logger.WithModule("account")))
	app.Register(task.NewModule(store, logger.WithModule("task")))
	app.Register(timetracking.NewModule(store, cfg.Cache, logger.WithModule("timetracking")))
	app.Register(activity.NewModule(cfg.ActivityCap, logger.WithModule("activity")))
	app.Register(api.NewModule(cfg.API, logger.WithModule("api")))

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo(cfg)

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownWait,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo(cfg Config) {
	cache := "disabled"
	if cfg.Cache.RedisAddr != "" {
		cache = cfg.Cache.RedisAddr
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Printf("  - Database: %s", cfg.Storage.Driver)
	log.Printf("  - Summary cache: %s", cache)
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%d/api/v1):", cfg.API.Port)
	log.Println("  POST   /auth/register              - Create account and Inbox")
	log.Println("  GET    /lists, POST /lists         - Lists")
	log.Println("  GET    /tasks, POST /tasks         - Tasks")
	log.Println("  PATCH  /tasks/:id/status           - Change task status")
	log.Println("  GET    /tasks/:id/time-summary     - Tracked time of a task")
	log.Println("  POST   /time-entries/start         - Start a timer")
	log.Println("  PUT    /time-entries/:id/stop      - Stop a timer")
	log.Println("  GET    /time-entries/active        - Running timer")
	log.Println("  GET    /activity                   - Recent activity")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
