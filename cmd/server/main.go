package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/starbase-io/roster/internal/config"
	"github.com/starbase-io/roster/internal/database"
	"github.com/starbase-io/roster/internal/handler"
	"github.com/starbase-io/roster/internal/queue"
	"github.com/starbase-io/roster/internal/repository"
	"github.com/starbase-io/roster/internal/router"
	"github.com/starbase-io/roster/internal/service"
)

func main() {
	// Load .env if present; in containers the variables come from the
	// environment directly and the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	store := repository.NewStore(db)

	// The audit consumer drains the broker queue into api_call_log in the
	// background; the publisher side never blocks request handling.
	audit := queue.NewPublisher()
	go queue.StartAuditConsumer(store.CallLogs)

	svc := service.NewAstronautService(store, audit)

	rdb := config.NewRedisClient() // nil when Redis is unreachable

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterRoster(e,
		handler.NewPersonHandler(svc, audit),
		handler.NewDutyHandler(svc, audit),
		rdb,
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
