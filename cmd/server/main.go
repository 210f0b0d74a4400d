package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/translation-trainer/internal/config"
	"github.com/iliyamo/translation-trainer/internal/database"
	"github.com/iliyamo/translation-trainer/internal/handler"
	"github.com/iliyamo/translation-trainer/internal/queue"
	"github.com/iliyamo/translation-trainer/internal/repository"
	"github.com/iliyamo/translation-trainer/internal/router"
	"github.com/iliyamo/translation-trainer/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()
	if err := database.Init(db); err != nil {
		log.Fatalf("init schema: %v", err)
	}

	retry := database.NewRetryer(cfg.BusyRetries, cfg.BusyRetryDelay)
	users := repository.NewUserRepo(db, retry)
	translations := repository.NewTranslationRepo(db, retry)
	saver := service.NewTranslationSaver(db, translations)

	// Redis is optional; a nil client disables rate limiting and caching.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	// Background consumer for translation.saved events.  It reconnects on
	// its own and never takes the API down with it.
	go func() {
		if err := queue.StartSavedConsumer(); err != nil {
			log.Printf("saved consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAPI(e, cfg,
		handler.NewAuthHandler(cfg, users),
		handler.NewTranslationHandler(saver, translations),
		rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
