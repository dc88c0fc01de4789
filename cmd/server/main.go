package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/cat-gallery/internal/auth"
	"github.com/iliyamo/cat-gallery/internal/config"
	"github.com/iliyamo/cat-gallery/internal/database"
	"github.com/iliyamo/cat-gallery/internal/handler"
	appmw "github.com/iliyamo/cat-gallery/internal/middleware"
	"github.com/iliyamo/cat-gallery/internal/queue"
	"github.com/iliyamo/cat-gallery/internal/repository"
	"github.com/iliyamo/cat-gallery/internal/router"
	"github.com/iliyamo/cat-gallery/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env always wins
	cfg := config.Load()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("bootstrap schema: %v", err)
	}
	cancel()

	users := repository.NewUserRepo(db)
	cats := repository.NewCatRepo(db)
	adoptions := repository.NewAdoptionRepo(db)
	sessions := repository.NewSessionRepo(db)

	carrier := buildCarrier(cfg, sessions)
	resolver := appmw.Identity(carrier)

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, rate limiting and caching disabled")
	}
	limiter := appmw.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := appmw.NewRedisCache(config.LoadCacheConfig(), rdb)

	authHandler := handler.NewAuthHandler(cfg, users, carrier)
	catHandler := handler.NewCatHandler(cats)
	adoptionHandler := handler.NewAdoptionHandler(adoptions, queue_publisher.PublishAdoptionEvent)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, resolver, limiter)
	router.RegisterAdoptions(e, adoptionHandler, resolver)
	router.RegisterCatalog(e, catHandler, cache, resolver, cfg.GateCatalog)

	if cfg.Carrier == config.CarrierSession {
		go sweepSessions(sessions)
	}
	go queue.StartAdoptionConsumer()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s carrier=%s)", addr, cfg.Env, cfg.Carrier)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// buildCarrier selects the one active carrier strategy for this deployment.
func buildCarrier(cfg config.Config, sessions *repository.SessionRepo) auth.Carrier {
	switch cfg.Carrier {
	case config.CarrierCookie:
		return auth.NewCookieCarrier(cfg.JWTSecret, cfg.TokenTTL, cfg.CookieName, cfg.CookieSecure)
	case config.CarrierSession:
		return auth.NewSessionCarrier(sessions, cfg.JWTSecret, cfg.TokenTTL, cfg.CookieName, cfg.CookieSecure)
	default:
		return auth.NewBearerCarrier(cfg.JWTSecret, cfg.TokenTTL)
	}
}

// sweepSessions periodically clears expired session rows so the table does
// not accumulate dead logins.
func sweepSessions(sessions *repository.SessionRepo) {
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := sessions.DeleteExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("session sweeper: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("session sweeper: removed %d expired sessions", n)
		}
	}
}
