package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/user-registration/internal/api"
	"github.com/wichananm65/user-registration/internal/config"
	"github.com/wichananm65/user-registration/internal/database"
	"github.com/wichananm65/user-registration/internal/obs"
	"github.com/wichananm65/user-registration/internal/user"
)

// main serves the GraphQL API: user(id), users and createUser.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ValidateStore(); err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "user-api", cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}

	genders, err := user.NewGenderSet(cfg.AllowedGenders...)
	if err != nil {
		log.Fatal(err)
	}

	repo, closeRepo := mustOpenRepository(ctx, cfg)
	defer closeRepo()

	handler, err := api.NewHandler(user.NewService(repo, user.WithAllowedGenders(genders)))
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{AppName: "user-api"})
	setupMiddleware(app, cfg)
	handler.RegisterRoutes(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("graphql api listening on %s (store=%s)", cfg.APIAddr, cfg.Store)
		return app.Listen(cfg.APIAddr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracer(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Errorf("api stopped: %v", err)
	}
}

func setupMiddleware(app *fiber.App, cfg config.Config) {
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,HEAD,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))
}

func mustOpenRepository(ctx context.Context, cfg config.Config) (user.Repository, func()) {
	if cfg.Store == config.StoreMemory {
		log.Warn("using in-memory store; data is lost on restart")
		return user.NewInMemoryRepository(nil), func() {}
	}

	db := mustOpenDB(ctx, cfg)
	return user.NewPostgresRepository(db), func() { db.Close() }
}

func mustOpenDB(ctx context.Context, cfg config.Config) *sql.DB {
	db, err := database.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}

	// ensure the users table exists
	if err := database.EnsureSchema(ctx, db); err != nil {
		panic(err)
	}
	return db
}
