package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/wichananm65/user-registration/internal/api"
	"github.com/wichananm65/user-registration/internal/config"
	"github.com/wichananm65/user-registration/internal/obs"
	"github.com/wichananm65/user-registration/internal/registration"
)

// main serves the registration wizard (/, /confirmation, /complete) and
// submits completed drafts to the GraphQL API at API_URL.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, "user-registration-app", cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Fatal(err)
	}

	client := api.NewClient(cfg.APIURL, cfg.APITimeout)
	sessions := registration.NewStore(cfg.SessionTTL)
	handler := registration.NewHandler(sessions, client)

	app := fiber.New(fiber.Config{
		AppName: "user-registration-app",
		Views:   registration.NewViews(),
	})
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New())
	handler.RegisterRoutes(app)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sessions.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		log.Infof("registration app listening on %s, api at %s", cfg.AppAddr, cfg.APIURL)
		return app.Listen(cfg.AppAddr)
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
		log.Errorf("app stopped: %v", err)
	}
}
