package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-logger/glog"
	"github.com/goliatone/jobhub/auth"
	"github.com/goliatone/jobhub/config"
	"github.com/goliatone/jobhub/jobs"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// App wires the service: config, storage, the session stack, and the HTTP
// server.
type App struct {
	config *config.Config
	bunDB  *bun.DB
	auther *auth.Auther
	repo   auth.RepositoryManager
	srv    *fiber.App
	logger *glog.BaseLogger
}

func (a *App) GetLogger(name string) glog.Logger {
	return a.logger.GetLogger(name)
}

func main() {
	lgr := glog.NewLogger(
		glog.WithLoggerTypePretty(),
		glog.WithLevel(glog.Trace),
		glog.WithName("jobhub"),
		glog.WithAddSource(false),
		glog.WithRichErrorHandler(errors.ToSlogAttributes),
	)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	app := &App{
		config: cfg,
		logger: lgr,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.initDatabase(ctx); err != nil {
		lgr.Error("database init failed", "error", err)
		os.Exit(1)
	}

	app.initAuth()
	app.initServer()

	go app.runSweeper(ctx)

	go func() {
		<-ctx.Done()
		app.GetLogger("server").Info("shutting down...")
		if err := app.srv.ShutdownWithTimeout(10 * time.Second); err != nil {
			app.GetLogger("server").Error("shutdown error", "error", err)
		}
	}()

	app.GetLogger("server").Info("listening", "addr", cfg.Addr(), "env", cfg.Environment)
	if err := app.srv.Listen(cfg.Addr()); err != nil {
		lgr.Error("server error", "error", err)
		os.Exit(1)
	}

	if app.bunDB != nil {
		app.bunDB.Close()
	}
}

func (a *App) initDatabase(ctx context.Context) error {
	sqldb, err := sql.Open(sqliteshim.ShimName, a.config.DSN)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to open database")
	}

	a.bunDB = bun.NewDB(sqldb, sqlitedialect.New())

	models := []any{
		(*auth.User)(nil),
		(*auth.Session)(nil),
		(*jobs.Job)(nil),
	}

	for _, model := range models {
		if _, err := a.bunDB.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "failed to create table")
		}
	}

	return nil
}

func (a *App) initAuth() {
	a.repo = auth.NewRepositoryManager(a.bunDB)
	a.repo.MustValidate()

	tokenService := auth.NewTokenService(
		[]byte(a.config.SigningSecret),
		a.config.TokenTTL,
		"jobhub",
		a.GetLogger("tokens"),
	)

	a.auther = auth.NewAuthenticator(a.repo, tokenService).
		WithLogger(a.GetLogger("auth"))
}

func (a *App) initServer() {
	a.srv = fiber.New(fiber.Config{
		AppName:      "jobhub",
		ErrorHandler: auth.ErrorHandler,
	})

	a.srv.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(a.config.AllowedOrigins, ","),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))

	protected := auth.Protected(a.auther, a.GetLogger("middleware"))

	cookies := auth.DefaultCookieConfig(a.config.IsProduction(), a.config.TokenTTL)

	controller := auth.NewAuthController(
		auth.WithControllerLogger(a.GetLogger("auth:http")),
		auth.WithControllerRepo(a.repo),
		auth.WithControllerAuther(a.auther),
		auth.WithControllerCookies(cookies),
	)

	authGroup := a.srv.Group("/api/auth")
	auth.RegisterAuthRoutes(authGroup, controller, protected)

	jobsController := jobs.NewController(
		jobs.NewRepository(a.bunDB),
		a.GetLogger("jobs:http"),
	)

	jobsGroup := a.srv.Group("/api/jobs")
	jobs.RegisterRoutes(jobsGroup, jobsController, protected)

	// Everything unmatched is a JSON 404, never an HTML error page.
	a.srv.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Page not found",
		})
	})
}

func (a *App) runSweeper(ctx context.Context) {
	sweeper := auth.NewSweeper(
		a.repo.Sessions(),
		a.config.SweepInterval,
		a.config.TokenTTL,
	).WithLogger(a.GetLogger("sweeper"))

	sweeper.Run(ctx)
}
