// Package main Smart Library API.
//
// @title           Smart Library API
// @version         1.0
// @description     catalog, cover storage, and copy circulation for a small library.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"smartlibrary/app/echoServer"
	authctrl "smartlibrary/app/echoServer/controller/auth"
	bookctrl "smartlibrary/app/echoServer/controller/book"
	borrowctrl "smartlibrary/app/echoServer/controller/borrowing"
	"smartlibrary/app/echoServer/validation"
	"smartlibrary/config"
	adminrepo "smartlibrary/repository/admin"
	bookrepo "smartlibrary/repository/book"
	borrowrepo "smartlibrary/repository/borrowing"
	coverrepo "smartlibrary/repository/cover"
	authsvc "smartlibrary/service/auth"
	catalogsvc "smartlibrary/service/catalog"
	circsvc "smartlibrary/service/circulation"
	"smartlibrary/util/database"
	"smartlibrary/util/metrics"
	"smartlibrary/util/tracing"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// tracing
	shutdownTracing, err := tracing.Setup(ctx, "smartlibrary", cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracing setup failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(ctx) }()

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("schema bootstrap failed", "err", err)
		os.Exit(1)
	}

	// cover asset host
	var covers coverrepo.Store
	if cfg.CoverBucket != "" {
		covers, err = coverrepo.NewS3(ctx, coverrepo.Config{
			Bucket:   cfg.CoverBucket,
			Region:   cfg.CoverRegion,
			Endpoint: cfg.CoverEndpoint,
		})
		if err != nil {
			log.Error("cover store init failed", "err", err)
			os.Exit(1)
		}
	} else {
		log.Warn("COVER_S3_BUCKET not set, cover uploads disabled")
		covers = coverrepo.NewDisabled()
	}

	// repos
	ar := adminrepo.New(db)
	br := bookrepo.New(db)
	lr := borrowrepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	cs := catalogsvc.New(br, lr, covers)
	rs := circsvc.New(db, br, lr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: cs, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:      authC,
		Book:      bookC,
		Borrowing: borrowC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
