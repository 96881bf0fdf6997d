// Package main library checkout API.
//
// @title           Smart Library Platform API
// @version         1.0
// @description     Library catalog, borrow/return lifecycle, and staff reporting.
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
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer"
	authctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/auth"
	bookctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/book"
	checkoutctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/checkout"
	reportctrl "github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/controller/report"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/app/echoServer/validation"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/config"
	authrepo "github.com/BaoHo205/Smart-Library-Platform-sub001/repository/auth"
	bookrepo "github.com/BaoHo205/Smart-Library-Platform-sub001/repository/book"
	checkoutrepo "github.com/BaoHo205/Smart-Library-Platform-sub001/repository/checkout"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/repository/inventory"
	reportrepo "github.com/BaoHo205/Smart-Library-Platform-sub001/repository/report"
	authsvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/auth"
	booksvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/book"
	checkoutsvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/checkout"
	reportsvc "github.com/BaoHo205/Smart-Library-Platform-sub001/service/report"
	"github.com/BaoHo205/Smart-Library-Platform-sub001/util/database"
)

const reconcileInterval = 30 * time.Minute

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	led := inventory.New(db.DB)
	ar := authrepo.New(db.DB)
	br := bookrepo.New(db.DB, led)
	cstore := checkoutrepo.NewStore(db.DB, led)
	rr := reportrepo.New(db)

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	bs := booksvc.New(br)
	cs := checkoutsvc.New(cstore, log)
	rs := reportsvc.New(rr)
	reconciler := checkoutsvc.NewReconciler(cstore, log)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	checkoutC := &checkoutctrl.Controller{Svc: cs, V: v, Log: log}
	reportC := &reportctrl.Controller{Svc: rs, Reconciler: reconciler, Log: log}

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

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:     authC,
		Book:     bookC,
		Checkout: checkoutC,
		Report:   reportC,

		JWTSecret: cfg.JWTSecret,
	})

	// periodic ledger reconciliation; mismatches are logged inside
	go func() {
		ticker := time.NewTicker(reconcileInterval)
		defer ticker.Stop()
		for range ticker.C {
			if _, err := reconciler.Reconcile(ctx); err != nil {
				log.Error("reconcile run failed", "err", err)
			}
		}
	}()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	slog.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port)

	e.Logger.Fatal(e.Start(":" + port))
}
