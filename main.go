// Package main boarding house API.
//
// @title           Boarding House Management API
// @version         1.0
// @description     Property management backend (rooms, tenants, billing, payments, maintenance).
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

	"github.com/miccx-24/boardinghousebackend/app/echoServer"
	authctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/auth"
	billingctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/billing"
	commctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/communication"
	guestctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/guest"
	inventoryctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/inventory"
	leasectrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/lease"
	maintctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/maintenance"
	paymentctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/payment"
	roomctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/room"
	tenantctrl "github.com/miccx-24/boardinghousebackend/app/echoServer/controller/tenant"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/validation"
	"github.com/miccx-24/boardinghousebackend/config"
	billrepo "github.com/miccx-24/boardinghousebackend/repository/bill"
	convrepo "github.com/miccx-24/boardinghousebackend/repository/conversation"
	guestrepo "github.com/miccx-24/boardinghousebackend/repository/guest"
	inventoryrepo "github.com/miccx-24/boardinghousebackend/repository/inventory"
	leaserepo "github.com/miccx-24/boardinghousebackend/repository/lease"
	mailrepo "github.com/miccx-24/boardinghousebackend/repository/mailer"
	maintrepo "github.com/miccx-24/boardinghousebackend/repository/maintenance"
	paymentrepo "github.com/miccx-24/boardinghousebackend/repository/payment"
	roomrepo "github.com/miccx-24/boardinghousebackend/repository/room"
	striperepo "github.com/miccx-24/boardinghousebackend/repository/stripe"
	tenantrepo "github.com/miccx-24/boardinghousebackend/repository/tenant"
	userrepo "github.com/miccx-24/boardinghousebackend/repository/user"
	authsvc "github.com/miccx-24/boardinghousebackend/service/auth"
	billingsvc "github.com/miccx-24/boardinghousebackend/service/billing"
	commsvc "github.com/miccx-24/boardinghousebackend/service/communication"
	guestsvc "github.com/miccx-24/boardinghousebackend/service/guest"
	inventorysvc "github.com/miccx-24/boardinghousebackend/service/inventory"
	leasesvc "github.com/miccx-24/boardinghousebackend/service/lease"
	maintsvc "github.com/miccx-24/boardinghousebackend/service/maintenance"
	paymentsvc "github.com/miccx-24/boardinghousebackend/service/payment"
	roomsvc "github.com/miccx-24/boardinghousebackend/service/room"
	tenantsvc "github.com/miccx-24/boardinghousebackend/service/tenant"
	"github.com/miccx-24/boardinghousebackend/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	tr := tenantrepo.New(db)
	rr := roomrepo.New(db)
	br := billrepo.New(db)
	pr := paymentrepo.New(db)
	ir := inventoryrepo.New(db)
	mr := maintrepo.New(db)
	gr := guestrepo.New(db)
	lr := leaserepo.New(db)
	cr := convrepo.New(db)
	gw := striperepo.NewHTTP(cfg.StripeAPIKey)
	mailer := mailrepo.NewHTTP(cfg.MailerURL, cfg.MailerAPIKey)

	// services
	as := authsvc.New(ur, cfg.JWTSecret)
	tens := tenantsvc.New(db, tr, rr)
	rooms := roomsvc.New(rr)
	bills := billingsvc.New(br, tr, pr, gw)
	pays := paymentsvc.New(db, pr, br, tr, gw, mailer, log)
	inv := inventorysvc.New(db, ir, rr)
	maint := maintsvc.New(mr)
	guests := guestsvc.New(gr, tr, mailer, log)
	leases := leasesvc.New(lr, tr, rr)
	comms := commsvc.New(db, cr, tr)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	billingC := &billingctrl.Controller{Svc: bills, Tenants: tens, V: v, Log: log}
	paymentC := &paymentctrl.Controller{Svc: pays, Tenants: tens, V: v, Log: log}
	roomC := &roomctrl.Controller{Svc: rooms, V: v, Log: log}
	tenantC := &tenantctrl.Controller{Svc: tens, V: v, Log: log}
	inventoryC := &inventoryctrl.Controller{Svc: inv, V: v, Log: log}
	maintC := &maintctrl.Controller{Svc: maint, Tenants: tens, V: v, Log: log}
	guestC := &guestctrl.Controller{Svc: guests, V: v, Log: log}
	leaseC := &leasectrl.Controller{Svc: leases, Tenants: tens, V: v, Log: log}
	commC := &commctrl.Controller{Svc: comms, Tenants: tens, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New(v)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Billing:     billingC,
		Payment:     paymentC,
		Room:        roomC,
		Tenant:      tenantC,
		Inventory:   inventoryC,
		Maintenance: maintC,
		Guest:       guestC,
		Lease:       leaseC,
		Comm:        commC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
