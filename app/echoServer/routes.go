package echoServer

import (
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/auth"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/billing"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/communication"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/guest"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/inventory"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/lease"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/maintenance"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/payment"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/room"
	"github.com/miccx-24/boardinghousebackend/app/echoServer/controller/tenant"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	Billing     *billing.Controller
	Payment     *payment.Controller
	Room        *room.Controller
	Tenant      *tenant.Controller
	Inventory   *inventory.Controller
	Maintenance *maintenance.Controller
	Guest       *guest.Controller
	Lease       *lease.Controller
	Comm        *communication.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/register", c.Auth.Register)
	pub.POST("/auth/login", c.Auth.Login)

	jwtMW := echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return jwt.MapClaims{}
		},
	})

	// Billing endpoints kept at their historical paths.
	bg := e.Group("/v1/billing", jwtMW)
	bg.POST("/pay", c.Payment.Pay, RequireRole("tenant"))
	bg.GET("/history", c.Billing.History, RequireRole("tenant"))
	bg.POST("/void/:paymentId", c.Payment.Void, RequireRole("landlord"))

	// Landlord
	ll := e.Group("/v1/landlord", jwtMW, RequireRole("landlord"))

	ll.POST("/rooms", c.Room.Create)
	ll.GET("/rooms", c.Room.List)
	ll.GET("/rooms/maintenance", c.Room.Maintenance)
	ll.GET("/rooms/stats", c.Room.Stats)
	ll.PATCH("/rooms/:id", c.Room.Update)
	ll.DELETE("/rooms/:id", c.Room.Delete)

	ll.POST("/tenants", c.Tenant.Create)
	ll.GET("/tenants", c.Tenant.List)
	ll.GET("/tenants/:id", c.Tenant.Detail)
	ll.POST("/tenants/:id/assign-room", c.Tenant.AssignRoom)
	ll.POST("/tenants/:id/remove-room", c.Tenant.RemoveFromRoom)

	ll.POST("/bills", c.Billing.Create)
	ll.GET("/bills", c.Billing.List)
	ll.PATCH("/bills/:id", c.Billing.Update)
	ll.DELETE("/bills/:id", c.Billing.Delete)
	ll.POST("/billing/overdue/run", c.Billing.RunOverdue)

	ll.POST("/payments", c.Payment.Record)
	ll.GET("/payments", c.Payment.List)
	ll.GET("/payments/stats", c.Payment.Stats)
	ll.GET("/payments/:id", c.Payment.Detail)

	ll.POST("/inventory", c.Inventory.Add)
	ll.GET("/inventory", c.Inventory.List)
	ll.GET("/inventory/report", c.Inventory.Report)
	ll.PATCH("/inventory/:id", c.Inventory.Update)
	ll.DELETE("/inventory/:id", c.Inventory.Delete)
	ll.POST("/inventory/:id/transfer", c.Inventory.Transfer)

	ll.GET("/maintenance", c.Maintenance.List)
	ll.PATCH("/maintenance/:id/status", c.Maintenance.SetStatus)
	ll.POST("/maintenance/:id/assign", c.Maintenance.Assign)
	ll.POST("/maintenance/:id/notes", c.Maintenance.AddNote)
	ll.GET("/maintenance/:id/notes", c.Maintenance.Notes)

	ll.POST("/guests", c.Guest.Register)
	ll.GET("/guests", c.Guest.List)
	ll.POST("/guests/:id/approve", c.Guest.Approve)
	ll.POST("/guests/:id/reject", c.Guest.Reject)
	ll.POST("/guests/:id/checkout", c.Guest.Checkout)

	ll.POST("/leases", c.Lease.Create)
	ll.GET("/leases", c.Lease.List)
	ll.GET("/leases/:id", c.Lease.Detail)
	ll.POST("/leases/:id/terminate", c.Lease.Terminate)
	ll.POST("/leases/expire/run", c.Lease.RunExpiry)

	ll.POST("/conversations", c.Comm.Open)
	ll.GET("/conversations", c.Comm.List)
	ll.POST("/conversations/:id/messages", c.Comm.Send)
	ll.GET("/conversations/:id/messages", c.Comm.Messages)

	// Tenant
	tn := e.Group("/v1/tenant", jwtMW, RequireRole("tenant"))

	tn.GET("/profile", c.Tenant.Profile)
	tn.GET("/balance", c.Billing.Balance)

	tn.POST("/payments", c.Payment.CreateMine)
	tn.GET("/payments", c.Payment.ListMine)
	tn.DELETE("/payments/:id", c.Payment.CancelMine)

	tn.POST("/maintenance", c.Maintenance.Create)
	tn.GET("/maintenance", c.Maintenance.ListMine)

	tn.GET("/lease", c.Lease.Mine)

	tn.POST("/conversations", c.Comm.OpenMine)
	tn.POST("/conversations/:id/messages", c.Comm.Send)
	tn.GET("/conversations/:id/messages", c.Comm.Messages)
}
