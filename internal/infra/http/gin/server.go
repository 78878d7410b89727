package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"adboard/internal/infra/config"
	"adboard/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Billboard      BillboardHTTP
	Booking        BookingHTTP
	Complaint      ComplaintHTTP
	Admin          AdminHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.GET("/auth/me", h.Auth.Me)
		api.PUT("/auth/profile", h.Auth.UpdateProfile)
		api.PUT("/auth/password", h.Auth.ChangePassword)
		api.PUT("/auth/role", h.Auth.ChangeRole)
	}
	if h.Billboard != nil {
		api.GET("/billboards", h.Billboard.Catalog)
		api.GET("/billboards/:id", h.Billboard.Get)
		api.POST("/billboards", h.Billboard.Create)
		api.PUT("/billboards/:id", h.Billboard.Update)
		api.DELETE("/billboards/:id", h.Billboard.Delete)
		api.POST("/billboards/:id/image", h.Billboard.UploadImage)
		api.GET("/owner/billboards", h.Billboard.ListMine)
	}
	if h.Booking != nil {
		api.POST("/bookings", h.Booking.Create)
		api.GET("/bookings/:id", h.Booking.Get)
		api.PUT("/bookings/:id/status", h.Booking.UpdateStatus)
		api.PUT("/bookings/my/:id/cancel", h.Booking.Cancel)
		api.POST("/bookings/:id/dispute", h.Booking.OpenDispute)
		api.GET("/my/bookings", h.Booking.ListMine)
		api.GET("/owner/bookings", h.Booking.ListForOwner)
	}
	if h.Complaint != nil {
		api.POST("/complaints", h.Complaint.File)
		api.GET("/my/complaints", h.Complaint.ListMine)
	}
	if h.Admin != nil {
		admin := api.Group("/admin")
		admin.GET("/billboards", h.Admin.ListBillboards)
		admin.PUT("/billboards/:id/approval", h.Admin.ReviewBillboard)
		admin.GET("/users", h.Admin.ListUsers)
		admin.PUT("/users/:id/promote", h.Admin.PromoteAdmin)
		admin.GET("/complaints", h.Admin.ListComplaints)
		admin.PUT("/complaints/:id/status", h.Admin.UpdateComplaintStatus)
		admin.GET("/disputes", h.Admin.ListDisputes)
		admin.PUT("/disputes/:id/status", h.Admin.UpdateDisputeStatus)
		admin.GET("/dashboard", h.Admin.Dashboard)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
