package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vipul43/classmate-sync/internal/http/handler"
	"github.com/vipul43/classmate-sync/internal/http/middleware"
)

// Handlers groups the route handlers mounted by NewRouter.
type Handlers struct {
	Calendar *handler.CalendarHandler
	Tasks    *handler.TasksHandler
	Connect  *handler.ConnectHandler
}

// RouterOptions carries the cross-cutting middleware settings.
type RouterOptions struct {
	Verifier       middleware.IdentityVerifier
	RateLimiter    *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewRouter wires Gin routes and middleware.
func NewRouter(h Handlers, opts RouterOptions) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(opts.RateLimiter.Handler())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Google redirects the browser here without our bearer token; the
	// OAuth state identifies the user instead.
	r.GET("/google/callback", h.Connect.Callback)

	authed := r.Group("/", middleware.RequireUser(opts.Verifier))

	google := authed.Group("/google")
	{
		google.GET("/connect", h.Connect.Start)
		google.DELETE("/connect", h.Connect.Disconnect)
		google.GET("/status", h.Connect.Status)
	}

	cal := authed.Group("/calendar")
	{
		cal.GET("/calendars", h.Calendar.ListCalendars)
		cal.POST("/calendars/selection", h.Calendar.SetSelection)
		cal.GET("/events", h.Calendar.ListEvents)
		cal.POST("/events", h.Calendar.CreateEvent)
		cal.PATCH("/events", h.Calendar.UpdateEvent)
		cal.DELETE("/events", h.Calendar.DeleteEvent)
	}

	tasks := authed.Group("/tasks")
	{
		tasks.GET("/lists", h.Tasks.ListTaskLists)
		tasks.GET("", h.Tasks.ListTasks)
		tasks.POST("", h.Tasks.CreateTask)
		tasks.PATCH("", h.Tasks.UpdateTask)
		tasks.DELETE("", h.Tasks.DeleteTask)
	}

	return r
}
