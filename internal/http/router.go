package http

import (
	"context"
	"log/slog"

	"github.com/geocoder89/formhub/internal/backend"
	"github.com/geocoder89/formhub/internal/config"
	"github.com/geocoder89/formhub/internal/http/handlers"
	"github.com/geocoder89/formhub/internal/http/middlewares"
	"github.com/geocoder89/formhub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Deps is everything the router needs. Prom, Gatherer and Ping are optional.
type Deps struct {
	Log      *slog.Logger
	Config   config.Config
	Backend  backend.Backend
	Pages    handlers.PageLoader
	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Ping     func(context.Context) error
}

func NewRouter(d Deps) *gin.Engine {
	if d.Config.Env != "dev" && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(otelgin.Middleware(d.Config.ServiceName))

	if d.Prom != nil {
		r.Use(d.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(d.Config.AllowedOrigins))
	r.Use(middlewares.RequestTimeout(d.Config.RequestTimeout))

	// health
	h := handlers.NewHealthHandler(d.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	home := handlers.NewHomeHandler(d.Pages, log)
	r.GET("/", home.Home)

	submit := handlers.NewSubmitHandler(d.Backend, d.Config.MaxBodyBytes, log, d.Prom)

	submitChain := []gin.HandlerFunc{}
	if d.Config.SubmitRateLimit > 0 {
		rl := middlewares.NewRateLimiter(d.Config.SubmitRateLimit, d.Config.SubmitRateWindow)
		submitChain = append(submitChain, rl.RateLimiterMiddleware(middlewares.KeyByIP))
	}
	submitChain = append(submitChain, submit.Submit)

	r.POST("/submit", submitChain...)

	r.NoRoute(handlers.NotFound)

	return r
}
