package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/container"
	"github.com/oksasatya/go-kitchensink/internal/infrastructure/cache"
	"github.com/oksasatya/go-kitchensink/internal/infrastructure/messaging"
	"github.com/oksasatya/go-kitchensink/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-kitchensink/internal/interface/http"
	"github.com/oksasatya/go-kitchensink/internal/interface/middleware"
	"github.com/oksasatya/go-kitchensink/internal/interface/web"
	"github.com/oksasatya/go-kitchensink/internal/router/modules"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

// BuildMemberService composes the member service from the container. Only the
// collaborators that are configured get attached.
func BuildMemberService() *application.Service {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	repo := container.GetMemberRepo()

	svc := application.NewService(repo, logger)
	if rdb := container.GetRedis(); rdb != nil {
		svc.Cache = cache.NewMemberListCache(repo, rdb, cfg.MemberCacheTTL, logger)
	}
	if es := container.GetES(); es != nil {
		svc.Index = search.NewMemberIndex(es, cfg.ESMembersIndex, logger)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		svc.Events = messaging.NewMemberPublisher(pub)
	}
	if m := container.GetMetrics(); m != nil {
		svc.Metrics = m
	}
	return svc
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	svc := BuildMemberService()

	registerLimiter := registrationLimiter()

	r.Add(modules.NewMemberModule(handlers.NewMemberHandler(svc, logger), registerLimiter))
	if cfg.DebugMetricsEnabled {
		debugLimiter := middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByIP(), nil)
		r.Add(modules.NewDebugModule(cfg.Backend(), svc, debugLimiter))
	}

	if docs, err := modules.NewDocsModule(); err != nil {
		logger.WithError(err).Error("api docs disabled")
	} else {
		r.Add(docs)
	}

	r.Engine.SetHTMLTemplate(web.Templates())
	cookies := helpers.NewCookie("", cfg.Env == "production")
	r.AddRoot(modules.NewWebModule(web.NewMemberController(svc, logger, cookies, cfg.AppName), registerLimiter))

	if m := container.GetMetrics(); m != nil {
		r.AddRoot(modules.NewMetricsModule(m))
	}
}

func registrationLimiter() gin.HandlerFunc {
	cfg := container.GetConfig()
	var allow middleware.AllowFunc
	if cfg.RateLimitAllowPrivate {
		allow = middleware.AllowPrivateIP()
	}
	return middleware.RateLimit(container.GetRedis(), cfg.RegisterRateLimit, time.Minute, middleware.KeyByIPAndPath(), allow)
}
