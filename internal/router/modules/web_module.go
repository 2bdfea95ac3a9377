package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-kitchensink/internal/interface/web"
)

// WebModule serves the registration page at the root: GET /, POST /register
type WebModule struct {
	Controller *web.MemberController
	Limiter    gin.HandlerFunc
}

func NewWebModule(ctl *web.MemberController, limiter gin.HandlerFunc) *WebModule {
	return &WebModule{Controller: ctl, Limiter: limiter}
}

func (m *WebModule) Register(rg *gin.RouterGroup) {
	rg.GET("/", m.Controller.Index)
	if m.Limiter != nil {
		rg.POST("/register", m.Limiter, m.Controller.Register)
		return
	}
	rg.POST("/register", m.Controller.Register)
}
