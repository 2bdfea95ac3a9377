package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-kitchensink/internal/interface/http"
)

// MemberModule wires the member REST handlers:
// GET /api/members, GET /api/members/search, GET /api/members/:id,
// POST /api/members (rate limited), DELETE /api/members/:id
type MemberModule struct {
	Handler *handlers.MemberHandler
	Limiter gin.HandlerFunc
}

func NewMemberModule(h *handlers.MemberHandler, limiter gin.HandlerFunc) *MemberModule {
	return &MemberModule{Handler: h, Limiter: limiter}
}

func (m *MemberModule) Register(rg *gin.RouterGroup) {
	members := rg.Group("/members")
	members.GET("", m.Handler.List)
	members.GET("/search", m.Handler.Search)
	members.GET("/:id", m.Handler.Get)
	members.DELETE("/:id", m.Handler.Delete)
	if m.Limiter != nil {
		members.POST("", m.Limiter, m.Handler.Create)
		return
	}
	members.POST("", m.Handler.Create)
}
