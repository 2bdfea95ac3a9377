package modules

import (
	"context"
	"expvar"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

var publishOnce sync.Once

// MemberCounter reports the number of stored members.
type MemberCounter interface {
	Count(ctx context.Context) (int64, error)
}

// DebugModule serves expvar at GET /api/debug/vars with the active backend
// and the member count published alongside the runtime vars.
type DebugModule struct {
	Backend string
	Members MemberCounter
	Limiter gin.HandlerFunc
}

func NewDebugModule(backend string, members MemberCounter, limiter gin.HandlerFunc) *DebugModule {
	return &DebugModule{Backend: backend, Members: members, Limiter: limiter}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	publishOnce.Do(func() {
		expvar.NewString("member_backend").Set(m.Backend)
		expvar.Publish("member_count", expvar.Func(func() any {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			n, err := m.Members.Count(ctx)
			if err != nil {
				return -1
			}
			return n
		}))
	})

	handlers := []gin.HandlerFunc{gin.WrapH(expvar.Handler())}
	if m.Limiter != nil {
		handlers = append([]gin.HandlerFunc{m.Limiter}, handlers...)
	}
	rg.GET("/debug/vars", handlers...)
}
