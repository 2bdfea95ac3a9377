package helpers

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Flash kinds shown by the web form.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Message string
}

type Manager struct {
	Domain string
	Secure bool
	TTL    time.Duration
}

func NewCookie(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure, TTL: time.Minute}
}

// SetFlash stores a one-shot message that survives a redirect.
func (m *Manager) SetFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	value := url.QueryEscape(kind + "|" + message)
	c.SetCookie(flashCookie, value, maxAgeFrom(time.Now().Add(m.TTL)), "/", m.Domain, m.Secure, true)
}

// PopFlash returns the pending flash and clears it. ok is false when there is none.
func (m *Manager) PopFlash(c *gin.Context) (Flash, bool) {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return Flash{}, false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", m.Domain, m.Secure, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return Flash{}, false
	}
	kind, message, found := strings.Cut(decoded, "|")
	if !found || (kind != FlashSuccess && kind != FlashError) {
		return Flash{}, false
	}
	return Flash{Kind: kind, Message: message}, true
}

func maxAgeFrom(exp time.Time) int {
	sec := int(time.Until(exp).Seconds())
	if sec < 0 {
		return 0
	}
	return sec
}
