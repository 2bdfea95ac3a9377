// Package web serves the server-rendered registration form.
package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	msgRegistered   = "Registered!"
	msgRegisterFail = "Registration failed, please try again"
	msgListFail     = "Members could not be loaded"
)

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type MemberController struct {
	Svc     *application.Service
	Logger  *logrus.Logger
	Cookies *helpers.Manager
	AppName string
}

func NewMemberController(svc *application.Service, logger *logrus.Logger, cookies *helpers.Manager, appName string) *MemberController {
	return &MemberController{Svc: svc, Logger: logger, Cookies: cookies, AppName: appName}
}

type registerForm struct {
	Name        string `form:"name"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phoneNumber"`
}

type indexPage struct {
	AppName string
	Members []entity.Member
	Form    registerForm
	Errors  map[string]string
	Flash   *helpers.Flash
}

func (h *MemberController) Index(c *gin.Context) {
	page := indexPage{}
	if f, ok := h.Cookies.PopFlash(c); ok {
		page.Flash = &f
	}
	h.render(c, http.StatusOK, page)
}

func (h *MemberController) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		h.Cookies.SetFlash(c, helpers.FlashError, msgRegisterFail)
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	_, err := h.Svc.Register(c.Request.Context(), entity.Member{Name: form.Name, Email: form.Email, PhoneNumber: form.PhoneNumber})
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			h.render(c, http.StatusBadRequest, indexPage{Form: form, Errors: verr.Fields})
			return
		case errors.Is(err, application.ErrDuplicateEmail):
			h.Cookies.SetFlash(c, helpers.FlashError, err.Error())
		default:
			h.Logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("web registration failed")
			h.Cookies.SetFlash(c, helpers.FlashError, msgRegisterFail)
		}
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	h.Cookies.SetFlash(c, helpers.FlashSuccess, msgRegistered)
	c.Redirect(http.StatusSeeOther, "/")
}

// render fills the member list; a failed lookup shows an error instead of the table.
func (h *MemberController) render(c *gin.Context, status int, page indexPage) {
	page.AppName = h.AppName
	members, err := h.Svc.FindAll(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("load members for index")
		page.Flash = &helpers.Flash{Kind: helpers.FlashError, Message: msgListFail}
		if status == http.StatusOK {
			status = http.StatusInternalServerError
		}
	}
	page.Members = members
	if page.Errors == nil {
		page.Errors = map[string]string{}
	}
	c.HTML(status, "index.html", page)
}
