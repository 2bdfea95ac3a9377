package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/domain/entity"
	repo "github.com/oksasatya/go-kitchensink/internal/domain/repository"
	"github.com/oksasatya/go-kitchensink/pkg/response"
	"github.com/oksasatya/go-kitchensink/pkg/validation"
)

const msgInternal = "internal server error"

type MemberHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewMemberHandler(svc *application.Service, logger *logrus.Logger) *MemberHandler {
	return &MemberHandler{Svc: svc, Logger: logger}
}

type createMemberRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
}

// List returns all members ordered by name. Any filter or paging parameter
// switches to a paged result with the total in meta.
func (h *MemberHandler) List(c *gin.Context) {
	if !hasListParams(c) {
		members, err := h.Svc.FindAll(c.Request.Context())
		if err != nil {
			h.internal(c, err, "list members")
			return
		}
		response.Success(c, http.StatusOK, members, "members", nil)
		return
	}

	q := application.Query{
		Name:   c.Query("name"),
		Domain: c.Query("domain"),
		Sort:   repo.ParseSort(c.DefaultQuery("sort", repo.SortByName)),
		Page:   queryInt(c, "page", 0),
		Size:   queryInt(c, "size", repo.DefaultPageSize),
	}
	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		h.internal(c, err, "list members")
		return
	}
	response.Success(c, http.StatusOK, page.Items, "members", response.PageMeta{Total: page.Total, Page: page.Page, Size: page.Size})
}

func (h *MemberHandler) Search(c *gin.Context) {
	hits, err := h.Svc.Search(c.Request.Context(), c.Query("q"), queryInt(c, "size", 0))
	if err != nil {
		h.internal(c, err, "search members")
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", nil)
}

func (h *MemberHandler) Get(c *gin.Context) {
	m, err := h.Svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrMemberNotFound) {
			response.Error[any](c, http.StatusNotFound, "member not found", nil)
			return
		}
		h.internal(c, err, "get member")
		return
	}
	response.Success(c, http.StatusOK, m, "member", nil)
}

func (h *MemberHandler) Create(c *gin.Context) {
	var req createMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	m, err := h.Svc.Register(c.Request.Context(), entity.Member{Name: req.Name, Email: req.Email, PhoneNumber: req.PhoneNumber})
	if err != nil {
		var verr *application.ValidationError
		switch {
		case errors.As(err, &verr):
			response.Error[any](c, http.StatusBadRequest, "validation failed", verr.Fields)
		case errors.Is(err, application.ErrDuplicateEmail):
			response.Error[any](c, http.StatusConflict, err.Error(), map[string]string{"email": "email taken"})
		default:
			h.internal(c, err, "register member")
		}
		return
	}
	c.Header("Location", "/api/members/"+m.ID)
	response.Success(c, http.StatusCreated, m, "member registered", nil)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, application.ErrMemberNotFound) {
			response.Error[any](c, http.StatusNotFound, "member not found", nil)
			return
		}
		h.internal(c, err, "delete member")
		return
	}
	c.Status(http.StatusNoContent)
}

// internal logs the cause and answers with a generic message.
func (h *MemberHandler) internal(c *gin.Context, err error, op string) {
	if h.Logger != nil {
		h.Logger.WithError(err).WithFields(logrus.Fields{
			"op":         op,
			"request_id": c.GetString("request_id"),
		}).Error("request failed")
	}
	response.Error[any](c, http.StatusInternalServerError, msgInternal, nil)
}

func hasListParams(c *gin.Context) bool {
	for _, k := range []string{"name", "domain", "sort", "page", "size"} {
		if _, ok := c.GetQuery(k); ok {
			return true
		}
	}
	return false
}

func queryInt(c *gin.Context, key string, def int) int {
	v, ok := c.GetQuery(key)
	if !ok {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}
