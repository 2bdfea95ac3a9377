package web

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/testutil"
	"github.com/oksasatya/go-kitchensink/pkg/helpers"
)

func newRouter(repo *testutil.MemoryMemberRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctl := NewMemberController(application.NewService(repo, logger), logger, helpers.NewCookie("", false), "Kitchensink")
	r := gin.New()
	r.SetHTMLTemplate(Templates())
	r.GET("/", ctl.Index)
	r.POST("/register", ctl.Register)
	return r
}

func postForm(r http.Handler, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getIndex(r http.Handler, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func valid() url.Values {
	return url.Values{"name": {"Jane Doe"}, "email": {"jane@example.com"}, "phoneNumber": {"2125551214"}}
}

func TestIndexListsMembers(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository(testutil.Member("John Smith", "john.smith@mailinator.com")))

	w := getIndex(r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "john.smith@mailinator.com")
	assert.Contains(t, w.Body.String(), `href="/api/members/1"`)
	assert.NotContains(t, w.Body.String(), `id="flash"`)
}

func TestRegisterSuccessRedirectsWithFlash(t *testing.T) {
	repo := testutil.NewMemoryMemberRepository()
	r := newRouter(repo)

	w := postForm(r, valid())
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	page := getIndex(r, cookies...)
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `class="flash-success"`)
	assert.Contains(t, page.Body.String(), "Registered!")
	assert.Contains(t, page.Body.String(), "jane@example.com")

	_, err := repo.FindByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
}

func TestRegisterValidationRerendersForm(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository())
	form := valid()
	form.Set("name", "Jane 2")
	form.Set("phoneNumber", "12")

	w := postForm(r, form)
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "must not contain numbers")
	assert.Contains(t, body, "must be 10 to 12 digits")
	assert.Contains(t, body, `value="jane@example.com"`)
	assert.Contains(t, body, `value="Jane 2"`)
}

func TestRegisterDuplicateRedirectsWithError(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository(testutil.Member("Jane Doe", "jane@example.com")))

	w := postForm(r, valid())
	require.Equal(t, http.StatusSeeOther, w.Code)

	page := getIndex(r, w.Result().Cookies()...)
	assert.Contains(t, page.Body.String(), `class="flash-error"`)
	assert.Contains(t, page.Body.String(), "email jane@example.com already exists")
}

func TestRegisterInternalErrorHidesCause(t *testing.T) {
	repo := testutil.NewMemoryMemberRepository()
	r := newRouter(repo)
	repo.SaveErr = errors.New("disk full")

	w := postForm(r, valid())
	require.Equal(t, http.StatusSeeOther, w.Code)

	page := getIndex(r, w.Result().Cookies()...)
	assert.Contains(t, page.Body.String(), msgRegisterFail)
	assert.NotContains(t, page.Body.String(), "disk full")
}

func TestIndexListFailure(t *testing.T) {
	repo := testutil.NewMemoryMemberRepository()
	repo.FindErr = errors.New("down")
	r := newRouter(repo)

	w := getIndex(r)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), msgListFail)
}
