package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-kitchensink/internal/application"
	"github.com/oksasatya/go-kitchensink/internal/testutil"
)

type envelope struct {
	Status    int             `json:"status"`
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Meta      map[string]any  `json:"meta"`
	Error     json.RawMessage `json:"error"`
	RequestID string          `json:"request_id"`
}

func newRouter(repo *testutil.MemoryMemberRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	h := NewMemberHandler(application.NewService(repo, logger), logger)
	r := gin.New()
	g := r.Group("/api/members")
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.DELETE("/:id", h.Delete)
	return r
}

func do(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func TestMemberLifecycle(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository())
	payload := `{"name":"John Doe","email":"john@example.com","phoneNumber":"1234567890"}`

	w, env := do(t, r, http.MethodPost, "/api/members", payload)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "John Doe", created.Name)
	assert.Equal(t, "/api/members/"+created.ID, w.Header().Get("Location"))

	w, env = do(t, r, http.MethodPost, "/api/members", payload)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "email john@example.com already exists", env.Message)

	w, _ = do(t, r, http.MethodGet, "/api/members/"+created.ID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, r, http.MethodDelete, "/api/members/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, env = do(t, r, http.MethodGet, "/api/members/"+created.ID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)

	w, _ = do(t, r, http.MethodDelete, "/api/members/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateMember_ValidationErrors(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository())

	w, env := do(t, r, http.MethodPost, "/api/members", `{"name":"John1","email":"nope","phoneNumber":"12"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Error, &fields))
	assert.Equal(t, map[string]string{
		"name":        "must not contain numbers",
		"email":       "must be a valid email",
		"phoneNumber": "must be 10 to 12 digits",
	}, fields)
}

func TestCreateMember_MalformedJSON(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository())

	w, env := do(t, r, http.MethodPost, "/api/members", `{"name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, env.Error)

	w, env = do(t, r, http.MethodPost, "/api/members", `{"name":42}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"payload":"invalid json"}`, string(env.Error))
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	repo := testutil.NewMemoryMemberRepository()
	repo.FindErr = errors.New("dial tcp 10.0.0.5:5432: connection refused")
	r := newRouter(repo)

	w, env := do(t, r, http.MethodPost, "/api/members", `{"name":"John Doe","email":"john@example.com","phoneNumber":"1234567890"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, msgInternal, env.Message)
	assert.NotContains(t, w.Body.String(), "10.0.0.5")

	w, _ = do(t, r, http.MethodGet, "/api/members", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestListMembers(t *testing.T) {
	r := newRouter(testutil.NewMemoryMemberRepository(
		testutil.Member("Robert Johnson", "robert@example.com"),
		testutil.Member("John Smith", "john.smith@mailinator.com"),
		testutil.Member("Alice Adams", "alice@example.com"),
	))

	w, env := do(t, r, http.MethodGet, "/api/members", "")
	require.Equal(t, http.StatusOK, w.Code)
	var all []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 3)
	assert.Equal(t, "Alice Adams", all[0].Name)
	assert.Nil(t, env.Meta)

	w, env = do(t, r, http.MethodGet, "/api/members?domain=@example.com&size=1&page=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, env.Meta["total"])
	var page []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page, 1)
	assert.Equal(t, "Robert Johnson", page[0].Name)

	w, env = do(t, r, http.MethodGet, "/api/members/search?q=john", "")
	require.Equal(t, http.StatusOK, w.Code)
	var hits []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &hits))
	assert.Len(t, hits, 2)
}
