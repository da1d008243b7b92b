package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"campus-sublets/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

var pathParam = regexp.MustCompile(`:(\w+)`)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAPIRoutesMatchSwaggerDoc(t *testing.T) {
	a := &App{Config: &config.Config{}, Router: gin.New()}
	a.setupAPIRoutes()

	raw, err := swag.ReadDoc()
	require.NoError(t, err)
	var doc struct {
		BasePath string                                `json:"basePath"`
		Paths    map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	routed := map[string]bool{}
	for _, route := range a.Router.Routes() {
		path := pathParam.ReplaceAllString(strings.TrimPrefix(route.Path, doc.BasePath), "{$1}")
		key := strings.ToLower(route.Method) + " " + path
		routed[key] = true
		_, ok := doc.Paths[path][strings.ToLower(route.Method)]
		assert.True(t, ok, "%s %s has no swagger entry", route.Method, route.Path)
	}

	for path, methods := range doc.Paths {
		for method := range methods {
			assert.True(t, routed[method+" "+path], "documented %s %s is not routed", method, path)
		}
	}
}

func TestSwaggerDocIsServed(t *testing.T) {
	a := &App{Config: &config.Config{}, Router: gin.New()}
	a.setupStaticRoutes()

	req := httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil)
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Campus Sublets API")
	assert.Contains(t, w.Body.String(), "/listings/{id}")
}
