package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axellelanca/linkshortener/internal/keys"
	"github.com/axellelanca/linkshortener/internal/logger"
	"github.com/axellelanca/linkshortener/internal/repository"
	"github.com/axellelanca/linkshortener/internal/services"
	"github.com/axellelanca/linkshortener/internal/shortid"
)

type testServer struct {
	router *gin.Engine
	clicks *services.ClickAccountant
	redis  *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := repository.NewRedisLinkRepository(client, keys.New(""))
	generator, err := shortid.New(repo)
	require.NoError(t, err)
	clicks := services.NewClickAccountant(repo, 10, 1, time.Second, logger.Discard())
	t.Cleanup(clicks.Close)

	router := NewRouter(logger.Discard())
	SetupRoutes(router, services.NewLinkService(repo, generator, clicks, logger.Discard()), "http://sho.rt/", logger.Discard())
	return &testServer{router: router, clicks: clicks, redis: mr}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reader).Encode(body))
	}
	req := httptest.NewRequest(method, path, &reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestShortenResolveRedirect(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/links", map[string]string{"long_url": "https://example.com/a"})
	require.Equal(t, http.StatusCreated, rr.Code)

	var created LinkResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Hash)
	assert.Equal(t, "https://example.com/a", created.LongURL)
	assert.Equal(t, "http://sho.rt/"+created.Hash, created.ShortURL)
	assert.Nil(t, created.Clicks)

	rr = s.do(t, http.MethodPost, "/api/v1/links", map[string]string{"long_url": "https://example.com/a"})
	require.Equal(t, http.StatusCreated, rr.Code)
	var again LinkResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &again))
	assert.Equal(t, created.Hash, again.Hash)

	rr = s.do(t, http.MethodGet, "/"+created.Hash, nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "https://example.com/a", rr.Header().Get("Location"))
	s.clicks.Close()

	rr = s.do(t, http.MethodGet, "/api/v1/links/"+created.Hash, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var stats LinkResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	require.NotNil(t, stats.Clicks)
	assert.Equal(t, int64(1), *stats.Clicks)
}

func TestCreateBatch(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodPost, "/api/v1/links", map[string][]string{
		"long_urls": {"https://example.com/1", "https://example.com/2"},
	})
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp CreateLinksResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Summary.Total)
	assert.Equal(t, 2, resp.Summary.Successful)
	require.Len(t, resp.Results, 2)
	assert.NotEqual(t, resp.Results[0].Hash, resp.Results[1].Hash)
}

func TestCreateInvalid(t *testing.T) {
	s := newTestServer(t)

	for _, testCase := range []struct {
		name string
		body interface{}
	}{
		{name: "empty", body: map[string]string{}},
		{name: "not a url", body: map[string]string{"long_url": "not a url"}},
		{name: "bad batch entry", body: map[string][]string{"long_urls": {"https://example.com", "nope"}}},
	} {
		t.Run(testCase.name, func(t *testing.T) {
			rr := s.do(t, http.MethodPost, "/api/v1/links", testCase.body)
			assert.Equal(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestNotFound(t *testing.T) {
	s := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/doesNotExist", nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/api/v1/links/doesNotExist", nil).Code)
}

func TestStoreDown(t *testing.T) {
	s := newTestServer(t)
	s.redis.Close()

	assert.Equal(t, http.StatusServiceUnavailable, s.do(t, http.MethodGet, "/abc", nil).Code)
	rr := s.do(t, http.MethodPost, "/api/v1/links", map[string]string{"long_url": "https://example.com/a"})
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "linkshortener_")
}
