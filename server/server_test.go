package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/erikmagkekse/nas-console/console"
	"github.com/erikmagkekse/nas-console/engine"
	"github.com/erikmagkekse/nas-console/menu"
	"github.com/erikmagkekse/nas-console/model"
	v1 "github.com/erikmagkekse/nas-console/server/api/v1"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	os.Exit(m.Run())
}

type fixture struct {
	handler http.Handler
	hits    *atomic.Int32
	bodies  chan string
}

// newFixture wires the full console against a fake NAS backend.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	hits := &atomic.Int32{}
	bodies := make(chan string, 16)
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		data, _ := io.ReadAll(r.Body)
		bodies <- string(data)

		switch {
		case r.URL.Path == "/api/dashboard/overview":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"capacityGb": 100}`))
		case r.URL.Path == "/api/projects" && r.Method == http.MethodPost:
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write(data)
		case r.URL.Path == "/api/projects":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"items": [], "total": 0}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backend.Close)

	cat, err := menu.Default()
	require.NoError(t, err)

	cfg := &model.ConsoleConfig{APIBase: backend.URL, ListenAddr: ":0"}
	session := console.NewSession(cat, engine.NewClient(cfg.APIBase, 0))
	srv := New(cfg, session, "test", "abc123")

	return &fixture{handler: srv.Handler(), hits: hits, bodies: bodies}
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthzAndPage(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	health := decode[v1.HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "test", health.Version)
	assert.NotEmpty(t, health.Features["api_base"])
	assert.Empty(t, health.Selected)
	assert.Zero(t, health.Running)

	rec = f.do(t, http.MethodPost, "/v1/session/select", `{"key": "dashboard.overview"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	<-f.bodies
	health = decode[v1.HealthResponse](t, f.do(t, http.MethodGet, "/healthz", ""))
	assert.Equal(t, "dashboard.overview", health.Selected)
	assert.Zero(t, health.Running)

	rec = f.do(t, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>nas-console</title>")
	assert.NotContains(t, rec.Body.String(), "{{API_BASE}}")

	rec = f.do(t, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartReady(t *testing.T) {
	cat, err := menu.Default()
	require.NoError(t, err)
	cfg := &model.ConsoleConfig{APIBase: "http://127.0.0.1:1", ListenAddr: "127.0.0.1:0"}
	srv := New(cfg, console.NewSession(cat, engine.NewClient(cfg.APIBase, 0)), "test", "abc123")

	assert.False(t, srv.IsReady())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	srv.Start(ctx)

	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.True(t, srv.IsReady())
		}()
	}
	wg.Wait()
}

func TestMenu(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/v1/menu", "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[v1.MenuResponse](t, rec)
	assert.Len(t, m.Groups, 12)
	assert.Positive(t, m.Total)
	assert.Equal(t, "dashboard.overview", m.Groups[0].Items[0].Key)
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestSelectRunsPrimary(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/session/select", `{"key": "dashboard.overview"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	res := decode[v1.RunResponse](t, rec)
	assert.Equal(t, console.StateSucceeded, res.Outcome.State)
	assert.Equal(t, "{\n  \"capacityGb\": 100\n}", res.Outcome.Output)
	require.NotNil(t, res.View.Item)
	assert.Equal(t, "dashboard.overview", res.View.Item.Key)
	assert.Equal(t, console.StateSucceeded, res.View.Primary.State)
	assert.Equal(t, int32(1), f.hits.Load())

	rec = f.do(t, http.MethodGet, "/v1/session", "")
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[console.View](t, rec)
	assert.Equal(t, res.Outcome.Output, view.Primary.Output)
}

func TestSelectErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/session/select", `{"key": "no.such"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, v1.CodeNotFound, decode[v1.ErrorResponse](t, rec).Code)

	rec = f.do(t, http.MethodPost, "/v1/session/select", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, int32(0), f.hits.Load())
}

func TestActions(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/session/select", `{"key": "project.list"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[v1.RunResponse](t, rec)
	require.NotEmpty(t, res.View.Actions)
	assert.Contains(t, res.View.Actions[0].Body, `"clientName": "Alpha Tech"`)
	<-f.bodies

	t.Run("malformed payload never reaches the backend", func(t *testing.T) {
		before := f.hits.Load()
		rec := f.do(t, http.MethodPost, "/v1/session/actions/0/run", `{"body": "{bad json"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		res := decode[v1.RunResponse](t, rec)
		assert.Equal(t, console.StateFailed, res.Outcome.State)
		assert.Equal(t, engine.KindMalformedPayload, res.Outcome.ErrorKind)
		assert.Equal(t, console.StateFailed, res.View.Actions[0].State)
		assert.Equal(t, before, f.hits.Load())
	})

	t.Run("edited payload is sent", func(t *testing.T) {
		rec := f.do(t, http.MethodPut, "/v1/session/actions/0", `{"body": "{\"name\": \"Launch\"}"}`)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = f.do(t, http.MethodPost, "/v1/session/actions/0/run", "")
		require.Equal(t, http.StatusOK, rec.Code)
		res := decode[v1.RunResponse](t, rec)
		assert.Equal(t, console.StateSucceeded, res.Outcome.State)
		assert.JSONEq(t, `{"name":"Launch"}`, <-f.bodies)
	})

	t.Run("unknown action", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/v1/session/actions/9/run", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)

		rec = f.do(t, http.MethodPost, "/v1/session/actions/x/run", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = f.do(t, http.MethodPut, "/v1/session/actions/0", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDraft(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/v1/session/draft/run", `{"method": "get", "endpoint": "api/missing"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[v1.RunResponse](t, rec)
	assert.Equal(t, console.StateFailed, res.Outcome.State)
	assert.Equal(t, "Not Found", res.Outcome.Error)
	assert.Equal(t, engine.KindServer, res.Outcome.ErrorKind)
	assert.Equal(t, "GET", res.View.Primary.Method)

	rec = f.do(t, http.MethodPut, "/v1/session/draft", `{"method": "OPTIONS"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, v1.CodeInvalid, decode[v1.ErrorResponse](t, rec).Code)

	rec = f.do(t, http.MethodPut, "/v1/session/draft", `{"method": "POST", "endpoint": "/api/projects", "body": "{\"name\": \"x\"}"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[console.View](t, rec)
	assert.Equal(t, "POST", view.Primary.Method)

	rec = f.do(t, http.MethodPut, "/v1/session/draft", `{"endpoint": "/api/projects"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[console.View](t, rec)
	assert.Equal(t, "POST", view.Primary.Method)
	assert.Equal(t, `{"name": "x"}`, view.Primary.Body)

	rec = f.do(t, http.MethodPost, "/v1/session/draft/run", "")
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[v1.RunResponse](t, rec)
	assert.Equal(t, console.StateSucceeded, res.Outcome.State)
	assert.Contains(t, res.Outcome.Output, `"name": "x"`)

	rec = f.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `outcome="failed",path="/v1/session/draft/run"`)
	assert.Contains(t, rec.Body.String(), `outcome="succeeded",path="/v1/session/draft/run"`)
	assert.Contains(t, rec.Body.String(), `outcome="none",path="/v1/session/draft"`)
}
