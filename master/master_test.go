package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry(90 * time.Second)
	t.Cleanup(reg.Stop)
	return reg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRegisterHeartbeatAndList(t *testing.T) {
	reg := newTestRegistry(t)
	h := NewRouter(reg)

	rec := do(t, h, http.MethodPost, "/servers/register",
		`{"name":"pong-1","address":"10.0.0.1:8080","status":"waiting","gameMode":"classic"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created registerResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.NotEmpty(t, created.ID)

	rec = do(t, h, http.MethodPost, "/servers/heartbeat",
		`{"id":"`+created.ID+`","players":2,"status":"playing"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/servers", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	var list []ServerInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, ServerInfo{
		ID:         created.ID,
		Name:       "pong-1",
		Address:    "10.0.0.1:8080",
		Players:    2,
		MaxPlayers: 2,
		Status:     "playing",
		GameMode:   "classic",
	}, list[0])
}

func TestRegisterValidation(t *testing.T) {
	h := NewRouter(newTestRegistry(t))

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/servers/register", `{`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodPost, "/servers/register", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/servers/heartbeat", `{"id":"nope"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/servers?joinable=maybe", "").Code)
}

func TestListFilters(t *testing.T) {
	reg := newTestRegistry(t)
	reg.Register(ServerInfo{Name: "b", Players: 1, MaxPlayers: 2, Status: "waiting", GameMode: "classic", Region: "eu"})
	reg.Register(ServerInfo{Name: "a", Players: 2, MaxPlayers: 2, Status: "playing", GameMode: "classic", Region: "us"})
	reg.Register(ServerInfo{Name: "c", Players: 0, MaxPlayers: 2, Status: "waiting", GameMode: "chaos", Region: "eu"})

	names := func(list []ServerInfo) []string {
		var out []string
		for _, s := range list {
			out = append(out, s.Name)
		}
		return out
	}

	assert.Equal(t, []string{"a", "b", "c"}, names(reg.List(Filter{})))
	assert.Equal(t, []string{"b", "c"}, names(reg.List(Filter{Status: "waiting"})))
	assert.Equal(t, []string{"a", "b"}, names(reg.List(Filter{GameMode: "classic"})))
	assert.Equal(t, []string{"b", "c"}, names(reg.List(Filter{JoinableOnly: true})))
	assert.Equal(t, []string{"b"}, names(reg.List(Filter{Region: "eu", GameMode: "classic"})))

	rec := do(t, NewRouter(reg), http.MethodGet, "/servers?joinable=true&mode=chaos", "")
	var list []ServerInfo
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, []string{"c"}, names(list))
}

func TestExpireDropsStaleServers(t *testing.T) {
	reg := newTestRegistry(t)
	now := time.Unix(1_700_000_000, 0)
	reg.now = func() time.Time { return now }

	stale := reg.Register(ServerInfo{Name: "stale"})
	fresh := reg.Register(ServerInfo{Name: "fresh"})

	now = now.Add(60 * time.Second)
	require.True(t, reg.Heartbeat(fresh, 1, ""))
	now = now.Add(30 * time.Second)

	assert.Equal(t, 1, reg.expire())
	assert.False(t, reg.Heartbeat(stale, 0, ""))
	list := reg.List(Filter{})
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].Name)
}

func TestHealth(t *testing.T) {
	rec := do(t, NewRouter(newTestRegistry(t)), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
