package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/themesync/internal/config"
	"git.home.luguber.info/inful/themesync/internal/events"
)

func memoryConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Backend = string(config.BackendMemory)
	cfg.History.Enabled = false
	cfg.Content.Dir = ""
	return cfg
}

func TestNewDaemonWiresMemoryBackend(t *testing.T) {
	d, err := New(memoryConfig())
	require.NoError(t, err)
	require.NotNil(t, d.http)
	require.NotNil(t, d.pages)
}

func TestHTTPModeAPI(t *testing.T) {
	d, err := New(memoryConfig())
	require.NoError(t, err)
	handler := d.http.Handler()

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(body))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	rr := post(`{"mode":"dark"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Mode string `json:"mode"`
		Dark bool   `json:"dark"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "dark", resp.Mode)
	assert.True(t, resp.Dark)

	// Toggle flips back to light.
	rr = post(`{"toggle":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "light", resp.Mode)

	// Unknown modes are rejected.
	rr = post(`{"mode":"sepia"}`)
	assert.GreaterOrEqual(t, rr.Code, http.StatusBadRequest)

	// The committed mode is readable.
	req := httptest.NewRequest(http.MethodGet, "/api/mode", nil)
	getRR := httptest.NewRecorder()
	handler.ServeHTTP(getRR, req)
	require.Equal(t, http.StatusOK, getRR.Code)
	require.NoError(t, json.Unmarshal(getRR.Body.Bytes(), &resp))
	assert.Equal(t, "light", resp.Mode)
	assert.False(t, resp.Dark)
}

func TestModeAPIReturnsThemeForCommittedMode(t *testing.T) {
	cfg := memoryConfig()
	cfg.Theme.Dark = config.ThemeVariant{Value: `"mocha"`}
	cfg.Theme.Light = config.ThemeVariant{Value: `"latte"`}

	d, err := New(cfg)
	require.NoError(t, err)
	handler := d.http.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(`{"mode":"dark"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Mode  string          `json:"mode"`
		Theme json.RawMessage `json:"theme"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "dark", resp.Mode)
	assert.JSONEq(t, `"mocha"`, string(resp.Theme))

	// After toggling back, the reported theme follows the mode.
	req = httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(`{"toggle":true}`))
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "light", resp.Mode)
	assert.JSONEq(t, `"latte"`, string(resp.Theme))
}

func TestHTTPServerStartStop(t *testing.T) {
	cfg := memoryConfig()
	cfg.Server.Addr = "127.0.0.1:0"

	d, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	d.http.Start(ctx)
	cancel()
	require.NoError(t, d.http.Stop(context.Background()))
}

func TestHTTPServesShellAndFrame(t *testing.T) {
	d, err := New(memoryConfig())
	require.NoError(t, err)
	handler := d.http.Handler()

	for _, path := range []string{"/", "/frame", "/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

func TestShellReflectsCommittedMode(t *testing.T) {
	d, err := New(memoryConfig())
	require.NoError(t, err)
	handler := d.http.Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/mode", strings.NewReader(`{"mode":"dark"}`))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `class="dark"`)
}

func TestPagesRebuildPublishesRendered(t *testing.T) {
	pages, err := NewPages("Test", "")
	require.NoError(t, err)

	bus := events.NewBus()
	defer bus.Close()

	rendered, unsub := events.Subscribe[events.DocsRendered](bus, 1)
	defer unsub()

	require.NoError(t, pages.Rebuild(context.Background(), "", bus))

	select {
	case <-rendered:
	case <-time.After(time.Second):
		t.Fatal("rebuild did not announce a render")
	}
}

func TestSchedulerRegistersSwitchJobs(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()

	sched, err := NewScheduler(bus)
	require.NoError(t, err)
	defer func() { _ = sched.Stop(context.Background()) }()

	require.NoError(t, sched.ScheduleModeSwitches(config.ScheduleConfig{
		DarkAt:  "21:00",
		LightAt: "07:30",
	}))

	require.Error(t, sched.scheduleAt("25:99", "dark"))
}
