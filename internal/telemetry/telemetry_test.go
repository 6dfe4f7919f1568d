package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/mazesense/internal/core/mouse"
	"github.com/zeusync/mazesense/internal/core/observability/log"
	"github.com/zeusync/mazesense/internal/simulation"
)

func frame(tick uint64, value float64) simulation.Frame {
	return simulation.Frame{
		Run:      "run",
		Tick:     tick,
		X:        0.09,
		Y:        0.09,
		Readings: []mouse.Reading{{Name: "front", Value: value, Enabled: true}},
	}
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) simulation.Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var f simulation.Frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func TestHubBroadcast(t *testing.T) {
	hub := NewHub(log.Nop())
	s := httptest.NewServer(hub)
	defer s.Close()
	defer hub.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(s.URL, "http"))

	hub.Publish(frame(1, 0.25))
	got := readFrame(t, conn)
	assert.Equal(t, uint64(1), got.Tick)
	require.Len(t, got.Readings, 1)
	assert.Equal(t, "front", got.Readings[0].Name)
	assert.Equal(t, 0.25, got.Readings[0].Value)

	hub.Publish(frame(2, 0.5))
	assert.Equal(t, uint64(2), readFrame(t, conn).Tick)
}

func TestHubSendsLatestFrameOnConnect(t *testing.T) {
	hub := NewHub(log.Nop())
	s := httptest.NewServer(hub)
	defer s.Close()
	defer hub.Close()

	hub.Publish(frame(7, 0.1))
	conn := dial(t, "ws"+strings.TrimPrefix(s.URL, "http"))
	assert.Equal(t, uint64(7), readFrame(t, conn).Tick)
}

func TestHubCloseDisconnects(t *testing.T) {
	hub := NewHub(log.Nop())
	s := httptest.NewServer(hub)
	defer s.Close()

	conn := dial(t, "ws"+strings.TrimPrefix(s.URL, "http"))
	hub.Publish(frame(1, 0))
	readFrame(t, conn)
	assert.Equal(t, 1, hub.Clients())

	hub.Close()
	assert.Equal(t, 0, hub.Clients())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestServerLifecycle(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewHub(log.Nop()), log.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, srv.Stop(ctx), ErrServerNotRunning)
	require.NoError(t, srv.Start(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrServerAlreadyRunning)

	resp, err := http.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	conn := dial(t, "ws://"+srv.Addr()+"/ws")
	srv.Hub().Publish(frame(3, 0.75))
	assert.Equal(t, uint64(3), readFrame(t, conn).Tick)

	require.NoError(t, srv.Stop(ctx))
	assert.ErrorIs(t, srv.Start(ctx), ErrServerClosed)
}

func TestServerListenFailure(t *testing.T) {
	srv := NewServer("256.0.0.1:99999", NewHub(log.Nop()), log.Nop())
	assert.ErrorIs(t, srv.Start(context.Background()), ErrListenerFailed)
}

func TestServerAddrDuringStart(t *testing.T) {
	srv := NewServer("127.0.0.1:0", NewHub(log.Nop()), log.Nop())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = srv.Addr()
		}
	}()
	require.NoError(t, srv.Start(context.Background()))
	wg.Wait()

	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())
	assert.True(t, strings.HasPrefix(srv.Addr(), "127.0.0.1:"))
	require.NoError(t, srv.Stop(context.Background()))
}
