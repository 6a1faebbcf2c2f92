package wsgateway_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/relay"
	"whistlenet/services/report-api/internal/interfaces/wsgateway"
)

type memRegistry struct {
	mu      sync.Mutex
	entries map[string]*relay.ConnectionEntry
}

func newMemRegistry() *memRegistry {
	return &memRegistry{entries: make(map[string]*relay.ConnectionEntry)}
}

func (m *memRegistry) Save(_ context.Context, entry *relay.ConnectionEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *entry
	m.entries[entry.ConnectionID] = &clone
	return nil
}

func (m *memRegistry) DeleteByConnectionID(_ context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, connectionID)
	return nil
}

func (m *memRegistry) FindByReportID(_ context.Context, reportID string) ([]*relay.ConnectionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*relay.ConnectionEntry
	for _, e := range m.entries {
		if e.ReportID == reportID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (m *memRegistry) FindByConnectionID(_ context.Context, connectionID string) (*relay.ConnectionEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.entries[connectionID]; ok {
		clone := *e
		return &clone, nil
	}
	return nil, nil
}

func (m *memRegistry) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func startGatewayServer(t *testing.T) (*httptest.Server, *memRegistry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		WSReadLimit:      65536,
		WSWriteTimeout:   time.Second,
		WSPongTimeout:    time.Minute,
		WSAllowAllOrigin: true,
	}
	registry := newMemRegistry()
	gateway := wsgateway.New(cfg, zerolog.Nop())
	relayService := relay.NewService(registry, gateway, zerolog.Nop())
	gateway.SetRelay(relayService)

	engine := gin.New()
	engine.GET("/ws", gateway.Handle)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, registry
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "dial %s", query)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForEntries(t *testing.T, registry *memRegistry, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for registry.count() != want {
		if time.Now().After(deadline) {
			t.Fatalf("registry has %d entries, want %d", registry.count(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandshakeRequiresReportID(t *testing.T) {
	srv, _ := startGatewayServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, 400, resp.StatusCode)
}

func TestMessageFansOutToPeersOnly(t *testing.T) {
	srv, registry := startGatewayServer(t)

	reporter := dial(t, srv, "reportId=r1&userType=REPORTER")
	admin := dial(t, srv, "reportId=r1&userType=ADMIN")
	bystander := dial(t, srv, "reportId=r2&userType=ADMIN")
	waitForEntries(t, registry, 3)

	err := reporter.WriteJSON(map[string]string{"message": "hello"})
	require.NoError(t, err)

	admin.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := admin.ReadMessage()
	require.NoError(t, err)

	var env relay.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.Equal(t, "hello", env.Message)
	require.Equal(t, relay.RoleReporter, env.UserType)
	require.Equal(t, relay.RoleReporter, env.Sender)

	// Neither the sender nor a connection on another report receives anything.
	for _, conn := range []*websocket.Conn{reporter, bystander} {
		conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, _, err := conn.ReadMessage()
		require.Error(t, err)
	}
}

func TestDisconnectDeregisters(t *testing.T) {
	srv, registry := startGatewayServer(t)

	conn := dial(t, srv, "reportId=r1&userType=REPORTER")
	waitForEntries(t, registry, 1)

	require.NoError(t, conn.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
	))
	conn.Close()
	waitForEntries(t, registry, 0)
}

func TestMalformedMessageIsDropped(t *testing.T) {
	srv, registry := startGatewayServer(t)

	sender := dial(t, srv, "reportId=r1&userType=REPORTER")
	peer := dial(t, srv, "reportId=r1&userType=ADMIN")
	waitForEntries(t, registry, 2)

	require.NoError(t, sender.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, sender.WriteJSON(map[string]string{"message": "after garbage"}))

	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := peer.ReadMessage()
	require.NoError(t, err)

	var env relay.Envelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.Equal(t, "after garbage", env.Message)
}
