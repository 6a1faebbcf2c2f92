package wsgateway

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"whistlenet/services/report-api/internal/config"
	"whistlenet/services/report-api/internal/domain/relay"
)

// Gateway terminates websocket connections and feeds the relay. Each socket
// is assigned a connection id at upgrade time; the relay only ever sees ids,
// never sockets.
type Gateway struct {
	cfg      *config.Config
	relay    *relay.Service
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *client) write(messageType int, data []byte, timeout time.Duration) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}

func New(cfg *config.Config, log zerolog.Logger) *Gateway {
	g := &Gateway{
		cfg:     cfg,
		log:     log.With().Str("component", "ws-gateway").Logger(),
		clients: make(map[string]*client),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return cfg.WSAllowAllOrigin
		},
	}
	return g
}

// SetRelay binds the relay service. The gateway is the relay's pusher, so
// the two are constructed in sequence and linked here.
func (g *Gateway) SetRelay(relayService *relay.Service) {
	g.relay = relayService
}

// inboundMessage is what a connected client sends over the socket.
type inboundMessage struct {
	Message  string `json:"message"`
	UserType string `json:"userType,omitempty"`
}

// Handle upgrades the request and runs the read loop until the socket closes.
// Query parameters: reportId (required), userType (optional).
func (g *Gateway) Handle(c *gin.Context) {
	reportID := c.Query("reportId")
	if reportID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "reportId query parameter is required"})
		return
	}
	userType := c.Query("userType")

	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	connectionID := uuid.New().String()
	cl := &client{conn: conn}

	g.mu.Lock()
	g.clients[connectionID] = cl
	g.mu.Unlock()

	ctx := c.Request.Context()
	resp := g.relay.HandleConnect(ctx, relay.ConnectEvent{
		ConnectionID: connectionID,
		ReportID:     reportID,
		Role:         relay.Role(userType),
	})
	if resp.StatusCode != http.StatusOK {
		g.drop(connectionID)
		return
	}

	g.log.Debug().
		Str("connection_id", connectionID).
		Str("report_id", reportID).
		Str("user_type", userType).
		Msg("websocket connected")

	go g.pingLoop(cl, connectionID)
	g.readLoop(cl, connectionID, reportID, relay.Role(userType))
}

func (g *Gateway) readLoop(cl *client, connectionID, reportID string, fallbackRole relay.Role) {
	defer func() {
		g.drop(connectionID)
		// Disconnect events run on a fresh context: the request context is
		// already canceled when the socket goes away.
		g.relay.HandleDisconnect(context.Background(), relay.DisconnectEvent{ConnectionID: connectionID})
		g.log.Debug().Str("connection_id", connectionID).Msg("websocket disconnected")
	}()

	cl.conn.SetReadLimit(g.cfg.WSReadLimit)
	_ = cl.conn.SetReadDeadline(time.Now().Add(g.cfg.WSPongTimeout))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(g.cfg.WSPongTimeout))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				g.log.Warn().Err(err).Str("connection_id", connectionID).Msg("websocket read error")
			}
			return
		}

		var msg inboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			g.log.Warn().Err(err).Str("connection_id", connectionID).Msg("dropping malformed websocket message")
			continue
		}

		role := relay.Role(msg.UserType)
		if role == "" {
			role = fallbackRole
		}
		g.relay.HandleMessage(context.Background(), relay.MessageEvent{
			ConnectionID: connectionID,
			ReportID:     reportID,
			Message:      msg.Message,
			Role:         role,
		})
	}
}

func (g *Gateway) pingLoop(cl *client, connectionID string) {
	interval := g.cfg.WSPongTimeout * 9 / 10
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if !g.has(connectionID) {
			return
		}
		if err := cl.write(websocket.PingMessage, nil, g.cfg.WSWriteTimeout); err != nil {
			g.drop(connectionID)
			return
		}
	}
}

// PushToConnection delivers a payload to one local socket. A connection
// missing from the local table is reported gone; write timeouts are
// transient and leave the socket alone.
func (g *Gateway) PushToConnection(_ context.Context, connectionID string, payload []byte) (relay.PushResult, error) {
	g.mu.RLock()
	cl, ok := g.clients[connectionID]
	g.mu.RUnlock()
	if !ok {
		return relay.PushGone, nil
	}

	err := cl.write(websocket.TextMessage, payload, g.cfg.WSWriteTimeout)
	if err == nil {
		return relay.PushOK, nil
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return relay.PushTransient, err
	}

	g.drop(connectionID)
	return relay.PushGone, err
}

func (g *Gateway) has(connectionID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.clients[connectionID]
	return ok
}

func (g *Gateway) drop(connectionID string) {
	g.mu.Lock()
	cl, ok := g.clients[connectionID]
	if ok {
		delete(g.clients, connectionID)
	}
	g.mu.Unlock()
	if ok {
		_ = cl.conn.Close()
	}
}

// Close tears down every live socket, used during shutdown.
func (g *Gateway) Close() {
	g.mu.Lock()
	clients := g.clients
	g.clients = make(map[string]*client)
	g.mu.Unlock()

	for _, cl := range clients {
		_ = cl.write(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			g.cfg.WSWriteTimeout)
		_ = cl.conn.Close()
	}
}
