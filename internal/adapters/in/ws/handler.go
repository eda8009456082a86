package ws

import (
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"dronedelivery/internal/core/application/simulator"
	"dronedelivery/internal/pkg/logging"

	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 1 << 10
)

// Handler upgrades requests to WebSocket connections and streams notifications.
type Handler struct {
	broker   *Broker
	upgrader ws.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a handler streaming from broker.
func NewHandler(broker *Broker, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		broker: broker,
		upgrader: ws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(_ *http.Request) bool { return true },
		},
		logger: logger.With("component", "EventStream"),
	}
}

// Serve handles GET /api/v1/events. Repeated "channel" query parameters
// restrict the stream; without them every channel is sent.
func (h *Handler) Serve(c echo.Context) error {
	channels, err := parseChannels(c.QueryParams()["channel"])
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.WarnContext(c.Request().Context(), "websocket upgrade failed", "error", err)
		return nil
	}
	defer func() { _ = conn.Close() }()

	sub := h.broker.Subscribe(channels...)
	defer h.broker.Unsubscribe(sub)

	h.logger.InfoContext(c.Request().Context(), "client connected",
		"remote", c.RealIP(), "channels", channels)

	done := make(chan struct{})
	go h.readLoop(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return nil
		case n, ok := <-sub:
			if !ok {
				_ = conn.WriteControl(ws.CloseMessage,
					ws.FormatCloseMessage(ws.CloseGoingAway, "server shutting down"),
					time.Now().Add(writeWait))
				return nil
			}
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return nil
			}
			if err := conn.WriteJSON(n); err != nil {
				h.logger.Warn("websocket write failed", "error", err)
				return nil
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return nil
			}
			if err := conn.WriteMessage(ws.PingMessage, nil); err != nil {
				return nil
			}
		}
	}
}

// readLoop discards client messages and closes done when the peer goes away.
func (h *Handler) readLoop(conn *ws.Conn, done chan struct{}) {
	defer close(done)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			if ws.IsUnexpectedCloseError(err, ws.CloseGoingAway, ws.CloseNormalClosure) {
				h.logger.Debug("websocket closed", "error", err)
			}
			return
		}
	}
}

func parseChannels(raw []string) ([]simulator.Channel, error) {
	known := simulator.Channels()
	channels := make([]simulator.Channel, 0, len(raw))
	for _, r := range raw {
		c := simulator.Channel(r)
		if !slices.Contains(known, c) {
			return nil, fmt.Errorf("unknown channel %q", r)
		}
		channels = append(channels, c)
	}
	return channels, nil
}
