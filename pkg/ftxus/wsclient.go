package ftxus

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const pingInterval = 15 * time.Second

// WSClient handles the WebSocket connection to FTX.US and message routing.
type WSClient struct {
	url     string
	markets []string
	handler func([]byte)
	logger  *zap.Logger

	mu   sync.Mutex // guards conn writes (ping vs. subscribe)
	conn *websocket.Conn
}

// NewWSClient creates a new WebSocket client subscribing to the given markets.
func NewWSClient(url string, markets []string, logger *zap.Logger) *WSClient {
	return &WSClient{
		url:     url,
		markets: markets,
		logger:  logger,
	}
}

// SetMessageHandler sets the function to handle incoming messages.
func (c *WSClient) SetMessageHandler(h func([]byte)) {
	c.handler = h
}

// Connect establishes the WebSocket connection and subscribes to the ticker
// channel for every configured market. It does not start the listener.
func (c *WSClient) Connect() error {
	conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		c.logger.Error("Failed to connect to WebSocket", zap.String("url", c.url), zap.Error(err))
		return err
	}
	c.conn = conn
	c.logger.Info("WebSocket connected", zap.String("url", c.url))

	if err := c.subscribe(); err != nil {
		c.logger.Error("Failed to send subscription", zap.Error(err))
		return err
	}

	return nil
}

// Listen reads messages until the connection drops, then reconnects and
// resubscribes indefinitely. A pong loop keeps the connection alive; FTX
// drops clients that stay silent for 60 seconds.
func (c *WSClient) Listen() {
	stopPing := make(chan struct{})
	defer close(stopPing)
	go c.pingLoop(stopPing)

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.logger.Error("WebSocket read error", zap.Error(err))

			// Retry reconnecting indefinitely
			for {
				time.Sleep(3 * time.Second)
				if err := c.reconnectAndResubscribe(); err != nil {
					c.logger.Warn("Retrying reconnect...")
					continue
				}
				c.logger.Info("Reconnected successfully")
				break
			}
			continue // Start listening again with the new connection
		}

		if c.handler != nil {
			c.handler(msg)
		}
	}
}

func (c *WSClient) subscribe() error {
	for _, market := range c.markets {
		subMsg := map[string]interface{}{
			"op":      "subscribe",
			"channel": "ticker",
			"market":  market,
		}
		if err := c.writeJSON(subMsg); err != nil {
			return fmt.Errorf("websocket subscribe failed for %s: %w", market, err)
		}
	}
	return nil
}

func (c *WSClient) pingLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := c.writeJSON(map[string]interface{}{"op": "ping"}); err != nil {
				c.logger.Warn("Failed to send ping", zap.Error(err))
			}
		}
	}
}

func (c *WSClient) reconnectAndResubscribe() error {
	newConn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	// Close the old connection if it exists
	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.conn = newConn
	c.mu.Unlock()

	return c.subscribe()
}

func (c *WSClient) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("websocket not connected")
	}
	return c.conn.WriteJSON(v)
}
