package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/dashkit/goldenflower/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. Each
// connection owns exactly one table session.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	server    *Server
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	session   *game.Session
	playerID  string
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		server: server,
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) setSession(playerID string, session *game.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
	c.session = session
}

func (c *Connection) getSession() (string, *game.Session) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID, c.session
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	playerID, _ := c.getSession()
	c.logger.Debug("Received message", "type", msg.Type, "player", playerID)

	switch msg.Type {
	case MessageTypeHello:
		var data HelloData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse hello data")
			return
		}
		c.handleHello(data)

	case MessageTypeStart:
		var data StartData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse start data")
			return
		}
		c.handleStart(data)

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse action data")
			return
		}
		c.handleAction(data)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type)
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}

func (c *Connection) pushState() {
	playerID, session := c.getSession()
	if session == nil {
		return
	}

	snapshot, ok := session.Snapshot(playerID)
	if !ok {
		return
	}
	msg, err := NewMessage(MessageTypeState, StateData{Snapshot: snapshot})
	if err != nil {
		c.logger.Error("Failed to create state message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) pushEvent(ev game.Event) {
	msg, err := NewMessage(MessageTypeEvent, EventData{
		Event: ev.EventType().String(),
		Body:  ev,
	})
	if err != nil {
		c.logger.Error("Failed to create event message", "error", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) handleHello(data HelloData) {
	c.logger.Info("Hello", "playerId", data.PlayerID, "name", data.Name)

	if data.PlayerID == "" {
		c.sendError("invalid_hello", "Player id required")
		return
	}
	if _, session := c.getSession(); session != nil {
		c.sendError("already_joined", "Connection already has a session")
		return
	}

	session := c.server.newSession(data.PlayerID, data.Name)
	session.SetOnUpdate(c.pushState)
	session.SetOnEvent(c.pushEvent)
	c.setSession(data.PlayerID, session)

	response, _ := NewMessage(MessageTypeWelcome, WelcomeData{
		PlayerID: data.PlayerID,
		Ante:     c.server.config.Game.Ante,
		MaxBet:   c.server.config.Game.MaxBet,
	})
	_ = c.SendMessage(response)
}

func (c *Connection) handleStart(data StartData) {
	_, session := c.getSession()
	if session == nil {
		c.sendError("not_joined", "Must send hello first")
		return
	}

	if err := session.StartGame(data.Players); err != nil {
		c.sendError("start_failed", err.Error())
	}
}

func (c *Connection) handleAction(data ActionData) {
	playerID, session := c.getSession()
	if session == nil {
		c.sendError("not_joined", "Must send hello first")
		return
	}

	action, err := game.ParseAction(data.Action)
	if err != nil {
		c.sendError("invalid_action", err.Error())
		return
	}

	if err := session.SubmitAction(playerID, action); err != nil {
		c.sendError("action_failed", err.Error())
	}
}
