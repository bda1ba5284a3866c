package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vitalis-health/vitalis/internal/config"
	"github.com/vitalis-health/vitalis/internal/domains/consult"
	"github.com/vitalis-health/vitalis/internal/domains/user"
	"github.com/vitalis-health/vitalis/internal/handlers"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

// Message types for WebSocket communication
type MessageType string

const (
	MessageTypeText  MessageType = "text"
	MessageTypeReply MessageType = "reply"
	MessageTypeError MessageType = "error"
)

// WebSocket message structure
type WSMessage struct {
	Type           MessageType `json:"type"`
	Content        string      `json:"content,omitempty"`
	ConversationID string      `json:"conversationId,omitempty"`
	Reply          interface{} `json:"reply,omitempty"`
}

// Connection state for each chat socket
type ChatConnection struct {
	ConversationID string
	Conn           *websocket.Conn
	ConnectedAt    time.Time
	LastActive     time.Time

	writeMu sync.Mutex
}

func (cc *ChatConnection) writeJSON(v interface{}) error {
	cc.writeMu.Lock()
	defer cc.writeMu.Unlock()
	return cc.Conn.WriteJSON(v)
}

type Dependencies struct {
	UserService    user.UserService
	ConsultService consult.ConsultService
	Registry       *router.Registry
	Tracker        *router.Tracker
	Logger         *Logger.Logger
	Configs        *config.Settings
}

// RoutesManager manages routes and live chat connections
type RoutesManager struct {
	deps            Dependencies
	chatConnections map[string]*ChatConnection
	connectionMutex sync.RWMutex
}

func NewServerDependencies(
	userService user.UserService,
	consultService consult.ConsultService,
	registry *router.Registry,
	tracker *router.Tracker,
	logger *Logger.Logger,
	config *config.Settings,
) Dependencies {
	return Dependencies{
		UserService:    userService,
		ConsultService: consultService,
		Registry:       registry,
		Tracker:        tracker,
		Logger:         logger,
		Configs:        config,
	}
}

func NewRoutesManager(deps Dependencies) *RoutesManager {
	return &RoutesManager{
		deps:            deps,
		chatConnections: make(map[string]*ChatConnection),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true }, // dev-only
}

func InitializeRoutes(cfg *config.Settings, r *gin.Engine, dep Dependencies) {
	r.Use(handlers.CORSMiddleware())
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))

	r.GET("/", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"message": "Server healthy"}) })
	r.GET("/health", func(ctx *gin.Context) { ctx.JSON(200, gin.H{"status": "ok"}) })

	v1 := r.Group("/v1")

	userHandler := handlers.NewUserHandler(dep.UserService, dep.Logger)
	userHandler.RegisterUserRoutes(v1)

	consultHandler := handlers.NewConsultHandler(dep.ConsultService, dep.Logger)
	consultHandler.RegisterConsultRoutes(v1, dep.UserService)

	statusHandler := handlers.NewStatusHandler(dep.Registry, dep.Tracker, dep.Logger)
	statusHandler.RegisterStatusRoutes(v1)

	// Live chat over WebSocket
	rm := NewRoutesManager(dep)
	v1.GET("/ws", rm.handleChatWebSocket)
}

// handleChatWebSocket serves a text chat session. Each socket gets its own
// conversation id unless the client supplies one; replies are routed through
// the same dispatch path as the REST chat endpoint.
func (rm *RoutesManager) handleChatWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rm.deps.Logger.Errorf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conversationID := c.Query("conversation_id")
	if conversationID == "" {
		conversationID = uuid.New().String()
	}

	rm.deps.Logger.Infof("chat ws connected - ConversationID: %s", conversationID)

	chatConn := &ChatConnection{
		ConversationID: conversationID,
		Conn:           conn,
		ConnectedAt:    time.Now(),
		LastActive:     time.Now(),
	}

	rm.registerChatConnection(conversationID, chatConn)
	defer rm.cleanupChatConnection(conversationID)

	rm.handleConnectionMessages(chatConn)
}

func (rm *RoutesManager) handleConnectionMessages(chatConn *ChatConnection) {
	for {
		messageType, msgBytes, err := chatConn.Conn.ReadMessage()
		if err != nil {
			rm.deps.Logger.Debugf("ws read ended for conversation %s: %v", chatConn.ConversationID, err)
			break
		}

		chatConn.LastActive = time.Now()

		if messageType != websocket.TextMessage {
			rm.deps.Logger.Warnf("unknown message type %d on conversation %s", messageType, chatConn.ConversationID)
			continue
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(msgBytes, &wsMsg); err != nil {
			// Fallback: treat as plain text message
			rm.processTextInput(chatConn, string(msgBytes))
			continue
		}

		switch wsMsg.Type {
		case MessageTypeText:
			rm.processTextInput(chatConn, wsMsg.Content)
		default:
			rm.deps.Logger.Warnf("unhandled ws message type %s on conversation %s", wsMsg.Type, chatConn.ConversationID)
		}
	}
}

func (rm *RoutesManager) processTextInput(chatConn *ChatConnection, text string) {
	if text == "" {
		return
	}

	go func() {
		ctx := context.Background()
		reply, err := rm.deps.ConsultService.Respond(ctx, chatConn.ConversationID, text)
		if err != nil {
			rm.deps.Logger.Errorf("chat processing error for conversation %s: %v", chatConn.ConversationID, err)
			_ = chatConn.writeJSON(WSMessage{
				Type:           MessageTypeError,
				ConversationID: chatConn.ConversationID,
				Content:        routeErrorMessage(err),
			})
			return
		}

		if err := chatConn.writeJSON(WSMessage{
			Type:           MessageTypeReply,
			ConversationID: chatConn.ConversationID,
			Reply:          reply,
		}); err != nil {
			rm.deps.Logger.Errorf("ws write error for conversation %s: %v", chatConn.ConversationID, err)
		}
	}()
}

func routeErrorMessage(err error) string {
	switch {
	case errors.Is(err, router.ErrAllBackendsUnavailable):
		return "No model backend is currently usable"
	case errors.Is(err, router.ErrTimeout):
		return "Model backends timed out"
	case errors.Is(err, router.ErrBackend):
		return "Model backends failed"
	}
	return "Internal server error"
}

// registerChatConnection registers a new chat connection
func (rm *RoutesManager) registerChatConnection(conversationID string, chatConn *ChatConnection) {
	rm.connectionMutex.Lock()
	defer rm.connectionMutex.Unlock()
	rm.chatConnections[conversationID] = chatConn
}

// cleanupChatConnection removes the connection when the socket closes
func (rm *RoutesManager) cleanupChatConnection(conversationID string) {
	rm.connectionMutex.Lock()
	defer rm.connectionMutex.Unlock()

	if chatConn, exists := rm.chatConnections[conversationID]; exists {
		duration := time.Since(chatConn.ConnectedAt)
		rm.deps.Logger.Infof("closing chat connection for %s (connected for %v)", conversationID, duration)
		delete(rm.chatConnections, conversationID)
	}
}
