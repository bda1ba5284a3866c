package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vitalis-health/vitalis/internal/domains/consult"
	"github.com/vitalis-health/vitalis/internal/domains/user"
	"github.com/vitalis-health/vitalis/internal/types"
	"github.com/vitalis-health/vitalis/pkg/Logger"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

type ConsultHandler struct {
	consultService consult.ConsultService
	logger         *Logger.Logger
}

func NewConsultHandler(consultService consult.ConsultService, logger *Logger.Logger) *ConsultHandler {
	return &ConsultHandler{
		consultService: consultService,
		logger:         logger,
	}
}

// Chat routes a user message to a model backend
// @Summary Route a chat message and return the model reply
// @Description Routes the message between the precision and fast backends with automatic fallback
// @Tags Consult
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body types.ConsultRequest true "Chat message"
// @Success 200 {object} ChatResponse "Routed reply"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 502 {object} ErrorResponse "Backend failure after retry"
// @Failure 503 {object} ErrorResponse "No usable backend"
// @Failure 504 {object} ErrorResponse "Backend timeout after retry"
// @Router /chat [post]
func (h *ConsultHandler) Chat(c *gin.Context) {
	if _, ok := ExtractUserInfo(c); !ok {
		return
	}

	var req types.ConsultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	reply, err := h.consultService.Respond(c.Request.Context(), req.ConversationID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, router.ErrAllBackendsUnavailable):
			c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "No model backend is currently usable"})
		case errors.Is(err, router.ErrTimeout):
			c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "Model backends timed out"})
		case errors.Is(err, router.ErrBackend):
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Model backends failed"})
		default:
			h.logger.Errorf("chat error: %v", err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: *reply})
}

// GetConversation returns the bounded history of one conversation
// @Summary Retrieve conversation history
// @Description Returns the bounded turn history used as model context
// @Tags Consult
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} ConversationResponse "Conversation turns"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /conversations/{id} [get]
func (h *ConsultHandler) GetConversation(c *gin.Context) {
	if _, ok := ExtractUserInfo(c); !ok {
		return
	}

	conversationID := c.Param("id")
	turns, err := h.consultService.History(c.Request.Context(), conversationID)
	if err != nil {
		h.logger.Errorf("retrieve conversation error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, ConversationResponse{
		ConversationID: conversationID,
		Turns:          turns,
	})
}

// RegisterConsultRoutes registers chat routes behind authentication
func (h *ConsultHandler) RegisterConsultRoutes(r *gin.RouterGroup, userService user.UserService) {
	protected := r.Group("")
	protected.Use(AuthMiddleware(userService, h.logger))
	{
		protected.POST("/chat", h.Chat)
		protected.GET("/conversations/:id", h.GetConversation)
	}
}
