package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/vitalis-health/vitalis/pkg/assistant/adapters"
)

// Turn is one entry of a conversation's bounded history.
type Turn struct {
	Id        uuid.UUID        `json:"id"`
	Role      adapters.MsgRole `json:"role"`
	Content   string           `json:"content"`
	Model     string           `json:"model,omitempty"` // backend that produced an assistant turn
	Timestamp time.Time        `json:"timestamp"`
}

func NewUserTurn(content string) Turn {
	return Turn{
		Id:        uuid.New(),
		Role:      adapters.USER,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func NewAssistantTurn(content, model string) Turn {
	return Turn{
		Id:        uuid.New(),
		Role:      adapters.ASSISTANT,
		Content:   content,
		Model:     model,
		Timestamp: time.Now(),
	}
}

func (t Turn) ToContractMessage() adapters.ContractMessage {
	return adapters.ContractMessage{
		Role:      t.Role,
		Content:   t.Content,
		CreatedAt: t.Timestamp,
	}
}

func TurnsToContractMessages(turns []Turn) []adapters.ContractMessage {
	msgs := make([]adapters.ContractMessage, len(turns))
	for i, t := range turns {
		msgs[i] = t.ToContractMessage()
	}
	return msgs
}

// ConsultRequest is the chat request body.
// @Description Chat message for a conversation
type ConsultRequest struct {
	ConversationID string `json:"conversation_id" binding:"required" example:"c-84f2"`
	Message        string `json:"message" binding:"required" example:"How much water should I drink per day?"`
}

// ConsultReply is the routed answer for one chat request.
type ConsultReply struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
	ModelUsed      string `json:"model_used"`
	LatencyMs      int64  `json:"latency_ms"`
	Attempts       int    `json:"attempts"`
}
