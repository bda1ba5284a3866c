package handlers

import (
	"time"

	"github.com/vitalis-health/vitalis/internal/domains/user"
	"github.com/vitalis-health/vitalis/internal/types"
	"github.com/vitalis-health/vitalis/pkg/assistant/router"
)

// Response wrapper types for Swagger documentation

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// RegisterResponse represents the response for user registration
type RegisterResponse struct {
	Message string            `json:"message" example:"User registered successfully"`
	User    user.UserResponse `json:"user"`
}

// LoginResponse represents the response for user login
type LoginResponse struct {
	Message string            `json:"message" example:"Login successful"`
	User    user.UserResponse `json:"user"`
	Tokens  user.AuthTokens   `json:"tokens"`
}

// ProfileResponse represents the response for getting user profile
type ProfileResponse struct {
	User user.UserResponse `json:"user"`
}

// ChatResponse wraps a routed consult reply
type ChatResponse struct {
	Reply types.ConsultReply `json:"reply"`
}

// ConversationResponse returns the bounded history of one conversation
type ConversationResponse struct {
	ConversationID string       `json:"conversation_id"`
	Turns          []types.Turn `json:"turns"`
}

// BackendStatus is the live report for one backend
type BackendStatus struct {
	Name        string          `json:"name"`
	Role        router.Role     `json:"role"`
	Provider    string          `json:"provider"`
	Tier        router.Tier     `json:"tier"`
	TimeoutSecs float64         `json:"timeout_secs"`
	Metrics     router.Snapshot `json:"metrics"`
}

// StatusResponse is the full router performance report
type StatusResponse struct {
	Backends    []BackendStatus `json:"backends"`
	GeneratedAt time.Time       `json:"generated_at"`
}
