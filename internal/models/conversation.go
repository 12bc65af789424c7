// internal/models/conversation.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ConversationMessage is one side of an assistant exchange, tenant scoped.
// Domain and Confidence are only populated for assistant messages.
type ConversationMessage struct {
	ID         uuid.UUID   `json:"id"`
	TenantID   string      `json:"tenantId"`
	Role       MessageRole `json:"role"`
	Content    string      `json:"content"`
	Domain     QueryDomain `json:"domain,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
}
