package model

import (
	"fmt"
	"time"
)

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ParseRole validates a raw role string at the boundary.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleSystem, RoleUser, RoleAssistant:
		return Role(raw), nil
	}
	return "", fmt.Errorf("unknown message role %q", raw)
}

// Message is a single conversation entry. Immutable once created.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// NewMessage creates a Message stamped with the current time.
func NewMessage(role Role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}
