package memory

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"kurisu-bot/internal/model"
)

const (
	DefaultMaxMessages = 30
	DefaultMaxUsers    = 128
)

// Memory holds the bounded per-user conversation logs.
// Each user's log keeps the most recent maxMessages entries in insertion
// order (FIFO eviction). The user table itself is an LRU so logs of chats
// gone quiet are eventually released.
type Memory struct {
	maxMessages int
	mu          sync.Mutex
	logs        *lru.Cache[int64, *userLog]
}

type userLog struct {
	messages []model.Message
}

// New creates a Memory bounded to maxMessages per user and maxUsers logs.
func New(maxMessages, maxUsers int) (*Memory, error) {
	if maxMessages <= 0 {
		maxMessages = DefaultMaxMessages
	}
	if maxUsers <= 0 {
		maxUsers = DefaultMaxUsers
	}

	logs, err := lru.New[int64, *userLog](maxUsers)
	if err != nil {
		return nil, err
	}

	return &Memory{
		maxMessages: maxMessages,
		logs:        logs,
	}, nil
}

// AddMessage appends a message to the user's log, evicting the oldest entry
// once the log exceeds the configured maximum.
func (m *Memory) AddMessage(userID int64, role model.Role, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	log, ok := m.logs.Get(userID)
	if !ok {
		log = &userLog{}
		m.logs.Add(userID, log)
	}

	log.messages = append(log.messages, model.NewMessage(role, content))
	if len(log.messages) > m.maxMessages {
		overflow := len(log.messages) - m.maxMessages
		log.messages = append(log.messages[:0:0], log.messages[overflow:]...)
	}
}

// History returns a copy of the user's log, oldest first.
func (m *Memory) History(userID int64) []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	log, ok := m.logs.Get(userID)
	if !ok {
		return nil
	}

	out := make([]model.Message, len(log.messages))
	copy(out, log.messages)
	return out
}

// Clear drops the user's log entirely.
func (m *Memory) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs.Remove(userID)
}
