package sessions

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
)

// MemoryConversationRepository keeps conversation history in process memory.
// This is the default backend; a process restart loses all sessions.
type MemoryConversationRepository struct {
	mu        sync.RWMutex
	histories map[string][]*schema.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{histories: make(map[string][]*schema.Message)}
}

func (r *MemoryConversationRepository) AddMessage(_ context.Context, conversationID string, message *schema.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[conversationID] = append(r.histories[conversationID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(_ context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.histories[conversationID]
	msgs := make([]*schema.Message, len(stored))
	copy(msgs, stored)
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(_ context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.histories, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(_ context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.histories[conversationID]), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
