// Package agent ties the turn engine to session history: one Chat call is
// one full turn for one session.
package agent

import (
	"context"
	"errors"

	"github.com/cloudwego/eino/schema"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/engine"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/sessions"
	logx "github.com/LiamConnell/compass-gcp-ai-starter-pack/pkg/logger"
)

// Agent serves chat turns for named sessions.
type Agent struct {
	engine       *engine.Engine
	sessions     *sessions.Manager
	systemPrompt string
}

func New(eng *engine.Engine, mgr *sessions.Manager, systemPrompt string) (*Agent, error) {
	if eng == nil {
		return nil, errors.New("engine is required")
	}
	if mgr == nil {
		return nil, errors.New("session manager is required")
	}
	return &Agent{
		engine:       eng,
		sessions:     mgr,
		systemPrompt: systemPrompt,
	}, nil
}

// Sessions exposes the session manager for transport surfaces.
func (a *Agent) Sessions() *sessions.Manager {
	return a.sessions
}

// Chat runs one turn for the session, creating it if needed. What is
// remembered across turns is the user message and the final answer; tool
// traffic is turn-scoped and reconstructed by the model from history as
// needed. A failed turn persists nothing, so the caller may retry.
func (a *Agent) Chat(ctx context.Context, sessionID, text string) (string, error) {
	a.sessions.GetOrCreate(sessionID)

	repo := a.sessions.Repository()
	history, err := repo.LoadHistory(ctx, sessionID)
	if err != nil {
		return "", err
	}

	msgs := make([]*schema.Message, 0, len(history.Messages)+1)
	if a.systemPrompt != "" {
		msgs = append(msgs, schema.SystemMessage(a.systemPrompt))
	}
	msgs = append(msgs, history.Messages...)

	result, err := a.engine.RunTurn(ctx, msgs, text)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("turn failed")
		return "", err
	}

	if err := repo.AddMessage(ctx, sessionID, schema.UserMessage(text)); err != nil {
		return "", err
	}
	if err := repo.AddMessage(ctx, sessionID, schema.AssistantMessage(result.Final, nil)); err != nil {
		return "", err
	}

	logx.Debug().
		Str("session_id", sessionID).
		Int("round_trips", result.RoundTrips).
		Float64("cost_usd", result.CostUSD).
		Msg("turn persisted")
	return result.Final, nil
}
