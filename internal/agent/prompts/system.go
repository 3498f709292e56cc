package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tools"
)

//go:embed template/system_prompt.txt
var systemPromptTemplate string

// RenderSystem renders the assistant's system prompt for one turn.
func RenderSystem(ctx context.Context, persona model.PersonaConfig) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(systemPromptTemplate),
	)
	vars := map[string]any{
		"AssistantName":     persona.AssistantName,
		"BusinessType":      persona.BusinessType,
		"CreateContactTool": tools.ToolCreateContact,
		"ListContactsTool":  tools.ToolListContacts,
		"AddListingTool":    tools.ToolAddListingToContact,
		"CreatePlanTool":    tools.ToolCreatePlan,
		"UpdatePlanTool":    tools.ToolUpdatePlan,
		"GetPlanTool":       tools.ToolGetPlan,
		"ResetPlanTool":     tools.ToolResetPlan,
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("system prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("system prompt render: empty result")
	}
	return msgs[0].Content, nil
}
