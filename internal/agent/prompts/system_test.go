package prompts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/model"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tools"
)

func TestRenderSystem(t *testing.T) {
	out, err := RenderSystem(context.Background(), model.PersonaConfig{
		AssistantName: "Compass-AI",
		BusinessType:  "real estate agency",
	})
	require.NoError(t, err)

	assert.Contains(t, out, "Your name is Compass-AI.")
	assert.Contains(t, out, "real estate agency")
	// No unrendered placeholders left behind.
	assert.NotContains(t, out, "{{")

	for _, name := range []string{
		tools.ToolCreateContact, tools.ToolListContacts, tools.ToolAddListingToContact,
		tools.ToolCreatePlan, tools.ToolUpdatePlan, tools.ToolGetPlan, tools.ToolResetPlan,
	} {
		assert.Contains(t, out, name)
	}
}
