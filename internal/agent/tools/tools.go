// Package tools defines the tool surface the model can call: task-plan
// management and CRM contact management, both backed by a state.Store.
package tools

import (
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/state"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tooling"
)

// All returns every tool descriptor bound to the given store.
func All(store *state.Store) []tooling.Descriptor {
	return append(PlanTools(store), CRMTools(store)...)
}
