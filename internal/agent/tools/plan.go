package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/schema"

	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/state"
	"github.com/LiamConnell/compass-gcp-ai-starter-pack/internal/agent/tooling"
)

const (
	ToolCreatePlan = "create_plan"
	ToolUpdatePlan = "update_plan"
	ToolGetPlan    = "get_plan"
	ToolResetPlan  = "reset_plan"
)

// PlanTools exposes the task-plan operations of the store as tool descriptors.
func PlanTools(store *state.Store) []tooling.Descriptor {
	return []tooling.Descriptor{
		{
			Name: ToolCreatePlan,
			Desc: "Create a new plan with a list of tasks. Replaces any existing plan entirely. Task ids are assigned from 0 in the order given.",
			Params: map[string]*schema.ParameterInfo{
				"title": {
					Type:     schema.String,
					Desc:     "The title/goal of the plan",
					Required: true,
				},
				"tasks": {
					Type:     schema.Array,
					ElemInfo: &schema.ParameterInfo{Type: schema.String},
					Desc:     "List of task descriptions, in execution order",
					Required: true,
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				title, _ := args["title"].(string)
				return store.CreatePlan(title, stringSlice(args["tasks"])), nil
			},
		},
		{
			Name: ToolUpdatePlan,
			Desc: "Update the completion status of a task in the current plan by its 0-based id.",
			Params: map[string]*schema.ParameterInfo{
				"task_id": {
					Type:     schema.Integer,
					Desc:     "The id of the task to update (0-based)",
					Required: true,
				},
				"completed": {
					Type:     schema.Boolean,
					Desc:     "Whether the task is completed",
					Required: true,
				},
			},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				taskID := intArg(args["task_id"])
				completed, _ := args["completed"].(bool)

				updated, err := store.UpdatePlan(taskID, completed)
				if err != nil {
					return planError(err, taskID), nil
				}
				return updated, nil
			},
		},
		{
			Name: ToolGetPlan,
			Desc: "Get the current plan with per-task completion status and overall progress.",
			Params: map[string]*schema.ParameterInfo{},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return store.GetPlan(), nil
			},
		},
		{
			Name: ToolResetPlan,
			Desc: "Reset/clear the current plan.",
			Params: map[string]*schema.ParameterInfo{},
			Handler: func(ctx context.Context, args map[string]any) (any, error) {
				return store.ResetPlan(), nil
			},
		},
	}
}

// planError converts plan validation failures into the error-shaped result
// the model sees in-band.
func planError(err error, taskID int) map[string]any {
	var invalid *state.InvalidTaskIDError
	switch {
	case errors.As(err, &invalid):
		return map[string]any{
			"error":       "invalid_task_id",
			"message":     err.Error(),
			"task_id":     taskID,
			"valid_range": fmt.Sprintf("0-%d", invalid.Max),
		}
	default:
		return map[string]any{
			"error":   "no_plan",
			"message": "No plan exists. Create a plan first using create_plan.",
		}
	}
}

func stringSlice(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, fmt.Sprint(item))
	}
	return out
}

func intArg(v any) int {
	f, _ := v.(float64)
	return int(f)
}
