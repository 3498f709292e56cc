package state

import "fmt"

// Task is a single step of a Plan. IDs are assigned contiguously from 0 at
// plan creation and never change; only Completed is mutable afterwards.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Plan is the singleton task plan held by the store.
type Plan struct {
	Title string `json:"title"`
	Tasks []Task `json:"tasks"`
}

// Progress renders completion as "done/total".
func (p *Plan) Progress() string {
	done := 0
	for _, t := range p.Tasks {
		if t.Completed {
			done++
		}
	}
	return fmt.Sprintf("%d/%d", done, len(p.Tasks))
}

func (p *Plan) clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{Title: p.Title, Tasks: make([]Task, len(p.Tasks))}
	copy(out.Tasks, p.Tasks)
	return out
}

// PlanCreated is the result of CreatePlan.
type PlanCreated struct {
	Status     string `json:"status"`
	Title      string `json:"title"`
	TotalTasks int    `json:"total_tasks"`
	Plan       *Plan  `json:"plan"`
}

// PlanUpdated is the result of UpdatePlan.
type PlanUpdated struct {
	Status          string `json:"status"`
	TaskID          int    `json:"task_id"`
	TaskDescription string `json:"task_description"`
	Completed       bool   `json:"completed"`
	Progress        string `json:"progress"`
	Plan            *Plan  `json:"plan"`
}

// PlanStatus is the result of GetPlan. Plan is nil when none exists.
type PlanStatus struct {
	Status   string `json:"status"`
	Title    string `json:"title,omitempty"`
	Progress string `json:"progress,omitempty"`
	Plan     *Plan  `json:"plan"`
}

// PlanReset is the result of ResetPlan.
type PlanReset struct {
	Status  string `json:"status"`
	HadPlan bool   `json:"had_plan"`
}
