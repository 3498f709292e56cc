package state

import (
	"errors"
	"fmt"
)

// ErrNoPlan is returned by plan mutations when no plan exists yet.
var ErrNoPlan = errors.New("no plan exists")

// InvalidTaskIDError reports a task id outside the plan's range.
type InvalidTaskIDError struct {
	TaskID int
	Max    int
}

func (e *InvalidTaskIDError) Error() string {
	return fmt.Sprintf("invalid task_id %d: must be between 0 and %d", e.TaskID, e.Max)
}

// ContactNotFoundError reports a lookup miss by name or id.
type ContactNotFoundError struct {
	Key string
}

func (e *ContactNotFoundError) Error() string {
	return fmt.Sprintf("contact %q not found", e.Key)
}
