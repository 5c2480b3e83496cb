package webhook

import (
	"encoding"
	"errors"
)

// Action is a webhook action. Every webhook subscribes to exactly one.
type Action int

const (
	// ActionTaskCreate is sent when a task is created.
	ActionTaskCreate Action = iota + 1
	// ActionTaskUpdate is sent when a task is updated.
	ActionTaskUpdate
	// ActionTaskDelete is sent when a task is deleted.
	ActionTaskDelete
	// ActionTaskComment is sent when a task is commented on.
	ActionTaskComment
	// ActionTaskLog is sent when time is logged on a task.
	ActionTaskLog
	// ActionProjectCreate is sent when a project is created.
	ActionProjectCreate
	// ActionProjectUpdate is sent when a project is updated.
	ActionProjectUpdate
	// ActionProjectDelete is sent when a project is deleted.
	ActionProjectDelete
	// ActionRoleCreate is sent when a role is created.
	ActionRoleCreate
	// ActionRoleUpdate is sent when a role is updated.
	ActionRoleUpdate
	// ActionRoleDelete is sent when a role is deleted.
	ActionRoleDelete
	// ActionUserCreate is sent when a user is created.
	ActionUserCreate
	// ActionUserUpdate is sent when a user is updated.
	ActionUserUpdate
	// ActionUserDelete is sent when a user is deleted.
	ActionUserDelete
)

// Actions returns all actions in their canonical order.
func Actions() []Action {
	return []Action{
		ActionTaskCreate,
		ActionTaskUpdate,
		ActionTaskDelete,
		ActionTaskComment,
		ActionTaskLog,
		ActionProjectCreate,
		ActionProjectUpdate,
		ActionProjectDelete,
		ActionRoleCreate,
		ActionRoleUpdate,
		ActionRoleDelete,
		ActionUserCreate,
		ActionUserUpdate,
		ActionUserDelete,
	}
}

var actionStrings = map[Action]string{
	ActionTaskCreate:    "task.create",
	ActionTaskUpdate:    "task.update",
	ActionTaskDelete:    "task.delete",
	ActionTaskComment:   "task.comment",
	ActionTaskLog:       "task.log",
	ActionProjectCreate: "project.create",
	ActionProjectUpdate: "project.update",
	ActionProjectDelete: "project.delete",
	ActionRoleCreate:    "role.create",
	ActionRoleUpdate:    "role.update",
	ActionRoleDelete:    "role.delete",
	ActionUserCreate:    "user.create",
	ActionUserUpdate:    "user.update",
	ActionUserDelete:    "user.delete",
}

var stringActions = func() map[string]Action {
	m := make(map[string]Action, len(actionStrings))
	for a, s := range actionStrings {
		m[s] = a
	}
	return m
}()

// String returns the string representation of the action.
func (a Action) String() string {
	return actionStrings[a]
}

// ErrInvalidAction is returned when the action is invalid.
var ErrInvalidAction = errors.New("invalid action")

// ParseAction parses an action string and returns the action.
func ParseAction(s string) (Action, error) {
	a, ok := stringActions[s]
	if !ok {
		return -1, ErrInvalidAction
	}

	return a, nil
}

// IsValidAction reports whether s names an action.
func IsValidAction(s string) bool {
	_, ok := stringActions[s]
	return ok
}

// EntityAction returns the action of a lifecycle verb ("create", "update",
// "delete") on an entity kind ("project", "task", "user").
func EntityAction(kind string, verb string) (Action, error) {
	return ParseAction(kind + "." + verb)
}

var (
	_ encoding.TextMarshaler   = Action(0)
	_ encoding.TextUnmarshaler = (*Action)(nil)
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	ac, err := ParseAction(string(text))
	if err != nil {
		return err
	}

	*a = ac
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() (text []byte, err error) {
	s := a.String()
	if s == "" {
		return nil, ErrInvalidAction
	}

	return []byte(s), nil
}
