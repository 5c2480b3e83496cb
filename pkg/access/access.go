// Package access holds the catalog of abilities a role may be granted.
package access

import (
	"encoding"
	"errors"
)

// Ability is a permission string gating an operation.
type Ability string

const (
	TaskCreate     Ability = "task.create"
	TaskUpdate     Ability = "task.update"
	TaskDelete     Ability = "task.delete"
	TaskLog        Ability = "task.log"
	TaskManageLog  Ability = "task.manage_log"
	TaskLogViewAll Ability = "task.log.view_all"
	TaskComment    Ability = "task.comment"
	ProjectCreate  Ability = "project.create"
	ProjectUpdate  Ability = "project.update"
	ProjectDelete  Ability = "project.delete"
	ProjectAssign  Ability = "project.assign"
	ProjectViewAll Ability = "project.view_all"
	RoleCreate     Ability = "role.create"
	RoleUpdate     Ability = "role.update"
	RoleDelete     Ability = "role.delete"
	AdminDashboard Ability = "admin_dashboard.view"
)

// abilities is the canonical, ordered ability list.
var abilities = []Ability{
	TaskCreate,
	TaskUpdate,
	TaskDelete,
	TaskLog,
	TaskManageLog,
	TaskLogViewAll,
	TaskComment,
	ProjectCreate,
	ProjectUpdate,
	ProjectDelete,
	ProjectAssign,
	ProjectViewAll,
	RoleCreate,
	RoleUpdate,
	RoleDelete,
	AdminDashboard,
}

var known = func() map[Ability]struct{} {
	m := make(map[Ability]struct{}, len(abilities))
	for _, a := range abilities {
		m[a] = struct{}{}
	}
	return m
}()

// ErrInvalidAbility is returned when an unknown ability is provided.
var ErrInvalidAbility = errors.New("invalid ability")

// Abilities returns every known ability in catalog order.
func Abilities() []Ability {
	return append([]Ability(nil), abilities...)
}

// IsValidAbility reports whether name is a known ability.
func IsValidAbility(name string) bool {
	_, ok := known[Ability(name)]
	return ok
}

// ParseAbility parses an ability string.
func ParseAbility(s string) (Ability, error) {
	if !IsValidAbility(s) {
		return "", ErrInvalidAbility
	}
	return Ability(s), nil
}

// String returns the string representation of the ability.
func (a Ability) String() string {
	return string(a)
}

var (
	_ encoding.TextMarshaler   = Ability("")
	_ encoding.TextUnmarshaler = (*Ability)(nil)
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Ability) UnmarshalText(text []byte) error {
	ab, err := ParseAbility(string(text))
	if err != nil {
		return err
	}

	*a = ab

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Ability) MarshalText() (text []byte, err error) {
	return []byte(a), nil
}

// Set is a set of abilities granted to a role.
type Set []Ability

// Has reports whether the set grants the ability.
func (s Set) Has(a Ability) bool {
	for _, v := range s {
		if v == a {
			return true
		}
	}
	return false
}
