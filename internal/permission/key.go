package permission

import (
	"strings"
)

const (
	// ActionCreate allows creating a resource.
	ActionCreate = "create"
	// ActionRead allows reading a resource.
	ActionRead = "read"
	// ActionUpdate allows updating a resource.
	ActionUpdate = "update"
	// ActionDelete allows deleting a resource.
	ActionDelete = "delete"

	keySeparator = ":"
)

// Actions is the fixed action vocabulary. Keys with any other action are never admitted
// into an effective permission set.
var Actions = []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete} //nolint:gochecknoglobals

// Key is a canonical permission key in "resource:action" form.
// The zero value is the invalid key and never matches anything.
type Key string

// NewKey builds the canonical key for resource and action.
// Both parts are trimmed and lower-cased; if either ends up empty the invalid key is returned.
func NewKey(resource, action string) Key {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))

	if resource == "" || action == "" {
		return ""
	}

	if strings.Contains(resource, keySeparator) || strings.Contains(action, keySeparator) {
		return ""
	}

	return Key(resource + keySeparator + action)
}

// ParseKey normalizes a "resource:action" string. It returns the invalid key
// when raw does not contain exactly one separator or either side is empty.
func ParseKey(raw string) Key {
	resource, action, found := strings.Cut(raw, keySeparator)
	if !found {
		return ""
	}

	return NewKey(resource, action)
}

// Valid reports whether k is a well-formed key.
func (k Key) Valid() bool {
	return k != ""
}

// Resource returns the resource part of the key.
func (k Key) Resource() string {
	resource, _, _ := strings.Cut(string(k), keySeparator)
	return resource
}

// Action returns the action part of the key.
func (k Key) Action() string {
	_, action, _ := strings.Cut(string(k), keySeparator)
	return action
}

// KnownAction reports whether the key's action is part of the action vocabulary.
func (k Key) KnownAction() bool {
	if !k.Valid() {
		return false
	}

	action := k.Action()
	for _, a := range Actions {
		if a == action {
			return true
		}
	}

	return false
}

func (k Key) String() string {
	return string(k)
}
